package clause

// From from clause
type From struct {
	Table Column
	Alias string
}

// Name from clause name
func (from From) Name() string {
	return "FROM"
}

// Ordinal from clause slot
func (from From) Ordinal() Ordinal {
	return OrdinalFrom
}

// Build build from clause
func (from From) Build(builder Builder) {
	builder.WriteString("FROM ")
	builder.WriteQuoted(from.Table)
	if from.Alias != "" {
		builder.WriteString(" AS ")
		builder.WriteQuoted(from.Alias)
	}
}

// MergeClause keep the existing table unless it is empty
func (from From) MergeClause(other Interface) Interface {
	if v, ok := other.(From); ok && from.Table == "" {
		return v
	}
	return from
}
