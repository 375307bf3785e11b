package clause

// Insert insert clause
type Insert struct {
	Table    Column
	Modifier string
}

// Name insert clause name
func (insert Insert) Name() string {
	return "INSERT"
}

// Ordinal insert is a statement leader
func (insert Insert) Ordinal() Ordinal {
	return OrdinalLeader
}

// Build build insert clause
func (insert Insert) Build(builder Builder) {
	builder.WriteString("INSERT ")
	if insert.Modifier != "" {
		builder.WriteString(insert.Modifier)
		builder.WriteByte(' ')
	}
	builder.WriteString("INTO ")
	builder.WriteQuoted(insert.Table)
}

// MergeClause merge insert clauses
func (insert Insert) MergeClause(other Interface) Interface {
	if v, ok := other.(Insert); ok {
		if insert.Modifier == "" {
			insert.Modifier = v.Modifier
		}
		if insert.Table == "" {
			insert.Table = v.Table
		}
	}
	return insert
}
