package clause

// Delete delete clause
type Delete struct {
	Modifier string
}

// Name delete clause name
func (d Delete) Name() string {
	return "DELETE"
}

// Ordinal delete is a statement leader
func (d Delete) Ordinal() Ordinal {
	return OrdinalLeader
}

// Build build delete clause, the target table comes from the From slot
func (d Delete) Build(builder Builder) {
	builder.WriteString("DELETE")
	if d.Modifier != "" {
		builder.WriteByte(' ')
		builder.WriteString(d.Modifier)
	}
}

// MergeClause merge delete clauses
func (d Delete) MergeClause(other Interface) Interface {
	if v, ok := other.(Delete); ok && d.Modifier == "" {
		d.Modifier = v.Modifier
	}
	return d
}
