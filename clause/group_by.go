package clause

// GroupBy group by clause
type GroupBy struct {
	Columns []Column
}

// Name group by clause name
func (groupBy GroupBy) Name() string {
	return "GROUP BY"
}

// Ordinal group by clause slot
func (groupBy GroupBy) Ordinal() Ordinal {
	return OrdinalGroupBy
}

// Build build group by clause
func (groupBy GroupBy) Build(builder Builder) {
	if len(groupBy.Columns) == 0 {
		return
	}

	builder.WriteString("GROUP BY ")
	for idx, column := range groupBy.Columns {
		if idx > 0 {
			builder.WriteByte(',')
		}
		builder.WriteQuoted(column)
	}
}

// MergeClause merge group by clauses
func (groupBy GroupBy) MergeClause(other Interface) Interface {
	if v, ok := other.(GroupBy); ok {
		groupBy.Columns = append(v.Columns, groupBy.Columns...)
	}
	return groupBy
}
