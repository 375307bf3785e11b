package clause

// OrderByColumn column used for order
type OrderByColumn struct {
	Column Column
	Desc   bool
}

// OrderBy order by clause
type OrderBy struct {
	Columns []OrderByColumn
}

// Name order by clause name
func (orderBy OrderBy) Name() string {
	return "ORDER BY"
}

// Ordinal order by clause slot
func (orderBy OrderBy) Ordinal() Ordinal {
	return OrdinalOrderBy
}

// Build build order by clause
func (orderBy OrderBy) Build(builder Builder) {
	if len(orderBy.Columns) == 0 {
		return
	}

	builder.WriteString("ORDER BY ")
	for idx, column := range orderBy.Columns {
		if idx > 0 {
			builder.WriteByte(',')
		}

		builder.WriteQuoted(column.Column)
		if column.Desc {
			builder.WriteString(" DESC")
		}
	}
}

// MergeClause merge order by clauses
func (orderBy OrderBy) MergeClause(other Interface) Interface {
	if v, ok := other.(OrderBy); ok {
		orderBy.Columns = append(v.Columns, orderBy.Columns...)
	}
	return orderBy
}
