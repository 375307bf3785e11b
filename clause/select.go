package clause

// Select select clause
type Select struct {
	Distinct bool
	Columns  []Column
	// Exprs renders raw select expressions, e.g. COUNT(*), instead of a
	// quoted column list.
	Exprs []Expression
}

// Name select clause name
func (s Select) Name() string {
	return "SELECT"
}

// Ordinal select is a statement leader
func (s Select) Ordinal() Ordinal {
	return OrdinalLeader
}

// Build build select clause
func (s Select) Build(builder Builder) {
	builder.WriteString("SELECT ")

	if s.Distinct {
		builder.WriteString("DISTINCT ")
	}

	if len(s.Exprs) > 0 {
		for idx, expr := range s.Exprs {
			if idx > 0 {
				builder.WriteByte(',')
			}
			expr.Build(builder)
		}
		return
	}

	if len(s.Columns) == 0 {
		builder.WriteByte('*')
		return
	}

	for idx, column := range s.Columns {
		if idx > 0 {
			builder.WriteByte(',')
		}
		builder.WriteQuoted(column)
	}
}

// MergeClause merge select clauses, later column lists win
func (s Select) MergeClause(other Interface) Interface {
	if v, ok := other.(Select); ok && len(s.Columns) == 0 {
		s.Columns = v.Columns
		s.Distinct = s.Distinct || v.Distinct
	}
	return s
}
