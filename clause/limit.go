package clause

// Limit limit clause
type Limit struct {
	Limit  *int
	Offset int
}

// Name limit clause name
func (limit Limit) Name() string {
	return "LIMIT"
}

// Ordinal limit clause slot
func (limit Limit) Ordinal() Ordinal {
	return OrdinalLimit
}

// Build build limit clause
func (limit Limit) Build(builder Builder) {
	if limit.Limit != nil && *limit.Limit >= 0 {
		builder.WriteString("LIMIT ")
		builder.AddParam(Param{Name: "limit", Value: *limit.Limit})
	}
	if limit.Offset > 0 {
		if limit.Limit != nil && *limit.Limit >= 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString("OFFSET ")
		builder.AddParam(Param{Name: "offset", Value: limit.Offset})
	}
}

// MergeClause merge limit clauses
func (limit Limit) MergeClause(other Interface) Interface {
	if v, ok := other.(Limit); ok {
		if limit.Limit == nil && v.Limit != nil {
			limit.Limit = v.Limit
		}

		if limit.Offset == 0 && v.Offset > 0 {
			limit.Offset = v.Offset
		} else if limit.Offset < 0 {
			limit.Offset = 0
		}
	}
	return limit
}
