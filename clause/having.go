package clause

// Having having clause, shares the condition grammar of Where
type Having struct {
	Exprs []Expression
}

// Name having clause name
func (having Having) Name() string {
	return "HAVING"
}

// Ordinal having clause slot
func (having Having) Ordinal() Ordinal {
	return OrdinalHaving
}

// Build build having clause
func (having Having) Build(builder Builder) {
	if len(having.Exprs) == 0 {
		return
	}

	builder.WriteString("HAVING ")
	buildExprs(having.Exprs, builder, " AND ")
}

// MergeClause merge having clauses
func (having Having) MergeClause(other Interface) Interface {
	if v, ok := other.(Having); ok {
		exprs := make([]Expression, len(v.Exprs)+len(having.Exprs))
		copy(exprs, v.Exprs)
		copy(exprs[len(v.Exprs):], having.Exprs)
		having.Exprs = exprs
	}
	return having
}
