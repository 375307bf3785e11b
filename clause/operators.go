package clause

////////////////////////////////////////////////////////////////////////////////
// Comparison Operators
////////////////////////////////////////////////////////////////////////////////

// Eq equal to
type Eq struct {
	Column Column
	Value  interface{}
}

func (eq Eq) Build(builder Builder) {
	builder.WriteQuoted(eq.Column)

	if eq.Value == nil {
		builder.WriteString(" IS NULL")
	} else {
		builder.WriteString(" = ")
		builder.AddParam(Param{Name: eq.Column, Value: eq.Value})
	}
}

func (eq Eq) NegationBuild(builder Builder) {
	Neq(eq).Build(builder)
}

// Neq not equal to
type Neq Eq

func (neq Neq) Build(builder Builder) {
	builder.WriteQuoted(neq.Column)

	if neq.Value == nil {
		builder.WriteString(" IS NOT NULL")
	} else {
		builder.WriteString(" <> ")
		builder.AddParam(Param{Name: neq.Column, Value: neq.Value})
	}
}

func (neq Neq) NegationBuild(builder Builder) {
	Eq(neq).Build(builder)
}

// Gt greater than
type Gt Eq

func (gt Gt) Build(builder Builder) {
	builder.WriteQuoted(gt.Column)
	builder.WriteString(" > ")
	builder.AddParam(Param{Name: gt.Column, Value: gt.Value})
}

func (gt Gt) NegationBuild(builder Builder) {
	Lte(gt).Build(builder)
}

// Gte greater than or equal to
type Gte Eq

func (gte Gte) Build(builder Builder) {
	builder.WriteQuoted(gte.Column)
	builder.WriteString(" >= ")
	builder.AddParam(Param{Name: gte.Column, Value: gte.Value})
}

func (gte Gte) NegationBuild(builder Builder) {
	Lt(gte).Build(builder)
}

// Lt less than
type Lt Eq

func (lt Lt) Build(builder Builder) {
	builder.WriteQuoted(lt.Column)
	builder.WriteString(" < ")
	builder.AddParam(Param{Name: lt.Column, Value: lt.Value})
}

func (lt Lt) NegationBuild(builder Builder) {
	Gte(lt).Build(builder)
}

// Lte less than or equal to
type Lte Eq

func (lte Lte) Build(builder Builder) {
	builder.WriteQuoted(lte.Column)
	builder.WriteString(" <= ")
	builder.AddParam(Param{Name: lte.Column, Value: lte.Value})
}

func (lte Lte) NegationBuild(builder Builder) {
	Gt(lte).Build(builder)
}

// Like whether string matches regular expression
type Like Eq

func (like Like) Build(builder Builder) {
	builder.WriteQuoted(like.Column)
	builder.WriteString(" LIKE ")
	builder.AddParam(Param{Name: like.Column, Value: like.Value})
}

func (like Like) NegationBuild(builder Builder) {
	builder.WriteQuoted(like.Column)
	builder.WriteString(" NOT LIKE ")
	builder.AddParam(Param{Name: like.Column, Value: like.Value})
}

// IN whether a value is within a set of values
type IN struct {
	Column Column
	Values []interface{}
}

func (in IN) Build(builder Builder) {
	builder.WriteQuoted(in.Column)

	switch len(in.Values) {
	case 0:
		builder.WriteString(" IN (NULL)")
	default:
		builder.WriteString(" IN (")
		for idx, value := range in.Values {
			if idx > 0 {
				builder.WriteByte(',')
			}
			builder.AddParam(Param{Name: in.Column, Value: value})
		}
		builder.WriteByte(')')
	}
}

func (in IN) NegationBuild(builder Builder) {
	switch len(in.Values) {
	case 0:
	default:
		builder.WriteQuoted(in.Column)
		builder.WriteString(" NOT IN (")
		for idx, value := range in.Values {
			if idx > 0 {
				builder.WriteByte(',')
			}
			builder.AddParam(Param{Name: in.Column, Value: value})
		}
		builder.WriteByte(')')
	}
}

// Between whether a value is within a range
type Between struct {
	Column Column
	Low    interface{}
	High   interface{}
}

func (between Between) Build(builder Builder) {
	builder.WriteQuoted(between.Column)
	builder.WriteString(" BETWEEN ")
	builder.AddParam(Param{Name: between.Column + "_low", Value: between.Low})
	builder.WriteString(" AND ")
	builder.AddParam(Param{Name: between.Column + "_high", Value: between.High})
}

func (between Between) NegationBuild(builder Builder) {
	builder.WriteQuoted(between.Column)
	builder.WriteString(" NOT BETWEEN ")
	builder.AddParam(Param{Name: between.Column + "_low", Value: between.Low})
	builder.WriteString(" AND ")
	builder.AddParam(Param{Name: between.Column + "_high", Value: between.High})
}

// IsNull whether a column holds NULL
type IsNull struct {
	Column Column
}

func (isNull IsNull) Build(builder Builder) {
	builder.WriteQuoted(isNull.Column)
	builder.WriteString(" IS NULL")
}

func (isNull IsNull) NegationBuild(builder Builder) {
	builder.WriteQuoted(isNull.Column)
	builder.WriteString(" IS NOT NULL")
}
