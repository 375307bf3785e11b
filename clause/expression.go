package clause

// Column column name
type Column = string

// Param is an immutable named statement parameter. Parameters are bound
// at execution time and never interpolated into statement text.
type Param struct {
	Name  string
	Value interface{}
}

// Equal reports whether both name and value match.
func (p Param) Equal(other Param) bool {
	return p.Name == other.Name && p.Value == other.Value
}

// Expr is a raw expression. The SQL text is emitted verbatim; bracket
// balance of raw fragments is checked when the statement is rendered.
type Expr struct {
	SQL    string
	Params []Param
}

// Build build raw expression
func (expr Expr) Build(builder Builder) {
	builder.WriteString(expr.SQL)
	builder.BindParams(expr.Params...)
}
