package clause

// Ordinal is the fixed slot a clause occupies in a finished statement.
// Statements render slots in ordinal order regardless of the order the
// builder calls were made in.
type Ordinal int

const (
	// OrdinalLeader holds SELECT, INSERT INTO or DELETE. The three are
	// mutually exclusive; installing a second leader kind is an error.
	OrdinalLeader Ordinal = iota
	// OrdinalAssign holds UPDATE ... SET or the VALUES row groups of an
	// insert.
	OrdinalAssign
	OrdinalFrom
	OrdinalWhere
	OrdinalGroupBy
	OrdinalHaving
	OrdinalOrderBy
	OrdinalLimit

	// NumOrdinals is the slot count of a statement.
	NumOrdinals
)

// Interface is implemented by every clause type.
type Interface interface {
	Name() string
	Ordinal() Ordinal
	Build(Builder)
	// MergeClause combines the receiver with a clause already occupying
	// the same slot and returns the merged clause.
	MergeClause(Interface) Interface
}

// Builder receives rendered clause text and bound parameters. It is
// implemented by recordkit.Statement.
type Builder interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	// WriteQuoted writes an identifier wrapped in the statement's quote
	// characters.
	WriteQuoted(name string)
	// AddParam records a named parameter and writes its placeholder. A
	// name already bound gets a numbered suffix so every placeholder
	// stays unambiguous.
	AddParam(p Param)
	// BindParams records parameters whose placeholders are already part
	// of a raw fragment.
	BindParams(ps ...Param)
	AddError(err error)
}

// Expression is a fragment of clause body text.
type Expression interface {
	Build(Builder)
}

// NegationExpressionBuilder is implemented by expressions that know how
// to render their own negation, e.g. `=` rendering `<>` under NOT.
type NegationExpressionBuilder interface {
	NegationBuild(Builder)
}
