package recordkit

import (
	"strconv"
	"strings"

	"github.com/recordkit/recordkit/clause"
)

// Statement assembles one SQL statement from clause slots. Each clause
// occupies the slot of its ordinal; rendering walks the slots in
// ordinal order, so the order of AddClause calls never changes the
// shape of the finished statement.
type Statement struct {
	slots  [clause.NumOrdinals]clause.Interface
	params []clause.Param
	names  map[string]int
	sql    strings.Builder
	err    error

	quoteOpen  byte
	quoteClose byte
}

// NewStatement returns an empty statement using backtick quoting.
func NewStatement() *Statement {
	return &Statement{quoteOpen: '`', quoteClose: '`'}
}

// AddClause installs c into its ordinal slot, merging with a clause
// already there. Installing a different leader kind into an occupied
// leader slot records ErrConflictingClause.
func (stmt *Statement) AddClause(c clause.Interface) *Statement {
	ord := c.Ordinal()
	if existing := stmt.slots[ord]; existing != nil {
		if existing.Name() != c.Name() {
			stmt.AddError(ErrConflictingClause)
			return stmt
		}
		stmt.slots[ord] = c.MergeClause(existing)
		return stmt
	}

	stmt.slots[ord] = c
	return stmt
}

// AddClauseIfNotExists installs c only when its slot is empty.
func (stmt *Statement) AddClauseIfNotExists(c clause.Interface) *Statement {
	if stmt.slots[c.Ordinal()] == nil {
		stmt.AddClause(c)
	}
	return stmt
}

// Clause returns the clause occupying ord, or nil.
func (stmt *Statement) Clause(ord clause.Ordinal) clause.Interface {
	return stmt.slots[ord]
}

// SQL renders the statement and returns its text and bound parameters.
// Slots render in ordinal order. The rendered text is rejected when raw
// fragments left parentheses unbalanced, and an empty statement is an
// error rather than an empty string.
func (stmt *Statement) SQL() (string, []clause.Param, error) {
	if stmt.err != nil {
		return "", nil, stmt.err
	}

	stmt.sql.Reset()
	stmt.params = stmt.params[:0]
	stmt.names = nil

	var written bool
	for _, c := range stmt.slots {
		if c == nil {
			continue
		}

		mark := stmt.sql.Len()
		if written {
			stmt.sql.WriteByte(' ')
		}
		before := stmt.sql.Len()
		c.Build(stmt)
		if stmt.sql.Len() == before {
			// clause rendered nothing, drop the separator
			stmt.truncate(mark)
			continue
		}
		written = true
	}

	if stmt.err != nil {
		return "", nil, stmt.err
	}
	if !written {
		return "", nil, ErrEmptyStatement
	}

	sql := stmt.sql.String()
	if !bracketsBalanced(sql) {
		return "", nil, ErrUnbalancedBrackets
	}

	return sql, stmt.params, nil
}

func (stmt *Statement) truncate(n int) {
	s := stmt.sql.String()[:n]
	stmt.sql.Reset()
	stmt.sql.WriteString(s)
}

// WriteString implements clause.Builder.
func (stmt *Statement) WriteString(s string) (int, error) {
	return stmt.sql.WriteString(s)
}

// WriteByte implements clause.Builder.
func (stmt *Statement) WriteByte(c byte) error {
	return stmt.sql.WriteByte(c)
}

// WriteQuoted implements clause.Builder.
func (stmt *Statement) WriteQuoted(name string) {
	stmt.sql.WriteByte(stmt.quoteOpen)
	stmt.sql.WriteString(name)
	stmt.sql.WriteByte(stmt.quoteClose)
}

// AddParam implements clause.Builder. The first parameter with a given
// name keeps it; repeats are bound under a numbered variant so every
// placeholder stays unambiguous.
func (stmt *Statement) AddParam(p clause.Param) {
	if stmt.names == nil {
		stmt.names = map[string]int{}
	}

	name := p.Name
	if n, ok := stmt.names[name]; ok {
		n++
		stmt.names[p.Name] = n
		name = p.Name + "_" + strconv.Itoa(n)
	} else {
		stmt.names[name] = 1
	}

	stmt.params = append(stmt.params, clause.Param{Name: name, Value: p.Value})
	stmt.sql.WriteByte('@')
	stmt.sql.WriteString(name)
}

// BindParams implements clause.Builder.
func (stmt *Statement) BindParams(ps ...clause.Param) {
	stmt.params = append(stmt.params, ps...)
}

// AddError implements clause.Builder, keeping the first error.
func (stmt *Statement) AddError(err error) {
	if stmt.err == nil {
		stmt.err = err
	}
}

// Err returns the statement's recorded error, if any.
func (stmt *Statement) Err() error {
	return stmt.err
}

// bracketsBalanced counts parentheses outside single-quoted literals.
// Structured expressions emit balanced pairs by construction, so any
// imbalance comes from a raw fragment.
func bracketsBalanced(sql string) bool {
	var depth int
	var inString bool

	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			inString = !inString
		case '(':
			if !inString {
				depth++
			}
		case ')':
			if !inString {
				depth--
				if depth < 0 {
					return false
				}
			}
		}
	}

	return depth == 0 && !inString
}
