package recordkit

import (
	"context"

	"github.com/recordkit/recordkit/clause"
	"github.com/recordkit/recordkit/executor"
	"github.com/recordkit/recordkit/logger"
	"github.com/recordkit/recordkit/schema"
)

// Session is a chainable query over one schema. Chain calls append
// clauses in any order; the finished statement always renders in slot
// order.
type Session struct {
	db     *DB
	schema *schema.Schema
	stmt   *Statement
	err    error
}

// Model starts a session for the named schema.
func (db *DB) Model(name string) *Session {
	session := &Session{db: db, stmt: NewStatement()}

	s, err := db.registry.Schema(name)
	if err != nil {
		session.err = err
		return session
	}

	session.schema = s
	session.stmt.AddClauseIfNotExists(clause.From{Table: s.Table})
	return session
}

// Select restricts the selected columns.
func (session *Session) Select(columns ...clause.Column) *Session {
	session.stmt.AddClause(clause.Select{Columns: columns})
	return session
}

// Distinct selects distinct rows.
func (session *Session) Distinct(columns ...clause.Column) *Session {
	session.stmt.AddClause(clause.Select{Distinct: true, Columns: columns})
	return session
}

// Where appends conditions, joined with AND.
func (session *Session) Where(exprs ...clause.Expression) *Session {
	if len(exprs) > 0 {
		session.stmt.AddClause(clause.Where{Exprs: exprs})
	}
	return session
}

// Or appends conditions joined to the previous ones with OR.
func (session *Session) Or(exprs ...clause.Expression) *Session {
	if len(exprs) > 0 {
		session.stmt.AddClause(clause.Where{Exprs: []clause.Expression{clause.Or(clause.And(exprs...))}})
	}
	return session
}

// Not appends negated conditions.
func (session *Session) Not(exprs ...clause.Expression) *Session {
	if len(exprs) > 0 {
		session.stmt.AddClause(clause.Where{Exprs: []clause.Expression{clause.Not(exprs...)}})
	}
	return session
}

// Group groups results by columns.
func (session *Session) Group(columns ...clause.Column) *Session {
	session.stmt.AddClause(clause.GroupBy{Columns: columns})
	return session
}

// Having filters grouped results.
func (session *Session) Having(exprs ...clause.Expression) *Session {
	if len(exprs) > 0 {
		session.stmt.AddClause(clause.Having{Exprs: exprs})
	}
	return session
}

// Order appends an ordering column.
func (session *Session) Order(column clause.Column, desc ...bool) *Session {
	session.stmt.AddClause(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: column, Desc: len(desc) > 0 && desc[0]},
	}})
	return session
}

// Limit caps the number of rows.
func (session *Session) Limit(limit int) *Session {
	session.stmt.AddClause(clause.Limit{Limit: &limit})
	return session
}

// Offset skips rows.
func (session *Session) Offset(offset int) *Session {
	session.stmt.AddClause(clause.Limit{Offset: offset})
	return session
}

// ToSQL renders the session's statement without executing it.
func (session *Session) ToSQL() (string, []clause.Param, error) {
	if session.err != nil {
		return "", nil, session.err
	}
	session.stmt.AddClauseIfNotExists(clause.Select{})
	return session.stmt.SQL()
}

// Find executes the query and maps the rows onto model instances. The
// master collection is not touched; use DB.Load for that.
func (session *Session) Find(ctx context.Context) ([]interface{}, error) {
	query, params, err := session.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := session.db.executor.Retrieve(ctx, query, params)
	if err != nil {
		return nil, err
	}

	records := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		rec, err := session.schema.ScanRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// First returns the first matching record or ErrRecordNotFound.
func (session *Session) First(ctx context.Context) (interface{}, error) {
	records, err := session.Limit(1).Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, logger.ErrRecordNotFound
	}
	return records[0], nil
}

// Count executes the query as COUNT(*).
func (session *Session) Count(ctx context.Context) (int64, error) {
	if session.err != nil {
		return 0, session.err
	}

	session.stmt.AddClause(clause.Select{Exprs: []clause.Expression{clause.Expr{SQL: "COUNT(*)"}}})
	query, params, err := session.stmt.SQL()
	if err != nil {
		return 0, err
	}
	return session.db.executor.Count(ctx, query, params)
}

// Aggregate executes the query with a single aggregate expression,
// e.g. "SUM(`amount`)", and returns the scalar result.
func (session *Session) Aggregate(ctx context.Context, expr string) (interface{}, error) {
	if session.err != nil {
		return nil, session.err
	}

	session.stmt.AddClause(clause.Select{Exprs: []clause.Expression{clause.Expr{SQL: expr}}})
	query, params, err := session.stmt.SQL()
	if err != nil {
		return nil, err
	}
	return session.db.executor.Aggregate(ctx, query, params)
}

// Delete executes the query as a set DELETE. It runs no cascade and
// does not touch master collections; per-record deletes go through
// DB.DeleteRecord.
func (session *Session) Delete(ctx context.Context) (int64, error) {
	if session.err != nil {
		return 0, session.err
	}

	session.stmt.AddClause(clause.Delete{})
	query, params, err := session.stmt.SQL()
	if err != nil {
		return 0, err
	}

	_, affected, err := session.db.executor.Mutate(ctx, executor.Delete, query, params)
	return affected, err
}
