// Package executor runs assembled statements against a relational
// database. It is a thin pass-through over database/sql: parameter
// binding, short-lived transactions and typed failure classification,
// nothing more.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	"github.com/recordkit/recordkit/clause"
)

var (
	// ErrConstraintViolation a mutation violated a database constraint
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrConnectionFailed the database connection was lost or refused
	ErrConnectionFailed = errors.New("connection failed")
	// ErrMutationFailed a mutation failed and was rolled back
	ErrMutationFailed = errors.New("mutation failed")
)

// Kind of mutation.
type Kind int

const (
	Insert Kind = iota
	Update
	Delete
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// Row is one retrieved row, keyed by column name.
type Row map[string]interface{}

// Executor is the boundary the record layer talks through. Retrieval
// comes eager or streamed; mutations run in their own short-lived
// transaction and report the generated key for inserts.
type Executor interface {
	// Retrieve runs query inside a transaction and reads every row
	// eagerly before returning.
	Retrieve(ctx context.Context, query string, params []clause.Param) ([]Row, error)

	// RetrieveStream yields rows one at a time. Iteration is
	// consumer-driven: stop consuming and the underlying cursor closes.
	RetrieveStream(ctx context.Context, query string, params []clause.Param) iter.Seq2[Row, error]

	// Mutate executes an insert, update or delete. For inserts the
	// generated key is returned. Failures roll the transaction back and
	// surface as typed errors.
	Mutate(ctx context.Context, kind Kind, query string, params []clause.Param) (lastID int64, affected int64, err error)

	// Aggregate runs a single-value query, e.g. SUM or MAX.
	Aggregate(ctx context.Context, query string, params []clause.Param) (interface{}, error)

	// Count runs a COUNT query.
	Count(ctx context.Context, query string, params []clause.Param) (int64, error)
}

func namedArgs(params []clause.Param) []interface{} {
	args := make([]interface{}, 0, len(params))
	for _, p := range params {
		args = append(args, sql.Named(p.Name, p.Value))
	}
	return args
}
