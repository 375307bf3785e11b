package executor

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/recordkit/recordkit/clause"
	"github.com/recordkit/recordkit/logger"
)

// SQL is the database/sql-backed Executor. Any registered driver
// works; tests use sqlmock and the pure-Go sqlite driver.
type SQL struct {
	DB     *sql.DB
	Logger logger.Interface
}

// OpenSQL opens a connection pool on the named driver.
func OpenSQL(driverName, dsn string, log logger.Interface) (*SQL, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	if log == nil {
		log = logger.Default
	}
	return &SQL{DB: db, Logger: log}, nil
}

// Close closes the connection pool.
func (e *SQL) Close() error {
	return e.DB.Close()
}

// Exec runs a raw statement outside the Executor contract, e.g. DDL.
func (e *SQL) Exec(ctx context.Context, query string, params ...clause.Param) error {
	_, err := e.DB.ExecContext(ctx, query, namedArgs(params)...)
	if err != nil {
		return classify(err)
	}
	return nil
}

// Retrieve implements Executor. Rows are read eagerly inside one
// transaction so the result is a consistent snapshot.
func (e *SQL) Retrieve(ctx context.Context, query string, params []clause.Param) ([]Row, error) {
	begin := time.Now()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(err)
	}

	rows, err := tx.QueryContext(ctx, query, namedArgs(params)...)
	if err != nil {
		tx.Rollback()
		e.trace(ctx, begin, query, -1, err)
		return nil, classify(err)
	}

	result, err := readRows(rows)
	if err != nil {
		tx.Rollback()
		e.trace(ctx, begin, query, -1, err)
		return nil, classify(err)
	}

	if err := tx.Commit(); err != nil {
		e.trace(ctx, begin, query, -1, err)
		return nil, classify(err)
	}

	e.trace(ctx, begin, query, int64(len(result)), nil)
	return result, nil
}

// RetrieveStream implements Executor. The cursor closes as soon as the
// consumer stops iterating or the context is cancelled.
func (e *SQL) RetrieveStream(ctx context.Context, query string, params []clause.Param) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		begin := time.Now()

		rows, err := e.DB.QueryContext(ctx, query, namedArgs(params)...)
		if err != nil {
			e.trace(ctx, begin, query, -1, err)
			yield(nil, classify(err))
			return
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			yield(nil, classify(err))
			return
		}

		var count int64
		for rows.Next() {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}

			row, err := scanRow(rows, columns)
			if err != nil {
				yield(nil, classify(err))
				return
			}

			count++
			if !yield(row, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, classify(err))
			return
		}

		e.trace(ctx, begin, query, count, nil)
	}
}

// Mutate implements Executor. The statement runs in its own short
// transaction: execute, fetch the generated key for inserts, commit.
// Any failure after execution rolls back, and the error is returned to
// the caller rather than only logged.
func (e *SQL) Mutate(ctx context.Context, kind Kind, query string, params []clause.Param) (lastID int64, affected int64, err error) {
	begin := time.Now()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, classify(err)
	}

	result, err := tx.ExecContext(ctx, query, namedArgs(params)...)
	if err != nil {
		tx.Rollback()
		e.trace(ctx, begin, query, -1, err)
		return 0, 0, classify(err)
	}

	if kind == Insert {
		if lastID, err = result.LastInsertId(); err != nil {
			tx.Rollback()
			e.trace(ctx, begin, query, -1, err)
			return 0, 0, classify(err)
		}
	}

	affected, _ = result.RowsAffected()

	if err = tx.Commit(); err != nil {
		e.trace(ctx, begin, query, -1, err)
		return 0, 0, classify(err)
	}

	e.trace(ctx, begin, query, affected, nil)
	return lastID, affected, nil
}

// Aggregate implements Executor.
func (e *SQL) Aggregate(ctx context.Context, query string, params []clause.Param) (interface{}, error) {
	begin := time.Now()

	var value interface{}
	err := e.DB.QueryRowContext(ctx, query, namedArgs(params)...).Scan(&value)
	e.trace(ctx, begin, query, -1, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, logger.ErrRecordNotFound
		}
		return nil, classify(err)
	}
	return value, nil
}

// Count implements Executor.
func (e *SQL) Count(ctx context.Context, query string, params []clause.Param) (int64, error) {
	begin := time.Now()

	var count int64
	err := e.DB.QueryRowContext(ctx, query, namedArgs(params)...).Scan(&count)
	e.trace(ctx, begin, query, count, err)
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func (e *SQL) trace(ctx context.Context, begin time.Time, query string, rows int64, err error) {
	if e.Logger == nil {
		return
	}
	e.Logger.Trace(ctx, begin, func() (string, int64) {
		return query, rows
	}, err)
}

func readRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanRow(rows *sql.Rows, columns []string) (Row, error) {
	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	if err := rows.Scan(pointers...); err != nil {
		return nil, err
	}

	row := make(Row, len(columns))
	for i, column := range columns {
		row[column] = values[i]
	}
	return row, nil
}

// classify maps driver errors onto the executor's error taxonomy so
// callers can react without string matching.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, driver.ErrBadConn):
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "constraint") || strings.Contains(msg, "unique") || strings.Contains(msg, "foreign key"):
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	case strings.Contains(msg, "connection"):
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	default:
		return fmt.Errorf("%w: %v", ErrMutationFailed, err)
	}
}
