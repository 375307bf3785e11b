package recordkit

import (
	"errors"

	"github.com/recordkit/recordkit/executor"
	"github.com/recordkit/recordkit/logger"
	"github.com/recordkit/recordkit/schema"
)

var (
	// ErrRecordNotFound record not found error
	ErrRecordNotFound = logger.ErrRecordNotFound
	// ErrUnknownSchema no schema registered under the requested name
	ErrUnknownSchema = schema.ErrUnknownSchema
	// ErrUnbalancedBrackets raw fragments produced unbalanced parentheses
	ErrUnbalancedBrackets = errors.New("unbalanced brackets in statement")
	// ErrConflictingClause a second statement leader was installed
	ErrConflictingClause = errors.New("conflicting clause")
	// ErrEmptyStatement statement has no clauses to render
	ErrEmptyStatement = errors.New("empty statement")
	// ErrValidationFailed mandatory fields are empty
	ErrValidationFailed = errors.New("validation failed")
	// ErrClosed the database handle has been closed
	ErrClosed = errors.New("database handle closed")

	// ErrConstraintViolation a mutation violated a database constraint
	ErrConstraintViolation = executor.ErrConstraintViolation
	// ErrConnectionFailed the database connection was lost or refused
	ErrConnectionFailed = executor.ErrConnectionFailed
	// ErrMutationFailed a mutation failed and was rolled back
	ErrMutationFailed = executor.ErrMutationFailed
)
