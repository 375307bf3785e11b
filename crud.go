package recordkit

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/recordkit/recordkit/clause"
	"github.com/recordkit/recordkit/executor"
	"github.com/recordkit/recordkit/schema"
)

// Override replaces an auto-generated statement for one call.
type Override struct {
	SQL    string
	Params []clause.Param
}

func pick(auto string, params []clause.Param, override []Override) (string, []clause.Param) {
	if len(override) > 0 && override[0].SQL != "" {
		return override[0].SQL, override[0].Params
	}
	return auto, params
}

// Create inserts rec and adds it to the master collection. Mandatory
// fields are validated first; the generated key is written back onto
// the record. String primary keys left empty receive a UUID.
func (db *DB) Create(ctx context.Context, name string, rec interface{}, override ...Override) error {
	if db.closed.Load() {
		return ErrClosed
	}

	s, err := db.registry.Schema(name)
	if err != nil {
		return err
	}

	if !s.AllowUpdate(rec) {
		return fmt.Errorf("%w: empty mandatory fields: %s", ErrValidationFailed, s.EmptyMandatory(rec))
	}

	query, params := pick(s.Auto.Insert, persistedParams(s, rec), override)

	if s.PrimaryField.DataType == schema.String && s.IsNew(rec) && len(override) == 0 {
		// client-generated key: the row must carry it, so the pre-built
		// insert (which omits the key column) is rebuilt with it
		if err := s.PrimaryField.Apply(rec, uuid.NewString()); err != nil {
			return err
		}
		query, err = insertWithKeySQL(s)
		if err != nil {
			return err
		}
		params = s.BindParameters(rec)
	}

	lastID, _, err := db.executor.Mutate(ctx, executor.Insert, query, params)
	if err != nil {
		return err
	}

	if s.PrimaryField.DataType == schema.Int && s.IsNew(rec) {
		if err := s.PrimaryField.Apply(rec, lastID); err != nil {
			return err
		}
	}

	db.collections[s.Name].Add(rec)
	return nil
}

// Update writes rec's current field values to its row. The update is
// refused, with the empty-field report in the error, when mandatory
// fields are empty.
func (db *DB) Update(ctx context.Context, name string, rec interface{}, override ...Override) error {
	if db.closed.Load() {
		return ErrClosed
	}

	s, err := db.registry.Schema(name)
	if err != nil {
		return err
	}

	if !s.AllowUpdate(rec) {
		return fmt.Errorf("%w: empty mandatory fields: %s", ErrValidationFailed, s.EmptyMandatory(rec))
	}

	params := append(persistedParams(s, rec), pkParam(s, rec))
	query, params := pick(s.Auto.Update, params, override)

	if _, _, err := db.executor.Mutate(ctx, executor.Update, query, params); err != nil {
		return err
	}

	db.collections[s.Name].Touched(rec)
	return nil
}

// DeleteRecord deletes rec's row and launches the orphan cascade. It
// returns before the cascade completes; the receipt is the join point.
// Dependent records are removed from their collections before the
// parent's own removal notification fires.
func (db *DB) DeleteRecord(ctx context.Context, name string, rec interface{}, override ...Override) (*Receipt, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}

	s, err := db.registry.Schema(name)
	if err != nil {
		return nil, err
	}

	if bd, ok := rec.(schema.BeforeDeleter); ok {
		if err := bd.BeforeDelete(); err != nil {
			return nil, err
		}
	}

	query, params := pick(s.Auto.Delete, []clause.Param{pkParam(s, rec)}, override)

	if _, _, err := db.executor.Mutate(ctx, executor.Delete, query, params); err != nil {
		return nil, err
	}

	receipt := &Receipt{done: make(chan struct{})}
	go db.finishDelete(ctx, s, rec, receipt)
	return receipt, nil
}

// Load retrieves every row of the schema's table and replaces the
// master collection with the result.
func (db *DB) Load(ctx context.Context, name string, override ...Override) error {
	if db.closed.Load() {
		return ErrClosed
	}

	s, err := db.registry.Schema(name)
	if err != nil {
		return err
	}

	query, params := pick(s.Auto.Select, nil, override)

	rows, err := db.executor.Retrieve(ctx, query, params)
	if err != nil {
		return err
	}

	records := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		rec, err := s.ScanRow(row)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	db.collections[s.Name].Replace(records)
	return nil
}

// Stream yields the schema's records one row at a time.
func (db *DB) Stream(ctx context.Context, name string, override ...Override) iter.Seq2[interface{}, error] {
	return func(yield func(interface{}, error) bool) {
		if db.closed.Load() {
			yield(nil, ErrClosed)
			return
		}

		s, err := db.registry.Schema(name)
		if err != nil {
			yield(nil, err)
			return
		}

		query, params := pick(s.Auto.Select, nil, override)

		for row, err := range db.executor.RetrieveStream(ctx, query, params) {
			if err != nil {
				yield(nil, err)
				return
			}
			rec, err := s.ScanRow(row)
			if !yield(rec, err) {
				return
			}
		}
	}
}

// CountRecords counts the schema's rows.
func (db *DB) CountRecords(ctx context.Context, name string, override ...Override) (int64, error) {
	if db.closed.Load() {
		return 0, ErrClosed
	}

	s, err := db.registry.Schema(name)
	if err != nil {
		return 0, err
	}

	query, params := pick(s.Auto.Count, nil, override)
	return db.executor.Count(ctx, query, params)
}

func persistedParams(s *schema.Schema, rec interface{}) []clause.Param {
	fields := s.PersistedFields()
	params := make([]clause.Param, 0, len(fields))
	for _, f := range fields {
		params = append(params, clause.Param{Name: f.DBName, Value: f.ValueOf(rec)})
	}
	return params
}

func pkParam(s *schema.Schema, rec interface{}) clause.Param {
	return clause.Param{Name: s.PrimaryField.DBName, Value: s.PrimaryField.ValueOf(rec)}
}

func insertWithKeySQL(s *schema.Schema) (string, error) {
	columns := make([]clause.Column, 0, len(s.Fields))
	for _, f := range s.Fields {
		columns = append(columns, f.DBName)
	}

	sql, _, err := NewStatement().
		AddClause(clause.Insert{Table: s.Table}).
		AddClause(clause.Values{Columns: columns, Values: [][]interface{}{make([]interface{}, len(columns))}}).
		SQL()
	return sql, err
}
