package recordkit

import (
	"context"
	"iter"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recordkit/recordkit/clause"
	"github.com/recordkit/recordkit/executor"
	"github.com/recordkit/recordkit/logger"
	"github.com/recordkit/recordkit/schema"
)

type Customer struct {
	CustomerID int64
	Name       string
}

type Invoice struct {
	InvoiceID  int64
	CustomerID int64
	Amount     float64

	onDelete func() error
}

func (inv *Invoice) BeforeDelete() error {
	if inv.onDelete != nil {
		return inv.onDelete()
	}
	return nil
}

type InvoiceLine struct {
	LineID    int64
	InvoiceID int64
	Qty       int64
}

type Note struct {
	NoteID     int64
	CustomerID int64
	Body       string
}

type Tag struct {
	TagID string
	Label string
}

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	reg := schema.NewRegistry()

	require.NoError(t, reg.Register(&schema.Schema{
		Name: "Customer",
		New:  func() interface{} { return &Customer{} },
		Fields: []*schema.Field{
			{
				Name: "CustomerID", Kind: schema.PrimaryKey, DataType: schema.Int,
				Get: func(r interface{}) interface{} { return r.(*Customer).CustomerID },
				Set: func(r, v interface{}) { r.(*Customer).CustomerID = v.(int64) },
			},
			{
				Name: "Name", Kind: schema.Plain, DataType: schema.String, Mandatory: true,
				Get: func(r interface{}) interface{} { return r.(*Customer).Name },
				Set: func(r, v interface{}) { r.(*Customer).Name = v.(string) },
			},
		},
	}))

	require.NoError(t, reg.Register(&schema.Schema{
		Name: "Invoice",
		New:  func() interface{} { return &Invoice{} },
		Fields: []*schema.Field{
			{
				Name: "InvoiceID", Kind: schema.PrimaryKey, DataType: schema.Int,
				Get: func(r interface{}) interface{} { return r.(*Invoice).InvoiceID },
				Set: func(r, v interface{}) { r.(*Invoice).InvoiceID = v.(int64) },
			},
			{
				Name: "CustomerID", Kind: schema.ForeignKey, DataType: schema.Int, Ref: "Customer", Mandatory: true,
				Get: func(r interface{}) interface{} { return r.(*Invoice).CustomerID },
				Set: func(r, v interface{}) { r.(*Invoice).CustomerID = v.(int64) },
			},
			{
				Name: "Amount", Kind: schema.Plain, DataType: schema.Float,
				Get: func(r interface{}) interface{} { return r.(*Invoice).Amount },
				Set: func(r, v interface{}) { r.(*Invoice).Amount = v.(float64) },
			},
		},
	}))

	require.NoError(t, reg.Register(&schema.Schema{
		Name: "InvoiceLine",
		New:  func() interface{} { return &InvoiceLine{} },
		Fields: []*schema.Field{
			{
				Name: "LineID", Kind: schema.PrimaryKey, DataType: schema.Int,
				Get: func(r interface{}) interface{} { return r.(*InvoiceLine).LineID },
				Set: func(r, v interface{}) { r.(*InvoiceLine).LineID = v.(int64) },
			},
			{
				Name: "InvoiceID", Kind: schema.ForeignKey, DataType: schema.Int, Ref: "Invoice",
				Get: func(r interface{}) interface{} { return r.(*InvoiceLine).InvoiceID },
				Set: func(r, v interface{}) { r.(*InvoiceLine).InvoiceID = v.(int64) },
			},
			{
				Name: "Qty", Kind: schema.Plain, DataType: schema.Int,
				Get: func(r interface{}) interface{} { return r.(*InvoiceLine).Qty },
				Set: func(r, v interface{}) { r.(*InvoiceLine).Qty = v.(int64) },
			},
		},
	}))

	require.NoError(t, reg.Register(&schema.Schema{
		Name: "Note",
		New:  func() interface{} { return &Note{} },
		Fields: []*schema.Field{
			{
				Name: "NoteID", Kind: schema.PrimaryKey, DataType: schema.Int,
				Get: func(r interface{}) interface{} { return r.(*Note).NoteID },
				Set: func(r, v interface{}) { r.(*Note).NoteID = v.(int64) },
			},
			{
				Name: "CustomerID", Kind: schema.ForeignKey, DataType: schema.Int, Ref: "Customer",
				Get: func(r interface{}) interface{} { return r.(*Note).CustomerID },
				Set: func(r, v interface{}) { r.(*Note).CustomerID = v.(int64) },
			},
			{
				Name: "Body", Kind: schema.Plain, DataType: schema.String,
				Get: func(r interface{}) interface{} { return r.(*Note).Body },
				Set: func(r, v interface{}) { r.(*Note).Body = v.(string) },
			},
		},
	}))

	require.NoError(t, reg.Register(&schema.Schema{
		Name: "Tag",
		New:  func() interface{} { return &Tag{} },
		Fields: []*schema.Field{
			{
				Name: "TagID", Kind: schema.PrimaryKey, DataType: schema.String,
				Get: func(r interface{}) interface{} { return r.(*Tag).TagID },
				Set: func(r, v interface{}) { r.(*Tag).TagID = v.(string) },
			},
			{
				Name: "Label", Kind: schema.Plain, DataType: schema.String,
				Get: func(r interface{}) interface{} { return r.(*Tag).Label },
				Set: func(r, v interface{}) { r.(*Tag).Label = v.(string) },
			},
		},
	}))

	return reg
}

type recordedMutation struct {
	kind   executor.Kind
	query  string
	params []clause.Param
}

// fakeExecutor records every call and plays back canned results.
type fakeExecutor struct {
	mu        sync.Mutex
	queries   []string
	mutations []recordedMutation

	rows      []executor.Row
	lastID    int64
	affected  int64
	countVal  int64
	mutateErr error
}

func (f *fakeExecutor) Retrieve(ctx context.Context, query string, params []clause.Param) ([]executor.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.rows, nil
}

func (f *fakeExecutor) RetrieveStream(ctx context.Context, query string, params []clause.Param) iter.Seq2[executor.Row, error] {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	rows := f.rows
	f.mu.Unlock()

	return func(yield func(executor.Row, error) bool) {
		for _, row := range rows {
			if !yield(row, nil) {
				return
			}
		}
	}
}

func (f *fakeExecutor) Mutate(ctx context.Context, kind executor.Kind, query string, params []clause.Param) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return 0, 0, f.mutateErr
	}
	f.mutations = append(f.mutations, recordedMutation{kind: kind, query: query, params: params})
	return f.lastID, f.affected, nil
}

func (f *fakeExecutor) Aggregate(ctx context.Context, query string, params []clause.Param) (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.countVal, nil
}

func (f *fakeExecutor) Count(ctx context.Context, query string, params []clause.Param) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.countVal, nil
}

func (f *fakeExecutor) mutation(i int) recordedMutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations[i]
}

func (f *fakeExecutor) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.mutations)
}

func openTestDB(t *testing.T, fake *fakeExecutor, opts ...func(*Config)) *DB {
	t.Helper()

	config := &Config{Executor: fake, Logger: logger.Discard, CascadeWorkers: 2}
	for _, opt := range opts {
		opt(config)
	}

	db, err := Open(testRegistry(t), config)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
