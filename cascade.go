package recordkit

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/recordkit/recordkit/schema"
)

// CascadeState is the outcome of an orphan cascade.
type CascadeState int

const (
	// CascadeComplete every dependent record was removed and every
	// notification delivered.
	CascadeComplete CascadeState = iota
	// CascadePartial dependents were removed but at least one
	// notification went through the recovery hook.
	CascadePartial
	// CascadeFailed at least one dependent could not be processed.
	CascadeFailed
)

func (s CascadeState) String() string {
	switch s {
	case CascadeComplete:
		return "complete"
	case CascadePartial:
		return "partial"
	case CascadeFailed:
		return "failed"
	}
	return "unknown"
}

// CascadeResult reports what an orphan cascade did.
type CascadeResult struct {
	State CascadeState
	// Removed counts dependent records removed from their collections.
	// The parent record is not included.
	Removed int
	// Recovered counts listener notifications that failed and were
	// handed to the recovery hook.
	Recovered int
	Errs      []error
}

// Receipt is the join point of a delete. DeleteRecord returns it
// before the cascade finishes; Wait blocks until the cascade and all
// of its notifications settle.
type Receipt struct {
	done   chan struct{}
	result CascadeResult
}

// Wait blocks until the cascade completes or ctx is cancelled.
func (r *Receipt) Wait(ctx context.Context) (CascadeResult, error) {
	select {
	case <-r.done:
		return r.result, nil
	case <-ctx.Done():
		return CascadeResult{}, ctx.Err()
	}
}

// cascadeRun accumulates cascade progress across the concurrent
// fan-out.
type cascadeRun struct {
	mu      sync.Mutex
	removed int
	errs    []error
}

func (run *cascadeRun) addRemoved(n int) {
	run.mu.Lock()
	run.removed += n
	run.mu.Unlock()
}

func (run *cascadeRun) addErr(err error) {
	run.mu.Lock()
	run.errs = append(run.errs, err)
	run.mu.Unlock()
}

// finishDelete runs on its own goroutine per delete: cascade first,
// then the parent's own removal and notification, then resolve the
// receipt. The parent notification therefore always follows every
// dependent removal.
func (db *DB) finishDelete(ctx context.Context, s *schema.Schema, rec interface{}, receipt *Receipt) {
	defer close(receipt.done)

	baseline := db.notifyFailures.Load()

	run := &cascadeRun{}
	db.cascade(ctx, s, rec, run)

	// dependent removals are delivered before the parent's own removal
	// is even enqueued, so listeners observe children gone first
	for name, coll := range db.collections {
		if name == s.Name {
			continue
		}
		if err := coll.Flush(ctx); err != nil {
			run.addErr(err)
		}
	}

	if coll := db.collections[s.Name]; coll != nil {
		coll.Remove(rec)
		if err := coll.Flush(ctx); err != nil {
			run.addErr(err)
		}
	}

	recovered := int(db.notifyFailures.Load() - baseline)

	receipt.result = CascadeResult{
		Removed:   run.removed,
		Recovered: recovered,
		Errs:      run.errs,
	}
	switch {
	case len(run.errs) > 0:
		receipt.result.State = CascadeFailed
	case recovered > 0:
		receipt.result.State = CascadePartial
	default:
		receipt.result.State = CascadeComplete
	}

	if receipt.result.State != CascadeComplete {
		db.Logger.Warn(ctx, "cascade for %s finished %s: removed=%d recovered=%d errs=%d",
			s.Name, receipt.result.State, run.removed, recovered, len(run.errs))
	}
}

// cascade removes every in-memory record depending on rec, depth
// first: a dependent's own dependents are cleaned up before the
// dependent itself is removed. Dependent types fan out concurrently on
// a bounded worker group; records within one type are processed
// sequentially. Failures are collected, never aborting sibling types.
func (db *DB) cascade(ctx context.Context, s *schema.Schema, rec interface{}, run *cascadeRun) {
	dependents := db.graph.DependentsOf(s.Name)
	if len(dependents) == 0 {
		return
	}

	key := s.PrimaryField.ValueOf(rec)

	var g errgroup.Group
	g.SetLimit(db.cascadeWorkers)

	for _, dep := range dependents {
		coll := db.collections[dep.Name]
		if coll == nil {
			continue
		}

		g.Go(func() error {
			for _, fk := range dep.ForeignKeyFields() {
				if fk.Ref != s.Name {
					continue
				}

				for _, child := range coll.matching(fk, key) {
					if ctx.Err() != nil {
						run.addErr(ctx.Err())
						return nil
					}

					// grandchildren before the child itself
					db.cascade(ctx, dep, child, run)

					if bd, ok := child.(schema.BeforeDeleter); ok {
						if err := bd.BeforeDelete(); err != nil {
							run.addErr(err)
						}
					}

					if coll.Remove(child) {
						run.addRemoved(1)
					}
				}
			}
			return nil
		})
	}

	g.Wait()
}
