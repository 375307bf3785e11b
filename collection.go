package recordkit

import (
	"context"
	"sync"

	"github.com/recordkit/recordkit/schema"
)

// ChangeKind classifies a collection notification.
type ChangeKind int

const (
	ChangeAdd ChangeKind = iota
	ChangeUpdate
	ChangeRemove
	ChangeLoad
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "add"
	case ChangeUpdate:
		return "update"
	case ChangeRemove:
		return "remove"
	case ChangeLoad:
		return "load"
	}
	return "unknown"
}

// Change is one mutation of a master collection, delivered to
// listeners in mutation order.
type Change struct {
	Kind   ChangeKind
	Record interface{}
}

// Listener receives collection changes. A non-nil error is handed to
// the recovery hook; it never aborts the mutation that caused it.
type Listener func(Change) error

// RecoverFunc is called when a listener fails.
type RecoverFunc func(Change, error)

type queued struct {
	change    Change
	listeners []Listener
}

// Collection is the authoritative in-memory record set for one schema.
// All mutation is mutex-guarded; change notifications go out on a
// bounded channel drained by one dispatcher goroutine. The notify lock
// is held from mutation through send, so delivery order always equals
// mutation order, while the send itself runs with the data lock
// released: a listener may read the collection back without wedging a
// writer blocked on a full buffer.
type Collection struct {
	schema *schema.Schema

	notifyMu  sync.Mutex
	mu        sync.RWMutex
	records   []interface{}
	listeners []Listener

	changes chan queued
	pending sync.WaitGroup
	closed  bool
	recover RecoverFunc
}

func newCollection(s *schema.Schema, buffer int, recoverFn RecoverFunc) *Collection {
	if buffer <= 0 {
		buffer = 64
	}

	c := &Collection{
		schema:  s,
		changes: make(chan queued, buffer),
		recover: recoverFn,
	}
	go c.dispatch()
	return c
}

// Schema returns the schema the collection holds records of.
func (c *Collection) Schema() *schema.Schema {
	return c.schema
}

// Subscribe registers a listener for subsequent changes.
func (c *Collection) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Record returns the record at index i, or nil when out of range.
func (c *Collection) Record(i int) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.records) {
		return nil
	}
	return c.records[i]
}

// All returns a snapshot copy of the records in order.
func (c *Collection) All() []interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]interface{}, len(c.records))
	copy(out, c.records)
	return out
}

// IndexOf returns the position of rec, or -1.
func (c *Collection) IndexOf(rec interface{}) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(rec)
}

func (c *Collection) indexOf(rec interface{}) int {
	for i, r := range c.records {
		if r == rec {
			return i
		}
	}
	return -1
}

// Add appends rec and notifies listeners.
func (c *Collection) Add(rec interface{}) {
	c.mutate(func() (Change, bool) {
		c.records = append(c.records, rec)
		return Change{Kind: ChangeAdd, Record: rec}, true
	})
}

// Remove deletes rec, keeping order, and notifies listeners. It
// reports whether rec was present.
func (c *Collection) Remove(rec interface{}) bool {
	return c.mutate(func() (Change, bool) {
		i := c.indexOf(rec)
		if i < 0 {
			return Change{}, false
		}
		c.records = append(c.records[:i], c.records[i+1:]...)
		return Change{Kind: ChangeRemove, Record: rec}, true
	})
}

// Touched notifies listeners that rec was updated in place.
func (c *Collection) Touched(rec interface{}) {
	c.mutate(func() (Change, bool) {
		return Change{Kind: ChangeUpdate, Record: rec}, true
	})
}

// Clear removes every record without per-record notifications.
func (c *Collection) Clear() {
	c.mutate(func() (Change, bool) {
		c.records = c.records[:0]
		return Change{Kind: ChangeLoad}, true
	})
}

// Replace swaps the full record set, e.g. after a bulk load.
func (c *Collection) Replace(records []interface{}) {
	c.mutate(func() (Change, bool) {
		c.records = make([]interface{}, len(records))
		copy(c.records, records)
		return Change{Kind: ChangeLoad}, true
	})
}

// matching returns the records whose field value equals key.
func (c *Collection) matching(f *schema.Field, key interface{}) []interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []interface{}
	for _, r := range c.records {
		if f.ValueOf(r) == key {
			out = append(out, r)
		}
	}
	return out
}

// mutate runs fn under the data lock, then delivers the change fn
// reports. The notify lock spans both steps, which fixes the delivery
// order; the channel send itself runs with the data lock released, so
// a full buffer back-pressures writers without deadlocking listeners
// that read the collection back.
func (c *Collection) mutate(fn func() (Change, bool)) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	change, ok := fn()
	if !ok || c.closed {
		c.mu.Unlock()
		return ok
	}
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.pending.Add(1)
	c.mu.Unlock()

	c.changes <- queued{change: change, listeners: listeners}
	return true
}

func (c *Collection) dispatch() {
	for q := range c.changes {
		for _, l := range q.listeners {
			if err := l(q.change); err != nil && c.recover != nil {
				c.recover(q.change, err)
			}
		}
		c.pending.Done()
	}
}

// Flush blocks until every change enqueued so far has been delivered.
func (c *Collection) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close takes the notify lock first so the channel never closes under
// an in-flight send.
func (c *Collection) close() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.changes)
	}
}
