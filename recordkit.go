// Package recordkit is a data-access layer: a slot-ordered SQL
// statement builder, explicit schema descriptors mapping model objects
// onto table rows, master in-memory record collections with ordered
// change notification, and an orphan-cascade engine that keeps
// dependent collections consistent when a parent record is deleted.
package recordkit

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/recordkit/recordkit/executor"
	"github.com/recordkit/recordkit/logger"
	"github.com/recordkit/recordkit/schema"
)

// DB is the explicit context object tying a schema registry, the
// master collections, the dependency graph and an executor together.
// There is no process-wide state: open one handle, pass it around,
// close it.
type DB struct {
	*Config

	registry    *schema.Registry
	graph       *DependencyGraph
	collections map[string]*Collection
	executor    executor.Executor

	cascadeWorkers int
	notifyFailures atomic.Int64
	closed         atomic.Bool
	ownsExecutor   bool
}

// Open resolves the registry, pre-builds the CRUD statements of every
// schema, builds the dependency graph and the master collections, and
// wires the executor.
func Open(reg *schema.Registry, config *Config) (*DB, error) {
	if config == nil {
		config = &Config{}
	}
	if config.NamingStrategy == nil {
		config.NamingStrategy = schema.NamingStrategy{}
	}
	if config.Logger == nil {
		config.Logger = logger.Default
	}

	if err := reg.Resolve(config.NamingStrategy); err != nil {
		return nil, err
	}

	db := &DB{
		Config:         config,
		registry:       reg,
		collections:    map[string]*Collection{},
		cascadeWorkers: config.CascadeWorkers,
	}
	if db.cascadeWorkers <= 0 {
		db.cascadeWorkers = 4
	}

	recoverFn := func(change Change, err error) {
		db.notifyFailures.Add(1)
		db.Logger.Warn(context.Background(), "listener failed for %s notification: %v", change.Kind, err)
		if config.Recover != nil {
			config.Recover(change, err)
		}
	}

	for _, s := range reg.Schemas() {
		buildAutoStatements(s)
		db.collections[s.Name] = newCollection(s, config.NotifyBuffer, recoverFn)
	}

	db.graph = NewDependencyGraph(reg)

	switch {
	case config.Executor != nil:
		db.executor = config.Executor
	case config.Driver != "":
		sqlExec, err := executor.OpenSQL(config.Driver, config.DSN, config.Logger)
		if err != nil {
			db.teardown()
			return nil, err
		}
		db.executor = sqlExec
		db.ownsExecutor = true
	default:
		db.teardown()
		return nil, fmt.Errorf("config requires an Executor or a Driver/DSN pair")
	}

	return db, nil
}

// Registry returns the resolved schema registry.
func (db *DB) Registry() *schema.Registry {
	return db.registry
}

// Graph returns the entity dependency graph.
func (db *DB) Graph() *DependencyGraph {
	return db.graph
}

// Executor returns the wired statement executor.
func (db *DB) Executor() executor.Executor {
	return db.executor
}

// Collection returns the master collection for the named schema.
func (db *DB) Collection(name string) (*Collection, error) {
	coll, ok := db.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return coll, nil
}

// Flush waits until every pending collection notification has been
// delivered.
func (db *DB) Flush(ctx context.Context) error {
	for _, coll := range db.collections {
		if err := coll.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close tears the handle down: notification dispatchers stop, the
// dependency graph is cleared, and an executor opened by Open is
// closed.
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return db.teardown()
}

func (db *DB) teardown() error {
	for _, coll := range db.collections {
		coll.close()
	}
	if db.graph != nil {
		db.graph.Close()
	}
	if db.ownsExecutor {
		if closer, ok := db.executor.(interface{ Close() error }); ok {
			return closer.Close()
		}
	}
	return nil
}
