// Package pgqb ties the schema, query, driver, and softdelete packages
// together into a single handle: the entry point applications use to
// build queries, run them against a real driver, apply a soft-delete
// overlay transparently, and scope work to a transaction.
package pgqb

import (
	"context"
	"fmt"

	"github.com/arcflow/pgqb/driver"
	"github.com/arcflow/pgqb/query"
	"github.com/arcflow/pgqb/schema"
	"github.com/arcflow/pgqb/softdelete"
)

// Handle is the shared entry point for building and running queries.
// It is safe for concurrent use; Transaction hands out a scoped Handle
// per call rather than mutating the receiver.
type Handle struct {
	db      *schema.Database
	drv     driver.Driver
	overlay *softdelete.Overlay
}

// Option configures a Handle at construction.
type Option func(*Handle)

// WithSoftDelete registers a soft-delete overlay. Queries against a
// table the overlay covers are scoped automatically - see package
// softdelete. A Delete is scoped too but is not turned into a soft
// delete; use the overlay's SoftDelete for that.
func WithSoftDelete(overlay *softdelete.Overlay) Option {
	return func(h *Handle) { h.overlay = overlay }
}

// Open builds a Handle from a validated schema and a driver.
func Open(db *schema.Database, drv driver.Driver, opts ...Option) *Handle {
	h := &Handle{db: db, drv: drv}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Database returns the schema this handle was opened with.
func (h *Handle) Database() *schema.Database {
	return h.db
}

// Query starts a new query against table.
func (h *Handle) Query(table string) *query.Builder {
	return query.Table(table)
}

// Close releases the underlying driver's resources.
func (h *Handle) Close() error {
	return h.drv.Close()
}

// EnsureSchema issues "CREATE TABLE IF NOT EXISTS" for every table in
// the handle's schema. It is a one-shot bootstrap convenience, not a
// substitute for the migrate package's versioned migrations - use it
// for throwaway environments (tests, local scratch databases), and use
// migrate.Runner for anything that needs to evolve over time.
func (h *Handle) EnsureSchema(ctx context.Context) error {
	for _, t := range h.db.Tables() {
		ddl, err := schema.RenderCreateTable(t)
		if err != nil {
			return &ConfigurationError{Err: err}
		}
		if _, err := h.drv.Exec(ctx, ddl, nil); err != nil {
			return &DriverError{Err: fmt.Errorf("creating table %q: %w", t.Name, err)}
		}
	}
	return nil
}

// Transaction runs fn with a Handle scoped to a database transaction,
// sharing this Handle's schema and overlay configuration. If fn
// returns an error the transaction rolls back; otherwise it commits.
// Calling Transaction again inside fn starts a nested transaction that
// flattens into the outermost commit/rollback (see driver.Driver).
func (h *Handle) Transaction(ctx context.Context, fn func(ctx context.Context, tx *Handle) error) error {
	return h.drv.RunTransaction(ctx, func(ctx context.Context, txDrv driver.Driver) error {
		tx := &Handle{db: h.db, drv: txDrv, overlay: h.overlay}
		return fn(ctx, tx)
	})
}
