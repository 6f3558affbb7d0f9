package driver

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the production Driver, backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// querier is the subset of *pgxpool.Pool and pgx.Tx this package
// needs, so Postgres and its transaction-scoped counterpart can share
// one Exec implementation.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Open creates a connection pool for dsn and verifies it can reach
// the server.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("driver: opening postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("driver: pinging postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// FromPool wraps an already-constructed pool, for callers that need
// control over pgxpool.Config (TLS, pool size, tracing).
func FromPool(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Exec(ctx context.Context, sql string, args []any) (Result, error) {
	return execQuerier(ctx, p.pool, sql, args)
}

// RunTransaction begins a transaction on the pool and runs fn with a
// Driver scoped to it. fn's error rolls the transaction back; a nil
// return commits it.
func (p *Postgres) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Driver) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("driver: beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("driver: committing transaction: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// pgTx is the Driver seen inside a RunTransaction callback. Calling
// RunTransaction on it opens a pgx pseudo-nested transaction
// (implemented by pgx as a SAVEPOINT), so nested RunTransaction calls
// flatten into the outermost commit/rollback rather than attempting a
// true nested BEGIN, which Postgres doesn't support.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Exec(ctx context.Context, sql string, args []any) (Result, error) {
	return execQuerier(ctx, t.tx, sql, args)
}

func (t *pgTx) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Driver) error) error {
	nested, err := t.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("driver: beginning nested transaction: %w", err)
	}
	defer func() { _ = nested.Rollback(ctx) }()

	if err := fn(ctx, &pgTx{tx: nested}); err != nil {
		return err
	}
	if err := nested.Commit(ctx); err != nil {
		return fmt.Errorf("driver: committing nested transaction: %w", err)
	}
	return nil
}

func (t *pgTx) Close() error { return nil }

func execQuerier(ctx context.Context, q querier, sql string, args []any) (Result, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return Result{}, fmt.Errorf("driver: %w", err)
	}
	return Result{Rows: &pgxRows{rows: rows}}, nil
}

// pgxRows adapts pgx.Rows to the driver.Rows interface.
type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool                { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error    { return r.rows.Scan(dest...) }
func (r *pgxRows) Err() error                 { return r.rows.Err() }
func (r *pgxRows) Close()                     { r.rows.Close() }
func (r *pgxRows) RowsAffected() int64 {
	return r.rows.CommandTag().RowsAffected()
}

func (r *pgxRows) Columns() []string {
	fields := r.rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f.Name)
	}
	return names
}
