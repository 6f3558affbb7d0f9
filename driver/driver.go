// Package driver defines the narrow contract pgqb needs from a
// database connection, plus three implementations of it: a Postgres
// driver backed by pgx, an in-memory recording driver for unit tests,
// and a logging wrapper that can sit in front of either.
//
// Keeping this contract to three methods (Exec, RunTransaction, Close)
// means the query and migrate packages never import pgx directly - a
// caller that swaps Postgres for Memory in a test changes nothing
// above this package.
package driver

import "context"

// Driver executes rendered SQL and manages transactions. Postgres and
// Memory are safe for concurrent use, and Logging is as safe as the
// driver it wraps; the transaction-scoped Driver that Postgres hands
// to a RunTransaction callback runs on a single pgx.Tx and is not.
type Driver interface {
	// Exec runs sql with the given positional arguments and returns
	// the resulting rows (for SELECT/RETURNING) and/or the affected
	// row count (for INSERT/UPDATE/DELETE without RETURNING).
	Exec(ctx context.Context, sql string, args []any) (Result, error)

	// RunTransaction runs fn within a database transaction. If fn
	// returns an error, the transaction is rolled back and that error
	// is returned; otherwise the transaction is committed. Calling
	// RunTransaction again on the tx passed to fn starts a nested
	// transaction (a savepoint, where the underlying driver supports
	// one) that is flattened into the outer commit/rollback.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Driver) error) error

	// Close releases any resources held by the driver (a connection
	// pool, for instance). Calling it on a transaction-scoped Driver
	// handed to a RunTransaction callback is a no-op; the outer
	// RunTransaction call owns that lifecycle.
	Close() error
}

// Result is the outcome of one Exec call.
type Result struct {
	// Rows is non-nil when the statement produced rows - a SELECT, or
	// an INSERT/UPDATE/DELETE with RETURNING.
	Rows Rows
}

// Rows iterates the rows returned by a statement. It mirrors the
// shape of database/sql.Rows and pgx.Rows closely enough that either
// can back it with a thin adapter.
type Rows interface {
	// Next advances to the next row. It must be called before the
	// first Scan.
	Next() bool

	// Scan copies the current row's columns into dest, in column
	// order.
	Scan(dest ...any) error

	// Columns returns the result column names in order.
	Columns() []string

	// Err returns any error encountered during iteration, after Next
	// returns false.
	Err() error

	// Close releases resources associated with the row set. It is
	// safe to call more than once.
	Close()

	// RowsAffected reports the number of rows affected by the
	// statement. For a SELECT this is the number of rows returned.
	// The pgx-backed implementation reads it from the command tag,
	// which is only complete once Next has returned false.
	RowsAffected() int64
}
