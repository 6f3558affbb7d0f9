// Package query implements the query-composition engine: the
// intermediate representation of a pending query, the rules that
// desugar filter values into an operator IR, and the SQL renderer
// that turns that IR into placeholder-parameterized PostgreSQL.
package query

import "errors"

// Sentinel errors for invalid builder use. All are ConfigurationError
// class - they are caught before anything reaches a driver.
var (
	// ErrNoOperation is returned by Render/execute terminals when no
	// operation method was called.
	ErrNoOperation = errors.New("query: no operation selected")

	// ErrEmptyInsert is returned when Insert is called with zero rows,
	// or a row with zero columns.
	ErrEmptyInsert = errors.New("query: insert requires at least one row with at least one column")

	// ErrRowColumnMismatch is returned when a batch-insert row's column
	// set does not match the first row's.
	ErrRowColumnMismatch = errors.New("query: insert rows must share the same column set")

	// ErrBetweenArity is returned when Between is not given exactly
	// two bounds.
	ErrBetweenArity = errors.New("query: between requires exactly two values")

	// ErrJoinOnMutation is returned when Join is called on a builder
	// whose operation is insert, update, or delete.
	ErrJoinOnMutation = errors.New("query: joins are not permitted on insert/update/delete")

	// ErrOnConflictNotInsert is returned when OnConflict is used on a
	// non-insert builder.
	ErrOnConflictNotInsert = errors.New("query: on_conflict is only valid for insert")

	// ErrOnConflictNoAssignments is returned when DoUpdate is called
	// with no assignments.
	ErrOnConflictNoAssignments = errors.New("query: on_conflict do_update requires at least one assignment")

	// ErrUnknownColumn is returned when a batch-insert row is missing a
	// column present in the first row.
	ErrUnknownColumn = errors.New("query: row is missing a column present in the first row")

	// ErrEmptyUpdate is returned when Update is called with no
	// assignments.
	ErrEmptyUpdate = errors.New("query: update requires at least one assignment")
)
