package migrate

import "errors"

// ErrUnknownMigration is returned when the tracking table names a
// migration (from an earlier batch) that isn't in the runner's
// current migration list - the binary was built without it, or it was
// renamed.
var ErrUnknownMigration = errors.New("migrate: tracking table references a migration not in the runner's list")

// IsUnknownMigrationErr returns true if err is or wraps ErrUnknownMigration.
func IsUnknownMigrationErr(err error) bool { return errors.Is(err, ErrUnknownMigration) }

// ErrInvalidMigrationName is returned by Make when the requested name
// doesn't match [A-Za-z_][A-Za-z0-9_]*.
var ErrInvalidMigrationName = errors.New("migrate: name must match [A-Za-z_][A-Za-z0-9_]*")

// IsInvalidMigrationNameErr returns true if err is or wraps ErrInvalidMigrationName.
func IsInvalidMigrationNameErr(err error) bool { return errors.Is(err, ErrInvalidMigrationName) }
