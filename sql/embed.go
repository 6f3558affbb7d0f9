// Package sql provides embedded SQL files for pgqb's own runtime
// infrastructure - the migration tracking table, applied idempotently
// by package migrate on every Runner.Up call.
//
// The SQL is embedded at compile time, so the application binary
// carries everything it needs with no runtime dependency on external
// SQL files.
package sql

import (
	_ "embed"
)

// MigrationsSQL creates the pgqb_migrations tracking table. Applied
// via CREATE TABLE IF NOT EXISTS for idempotence.
//
//go:embed migrations.sql
var MigrationsSQL string
