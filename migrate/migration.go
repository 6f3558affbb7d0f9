// Package migrate implements a small, explicit schema-migration
// runner: a batch-tracked history of named Up/Down steps applied
// against a driver.Driver, with no file-system scanning at runtime.
//
// Go has no mechanism to load code dynamically at runtime the way a
// dynamic-language migration tool can scan a directory and eval each
// file; a migration's Up/Down must already be compiled into the
// binary. This package resolves that the same way database/sql
// resolves driver discovery: migrations self-register by name with
// Register (typically from a package init function), and Runner reads
// that registry unless the caller passes an explicit list.
package migrate

import "context"

// Migration is one named, reversible schema change.
type Migration struct {
	Name string
	Up   func(ctx context.Context, h *Helper) error
	Down func(ctx context.Context, h *Helper) error
}

var registry []Migration

// Register adds m to the package-level registry that NewRunner falls
// back to when called with no explicit migrations. Migrations
// generated by Make are meant to be registered this way from
// an init function in the generated file's package - Make only
// scaffolds the file and reports the line to add, since the generated
// Up/Down bodies need to be filled in before the migration is ready to
// run.
func Register(m Migration) {
	registry = append(registry, m)
}

// Registered returns a copy of the current package-level registry.
func Registered() []Migration {
	return append([]Migration(nil), registry...)
}
