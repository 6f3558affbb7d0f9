package migrate

import (
	"context"

	"github.com/arcflow/pgqb/driver"
	"github.com/arcflow/pgqb/schema"
)

// Helper is what a Migration's Up/Down function gets to work with: a
// thin wrapper over the Runner's driver.Driver (the runner opens no
// transaction around a migration), with shortcuts that render DDL through package schema
// instead of requiring every migration to hand-write it.
type Helper struct {
	drv driver.Driver
}

func newHelper(drv driver.Driver) *Helper {
	return &Helper{drv: drv}
}

// Exec runs a raw statement, for anything the shortcuts below don't
// cover.
func (h *Helper) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := h.drv.Exec(ctx, sql, args)
	return err
}

// CreateTable issues "CREATE TABLE IF NOT EXISTS" for t.
func (h *Helper) CreateTable(ctx context.Context, t *schema.Table) error {
	ddl, err := schema.RenderCreateTable(t)
	if err != nil {
		return err
	}
	return h.Exec(ctx, ddl)
}

// DropTable issues "DROP TABLE IF EXISTS", optionally CASCADE.
func (h *Helper) DropTable(ctx context.Context, table string, cascade bool) error {
	return h.Exec(ctx, schema.RenderDropTable(table, cascade))
}

// AddColumn issues "ALTER TABLE ... ADD COLUMN".
func (h *Helper) AddColumn(ctx context.Context, table, column string, c schema.Column) error {
	ddl, err := schema.RenderAddColumn(table, column, c)
	if err != nil {
		return err
	}
	return h.Exec(ctx, ddl)
}

// DropColumn issues "ALTER TABLE ... DROP COLUMN".
func (h *Helper) DropColumn(ctx context.Context, table, column string) error {
	return h.Exec(ctx, schema.RenderDropColumn(table, column))
}

// RenameTable issues "ALTER TABLE ... RENAME TO".
func (h *Helper) RenameTable(ctx context.Context, from, to string) error {
	return h.Exec(ctx, schema.RenderRenameTable(from, to))
}

// RenameColumn issues "ALTER TABLE ... RENAME COLUMN ... TO".
func (h *Helper) RenameColumn(ctx context.Context, table, from, to string) error {
	return h.Exec(ctx, schema.RenderRenameColumn(table, from, to))
}
