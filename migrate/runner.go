package migrate

import (
	"context"
	"fmt"

	"github.com/arcflow/pgqb/driver"
	pgqbsql "github.com/arcflow/pgqb/sql"
)

// Runner applies and reverts migrations against drv, tracking what has
// run in the pgqb_migrations table.
type Runner struct {
	drv        driver.Driver
	migrations []Migration
}

// NewRunner builds a Runner over the given migrations. With none
// given, it falls back to the package-level registry populated by
// Register.
func NewRunner(drv driver.Driver, migrations ...Migration) *Runner {
	if len(migrations) == 0 {
		migrations = Registered()
	}
	return &Runner{drv: drv, migrations: migrations}
}

// StatusEntry reports whether one migration has been applied.
type StatusEntry struct {
	Name    string
	Applied bool
}

func (r *Runner) ensureTrackingTable(ctx context.Context) error {
	_, err := r.drv.Exec(ctx, pgqbsql.MigrationsSQL, nil)
	return err
}

func (r *Runner) appliedSet(ctx context.Context) (map[string]bool, error) {
	result, err := r.drv.Exec(ctx, `SELECT name FROM pgqb_migrations`, nil)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]bool)
	if result.Rows == nil {
		return applied, nil
	}
	defer result.Rows.Close()
	for result.Rows.Next() {
		var name string
		if err := result.Rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, result.Rows.Err()
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	result, err := r.drv.Exec(ctx, `SELECT COALESCE(MAX(batch), 0) FROM pgqb_migrations`, nil)
	if err != nil {
		return 0, err
	}
	batch := 0
	if result.Rows != nil {
		defer result.Rows.Close()
		if result.Rows.Next() {
			if err := result.Rows.Scan(&batch); err != nil {
				return 0, err
			}
		}
	}
	return batch, nil
}

// Up applies every migration not yet recorded, in declaration order.
// It returns the names of the migrations it ran, in the order they
// ran. The runner itself opens no transaction around the batch -
// whether an individual migration's statements are transactional is
// up to what that migration's Up func does with the Helper it's
// given. A failure partway through a batch leaves every migration run
// before it recorded as applied; Up is safe to call again to pick up
// from where it stopped.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	if err := r.ensureTrackingTable(ctx); err != nil {
		return nil, fmt.Errorf("migrate: ensuring tracking table: %w", err)
	}
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: reading applied migrations: %w", err)
	}

	var pending []Migration
	for _, m := range r.migrations {
		if !applied[m.Name] {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	last, err := r.lastBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: computing next batch: %w", err)
	}
	batch := last + 1

	h := newHelper(r.drv)
	var ran []string
	for _, m := range pending {
		if err := m.Up(ctx, h); err != nil {
			return ran, fmt.Errorf("migrate: running %q up: %w", m.Name, err)
		}
		if _, err := r.drv.Exec(ctx, `INSERT INTO pgqb_migrations (name, batch) VALUES ($1, $2)`, []any{m.Name, batch}); err != nil {
			return ran, fmt.Errorf("migrate: recording %q: %w", m.Name, err)
		}
		ran = append(ran, m.Name)
	}
	return ran, nil
}

// Down reverts every migration in the most recently applied batch, in
// reverse order. As with Up, the runner opens no transaction around
// the batch; a failure partway through leaves migrations reverted
// before it un-recorded and the rest still recorded as applied. It
// returns the names it reverted. Calling Down with nothing applied is
// a no-op.
func (r *Runner) Down(ctx context.Context) ([]string, error) {
	if err := r.ensureTrackingTable(ctx); err != nil {
		return nil, fmt.Errorf("migrate: ensuring tracking table: %w", err)
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: reading last batch: %w", err)
	}
	if batch == 0 {
		return nil, nil
	}

	result, err := r.drv.Exec(ctx, `SELECT name FROM pgqb_migrations WHERE batch = $1 ORDER BY id DESC`, []any{batch})
	if err != nil {
		return nil, fmt.Errorf("migrate: reading batch %d's migrations: %w", batch, err)
	}
	var names []string
	if result.Rows != nil {
		defer result.Rows.Close()
		for result.Rows.Next() {
			var name string
			if err := result.Rows.Scan(&name); err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		if err := result.Rows.Err(); err != nil {
			return nil, err
		}
	}

	index := make(map[string]Migration, len(r.migrations))
	for _, m := range r.migrations {
		index[m.Name] = m
	}

	h := newHelper(r.drv)
	var reverted []string
	for _, name := range names {
		m, ok := index[name]
		if !ok {
			return reverted, fmt.Errorf("%w: %q", ErrUnknownMigration, name)
		}
		if err := m.Down(ctx, h); err != nil {
			return reverted, fmt.Errorf("migrate: running %q down: %w", name, err)
		}
		if _, err := r.drv.Exec(ctx, `DELETE FROM pgqb_migrations WHERE name = $1`, []any{name}); err != nil {
			return reverted, fmt.Errorf("migrate: unrecording %q: %w", name, err)
		}
		reverted = append(reverted, name)
	}
	return reverted, nil
}

// Status reports, for every migration the Runner knows about, whether
// it has been applied.
func (r *Runner) Status(ctx context.Context) ([]StatusEntry, error) {
	if err := r.ensureTrackingTable(ctx); err != nil {
		return nil, fmt.Errorf("migrate: ensuring tracking table: %w", err)
	}
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: reading applied migrations: %w", err)
	}
	entries := make([]StatusEntry, len(r.migrations))
	for i, m := range r.migrations {
		entries[i] = StatusEntry{Name: m.Name, Applied: applied[m.Name]}
	}
	return entries, nil
}
