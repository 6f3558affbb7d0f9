package migrate_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcflow/pgqb/driver"
	"github.com/arcflow/pgqb/migrate"
)

var errBoom = errors.New("boom")

func TestRunner_UpAppliesPendingInOrder(t *testing.T) {
	mem := driver.NewMemory()
	var ran []string

	r := migrate.NewRunner(mem,
		migrate.Migration{
			Name: "001_create_users",
			Up:   func(ctx context.Context, h *migrate.Helper) error { ran = append(ran, "001"); return nil },
			Down: func(ctx context.Context, h *migrate.Helper) error { return nil },
		},
		migrate.Migration{
			Name: "002_add_index",
			Up:   func(ctx context.Context, h *migrate.Helper) error { ran = append(ran, "002"); return nil },
			Down: func(ctx context.Context, h *migrate.Helper) error { return nil },
		},
	)

	applied, err := r.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_users", "002_add_index"}, applied)
	assert.Equal(t, []string{"001", "002"}, ran)
}

func TestRunner_UpSkipsAlreadyApplied(t *testing.T) {
	mem := driver.NewMemory()
	// The tracking-table SELECT name query returns "001_create_users" as
	// already applied.
	mem.Enqueue(driver.Result{Rows: driver.NewStaticRows(nil, nil)}) // ensureTrackingTable
	mem.Enqueue(driver.Result{Rows: driver.NewStaticRows([]string{"name"}, [][]any{{"001_create_users"}})})
	mem.Enqueue(driver.Result{Rows: driver.NewStaticRows([]string{"coalesce"}, [][]any{{1}})}) // lastBatch

	var ranSecond bool
	r := migrate.NewRunner(mem,
		migrate.Migration{
			Name: "001_create_users",
			Up:   func(ctx context.Context, h *migrate.Helper) error { t.Fatal("should not re-run"); return nil },
			Down: func(ctx context.Context, h *migrate.Helper) error { return nil },
		},
		migrate.Migration{
			Name: "002_add_index",
			Up:   func(ctx context.Context, h *migrate.Helper) error { ranSecond = true; return nil },
			Down: func(ctx context.Context, h *migrate.Helper) error { return nil },
		},
	)

	applied, err := r.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"002_add_index"}, applied)
	assert.True(t, ranSecond)
}

func TestRunner_DownRevertsLastBatchInReverseOrder(t *testing.T) {
	mem := driver.NewMemory()
	mem.Enqueue(driver.Result{Rows: driver.NewStaticRows(nil, nil)})                                  // ensureTrackingTable
	mem.Enqueue(driver.Result{Rows: driver.NewStaticRows([]string{"coalesce"}, [][]any{{1}})})         // lastBatch
	mem.Enqueue(driver.Result{Rows: driver.NewStaticRows([]string{"name"}, [][]any{                    // batch's names, DESC
		{"002_add_index"},
		{"001_create_users"},
	})})

	var order []string
	r := migrate.NewRunner(mem,
		migrate.Migration{
			Name: "001_create_users",
			Up:   func(ctx context.Context, h *migrate.Helper) error { return nil },
			Down: func(ctx context.Context, h *migrate.Helper) error { order = append(order, "001"); return nil },
		},
		migrate.Migration{
			Name: "002_add_index",
			Up:   func(ctx context.Context, h *migrate.Helper) error { return nil },
			Down: func(ctx context.Context, h *migrate.Helper) error { order = append(order, "002"); return nil },
		},
	)

	reverted, err := r.Down(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"002_add_index", "001_create_users"}, reverted)
	assert.Equal(t, []string{"002", "001"}, order)
}

func TestRunner_UpLeavesEarlierMigrationsRecordedOnFailure(t *testing.T) {
	mem := driver.NewMemory()

	r := migrate.NewRunner(mem,
		migrate.Migration{
			Name: "001_create_users",
			Up:   func(ctx context.Context, h *migrate.Helper) error { return nil },
			Down: func(ctx context.Context, h *migrate.Helper) error { return nil },
		},
		migrate.Migration{
			Name: "002_bad",
			Up:   func(ctx context.Context, h *migrate.Helper) error { return errBoom },
			Down: func(ctx context.Context, h *migrate.Helper) error { return nil },
		},
	)

	applied, err := r.Up(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"001_create_users"}, applied,
		"the runner does not wrap the batch in a transaction; migrations that already ran stay recorded")

	var recorded []string
	for _, c := range mem.Calls {
		if c.SQL == `INSERT INTO pgqb_migrations (name, batch) VALUES ($1, $2)` {
			recorded = append(recorded, c.Args[0].(string))
		}
	}
	assert.Equal(t, []string{"001_create_users"}, recorded)
}

func TestRunner_DownNoopWhenNothingApplied(t *testing.T) {
	mem := driver.NewMemory()
	r := migrate.NewRunner(mem)

	reverted, err := r.Down(context.Background())
	require.NoError(t, err)
	assert.Nil(t, reverted)
}

func TestMake_ScaffoldsFileAndRegisterLine(t *testing.T) {
	dir := t.TempDir()
	path, registerLine, err := migrate.Make(dir, "add_users_table")
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Contains(t, registerLine, "migrate.Register(migrations.Migration")

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "package migrations")
	assert.Contains(t, string(contents), `Name: "`)
}
