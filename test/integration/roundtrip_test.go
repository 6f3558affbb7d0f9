// Package integration runs pgqb against a real PostgreSQL instance,
// spun up via testutil's testcontainers harness. These tests are
// slower than the package-level unit tests and exercise the driver,
// handle, and migration runner together instead of in isolation.
package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arcflow/pgqb"
	"github.com/arcflow/pgqb/driver"
	"github.com/arcflow/pgqb/migrate"
	"github.com/arcflow/pgqb/query"
	"github.com/arcflow/pgqb/schema"
	"github.com/arcflow/pgqb/test/testutil"
)

func widgetsTable() *schema.Table {
	return schema.NewTable("widgets").
		Column("id", schema.Column{Type: schema.UUID{}, PrimaryKey: true}).
		Column("name", schema.Column{Type: schema.Text{}}).
		Column("count", schema.Column{Type: schema.Int{}, Default: 0}).
		Column("active", schema.Column{Type: schema.Bool{}, Default: true}).
		Column("tags", schema.Column{Type: schema.Array{Item: schema.Text{}}, Nullable: true}).
		Column("created_at", schema.Column{Type: schema.Timestamp{}})
}

// TestRoundTrip_PrimitiveColumnTypes inserts a row exercising every
// scalar column type plus an array column, then reads it back by id
// and confirms the text, integer, boolean and array values survived
// the trip through Postgres unchanged.
func TestRoundTrip_PrimitiveColumnTypes(t *testing.T) {
	pool := testutil.Pool(t)
	drv := driver.FromPool(pool)

	db, err := schema.NewDatabase(widgetsTable())
	require.NoError(t, err)

	h := pgqb.Open(db, drv)
	ctx := context.Background()
	require.NoError(t, h.EnsureSchema(ctx))

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err = h.Run(ctx, query.Table("widgets").Insert(query.M{
		{Key: "id", Val: id},
		{Key: "name", Val: "gizmo"},
		{Key: "count", Val: 7},
		{Key: "active", Val: false},
		{Key: "tags", Val: []string{"alpha", "beta"}},
		{Key: "created_at", Val: now},
	}))
	require.NoError(t, err)

	result, err := h.Run(ctx, query.Table("widgets").Where(query.M{{Key: "id", Val: id}}))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	row := result.First()
	require.Equal(t, "gizmo", row["name"])
	require.EqualValues(t, 7, row["count"])
	require.Equal(t, false, row["active"])
	require.ElementsMatch(t, []string{"alpha", "beta"}, row["tags"])
}

// TestTransaction_RollsBackOnCallbackError confirms that a callback
// error rolls back every write made inside Transaction, leaving no
// trace of the partially-applied work.
func TestTransaction_RollsBackOnCallbackError(t *testing.T) {
	pool := testutil.Pool(t)
	drv := driver.FromPool(pool)

	db, err := schema.NewDatabase(widgetsTable())
	require.NoError(t, err)

	h := pgqb.Open(db, drv)
	ctx := context.Background()
	require.NoError(t, h.EnsureSchema(ctx))

	txErr := h.Transaction(ctx, func(ctx context.Context, tx *pgqb.Handle) error {
		_, err := tx.Run(ctx, query.Table("widgets").Insert(query.M{
			{Key: "id", Val: uuid.New()},
			{Key: "name", Val: "doomed"},
			{Key: "count", Val: 1},
			{Key: "active", Val: true},
			{Key: "created_at", Val: time.Now().UTC()},
		}))
		if err != nil {
			return err
		}
		return context.DeadlineExceeded
	})
	require.Error(t, txErr)

	result, err := h.Run(ctx, query.Table("widgets").Where(query.M{{Key: "name", Val: "doomed"}}))
	require.NoError(t, err)
	require.Empty(t, result.Records)
}

// TestMigrationRunner_UpDownStatus drives a full batch lifecycle
// against a real database: applying a batch, reading its status back,
// and reverting it.
func TestMigrationRunner_UpDownStatus(t *testing.T) {
	pool := testutil.Pool(t)
	drv := driver.FromPool(pool)
	ctx := context.Background()

	migrations := []migrate.Migration{
		{
			Name: "001_create_widgets",
			Up: func(ctx context.Context, h *migrate.Helper) error {
				return h.CreateTable(ctx, widgetsTable())
			},
			Down: func(ctx context.Context, h *migrate.Helper) error {
				return h.DropTable(ctx, "widgets", false)
			},
		},
		{
			Name: "002_add_note_column",
			Up: func(ctx context.Context, h *migrate.Helper) error {
				return h.AddColumn(ctx, "widgets", "note", schema.Column{Type: schema.Text{}, Nullable: true})
			},
			Down: func(ctx context.Context, h *migrate.Helper) error {
				return h.DropColumn(ctx, "widgets", "note")
			},
		},
	}

	runner := migrate.NewRunner(drv, migrations...)

	ran, err := runner.Up(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"001_create_widgets", "002_add_note_column"}, ran)

	status, err := runner.Status(ctx)
	require.NoError(t, err)
	for _, s := range status {
		require.True(t, s.Applied, s.Name)
	}

	reverted, err := runner.Down(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"002_add_note_column", "001_create_widgets"}, reverted)

	status, err = runner.Status(ctx)
	require.NoError(t, err)
	for _, s := range status {
		require.False(t, s.Applied, s.Name)
	}
}
