package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcflow/pgqb/driver"
)

func TestMemory_RecordsCalls(t *testing.T) {
	m := driver.NewMemory()
	_, err := m.Exec(context.Background(), `SELECT * FROM "users" WHERE "id" = $1`, []any{1})
	require.NoError(t, err)

	require.Len(t, m.Calls, 1)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = $1`, m.Calls[0].SQL)
	assert.Equal(t, []any{1}, m.Calls[0].Args)
}

func TestMemory_EnqueuedResult(t *testing.T) {
	m := driver.NewMemory()
	rows := driver.NewStaticRows([]string{"id", "name"}, [][]any{
		{1, "ada"},
		{2, "grace"},
	})
	m.Enqueue(driver.Result{Rows: rows})

	result, err := m.Exec(context.Background(), `SELECT "id", "name" FROM "users"`, nil)
	require.NoError(t, err)

	var id int
	var name string
	var got []string
	for result.Rows.Next() {
		require.NoError(t, result.Rows.Scan(&id, &name))
		got = append(got, name)
	}
	require.NoError(t, result.Rows.Err())
	assert.Equal(t, []string{"ada", "grace"}, got)
}

func TestMemory_FailNext(t *testing.T) {
	m := driver.NewMemory()
	boom := assert.AnError
	m.FailNext(boom)

	_, err := m.Exec(context.Background(), "SELECT 1", nil)
	require.ErrorIs(t, err, boom)

	// the failure is consumed - the next call succeeds.
	_, err = m.Exec(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
}

func TestMemory_RunTransactionPassesThrough(t *testing.T) {
	m := driver.NewMemory()
	err := m.RunTransaction(context.Background(), func(ctx context.Context, tx driver.Driver) error {
		_, err := tx.Exec(ctx, "INSERT INTO users DEFAULT VALUES", nil)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, m.Calls, 1)
}

func TestMemory_ClosedRejectsExec(t *testing.T) {
	m := driver.NewMemory()
	require.NoError(t, m.Close())

	_, err := m.Exec(context.Background(), "SELECT 1", nil)
	require.Error(t, err)
	assert.True(t, driver.IsClosedErr(err))
}

func TestStaticRows_ScanTypeMismatch(t *testing.T) {
	rows := driver.NewStaticRows([]string{"id"}, [][]any{{"not-an-int"}})
	require.True(t, rows.Next())

	var id chan int
	err := rows.Scan(&id)
	require.Error(t, err)
}
