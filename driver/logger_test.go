package driver_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcflow/pgqb/driver"
)

type recordingLogger struct {
	sql    string
	params []any
	called bool
}

func (r *recordingLogger) Log(sql string, params []any, elapsed time.Duration) {
	r.called = true
	r.sql = sql
	r.params = params
}

func TestLogging_PassesThroughExec(t *testing.T) {
	mem := driver.NewMemory()
	mem.Enqueue(driver.Result{Rows: driver.NewStaticRows([]string{"id"}, [][]any{{1}})})

	rec := &recordingLogger{}
	logged := driver.NewLogging(mem, rec)

	result, err := logged.Exec(context.Background(), `SELECT "id" FROM "widgets"`, []any{})
	require.NoError(t, err)
	require.NotNil(t, result.Rows)

	require.Len(t, mem.Calls, 1)
	assert.Equal(t, `SELECT "id" FROM "widgets"`, mem.Calls[0].SQL)
}

func TestLogging_PassesRealParamsToLogger(t *testing.T) {
	mem := driver.NewMemory()
	mem.Enqueue(driver.Result{Rows: driver.NewStaticRows(nil, nil)})

	rec := &recordingLogger{}
	logged := driver.NewLogging(mem, rec)

	_, err := logged.Exec(context.Background(), `SELECT * FROM "widgets" WHERE "id" = $1`, []any{42})
	require.NoError(t, err)

	require.True(t, rec.called)
	assert.Equal(t, `SELECT * FROM "widgets" WHERE "id" = $1`, rec.sql)
	assert.Equal(t, []any{42}, rec.params, "Logger must receive the actual parameter values, not just a count")
}

func TestLogging_PropagatesExecError(t *testing.T) {
	mem := driver.NewMemory()
	mem.FailNext(errors.New("boom"))

	rec := &recordingLogger{}
	logged := driver.NewLogging(mem, rec)

	_, err := logged.Exec(context.Background(), `SELECT 1`, nil)
	assert.EqualError(t, err, "boom")
	assert.True(t, rec.called, "Logger must be invoked even when Exec fails")
}

func TestLogging_WrapsTransactionDriver(t *testing.T) {
	mem := driver.NewMemory()
	logged := driver.NewLogging(mem, &recordingLogger{})

	err := logged.RunTransaction(context.Background(), func(ctx context.Context, tx driver.Driver) error {
		_, ok := tx.(*driver.Logging)
		assert.True(t, ok, "nested driver inside RunTransaction should still be wrapped in Logging")
		_, err := tx.Exec(ctx, `INSERT INTO widgets DEFAULT VALUES`, nil)
		return err
	})
	require.NoError(t, err)
	require.Len(t, mem.Calls, 1)
}

func TestLogging_NilLoggerUsesDefault(t *testing.T) {
	mem := driver.NewMemory()
	logged := driver.NewLogging(mem, nil)

	_, err := logged.Exec(context.Background(), `SELECT 1`, nil)
	require.NoError(t, err)
}

func TestLoggerFunc_AdaptsPlainFunction(t *testing.T) {
	var got []any
	fn := driver.LoggerFunc(func(sql string, params []any, elapsed time.Duration) {
		got = params
	})
	fn.Log("SELECT 1", []any{1, "a"}, time.Millisecond)
	assert.Equal(t, []any{1, "a"}, got)
}
