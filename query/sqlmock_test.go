package query_test

import (
	"database/sql/driver"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/arcflow/pgqb/query"
)

func driverValues(args []any) []driver.Value {
	vals := make([]driver.Value, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return vals
}

// TestRender_ExecutesAgainstSQLMock confirms the SQL and args Render
// produces are exactly what a database/sql driver would be asked to
// run - sqlmock fails the test itself if the expectation doesn't
// match, so this catches placeholder or argument-ordering mistakes
// that a string-equality assertion alone could still miss if two bugs
// happened to cancel out.
func TestRender_ExecutesAgainstSQLMock(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	sql, args, err := query.Table("users").
		Where(query.M{{Key: "org_id", Val: 7}, {Key: "age", Val: query.Gte(18)}}).
		Select("id", "email").
		Render()
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "email"}).
		AddRow(1, "a@example.com").
		AddRow(2, "b@example.com")
	mock.ExpectQuery(`SELECT "id", "email" FROM "users" WHERE "org_id" = \$1 AND "age" >= \$2`).
		WithArgs(driverValues(args)...).
		WillReturnRows(rows)

	got, err := db.Query(sql, args...)
	require.NoError(t, err)
	defer got.Close()

	var count int
	for got.Next() {
		count++
	}
	require.NoError(t, got.Err())
	require.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestRender_InsertExecAgainstSQLMock exercises the exec (not query)
// path, mirroring how a caller using database/sql rather than pgx
// would run an INSERT produced by the builder.
func TestRender_InsertExecAgainstSQLMock(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	sql, args, err := query.Table("users").Insert(query.M{
		{Key: "email", Val: "new@example.com"},
		{Key: "age", Val: 21},
	}).Render()
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "users"`).
		WithArgs(driverValues(args)...).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result, err := db.Exec(sql, args...)
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}
