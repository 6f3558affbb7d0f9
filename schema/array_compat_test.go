package schema_test

import (
	"database/sql/driver"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/arcflow/pgqb/schema"
)

// TestArray_CompatibleWithDatabaseSQLDrivers confirms that a Go slice
// destined for a schema.Array column round-trips through pq.Array the
// same way it would through pgx's native slice handling, so callers
// who reach this table through database/sql (rather than the pgx pool
// this module's own driver wraps) get the same wire representation.
func TestArray_CompatibleWithDatabaseSQLDrivers(t *testing.T) {
	_ = schema.Array{Item: schema.Text{}}

	values := []string{"alpha", "beta", "gamma"}
	raw, err := pq.Array(values).(driver.Valuer).Value()
	require.NoError(t, err)
	require.Equal(t, `{"alpha","beta","gamma"}`, raw)

	var scanned []string
	require.NoError(t, pq.Array(&scanned).Scan([]byte(`{"alpha","beta","gamma"}`)))
	require.Equal(t, values, scanned)
}

func TestArray_IntCompat(t *testing.T) {
	ids := schema.Array{Item: schema.Int{}}
	_ = ids

	values := []int64{1, 2, 3}
	raw, err := pq.Array(values).(driver.Valuer).Value()
	require.NoError(t, err)
	require.Equal(t, `{1,2,3}`, raw)
}
