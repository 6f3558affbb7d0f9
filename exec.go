package pgqb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arcflow/pgqb/driver"
	"github.com/arcflow/pgqb/query"
)

// ExecResult is the outcome of running a query.Builder through a
// Handle: the affected row count, and any rows the statement produced
// (a SELECT, or an insert/update/delete with RETURNING), decoded into
// generic records.
type ExecResult struct {
	RowsAffected int64
	Records      []map[string]any
}

// First returns the first record, or nil if the result has none.
func (r *ExecResult) First() map[string]any {
	if len(r.Records) == 0 {
		return nil
	}
	return r.Records[0]
}

// Run applies the handle's soft-delete overlay (if any), renders b,
// and executes it against the underlying driver.
func (h *Handle) Run(ctx context.Context, b *query.Builder) (*ExecResult, error) {
	if h.overlay != nil {
		applied, err := h.overlay.Apply(b)
		if err != nil {
			return nil, &ConfigurationError{Err: err}
		}
		b = applied
	}

	sql, args, err := b.Render()
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	result, err := h.drv.Exec(ctx, sql, args)
	if err != nil {
		return nil, &DriverError{Err: err}
	}
	return scanResult(result)
}

// Count runs b as "SELECT COUNT(*)" over its table, joins, WHERE, and
// soft-delete scope, discarding any projection, GROUP BY, HAVING,
// ORDER BY, LIMIT, and OFFSET (see query.Builder.Count), and coerces
// the single value the driver returns into an int64. Drivers report
// COUNT(*) in whatever native numeric or string form they use for
// aggregates; this accepts int64, other integer widths, and
// strings/[]byte so callers never have to type-assert themselves.
func (h *Handle) Count(ctx context.Context, b *query.Builder) (int64, error) {
	result, err := h.Run(ctx, b.Count())
	if err != nil {
		return 0, err
	}
	row := result.First()
	if row == nil {
		return 0, nil
	}
	for _, v := range row {
		return coerceCount(v)
	}
	return 0, nil
}

func coerceCount(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, &DriverError{Err: fmt.Errorf("parsing count value %q: %w", n, err)}
		}
		return parsed, nil
	case []byte:
		parsed, err := strconv.ParseInt(string(n), 10, 64)
		if err != nil {
			return 0, &DriverError{Err: fmt.Errorf("parsing count value %q: %w", n, err)}
		}
		return parsed, nil
	default:
		return 0, &DriverError{Err: fmt.Errorf("unexpected count value type %T", v)}
	}
}

func scanResult(result driver.Result) (*ExecResult, error) {
	if result.Rows == nil {
		return &ExecResult{}, nil
	}
	defer result.Rows.Close()

	cols := result.Rows.Columns()
	var records []map[string]any
	for result.Rows.Next() {
		values := make([]any, len(cols))
		pointers := make([]any, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := result.Rows.Scan(pointers...); err != nil {
			return nil, &DriverError{Err: fmt.Errorf("scanning row: %w", err)}
		}
		record := make(map[string]any, len(cols))
		for i, c := range cols {
			record[c] = values[i]
		}
		records = append(records, record)
	}
	if err := result.Rows.Err(); err != nil {
		return nil, &DriverError{Err: err}
	}
	return &ExecResult{RowsAffected: result.Rows.RowsAffected(), Records: records}, nil
}
