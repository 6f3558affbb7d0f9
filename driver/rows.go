package driver

import (
	"fmt"
	"reflect"
)

// StaticRows is a Rows implementation backed by an in-memory table,
// for tests that need Memory.Enqueue to return canned data without a
// real connection.
type StaticRows struct {
	cols []string
	data [][]any
	idx  int
}

// NewStaticRows builds a StaticRows over cols and data; each entry of
// data is one row, matching cols in length and order.
func NewStaticRows(cols []string, data [][]any) *StaticRows {
	return &StaticRows{cols: cols, data: data, idx: -1}
}

func (r *StaticRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *StaticRows) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.data) {
		return fmt.Errorf("driver: Scan called out of range")
	}
	row := r.data[r.idx]
	if len(dest) != len(row) {
		return fmt.Errorf("driver: Scan expected %d destinations, got %d", len(row), len(dest))
	}
	for i, v := range row {
		if err := assign(dest[i], v); err != nil {
			return fmt.Errorf("driver: column %q: %w", r.cols[i], err)
		}
	}
	return nil
}

func (r *StaticRows) Columns() []string   { return r.cols }
func (r *StaticRows) Err() error          { return nil }
func (r *StaticRows) Close()              {}
func (r *StaticRows) RowsAffected() int64 { return int64(len(r.data)) }

func assign(dest, v any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan destination must be a non-nil pointer, got %T", dest)
	}
	elem := rv.Elem()
	if v == nil {
		elem.Set(reflect.Zero(elem.Type()))
		return nil
	}
	val := reflect.ValueOf(v)
	switch {
	case val.Type().AssignableTo(elem.Type()):
		elem.Set(val)
	case val.Type().ConvertibleTo(elem.Type()):
		elem.Set(val.Convert(elem.Type()))
	default:
		return fmt.Errorf("cannot scan %T into %s", v, elem.Type())
	}
	return nil
}
