// Package schema provides runtime value objects describing PostgreSQL
// table shapes, plus a renderer that turns those value objects into DDL.
//
// There is no code generation and no declarative schema file: callers
// build a schema.Database by hand (or load it from whatever config
// format they prefer) and hand it to pgqb.Open. The package is pure
// data and string rendering - it never touches a connection.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type describes the PostgreSQL type a column is rendered as. It is a
// closed set of cases implemented in this file; callers are not
// expected to add their own implementations.
//
//	Int       -> INTEGER
//	Text      -> TEXT
//	Bool      -> BOOLEAN
//	Timestamp -> TIMESTAMP
//	UUID      -> UUID
//	JSON      -> JSONB
//	Enum      -> TEXT + CHECK (col IN (...))
//	Array     -> <item>[]
type Type interface {
	// sqlType returns the PostgreSQL type name used in column DDL.
	// Enum's CHECK clause is rendered by the caller (renderEnumCheck)
	// since it needs the column name; Array's restriction to scalar
	// item types is enforced by Table.Validate.
	sqlType() string
	isColumnType()
}

// Int maps to PostgreSQL INTEGER.
type Int struct{}

// Text maps to PostgreSQL TEXT.
type Text struct{}

// Bool maps to PostgreSQL BOOLEAN.
type Bool struct{}

// Timestamp maps to PostgreSQL TIMESTAMP.
type Timestamp struct{}

// UUID maps to PostgreSQL UUID.
type UUID struct{}

// JSON maps to PostgreSQL JSONB. Payload is an informational label for
// the shape stored (e.g. "map[string]any"); it has no effect on
// rendering.
type JSON struct {
	Payload string
}

// Enum maps to TEXT with a CHECK (col IN (...)) constraint. Values is
// the ordered set of allowed strings and must be non-empty.
type Enum struct {
	Values []string
}

// Array maps to "<item>[]". Item must be one of the scalar cases
// above (Int, Text, Bool, Timestamp, UUID) - nested arrays and
// JSON/Enum items are a configuration error, caught by Table.Validate.
type Array struct {
	Item Type
}

func (Int) sqlType() string       { return "INTEGER" }
func (Text) sqlType() string      { return "TEXT" }
func (Bool) sqlType() string      { return "BOOLEAN" }
func (Timestamp) sqlType() string { return "TIMESTAMP" }
func (UUID) sqlType() string      { return "UUID" }
func (JSON) sqlType() string      { return "JSONB" }
func (Enum) sqlType() string      { return "TEXT" }
func (a Array) sqlType() string   { return a.Item.sqlType() + "[]" }

func (Int) isColumnType()       {}
func (Text) isColumnType()      {}
func (Bool) isColumnType()      {}
func (Timestamp) isColumnType() {}
func (UUID) isColumnType()      {}
func (JSON) isColumnType()      {}
func (Enum) isColumnType()      {}
func (Array) isColumnType()     {}

// scalarType reports whether t is one of the primitive scalar cases
// allowed as an Array item type.
func scalarType(t Type) bool {
	switch t.(type) {
	case Int, Text, Bool, Timestamp, UUID:
		return true
	default:
		return false
	}
}

// Column is a single column definition: its type plus attributes. A
// primary key implies NOT NULL; Table.Validate rejects a column marked
// both PrimaryKey and Nullable.
type Column struct {
	Type       Type
	Nullable   bool
	PrimaryKey bool
	// Default holds a literal default value. Supported Go types are
	// string, the numeric kinds, bool, and time.Time - anything else
	// is rejected by Validate. A nil Default means no DEFAULT clause.
	Default any
}

// literalSQL renders v as a SQL literal: numeric values directly,
// booleans as TRUE/FALSE, strings single-quoted with embedded quotes
// doubled, timestamps ISO-8601 single-quoted.
func literalSQL(v any) (string, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case string:
		return quoteLiteral(x), nil
	case time.Time:
		return quoteLiteral(x.UTC().Format(time.RFC3339Nano)), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x), nil
	case float32, float64:
		return strconv.FormatFloat(toFloat64(x), 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: default value of type %T is not representable as a literal", ErrUnsupportedDefault, v)
	}
}

func toFloat64(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

// quoteLiteral single-quotes s, doubling any embedded single quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
