package schema

import (
	"fmt"
	"sort"
)

// ColumnEntry pairs a column name with its definition. Table stores
// these as an ordered slice rather than a map so that column
// insertion order - which determines DDL column order - survives
// without a separate ordering slice.
type ColumnEntry struct {
	Name   string
	Column Column
}

// Table is an ordered table schema: a table name and its columns in
// declaration order. Use NewTable to build one and Validate to check
// it before handing it to a Database.
type Table struct {
	Name    string
	columns []ColumnEntry
	index   map[string]int
}

// NewTable creates a table with the given name and no columns.
func NewTable(name string) *Table {
	return &Table{Name: name, index: make(map[string]int)}
}

// Column appends a column definition, returning the table for
// chaining. Re-adding an existing column name replaces it in place,
// preserving its original position.
func (t *Table) Column(name string, col Column) *Table {
	if i, ok := t.index[name]; ok {
		t.columns[i].Column = col
		return t
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, ColumnEntry{Name: name, Column: col})
	return t
}

// Columns returns the column entries in declaration order.
func (t *Table) Columns() []ColumnEntry {
	return t.columns
}

// Get returns the column definition for name and whether it exists.
func (t *Table) Get(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i].Column, true
}

// Validate checks the table's invariants: non-empty names,
// primary-key-implies-not-null, representable defaults, enum defaults
// within the allowed set, and scalar-only array items.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: table name is empty", ErrEmptyIdentifier)
	}
	for _, entry := range t.columns {
		if entry.Name == "" {
			return fmt.Errorf("%w: table %q has an empty column name", ErrEmptyIdentifier, t.Name)
		}
		if err := validateColumn(t.Name, entry.Name, entry.Column); err != nil {
			return err
		}
	}
	return nil
}

func validateColumn(table, name string, c Column) error {
	if c.PrimaryKey && c.Nullable {
		return fmt.Errorf("%w: %s.%s", ErrPrimaryKeyNullable, table, name)
	}
	if arr, ok := c.Type.(Array); ok {
		if !scalarType(arr.Item) {
			return fmt.Errorf("%w: %s.%s array item type must be a scalar", ErrUnsupportedType, table, name)
		}
	}
	if enum, ok := c.Type.(Enum); ok {
		if len(enum.Values) == 0 {
			return fmt.Errorf("%w: %s.%s", ErrEmptyEnum, table, name)
		}
	}
	if c.Default != nil {
		if _, err := literalSQL(c.Default); err != nil {
			return fmt.Errorf("%s.%s: %w", table, name, err)
		}
		if enum, ok := c.Type.(Enum); ok {
			if err := validateEnumDefault(table, name, enum, c.Default); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateEnumDefault(table, name string, enum Enum, def any) error {
	s, ok := def.(string)
	if !ok {
		return fmt.Errorf("%w: %s.%s default must be a string", ErrInvalidEnumDefault, table, name)
	}
	for _, v := range enum.Values {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s.%s default %q is not in %v", ErrInvalidEnumDefault, table, name, s, enum.Values)
}

// Database is an immutable mapping from table name to table schema,
// built once at startup and shared for the life of a Handle.
type Database struct {
	tables map[string]*Table
}

// NewDatabase builds a Database from the given tables, validating each
// one. The returned error, if any, names the first invalid table.
func NewDatabase(tables ...*Table) (*Database, error) {
	db := &Database{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		db.tables[t.Name] = t
	}
	return db, nil
}

// Table returns the named table schema and whether it exists.
func (d *Database) Table(name string) (*Table, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// Tables returns every table in the database, sorted by name for a
// deterministic iteration order - the map underneath has none.
func (d *Database) Tables() []*Table {
	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Table, len(names))
	for i, name := range names {
		out[i] = d.tables[name]
	}
	return out
}
