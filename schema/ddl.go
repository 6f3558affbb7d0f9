package schema

import (
	"fmt"
	"strings"
)

// RenderCreateTable emits "CREATE TABLE IF NOT EXISTS" for t: each
// column in declaration order as
// "<name> <type> [PRIMARY KEY] [NOT NULL] [CHECK (...)]", followed by
// an optional DEFAULT literal.
func RenderCreateTable(t *Table) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	var cols []string
	for _, entry := range t.Columns() {
		line, err := renderColumnDDL(entry.Name, entry.Column)
		if err != nil {
			return "", fmt.Errorf("table %q: %w", t.Name, err)
		}
		cols = append(cols, "    "+line)
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", quoteIdent(t.Name), strings.Join(cols, ",\n")), nil
}

func renderColumnDDL(name string, c Column) (string, error) {
	var b strings.Builder
	b.WriteString(quoteIdent(name))
	b.WriteByte(' ')
	b.WriteString(c.Type.sqlType())

	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	} else if !c.Nullable {
		b.WriteString(" NOT NULL")
	}

	if enum, ok := c.Type.(Enum); ok {
		check, err := renderEnumCheck(name, enum)
		if err != nil {
			return "", err
		}
		b.WriteByte(' ')
		b.WriteString(check)
	}

	if c.Default != nil {
		lit, err := literalSQL(c.Default)
		if err != nil {
			return "", err
		}
		b.WriteString(" DEFAULT ")
		b.WriteString(lit)
	}

	return b.String(), nil
}

// renderEnumCheck renders "CHECK (col IN ('a','b',...))" with embedded
// single quotes doubled.
func renderEnumCheck(name string, e Enum) (string, error) {
	if len(e.Values) == 0 {
		return "", fmt.Errorf("%w: column %q", ErrEmptyEnum, name)
	}
	quoted := make([]string, len(e.Values))
	for i, v := range e.Values {
		quoted[i] = quoteLiteral(v)
	}
	return fmt.Sprintf("CHECK (%s IN (%s))", quoteIdent(name), strings.Join(quoted, ", ")), nil
}

// RenderAddColumn emits "ALTER TABLE ... ADD COLUMN ...", reusing the
// same column-definition rendering as CREATE TABLE.
func RenderAddColumn(table, name string, c Column) (string, error) {
	line, err := renderColumnDDL(name, c)
	if err != nil {
		return "", fmt.Errorf("table %q: %w", table, err)
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", quoteIdent(table), line), nil
}

// RenderDropColumn emits "ALTER TABLE ... DROP COLUMN ...".
func RenderDropColumn(table, name string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", quoteIdent(table), quoteIdent(name))
}

// RenderRenameTable emits "ALTER TABLE ... RENAME TO ...".
func RenderRenameTable(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quoteIdent(from), quoteIdent(to))
}

// RenderRenameColumn emits "ALTER TABLE ... RENAME COLUMN ... TO ...".
func RenderRenameColumn(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", quoteIdent(table), quoteIdent(from), quoteIdent(to))
}

// RenderDropTable emits "DROP TABLE IF EXISTS ..." with optional CASCADE.
func RenderDropTable(table string, cascade bool) string {
	stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table))
	if cascade {
		stmt += " CASCADE"
	}
	return stmt
}

// quoteIdent double-quotes a single identifier part, doubling any
// embedded double quotes. Table and column names are opaque - this
// does not split on ".".
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
