package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var migrationNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const migrationTemplate = `package migrations

import (
	"context"

	"github.com/arcflow/pgqb/migrate"
)

// %s was scaffolded by "pgqb migrate make". Fill in Up and Down, then
// register it - see the printed migrate.Register line.
var Migration%s = migrate.Migration{
	Name: %q,
	Up: func(ctx context.Context, h *migrate.Helper) error {
		return nil
	},
	Down: func(ctx context.Context, h *migrate.Helper) error {
		return nil
	},
}
`

// Make scaffolds a new migration file under dir, named
// "<timestamp>_<slug>.go", and returns its path along with the
// migrate.Register(...) line the caller should add to an init
// function once Up/Down are filled in.
func Make(dir, name string) (path, registerLine string, err error) {
	if !migrationNamePattern.MatchString(name) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidMigrationName, name)
	}

	ts := time.Now().UTC().Format("20060102150405")
	slug := slugify(name)
	migrationName := fmt.Sprintf("%s_%s", ts, slug)
	ident := identifier(migrationName)

	fileName := migrationName + ".go"
	path = filepath.Join(dir, fileName)
	contents := fmt.Sprintf(migrationTemplate, migrationName, ident, migrationName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("migrate: creating %s: %w", dir, err)
	}
	if _, err := os.Stat(path); err == nil {
		return "", "", fmt.Errorf("migrate: %s already exists", path)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return "", "", fmt.Errorf("migrate: writing %s: %w", path, err)
	}

	registerLine = fmt.Sprintf("migrate.Register(migrations.Migration%s)", ident)
	return path, registerLine, nil
}

func slugify(name string) string {
	var b strings.Builder
	lastWasUnderscore := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastWasUnderscore = false
		case !lastWasUnderscore:
			b.WriteByte('_')
			lastWasUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// identifier turns "20240102150405_add_users_table" into
// "20240102150405AddUsersTable", a valid exported Go identifier
// suffix.
func identifier(slug string) string {
	parts := strings.Split(slug, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}
