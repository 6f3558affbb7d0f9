// Package doctor provides health checks for a pgqb-managed database:
// connectivity, whether the configured schema's tables actually exist
// in PostgreSQL, and whether the migration tracking table agrees with
// the migrations compiled into the binary.
//
// Example usage:
//
//	d := doctor.New(drv, db, migrate.Registered())
//	report, err := d.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Print(os.Stdout, true) // verbose=true
package doctor

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arcflow/pgqb/driver"
	"github.com/arcflow/pgqb/migrate"
	"github.com/arcflow/pgqb/schema"
)

// Status represents the result of a health check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical issue that will cause failures.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// CheckResult represents the outcome of a single health check.
type CheckResult struct {
	// Category groups related checks (e.g., "Database", "Schema",
	// "Migrations").
	Category string

	// Name is a short identifier for the check.
	Name string

	// Status is the check outcome.
	Status Status

	// Message is a human-readable description of the result.
	Message string

	// Details provides additional information for verbose output.
	Details string

	// FixHint suggests how to resolve issues.
	FixHint string
}

// Report contains all health check results.
type Report struct {
	Checks []CheckResult

	// Summary counts.
	Passed   int
	Warnings int
	Errors   int
}

// AddCheck adds a check result and updates summary counts.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	}
}

// Print writes the report to the given writer.
func (r *Report) Print(w io.Writer, verbose bool) {
	// Group checks by category
	categories := make(map[string][]CheckResult)
	var categoryOrder []string
	for _, check := range r.Checks {
		if _, exists := categories[check.Category]; !exists {
			categoryOrder = append(categoryOrder, check.Category)
		}
		categories[check.Category] = append(categories[check.Category], check)
	}

	// Print each category
	for _, cat := range categoryOrder {
		_, _ = fmt.Fprintf(w, "\n%s\n", cat)
		for _, check := range categories[cat] {
			_, _ = fmt.Fprintf(w, "  %s %s\n", check.Status.Symbol(), check.Message)
			if verbose && check.Details != "" {
				// Indent details
				for _, line := range strings.Split(check.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
			if check.Status != StatusPass && check.FixHint != "" {
				_, _ = fmt.Fprintf(w, "      Fix: %s\n", check.FixHint)
			}
		}
	}

	// Print summary
	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n",
		r.Passed, r.Warnings, r.Errors)
}

// HasErrors returns true if any check failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// Doctor performs health checks against a pgqb-managed database: it
// verifies the driver can reach PostgreSQL, that every table in db
// actually exists with the expected columns, and that the migrations
// compiled into the binary agree with the tracking table.
type Doctor struct {
	drv        driver.Driver
	db         *schema.Database
	migrations []migrate.Migration
}

// New creates a Doctor. migrations is typically migrate.Registered()
// or the explicit list an application passes to migrate.NewRunner.
func New(drv driver.Driver, db *schema.Database, migrations []migrate.Migration) *Doctor {
	return &Doctor{drv: drv, db: db, migrations: migrations}
}

// Run executes all health checks and returns a report.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	d.checkConnectivity(ctx, report)
	if err := d.checkSchemaTables(ctx, report); err != nil {
		return nil, fmt.Errorf("checking schema tables: %w", err)
	}
	if err := d.checkMigrationState(ctx, report); err != nil {
		return nil, fmt.Errorf("checking migration state: %w", err)
	}

	return report, nil
}

// checkConnectivity verifies the driver can round-trip a trivial
// statement.
func (d *Doctor) checkConnectivity(ctx context.Context, report *Report) {
	_, err := d.drv.Exec(ctx, "SELECT 1", nil)
	if err != nil {
		report.AddCheck(CheckResult{
			Category: "Database",
			Name:     "connectivity",
			Status:   StatusFail,
			Message:  "Could not reach the database",
			Details:  err.Error(),
			FixHint:  "Check database.url / database.host in your pgqb config",
		})
		return
	}
	report.AddCheck(CheckResult{
		Category: "Database",
		Name:     "connectivity",
		Status:   StatusPass,
		Message:  "Connected to the database",
	})
}

// checkSchemaTables verifies that every table in d.db exists in
// information_schema with its expected columns.
func (d *Doctor) checkSchemaTables(ctx context.Context, report *Report) error {
	if d.db == nil {
		return nil
	}

	for _, t := range d.db.Tables() {
		existingCols, err := d.tableColumns(ctx, t.Name)
		if err != nil {
			return fmt.Errorf("reading columns for %q: %w", t.Name, err)
		}

		if len(existingCols) == 0 {
			report.AddCheck(CheckResult{
				Category: "Schema",
				Name:     "table:" + t.Name,
				Status:   StatusFail,
				Message:  fmt.Sprintf("Table %q does not exist", t.Name),
				FixHint:  "Run 'pgqb migrate up', or Handle.EnsureSchema for a throwaway environment",
			})
			continue
		}

		existing := make(map[string]bool, len(existingCols))
		for _, c := range existingCols {
			existing[c] = true
		}

		var missing []string
		for _, entry := range t.Columns() {
			if !existing[entry.Name] {
				missing = append(missing, entry.Name)
			}
		}

		if len(missing) > 0 {
			sort.Strings(missing)
			report.AddCheck(CheckResult{
				Category: "Schema",
				Name:     "table:" + t.Name,
				Status:   StatusFail,
				Message:  fmt.Sprintf("Table %q is missing columns: %s", t.Name, strings.Join(missing, ", ")),
				FixHint:  "Run a migration that adds the missing columns",
			})
			continue
		}

		report.AddCheck(CheckResult{
			Category: "Schema",
			Name:     "table:" + t.Name,
			Status:   StatusPass,
			Message:  fmt.Sprintf("Table %q matches its schema (%d columns)", t.Name, len(t.Columns())),
		})
	}

	return nil
}

func (d *Doctor) tableColumns(ctx context.Context, table string) ([]string, error) {
	result, err := d.drv.Exec(ctx, `
		SELECT column_name FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
	`, []any{table})
	if err != nil {
		return nil, err
	}
	if result.Rows == nil {
		return nil, nil
	}
	defer result.Rows.Close()

	var cols []string
	for result.Rows.Next() {
		var name string
		if err := result.Rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, result.Rows.Err()
}

// checkMigrationState validates the migration tracking table and
// reports pending migrations.
func (d *Doctor) checkMigrationState(ctx context.Context, report *Report) error {
	exists, err := d.tableExists(ctx, "pgqb_migrations")
	if err != nil {
		return fmt.Errorf("checking pgqb_migrations table: %w", err)
	}

	if !exists {
		report.AddCheck(CheckResult{
			Category: "Migrations",
			Name:     "table_exists",
			Status:   StatusWarn,
			Message:  "pgqb_migrations table does not exist",
			FixHint:  "Run 'pgqb migrate up' to create it and apply migrations",
		})
		return nil
	}

	report.AddCheck(CheckResult{
		Category: "Migrations",
		Name:     "table_exists",
		Status:   StatusPass,
		Message:  "pgqb_migrations table exists",
	})

	if len(d.migrations) == 0 {
		return nil
	}

	runner := migrate.NewRunner(d.drv, d.migrations...)
	entries, err := runner.Status(ctx)
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}

	var pending []string
	for _, e := range entries {
		if !e.Applied {
			pending = append(pending, e.Name)
		}
	}

	if len(pending) > 0 {
		report.AddCheck(CheckResult{
			Category: "Migrations",
			Name:     "pending",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d migration(s) not yet applied", len(pending)),
			Details:  strings.Join(pending, "\n"),
			FixHint:  "Run 'pgqb migrate up'",
		})
	} else {
		report.AddCheck(CheckResult{
			Category: "Migrations",
			Name:     "pending",
			Status:   StatusPass,
			Message:  fmt.Sprintf("All %d known migrations are applied", len(entries)),
		})
	}

	return nil
}

func (d *Doctor) tableExists(ctx context.Context, name string) (bool, error) {
	result, err := d.drv.Exec(ctx, `
		SELECT 1 FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relname = $1 AND n.nspname = current_schema()
	`, []any{name})
	if err != nil {
		return false, err
	}
	if result.Rows == nil {
		return false, nil
	}
	defer result.Rows.Close()
	return result.Rows.Next(), result.Rows.Err()
}
