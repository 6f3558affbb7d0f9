package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcflow/pgqb/internal/cli"
	"github.com/arcflow/pgqb/internal/doctor"
	"github.com/arcflow/pgqb/migrate"
)

var (
	doctorDB      string
	doctorVerbose bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks against a database",
	Example: `  # Run health checks
  pgqb doctor --db postgres://localhost/mydb

  # Run with verbose output
  pgqb doctor --db postgres://localhost/mydb --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verboseFlag := doctorVerbose || cfg.Doctor.Verbose

		drv, err := openDriver(doctorDB)
		if err != nil {
			return err
		}
		defer func() { _ = drv.Close() }()

		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "pgqb doctor - Health Check")
		}

		// The CLI has no schema of its own - applications declare their
		// tables in code, so the schema check only runs when this
		// binary is built into a thin wrapper that passes one in.
		d := doctor.New(drv, nil, migrate.Registered())
		report, err := d.Run(cmd.Context())
		if err != nil {
			return cli.GeneralError("running doctor", err)
		}

		printReport(cmd.OutOrStdout(), report, verboseFlag)

		if report.HasErrors() {
			return cli.GeneralError("health checks failed", nil)
		}
		return nil
	},
}

func init() {
	f := doctorCmd.Flags()
	f.StringVar(&doctorDB, "db", "", "database URL")
	f.BoolVar(&doctorVerbose, "verbose", false, "show detailed output")
}

var asciiReplacer = strings.NewReplacer("✓", "OK", "⚠", "WARN", "✗", "FAIL", "?", "UNK")

// printReport writes the report, swapping the unicode status glyphs
// for ASCII when stdout isn't a terminal.
func printReport(w io.Writer, report *doctor.Report, verbose bool) {
	if stdoutIsTerminal() {
		report.Print(w, verbose)
		return
	}

	var buf bytes.Buffer
	report.Print(&buf, verbose)
	_, _ = w.Write([]byte(asciiReplacer.Replace(buf.String())))
}
