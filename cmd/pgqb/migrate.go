package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arcflow/pgqb/driver"
	"github.com/arcflow/pgqb/internal/cli"
	"github.com/arcflow/pgqb/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Scaffold, apply, and inspect migrations",
}

var (
	migrateDB  string
	migrateDir string
)

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrateDB, "db", "", "database URL")
	migrateCmd.AddCommand(migrateMakeCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateMakeCmd.Flags().StringVar(&migrateDir, "dir", "", "directory to scaffold the migration file in")
}

var migrateMakeCmd = &cobra.Command{
	Use:   "make <name>",
	Short: "Scaffold a new migration file",
	Example: `  # Scaffold a migration named add_users_table
  pgqb migrate make add_users_table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.ResolvedMigrateDir(migrateDir)

		path, registerLine, err := migrate.Make(dir, args[0])
		if err != nil {
			return cli.MigrationError("scaffolding migration", err)
		}

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Add this to an init() once Up/Down are filled in:\n\n  %s\n", registerLine)
		}
		return nil
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		drv, err := openDriver(migrateDB)
		if err != nil {
			return err
		}
		defer func() { _ = drv.Close() }()

		ran, err := migrate.NewRunner(drv).Up(cmd.Context())
		if err != nil {
			return cli.MigrationError("applying migrations", err)
		}

		if quiet {
			return nil
		}
		if len(ran) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No pending migrations.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s):\n", len(ran))
		for _, name := range ran {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recently applied batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		drv, err := openDriver(migrateDB)
		if err != nil {
			return err
		}
		defer func() { _ = drv.Close() }()

		reverted, err := migrate.NewRunner(drv).Down(cmd.Context())
		if err != nil {
			return cli.MigrationError("reverting migrations", err)
		}

		if quiet {
			return nil
		}
		if len(reverted) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to revert.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reverted %d migration(s):\n", len(reverted))
		for _, name := range reverted {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		drv, err := openDriver(migrateDB)
		if err != nil {
			return err
		}
		defer func() { _ = drv.Close() }()

		entries, err := migrate.NewRunner(drv).Status(cmd.Context())
		if err != nil {
			return cli.MigrationError("reading migration status", err)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No migrations registered.")
			return nil
		}

		pending := 0
		for _, e := range entries {
			status := "applied"
			if !e.Applied {
				status = "pending"
				pending++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s\n", status, e.Name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s migration(s), %s pending\n",
			humanize.Comma(int64(len(entries))), humanize.Comma(int64(pending)))
		return nil
	},
}

// openDriver resolves the connection DSN from flag or config and
// opens a Postgres driver against it. With -v set, every statement is
// logged through driver.Logging at debug level.
func openDriver(flagDSN string) (driver.Driver, error) {
	dsn, err := resolveDSN(flagDSN)
	if err != nil {
		return nil, err
	}

	drv, err := driver.Open(context.Background(), dsn)
	if err != nil {
		return nil, cli.DBConnectError("connecting to database", err)
	}

	if verbose > 0 {
		level := slog.LevelDebug
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return driver.NewLogging(drv, driver.NewSlogLogger(logger)), nil
	}
	return drv, nil
}

// resolveDSN gets the database DSN from flag or config.
func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return "", cli.ConfigError("database configuration", err)
	}
	if dsn == "" {
		return "", cli.ConfigError("database URL is required (use --db or set in config)", nil)
	}
	return dsn, nil
}
