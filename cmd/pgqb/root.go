package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arcflow/pgqb/internal/cli"
)

var (
	// Global state set during PersistentPreRunE.
	cfg        *cli.Config
	configPath string

	// Persistent flags.
	cfgFile string
	verbose int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "pgqb",
	Short: "PostgreSQL query builder and migration engine",
	Long: `pgqb - PostgreSQL query builder and migration engine

pgqb builds parameterized SQL from a composable query API, applies a
soft-delete overlay transparently, and tracks schema migrations in a
Postgres database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" || cmd.Name() == "license" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

const (
	groupMigrate = "migrate"
	groupUtility = "utility"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover pgqb.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupMigrate, Title: "Migrate:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	migrateCmd.GroupID = groupMigrate
	doctorCmd.GroupID = groupMigrate
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(doctorCmd)

	configCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	licenseCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(licenseCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// stdoutIsTerminal reports whether stdout is an interactive terminal.
// doctor output falls back to plain ASCII status markers when it
// isn't, since piped/redirected output (CI logs, log aggregators)
// often mangles the unicode check/warn/fail glyphs.
func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
