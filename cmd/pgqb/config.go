package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configShowSource bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  `Show the effective configuration after merging defaults, config file, and environment variables.`,
	Example: `  # Show effective configuration
  pgqb config show

  # Show configuration with source file path
  pgqb config show --source`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if configShowSource {
			if configPath != "" {
				fmt.Fprintf(out, "Config file: %s\n\n", configPath)
			} else {
				fmt.Fprintln(out, "Config file: (none, using defaults)")
				fmt.Fprintln(out)
			}
		}

		fmt.Fprintf(out, "database:\n")
		fmt.Fprintf(out, "  url: %q\n", cfg.Database.URL)
		fmt.Fprintf(out, "  host: %q\n", cfg.Database.Host)
		fmt.Fprintf(out, "  port: %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  name: %q\n", cfg.Database.Name)
		fmt.Fprintf(out, "  user: %q\n", cfg.Database.User)
		fmt.Fprintf(out, "  sslmode: %q\n", cfg.Database.SSLMode)
		fmt.Fprintf(out, "migrate:\n")
		fmt.Fprintf(out, "  dir: %q\n", cfg.Migrate.Dir)
		fmt.Fprintf(out, "doctor:\n")
		fmt.Fprintf(out, "  verbose: %t\n", cfg.Doctor.Verbose)
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowSource, "source", false, "show config file source")
	configCmd.AddCommand(configShowCmd)
}
