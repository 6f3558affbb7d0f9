package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcflow/pgqb/internal/update"
	"github.com/arcflow/pgqb/internal/version"
)

var versionCheckUpdate bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info())

		if !versionCheckUpdate {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		info, err := update.CheckWithCache(ctx)
		if err != nil || info == nil || !info.UpdateAvailable {
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nA newer version is available: %s (you have %s)\n",
			info.LatestVersion, info.CurrentVersion)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheckUpdate, "check-update", false, "check GitHub for a newer release")
}
