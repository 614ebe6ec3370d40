// Package cli implements the Echo command-line interface using Cobra.
// Each subcommand maps to an engine capability (serve, status, seasons, ...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "echo",
	Short: "Echo — habit streaks and reward milestones",
	Long: `Echo tracks daily habit streaks and grants milestone rewards.

It records presence, kindness, and response activity per user, maintains
streak counters with a limited grace allowance, and pays credits into an
idempotent reward ledger.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
