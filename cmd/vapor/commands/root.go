package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xiaket/vapor/pkg/telemetry"
)

var (
	// Global flags
	logLevel string
	verbose  bool
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit string) error {
	rootCmd := newRootCommand(version, commit)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vapor",
		Short: "vapor - declarative CloudFormation stacks as code",
		Long: `Vapor models CloudFormation stacks as typed, reusable definitions
and reconciles them against the live stack through changesets.

Stacks are defined in Go using the pkg/model and pkg/fn packages and
deployed with pkg/engine. This CLI carries the supporting workflow:

  - import an existing template into Go definitions
  - lint a rendered template against OPA policies
  - inspect the local deployment history`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "shorthand for --log-level debug")

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// newLogger builds the logger handle the subcommands pass down.
func newLogger() (zerolog.Logger, error) {
	level := logLevel
	if verbose {
		level = "debug"
	}
	return telemetry.NewLogger(telemetry.LoggingConfig{
		Level:  level,
		Format: "console",
		Output: "stderr",
	})
}
