// Package cli provides the command-line interface for the model build
// planner.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/datastx/featherflow/internal/cli/commands"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlplan",
		Short: "sqlplan - SQL model build planner",
		Long: `sqlplan parses a directory of SQL models plus their paired YAML
metadata, resolves table references into a dependency graph, assigns
each model a build depth, and renders the result as text, dot, JSON,
or YAML.`,
		Version:       fmt.Sprintf("%s (%s, %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
				cmd.Flags().Visit(func(f *pflag.Flag) {
					logger.Debug("flag set", "name", f.Name, "value", f.Value.String())
				})
			}
			cmd.SetContext(commands.WithLogger(cmd.Context(), logger))
		},
	}

	rootCmd.PersistentFlags().String("dialect", "ansi", "SQL dialect: ansi|postgres|duckdb|snowflake|bigquery")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose diagnostic logging to stderr")

	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"ansi", "postgres", "duckdb", "snowflake", "bigquery"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
