package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datastx/featherflow/internal/render"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	ModelPath  string
	Format     string
	OutputFile string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a directory of SQL models and emit the dependency graph",
		Long: `Parse walks --model-path for SQL models paired with YAML metadata,
resolves every reference into a dependency graph, assigns each model a
build depth, and writes the result in the requested format.`,
		Example: `  # Print a human-readable report
  sqlplan parse --model-path ./models

  # Emit the graph as JSON to a file
  sqlplan parse --model-path ./models --format json --output-file graph.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParse(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ModelPath, "model-path", "", "Path to the models directory (required)")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text|dot|json|yaml")
	cmd.Flags().StringVar(&opts.OutputFile, "output-file", "", "Write output to this file instead of stdout")
	_ = cmd.MarkFlagRequired("model-path")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "dot", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runParse(cmd *cobra.Command, opts *ParseOptions) error {
	coll, scan, err := buildCollection(opts.ModelPath, dialectFlag(cmd))
	if err != nil {
		return err
	}
	logScanSummary(GetLogger(cmd.Context()), scan, coll)

	out := cmd.OutOrStdout()
	if opts.OutputFile != "" {
		f, err := os.Create(opts.OutputFile)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch opts.Format {
	case "text":
		render.Text(out, coll)
	case "dot":
		render.DOT(out, coll)
	case "json":
		if err := render.JSON(out, coll); err != nil {
			return fmt.Errorf("rendering json: %w", err)
		}
	case "yaml":
		if err := render.YAML(out, coll); err != nil {
			return fmt.Errorf("rendering yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}

	if len(scan.Errors) > 0 {
		return fmt.Errorf("%d file(s) failed to load", len(scan.Errors))
	}
	if coll.HasMissingSources() {
		return fmt.Errorf("unresolved external references detected")
	}
	if len(coll.DetectCycles()) > 0 {
		return fmt.Errorf("cycle detected in model graph")
	}
	return nil
}
