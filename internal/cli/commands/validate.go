package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	ModelPath string
	Quiet     bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate model structure, references, and the dependency graph",
		Long: `Validate walks --model-path, checking that every model directory is
laid out correctly, every referenced table resolves to a model or a
declared import, and the resulting dependency graph is acyclic.`,
		Example: `  # Validate a models directory
  sqlplan validate --model-path ./models

  # Only print on failure
  sqlplan validate --model-path ./models --quiet`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ModelPath, "model-path", "", "Path to the models directory (required)")
	cmd.Flags().BoolVar(&opts.Quiet, "quiet", false, "Suppress output when validation succeeds")
	_ = cmd.MarkFlagRequired("model-path")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	errorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	okStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))

	coll, scan, err := buildCollection(opts.ModelPath, dialectFlag(cmd))
	if err != nil {
		return err
	}
	logScanSummary(GetLogger(cmd.Context()), scan, coll)

	out := cmd.OutOrStdout()

	var problems []string
	for _, e := range scan.Errors {
		problems = append(problems, fmt.Sprintf("%s: %v", e.Path, e.Err))
	}
	for _, m := range coll.All() {
		if !m.IsValidStructure {
			for _, msg := range m.StructureErrors {
				problems = append(problems, fmt.Sprintf("%s: %s", m.Name, msg))
			}
		}
	}
	problems = append(problems, coll.ReportMissingImports()...)
	for _, cycle := range coll.DetectCycles() {
		problems = append(problems, fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
	}

	if len(problems) == 0 {
		if !opts.Quiet {
			fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("%d model(s) valid", len(coll.All()))))
		}
		return nil
	}

	fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("%d problem(s) found:", len(problems))))
	for _, p := range problems {
		fmt.Fprintf(out, "  - %s\n", p)
	}
	return fmt.Errorf("validation failed")
}
