package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/datastx/featherflow/internal/collection"
	"github.com/datastx/featherflow/internal/loader"
	"github.com/datastx/featherflow/pkg/core"
)

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// WithLogger stores logger in ctx for the command implementations.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
// Returns a discard logger if none was stored.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// buildCollection scans modelPath for SQL models, loads the declared
// imports catalog, and resolves the dependency graph. Per-file load
// errors are returned alongside a non-nil collection so callers can
// report both instead of aborting on the first bad file. The returned
// loader.ScanResult carries the FilesScanned/ModelsLoaded/Duration
// summary the logger reports after a scan.
func buildCollection(modelPath, dialectName string) (*collection.Collection, loader.ScanResult, error) {
	dialect := core.NewDialect(dialectName)

	scan := loader.ScanDir(modelPath, dialect)

	coll := collection.New()
	for _, m := range scan.Models {
		coll.Add(m)
	}

	if err := coll.LoadImports(modelPath); err != nil {
		return coll, scan, fmt.Errorf("loading imports: %w", err)
	}

	coll.BuildGraph()

	return coll, scan, nil
}

// logScanSummary reports the per-run scan summary and any per-file load
// errors. The logger discards everything unless --verbose was given.
func logScanSummary(logger *slog.Logger, scan loader.ScanResult, coll *collection.Collection) {
	logger.Info("scan completed",
		"files_scanned", scan.FilesScanned,
		"models_loaded", scan.ModelsLoaded,
		"duration", scan.Duration,
	)
	logger.Info("graph built",
		"models", coll.Len(),
		"edges", coll.EdgeCount(),
	)
	for _, e := range scan.Errors {
		logger.Warn("model skipped", "path", e.Path, "error", e.Err)
	}
	for _, w := range coll.ImportWarnings() {
		logger.Warn("imports", "warning", w)
	}
}

func dialectFlag(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("dialect")
	if v == "" {
		return "ansi"
	}
	return v
}
