package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/datastx/featherflow/pkg/core"
)

// ScanError records a non-fatal failure to load one candidate file during
// a directory walk: reported and skipped, never fatal to the overall run.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

// ScanResult holds everything a directory walk produced, plus a small
// run summary (FilesScanned/ModelsLoaded/Duration) in the shape of
// internal/engine/discovery.go's DiscoveryResult, for a --verbose CLI
// run to report.
type ScanResult struct {
	Models       []*core.Model
	Errors       []ScanError
	FilesScanned int
	ModelsLoaded int
	Duration     time.Duration
}

// ScanDir walks root looking for `.sql` files and loads each one. The
// imports/ subtree is skipped here — Collection.LoadImports reads it
// separately via its own YAML-only walk.
func ScanDir(root string, dialect *core.Dialect) ScanResult {
	var result ScanResult
	start := time.Now()

	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, ScanError{Path: path, Err: err})
			return nil
		}
		if info.IsDir() {
			if info.Name() == "imports" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") || !strings.HasSuffix(info.Name(), ".sql") {
			return nil
		}

		result.FilesScanned++
		m, loadErr := Load(path, root, dialect)
		if loadErr != nil {
			result.Errors = append(result.Errors, ScanError{Path: path, Err: loadErr})
			return nil
		}
		ExtractDependencies(m)
		result.Models = append(result.Models, m)
		result.ModelsLoaded++
		return nil
	})

	result.Duration = time.Since(start)
	return result
}
