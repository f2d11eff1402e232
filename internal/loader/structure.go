package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StructureResult is the outcome of validating a model directory's layout.
type StructureResult struct {
	Valid    bool
	Messages []string
}

// ValidateStructure checks that dir contains exactly its paired .sql and
// .yml (with the imports exception). It is stateless: the same dir always
// yields the same result.
func ValidateStructure(dir string) StructureResult {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return StructureResult{Valid: false, Messages: []string{"Path is not a directory"}}
	}

	name := filepath.Base(dir)
	imports := isImportsDir(dir, name)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return StructureResult{Valid: false, Messages: []string{fmt.Sprintf("cannot read directory: %v", err)}}
	}

	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		present[e.Name()] = true
	}

	var msgs []string
	yml := name + ".yml"
	sqlFile := name + ".sql"

	if imports {
		if !present[yml] {
			msgs = append(msgs, "Missing YAML file")
		}
		for fname := range present {
			if fname != yml {
				msgs = append(msgs, fmt.Sprintf("Unexpected file: %s", fname))
			}
		}
	} else {
		if !present[sqlFile] {
			msgs = append(msgs, "Missing SQL file")
		}
		if !present[yml] {
			msgs = append(msgs, "Missing YAML file")
		}
		for fname := range present {
			if fname != sqlFile && fname != yml {
				msgs = append(msgs, fmt.Sprintf("Unexpected file: %s", fname))
			}
		}
	}

	return StructureResult{Valid: len(msgs) == 0, Messages: msgs}
}

// isImportsDir reports whether dir is within an imports/ subtree: the
// path contains "/imports/", or the directory's own name is "imports".
func isImportsDir(dir, name string) bool {
	if name == "imports" {
		return true
	}
	normalized := filepath.ToSlash(dir)
	return strings.Contains(normalized, "/imports/")
}
