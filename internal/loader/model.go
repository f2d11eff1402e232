// Package loader constructs a Model Record from a SQL file plus its
// paired YAML sidecar, after validating the containing directory's
// layout: read, parse, derive identity, checksum, validate, bind.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/datastx/featherflow/pkg/core"
	"github.com/datastx/featherflow/pkg/extract"
	"github.com/datastx/featherflow/pkg/parser"
)

// placeholderChecksum is used in test-mode construction, where no file
// exists on disk to hash.
const placeholderChecksum = "0000000000000000000000000000000000000000000000000000000000000000"

// IoError wraps a failure to read a file the loader was asked to read.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string { return fmt.Sprintf("reading %s: %v", e.Path, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// Load constructs a Model Record from a SQL file path. root is the project
// root used to derive unique_id; dialect selects the parser grammar. It
// does not extract references; call ExtractDependencies after Load.
func Load(path, root string, dialect *core.Dialect) (*core.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IoError{Path: path, Err: err}
	}
	return build(path, root, string(data), dialect, false)
}

// LoadContent constructs a Model Record from in-memory SQL content,
// tolerating a path that does not exist on disk. The checksum is the
// placeholder constant, not a hash of content.
func LoadContent(path, root, content string, dialect *core.Dialect) (*core.Model, error) {
	return build(path, root, content, dialect, true)
}

func build(path, root, content string, dialect *core.Dialect, testMode bool) (*core.Model, error) {
	stmts, err := parser.ParseStatements(content, dialect)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	uniqueID, relPath, name, dir := identity(path, root)

	checksum := placeholderChecksum
	if !testMode {
		sum := sha256.Sum256([]byte(content))
		checksum = hex.EncodeToString(sum[:])
	}

	now := time.Now()
	m := &core.Model{
		UniqueID:   uniqueID,
		Name:       name,
		RelPath:    relPath,
		AbsPath:    path,
		SQL:        content,
		Checksum:   checksum,
		Statements: stmts,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if !testMode {
		result := ValidateStructure(dir)
		m.IsValidStructure = result.Valid
		m.StructureErrors = result.Messages
	} else {
		m.IsValidStructure = true
	}

	if m.IsValidStructure {
		if err := BindYAML(m, dir, name); err != nil {
			// YamlError for a per-model sidecar is always non-fatal.
			m.StructureErrors = append(m.StructureErrors, fmt.Sprintf("metadata: %v", err))
		}
	}

	return m, nil
}

// identity derives unique_id, the root-relative path, the file stem, and
// the containing directory.
func identity(path, root string) (uniqueID, relPath, name, dir string) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	relPath = rel
	trimmed := strings.TrimSuffix(rel, ".sql")
	parts := strings.Split(filepath.ToSlash(trimmed), "/")
	uniqueID = "model." + strings.Join(parts, ".")
	name = strings.TrimSuffix(filepath.Base(path), ".sql")
	dir = filepath.Dir(path)
	return
}

// ExtractDependencies runs the reference extractor over m's parsed
// statements and stores the external subset into ReferencedTables. Safe
// to call more than once; it always recomputes from Statements.
func ExtractDependencies(m *core.Model) {
	m.ReferencedTables = extract.External(m.Statements)
}
