// Package collection implements the Model Collection: the owner of every
// Model Record and the imports set, the builder of the dependency graph,
// and the source of depth assignment and missing-import reporting.
package collection

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datastx/featherflow/internal/dag"
	"github.com/datastx/featherflow/internal/loader"
	"github.com/datastx/featherflow/pkg/core"
)

// Collection owns every Model Record inserted into it, the flat imports
// set, and the graph substrate used to resolve references between models.
type Collection struct {
	models  map[string]*core.Model
	graph   *dag.Graph
	imports map[string]bool

	// missingImports maps a model's unique_id to the references it makes
	// that resolve to neither a model nor a declared import.
	missingImports map[string][]string

	importWarnings []string
}

// New returns an empty Collection.
func New() *Collection {
	return &Collection{
		models:         make(map[string]*core.Model),
		graph:          dag.NewGraph(),
		imports:        make(map[string]bool),
		missingImports: make(map[string][]string),
	}
}

// Add inserts a Model Record keyed by its unique_id. Last write wins if
// the caller reuses an id; callers must not do that.
func (c *Collection) Add(m *core.Model) {
	c.models[m.UniqueID] = m
	c.graph.AddNode(m.UniqueID, m)
}

// Get returns the Model Record for id, or nil if absent.
func (c *Collection) Get(id string) *core.Model {
	return c.models[id]
}

// All returns every Model Record, sorted by unique_id ascending. Callers
// needing strict topological order should use ExecutionOrder instead.
func (c *Collection) All() []*core.Model {
	nodes := c.graph.GetAllNodes()
	out := make([]*core.Model, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Data.(*core.Model))
	}
	return out
}

// Len returns the number of models in the collection.
func (c *Collection) Len() int {
	return c.graph.NodeCount()
}

// EdgeCount returns the number of parent->child edges materialized by
// the last BuildGraph.
func (c *Collection) EdgeCount() int {
	return c.graph.EdgeCount()
}

// ExecutionOrder sorts models by (depth, unique_id) for callers that need
// a topologically valid, deterministic run order. Unassigned-depth models
// (cyclic or cycle-downstream) sort after all assigned ones.
func (c *Collection) ExecutionOrder() []*core.Model {
	models := c.All()
	sort.SliceStable(models, func(i, j int) bool {
		di, dj := depthOrMax(models[i]), depthOrMax(models[j])
		if di != dj {
			return di < dj
		}
		return models[i].UniqueID < models[j].UniqueID
	})
	return models
}

func depthOrMax(m *core.Model) int {
	if m.Depth == nil {
		return int(^uint(0) >> 1)
	}
	return *m.Depth
}

// LoadImports computes the imports directory for root and walks it
// recursively, adding every declared "<database>.<table>" to the imports
// set. Absence of the directory is a warning, not
// an error; a malformed file is skipped with a warning.
func (c *Collection) LoadImports(root string) error {
	importsDir := root
	if filepath.Base(root) == "models" {
		importsDir = filepath.Join(root, "imports")
	} else {
		importsDir = filepath.Join(root, "models", "imports")
	}

	if _, err := os.Stat(importsDir); err != nil {
		c.importWarnings = append(c.importWarnings, fmt.Sprintf("imports directory not found: %s", importsDir))
		return nil
	}

	return filepath.Walk(importsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".yml") {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			c.importWarnings = append(c.importWarnings, fmt.Sprintf("skipping %s: %v", path, readErr))
			return nil
		}
		names, parseErr := loader.ParseImportsFile(data)
		if parseErr != nil {
			c.importWarnings = append(c.importWarnings, fmt.Sprintf("skipping %s: %v", path, parseErr))
			return nil
		}
		for _, n := range names {
			c.imports[n] = true
		}
		return nil
	})
}

// AddImport declares name as a known-external import directly, bypassing
// the on-disk imports-catalog walk. Useful for callers that already have
// their imports enumerated in memory.
func (c *Collection) AddImport(name string) {
	c.imports[name] = true
}

// ImportWarnings returns the non-fatal warnings accumulated by LoadImports.
func (c *Collection) ImportWarnings() []string {
	return c.importWarnings
}

// BuildGraph resolves every model's referenced_tables against the other
// models and the imports set, materializes parent/child edges, and
// assigns depths exactly once at the end. The build never fails;
// presence of cycles or missing imports is reported separately.
func (c *Collection) BuildGraph() {
	c.graph.Clear()
	c.missingImports = make(map[string][]string)

	for id, m := range c.models {
		c.graph.AddNode(id, m)
		m.UpstreamModels = nil
		m.DownstreamModels = nil
		m.ExternalSources = nil
	}

	bySchemaName := make(map[string]string, len(c.models))
	for id, m := range c.models {
		bySchemaName[m.SchemaQualifiedName()] = id
	}

	for _, id := range sortedKeys(c.models) {
		m := c.models[id]
		for _, ref := range m.ReferencedTables {
			parentID, isInternal := bySchemaName[ref]
			if isInternal && parentID != id {
				_ = c.graph.AddEdge(parentID, id)
				continue
			}
			if isInternal && parentID == id {
				// A qualified self-reference resolves to this model but
				// must not create a self-edge.
				continue
			}
			m.ExternalSources = appendUnique(m.ExternalSources, ref)
			if !c.imports[ref] {
				c.missingImports[id] = appendUnique(c.missingImports[id], ref)
			}
		}
		sort.Strings(m.ExternalSources)
	}

	for id, m := range c.models {
		m.UpstreamModels = sortedCopy(c.graph.GetParents(id))
		m.DownstreamModels = sortedCopy(c.graph.GetChildren(id))
	}

	c.assignDepths()
}

func (c *Collection) assignDepths() {
	depths := c.graph.AssignDepths()
	for id, m := range c.models {
		if d, ok := depths[id]; ok {
			v := d
			m.Depth = &v
		} else {
			m.Depth = nil
		}
	}
}

// DetectCycles returns the cycles found by the graph's depth-first search,
// one per back edge (see dag.Graph.DetectCycles).
func (c *Collection) DetectCycles() [][]string {
	return c.graph.DetectCycles()
}

// HasMissingSources reports whether any model references an undeclared
// external table.
func (c *Collection) HasMissingSources() bool {
	return len(c.missingImports) > 0
}

// MissingImports returns the unique_id -> unresolved-references mapping
// built during BuildGraph.
func (c *Collection) MissingImports() map[string][]string {
	return c.missingImports
}

// ReportMissingImports renders human-readable lines for every model with
// unresolved references.
func (c *Collection) ReportMissingImports() []string {
	var lines []string
	for _, id := range sortedKeys(c.missingImports) {
		m := c.models[id]
		refs := c.missingImports[id]
		quoted := make([]string, len(refs))
		for i, r := range refs {
			quoted[i] = "'" + r + "'"
		}
		lines = append(lines, fmt.Sprintf(
			"Model '%s' references undefined external import(s): %s",
			m.Name, strings.Join(quoted, ", "),
		))
	}
	return lines
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedCopy returns a sorted copy of the graph's edge slice, so callers
// never sort the graph's internal storage in place.
func sortedCopy(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func appendUnique(set []string, v string) []string {
	for _, existing := range set {
		if existing == v {
			return set
		}
	}
	return append(set, v)
}
