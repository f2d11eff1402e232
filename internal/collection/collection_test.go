package collection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datastx/featherflow/internal/collection"
	"github.com/datastx/featherflow/internal/loader"
	"github.com/datastx/featherflow/pkg/core"
)

func model(t *testing.T, root, relPath, schema, sql string) *core.Model {
	t.Helper()
	m, err := loader.LoadContent(root+"/"+relPath, root, sql, core.NewDialect(""))
	require.NoError(t, err)
	m.Schema = schema
	loader.ExtractDependencies(m)
	return m
}

// Scenario S1 — linear chain of three.
func TestBuildGraph_LinearChain(t *testing.T) {
	root := "/project"
	a := model(t, root, "model_a/model_a.sql", "public", "SELECT id, name FROM external_source")
	b := model(t, root, "model_b/model_b.sql", "public", "SELECT id, name FROM public.model_a WHERE active = true")
	c := model(t, root, "model_c/model_c.sql", "public",
		"SELECT a.id, b.name FROM public.model_a a JOIN public.model_b b ON a.id = b.id")

	coll := collection.New()
	coll.Add(a)
	coll.Add(b)
	coll.Add(c)
	coll.BuildGraph()

	require.NotNil(t, a.Depth)
	require.Equal(t, 0, *a.Depth)
	require.NotNil(t, b.Depth)
	require.Equal(t, 1, *b.Depth)
	require.NotNil(t, c.Depth)
	require.Equal(t, 2, *c.Depth)

	require.ElementsMatch(t, []string{b.UniqueID, c.UniqueID}, a.DownstreamModels)
	require.ElementsMatch(t, []string{a.UniqueID, b.UniqueID}, c.UpstreamModels)

	require.Empty(t, a.ExternalSources, "bare 'external_source' is unqualified, not a reference")
	require.Empty(t, a.ReferencedTables)
	require.Empty(t, coll.MissingImports())

	require.Equal(t, 3, coll.Len())
	require.Equal(t, 3, coll.EdgeCount(), "a->b, a->c, b->c")
}

// Scenario S2 — diamond with declared imports.
func TestBuildGraph_DiamondWithImports(t *testing.T) {
	root := "/project"
	a := model(t, root, "model_a/model_a.sql", "staging",
		"SELECT t1.id, t2.name FROM ext_schema1.table1 t1 JOIN ext_schema2.table2 t2 ON t1.id = t2.id")
	b := model(t, root, "model_b/model_b.sql", "staging",
		"SELECT a.id, e.value FROM staging.model_a a JOIN ext_schema3.table3 e ON a.id = e.id")
	c := model(t, root, "model_c/model_c.sql", "public",
		"SELECT a.id, b.value FROM staging.model_a a JOIN staging.model_b b ON a.id = b.id")

	coll := collection.New()
	coll.Add(a)
	coll.Add(b)
	coll.Add(c)
	// Declare all three imports directly (bypassing LoadImports' filesystem walk).
	addImports(coll, "ext_schema1.table1", "ext_schema2.table2", "ext_schema3.table3")
	coll.BuildGraph()

	require.ElementsMatch(t, []string{"ext_schema1.table1", "ext_schema2.table2"}, a.ExternalSources)
	require.ElementsMatch(t, []string{"ext_schema3.table3"}, b.ExternalSources)
	require.Empty(t, c.ExternalSources)

	require.Equal(t, 0, *a.Depth)
	require.Equal(t, 1, *b.Depth)
	require.Equal(t, 2, *c.Depth)
	require.Empty(t, coll.MissingImports())
}

// Scenario S3 — an undeclared external reference is reported as missing.
func TestBuildGraph_MissingImport(t *testing.T) {
	root := "/project"
	a := model(t, root, "model_a/model_a.sql", "public", "SELECT id FROM some_other.raw")

	coll := collection.New()
	coll.Add(a)
	coll.BuildGraph()

	require.Equal(t, []string{"some_other.raw"}, a.ExternalSources)
	require.True(t, coll.HasMissingSources())
	require.Equal(t, []string{"some_other.raw"}, coll.MissingImports()[a.UniqueID])

	lines := coll.ReportMissingImports()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "model_a")
	require.Contains(t, lines[0], "'some_other.raw'")
}

func TestBuildGraph_QualifiedSelfJoinNoSelfEdge(t *testing.T) {
	root := "/project"
	a := model(t, root, "model_a/model_a.sql", "public",
		"SELECT x.id FROM public.model_a x JOIN public.model_a y ON x.id = y.parent_id")

	coll := collection.New()
	coll.Add(a)
	coll.BuildGraph()

	require.Empty(t, a.UpstreamModels)
	require.Empty(t, a.DownstreamModels)
	require.Equal(t, 0, *a.Depth)
}

func TestBuildGraph_IsIdempotent(t *testing.T) {
	root := "/project"
	a := model(t, root, "model_a/model_a.sql", "public", "SELECT id FROM external_source")
	b := model(t, root, "model_b/model_b.sql", "public", "SELECT id FROM public.model_a")

	coll := collection.New()
	coll.Add(a)
	coll.Add(b)
	coll.BuildGraph()
	firstUp := append([]string(nil), b.UpstreamModels...)
	firstDepth := *b.Depth

	coll.BuildGraph()
	require.Equal(t, firstUp, b.UpstreamModels)
	require.Equal(t, firstDepth, *b.Depth)
}

func TestExecutionOrder_SortsByDepthThenID(t *testing.T) {
	root := "/project"
	a := model(t, root, "model_a/model_a.sql", "public", "SELECT id FROM external_source")
	b := model(t, root, "model_b/model_b.sql", "public", "SELECT id FROM public.model_a")
	c := model(t, root, "model_c/model_c.sql", "public", "SELECT id FROM public.model_a")

	coll := collection.New()
	coll.Add(a)
	coll.Add(b)
	coll.Add(c)
	coll.BuildGraph()

	order := coll.ExecutionOrder()
	require.Equal(t, a.UniqueID, order[0].UniqueID)
	require.Equal(t, b.UniqueID, order[1].UniqueID)
	require.Equal(t, c.UniqueID, order[2].UniqueID)
}

func TestDetectCycles_ReportsCycleButDoesNotBlockAcyclicDepths(t *testing.T) {
	root := "/project"
	a := model(t, root, "model_a/model_a.sql", "public", "SELECT id FROM staging.model_b")
	b := model(t, root, "model_b/model_b.sql", "staging", "SELECT id FROM public.model_a")
	c := model(t, root, "model_c/model_c.sql", "public", "SELECT id FROM external_source")

	coll := collection.New()
	coll.Add(a)
	coll.Add(b)
	coll.Add(c)
	coll.BuildGraph()

	cycles := coll.DetectCycles()
	require.NotEmpty(t, cycles)
	require.Nil(t, a.Depth, "cyclic model must remain unassigned")
	require.Nil(t, b.Depth)
	require.NotNil(t, c.Depth, "acyclic model must still get a depth")
	require.Equal(t, 0, *c.Depth)
}

// addImports declares imports directly via AddImport, avoiding a
// filesystem-backed imports/ directory in unit tests.
func addImports(c *collection.Collection, names ...string) {
	for _, n := range names {
		c.AddImport(n)
	}
}
