package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datastx/featherflow/internal/collection"
	"github.com/datastx/featherflow/internal/loader"
	"github.com/datastx/featherflow/internal/render"
	"github.com/datastx/featherflow/pkg/core"
)

func buildDiamondCollection(t *testing.T) *collection.Collection {
	t.Helper()
	root := "/project"
	a, err := loader.LoadContent(root+"/model_a/model_a.sql", root,
		"SELECT t1.id, t2.name FROM ext_schema1.table1 t1 JOIN ext_schema2.table2 t2 ON t1.id = t2.id",
		core.NewDialect(""))
	require.NoError(t, err)
	a.Schema = "staging"
	loader.ExtractDependencies(a)

	b, err := loader.LoadContent(root+"/model_b/model_b.sql", root,
		"SELECT a.id, e.value FROM staging.model_a a JOIN ext_schema3.table3 e ON a.id = e.id",
		core.NewDialect(""))
	require.NoError(t, err)
	b.Schema = "staging"
	b.Tags = []string{"zeta", "alpha"}
	loader.ExtractDependencies(b)

	c, err := loader.LoadContent(root+"/model_c/model_c.sql", root,
		"SELECT a.id, b.value FROM staging.model_a a JOIN staging.model_b b ON a.id = b.id",
		core.NewDialect(""))
	require.NoError(t, err)
	c.Schema = "public"
	loader.ExtractDependencies(c)

	coll := collection.New()
	coll.Add(a)
	coll.Add(b)
	coll.Add(c)
	coll.AddImport("ext_schema1.table1")
	coll.AddImport("ext_schema2.table2")
	coll.AddImport("ext_schema3.table3")
	coll.BuildGraph()
	return coll
}

// Scenario S6 — serialization determinism: running the same collection's
// JSON and YAML emitters twice must produce byte-identical output.
func TestJSON_Deterministic(t *testing.T) {
	coll := buildDiamondCollection(t)

	var first, second bytes.Buffer
	require.NoError(t, render.JSON(&first, coll))
	require.NoError(t, render.JSON(&second, coll))
	require.Equal(t, first.String(), second.String())
}

func TestYAML_Deterministic(t *testing.T) {
	coll := buildDiamondCollection(t)

	var first, second bytes.Buffer
	require.NoError(t, render.YAML(&first, coll))
	require.NoError(t, render.YAML(&second, coll))
	require.Equal(t, first.String(), second.String())
}

func TestYAML_HasVersionAndModelsKeyedByUniqueID(t *testing.T) {
	coll := buildDiamondCollection(t)

	var buf bytes.Buffer
	require.NoError(t, render.YAML(&buf, coll))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "version: 1\n"))
	require.Contains(t, out, "models:")
	require.Contains(t, out, "model.model_a.model_a:")
	require.Contains(t, out, "model.model_b.model_b:")
}

func TestBuildView_SortsMultiElementFields(t *testing.T) {
	coll := buildDiamondCollection(t)
	b := coll.Get("model.model_b.model_b")
	require.NotNil(t, b)

	view := render.BuildView(b)
	require.Equal(t, []string{"alpha", "zeta"}, view.Tags, "tags must be sorted ascending")
	require.Equal(t, []string{"ext_schema3.table3"}, view.ExternalSources)
}

func TestDOT_ContainsDigraphAndEdges(t *testing.T) {
	coll := buildDiamondCollection(t)

	var buf bytes.Buffer
	render.DOT(&buf, coll)
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "digraph models {"))
	require.Contains(t, out, "rankdir=LR;")
	require.Contains(t, out, `"model.model_a.model_a" -> "model.model_b.model_b";`)
	require.Contains(t, out, `label="model_a (depth: 0)"`)
	require.True(t, strings.HasSuffix(strings.TrimSpace(out), "}"))
}

func TestText_GroupsByDepthAndReportsMissingImports(t *testing.T) {
	root := "/project"
	a, err := loader.LoadContent(root+"/model_a/model_a.sql", root, "SELECT id FROM some_other.raw", core.NewDialect(""))
	require.NoError(t, err)
	a.Schema = "public"
	loader.ExtractDependencies(a)

	coll := collection.New()
	coll.Add(a)
	coll.BuildGraph()

	var buf bytes.Buffer
	render.Text(&buf, coll)
	out := buf.String()

	require.Contains(t, out, "== depth 0 ==")
	require.Contains(t, out, "model_a")
	require.Contains(t, out, "missing imports:")
	require.Contains(t, out, "some_other.raw")
}
