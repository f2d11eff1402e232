package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datastx/featherflow/internal/loader"
	"github.com/datastx/featherflow/pkg/core"
)

func TestScanDir_FindsModelsAndSkipsImports(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "staging", "stg_customers", "SELECT id FROM public.raw_customers", "version: 1\n")
	writeModel(t, root, "marts", "dim_customers", "SELECT id FROM staging.stg_customers", "version: 1\n")

	importsDir := filepath.Join(root, "imports", "ext_schema1")
	require.NoError(t, os.MkdirAll(importsDir, 0o755))
	writeFile(t, filepath.Join(importsDir, "ext_schema1.yml"), "version: 1\nsources: []\n")

	result := loader.ScanDir(root, core.NewDialect(""))
	require.Empty(t, result.Errors)
	require.Len(t, result.Models, 2)

	var ids []string
	for _, m := range result.Models {
		ids = append(ids, m.UniqueID)
	}
	require.ElementsMatch(t, []string{
		"model.staging.stg_customers", "model.marts.dim_customers",
	}, ids)
}

func TestScanDir_SkipsHiddenAndNonSQLFiles(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "staging", "stg_customers", "SELECT id FROM public.raw_customers", "version: 1\n")
	writeFile(t, filepath.Join(root, "README.md"), "not a model")
	writeFile(t, filepath.Join(root, ".hidden.sql"), "SELECT 1")

	result := loader.ScanDir(root, core.NewDialect(""))
	require.Empty(t, result.Errors)
	require.Len(t, result.Models, 1)
}

func TestScanDir_ParseErrorIsNonFatal(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "staging", "stg_good", "SELECT id FROM public.raw_good", "version: 1\n")
	writeModel(t, root, "staging", "stg_bad", "SELECT FROM FROM (((", "version: 1\n")

	result := loader.ScanDir(root, core.NewDialect(""))
	require.Len(t, result.Models, 1)
	require.NotEmpty(t, result.Errors)
}
