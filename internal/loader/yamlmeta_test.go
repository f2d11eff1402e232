package loader_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datastx/featherflow/internal/loader"
	"github.com/datastx/featherflow/pkg/core"
)

func TestBindYAML_AppliesMatchingModel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "stg_customers.yml"), `
version: 1
models:
  - name: stg_customers
    description: Cleaned customer records
    schema_name: staging
    object_name: customers
    config:
      materialized: table
    meta:
      tags: [pii, daily]
      owner: data-eng
    columns:
      - name: id
        description: Primary key
        data_type: bigint
      - name: email
        tests: [not_null, unique]
`)

	m := &core.Model{Name: "stg_customers"}
	require.NoError(t, loader.BindYAML(m, dir, "stg_customers"))

	require.Equal(t, "Cleaned customer records", m.Description)
	require.Equal(t, "staging", m.Schema)
	require.Equal(t, "customers", m.ObjectName)
	require.Equal(t, "table", m.Materialized)
	require.ElementsMatch(t, []string{"pii", "daily"}, m.Tags)
	require.Equal(t, "data-eng", m.Meta["owner"])
	require.Len(t, m.Columns, 2)
	require.Equal(t, "id", m.Columns[0].Name)
	require.Equal(t, "bigint", m.Columns[0].DataType)
	require.ElementsMatch(t, []string{"not_null", "unique"}, m.Columns[1].Tests)
}

func TestBindYAML_MissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	m := &core.Model{Name: "stg_customers"}
	require.NoError(t, loader.BindYAML(m, dir, "stg_customers"))
	require.Empty(t, m.Description)
}

func TestBindYAML_OnlyFirstMatchingModelApplies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "stg_customers.yml"), `
version: 1
models:
  - name: stg_customers
    description: first
  - name: stg_customers
    description: second
`)
	m := &core.Model{Name: "stg_customers"}
	require.NoError(t, loader.BindYAML(m, dir, "stg_customers"))
	require.Equal(t, "first", m.Description)
}

func TestBindYAML_MalformedYAMLIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "stg_customers.yml"), "version: [unterminated\n")
	m := &core.Model{Name: "stg_customers"}
	err := loader.BindYAML(m, dir, "stg_customers")
	require.Error(t, err)
}

func TestParseImportsFile(t *testing.T) {
	data := []byte(`
version: 1
sources:
  - name: ext_schema1
    database: ext_schema1
    tables:
      - name: table1
  - name: ext_schema2
    database: ext_schema2
    tables:
      - name: table2
      - name: table3
`)
	names, err := loader.ParseImportsFile(data)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		"ext_schema1.table1", "ext_schema2.table2", "ext_schema2.table3",
	}, names)
}

func TestParseImportsFile_MalformedIsError(t *testing.T) {
	_, err := loader.ParseImportsFile([]byte("sources: [unterminated"))
	require.Error(t, err)
}
