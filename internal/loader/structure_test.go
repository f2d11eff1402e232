package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datastx/featherflow/internal/loader"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// Scenario S5: a model directory missing its SQL file fails structure
// validation.
func TestValidateStructure_MissingSQLFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stg_customers")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeFile(t, filepath.Join(dir, "stg_customers.yml"), "version: 1\n")

	result := loader.ValidateStructure(dir)
	require.False(t, result.Valid)
	require.Contains(t, result.Messages, "Missing SQL file")
}

// Scenario S5: an unexpected file in a model directory fails validation.
func TestValidateStructure_UnexpectedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stg_customers")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeFile(t, filepath.Join(dir, "stg_customers.sql"), "SELECT 1")
	writeFile(t, filepath.Join(dir, "stg_customers.yml"), "version: 1\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "hello")

	result := loader.ValidateStructure(dir)
	require.False(t, result.Valid)
	require.Contains(t, result.Messages, "Unexpected file: notes.md")
}

func TestValidateStructure_Valid(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stg_customers")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeFile(t, filepath.Join(dir, "stg_customers.sql"), "SELECT 1")
	writeFile(t, filepath.Join(dir, "stg_customers.yml"), "version: 1\n")

	result := loader.ValidateStructure(dir)
	require.True(t, result.Valid)
	require.Empty(t, result.Messages)
}

// Scenario S5: under an imports/ subtree the same missing-SQL case passes,
// since imports directories don't require a paired .sql file.
func TestValidateStructure_ImportsDirDoesNotRequireSQL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "imports", "stg_customers")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeFile(t, filepath.Join(dir, "stg_customers.yml"), "version: 1\n")

	result := loader.ValidateStructure(dir)
	require.True(t, result.Valid)
	require.Empty(t, result.Messages)
}

func TestValidateStructure_ImportsDirRejectsUnexpectedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "imports", "stg_customers")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeFile(t, filepath.Join(dir, "stg_customers.yml"), "version: 1\n")
	writeFile(t, filepath.Join(dir, "stg_customers.sql"), "SELECT 1")

	result := loader.ValidateStructure(dir)
	require.False(t, result.Valid)
	require.Contains(t, result.Messages, "Unexpected file: stg_customers.sql")
}

func TestValidateStructure_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stg_customers.sql")
	writeFile(t, file, "SELECT 1")

	result := loader.ValidateStructure(file)
	require.False(t, result.Valid)
	require.Equal(t, []string{"Path is not a directory"}, result.Messages)
}
