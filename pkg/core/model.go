package core

import "time"

// Model is a single parsed SQL file plus its bound YAML metadata. It is the
// unit the loader constructs and the collection owns, resolves, and depth-
// assigns.
type Model struct {
	// UniqueID is "model." + the file's path relative to the project root,
	// with path separators replaced by '.' and the .sql suffix stripped.
	UniqueID string
	// Name is the file stem. The parent directory must share this stem.
	Name string
	// RelPath is the file path relative to the project root.
	RelPath string
	// AbsPath is the absolute path to the SQL file.
	AbsPath string

	// SQL is the raw file content.
	SQL string
	// Checksum is the hex SHA-256 of SQL.
	Checksum string

	// Statements is the parsed AST: an ordered list of statements.
	Statements []Stmt

	// Declared metadata, bound from the paired YAML file. All optional.
	Description  string
	Materialized string
	Database     string
	Schema       string
	ObjectName   string
	Tags         []string
	Meta         map[string]any
	Columns      []ColumnInfo

	// ReferencedTables is the set of qualified table names the extractor
	// found in Statements. Populated by ExtractDependencies, not by
	// construction.
	ReferencedTables []string

	// Graph position, filled in by the Collection during BuildGraph.
	UpstreamModels   []string
	DownstreamModels []string
	ExternalSources  []string
	Depth            *int

	// IsValidStructure and StructureErrors come from the directory
	// structure validator.
	IsValidStructure bool
	StructureErrors  []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ColumnInfo is one entry of a model's declared column metadata.
type ColumnInfo struct {
	Name          string
	Description   string
	DataType      string
	Tests         []string
	Meta          map[string]any
	SourceColumns []string
}

// Location renders the model's database.schema.object_name triple, falling
// back to the declared schema/name when object_name/database are unset.
func (m *Model) Location() string {
	db := m.Database
	schema := m.Schema
	if schema == "" {
		schema = "public"
	}
	name := m.ObjectName
	if name == "" {
		name = m.Name
	}
	if db == "" {
		return schema + "." + name
	}
	return db + "." + schema + "." + name
}

// SchemaQualifiedName returns "<schema-or-public>.<name>", the key the
// Collection uses to resolve references against models.
func (m *Model) SchemaQualifiedName() string {
	schema := m.Schema
	if schema == "" {
		schema = "public"
	}
	return schema + "." + m.Name
}
