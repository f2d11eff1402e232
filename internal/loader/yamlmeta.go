package loader

import (
	"fmt"
	"os"

	"github.com/datastx/featherflow/pkg/core"
	"gopkg.in/yaml.v3"
)

// metaFile mirrors the paired `<stem>.yml` wire format.
type metaFile struct {
	Version int         `yaml:"version"`
	Models  []metaModel `yaml:"models"`
}

type metaModel struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	DatabaseName string         `yaml:"database_name"`
	SchemaName   string         `yaml:"schema_name"`
	ObjectName   string         `yaml:"object_name"`
	Config       metaConfig     `yaml:"config"`
	Meta         map[string]any `yaml:"meta"`
	Columns      []metaColumn   `yaml:"columns"`
}

type metaConfig struct {
	Materialized string `yaml:"materialized"`
}

type metaColumn struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	DataType    string         `yaml:"data_type"`
	Tests       []string       `yaml:"tests"`
	Meta        map[string]any `yaml:"meta"`
}

// BindYAML reads "<dir>/<name>.yml" and enriches m with the matching
// `models:` entry. A missing file is not an error. A read or parse
// failure is returned; Load does not fail on it but appends it to the
// model's StructureErrors as a "metadata: ..." line and keeps the model,
// with no metadata. The error is not logged.
func BindYAML(m *core.Model, dir, name string) error {
	path := dir + "/" + name + ".yml"
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var doc metaFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, entry := range doc.Models {
		if entry.Name != name {
			continue
		}
		applyMetaModel(m, entry)
		return nil
	}
	return nil
}

// applyMetaModel copies one matched `models:` entry onto m. Only the
// first match is ever passed in by BindYAML's caller loop.
func applyMetaModel(m *core.Model, entry metaModel) {
	m.Description = entry.Description
	m.Database = entry.DatabaseName
	m.Schema = entry.SchemaName
	m.ObjectName = entry.ObjectName
	m.Materialized = entry.Config.Materialized
	m.Meta = entry.Meta

	if tagsRaw, ok := entry.Meta["tags"]; ok {
		if rawList, ok := tagsRaw.([]any); ok {
			for _, v := range rawList {
				if s, ok := v.(string); ok {
					m.Tags = append(m.Tags, s)
				}
			}
		}
	}

	for _, col := range entry.Columns {
		m.Columns = append(m.Columns, core.ColumnInfo{
			Name:        col.Name,
			Description: col.Description,
			DataType:    col.DataType,
			Tests:       col.Tests,
			Meta:        col.Meta,
		})
	}
}

// importsFile mirrors the imports catalog wire format.
type importsFile struct {
	Version int            `yaml:"version"`
	Sources []importSource `yaml:"sources"`
}

type importSource struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Database    string        `yaml:"database"`
	Tables      []importTable `yaml:"tables"`
}

type importTable struct {
	Name string `yaml:"name"`
}

// ParseImportsFile parses one imports-catalog YAML file and returns the
// "<database>.<table>" strings it declares.
func ParseImportsFile(data []byte) ([]string, error) {
	var doc importsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var out []string
	for _, src := range doc.Sources {
		for _, tbl := range src.Tables {
			out = append(out, src.Database+"."+tbl.Name)
		}
	}
	return out, nil
}
