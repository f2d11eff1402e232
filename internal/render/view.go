// Package render provides four presentation forms over the same Model
// Collection data: text, dot, JSON, and YAML. Determinism is load-bearing
// here — every multi-element field is sorted ascending before encoding.
package render

import (
	"sort"

	"github.com/datastx/featherflow/internal/collection"
	"github.com/datastx/featherflow/pkg/core"
)

// ColumnView is one column's presentation form.
type ColumnView struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	DataType    string `json:"data_type,omitempty" yaml:"data_type,omitempty"`
}

// ModelView is one model's presentation form, shared across the JSON and
// YAML serializers.
type ModelView struct {
	Name             string       `json:"name" yaml:"name"`
	RelPath          string       `json:"rel_path" yaml:"rel_path"`
	Description      string       `json:"description,omitempty" yaml:"description,omitempty"`
	Materialized     string       `json:"materialized,omitempty" yaml:"materialized,omitempty"`
	Database         string       `json:"database,omitempty" yaml:"database,omitempty"`
	Schema           string       `json:"schema,omitempty" yaml:"schema,omitempty"`
	ObjectName       string       `json:"object_name,omitempty" yaml:"object_name,omitempty"`
	Tags             []string     `json:"tags" yaml:"tags"`
	Columns          []ColumnView `json:"columns" yaml:"columns"`
	UpstreamModels   []string     `json:"upstream_models" yaml:"upstream_models"`
	DownstreamModels []string     `json:"downstream_models" yaml:"downstream_models"`
	ExternalSources  []string     `json:"external_sources" yaml:"external_sources"`
	Depth            *int         `json:"depth" yaml:"depth"`
}

// BuildView converts a Model Record into its sorted, presentation form.
func BuildView(m *core.Model) ModelView {
	tags := append([]string(nil), m.Tags...)
	sort.Strings(tags)

	upstream := append([]string(nil), m.UpstreamModels...)
	sort.Strings(upstream)
	downstream := append([]string(nil), m.DownstreamModels...)
	sort.Strings(downstream)
	external := append([]string(nil), m.ExternalSources...)
	sort.Strings(external)

	cols := make([]ColumnView, len(m.Columns))
	for i, c := range m.Columns {
		cols[i] = ColumnView{Name: c.Name, Description: c.Description, DataType: c.DataType}
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })

	return ModelView{
		Name:             m.Name,
		RelPath:          m.RelPath,
		Description:      m.Description,
		Materialized:     m.Materialized,
		Database:         m.Database,
		Schema:           m.Schema,
		ObjectName:       m.ObjectName,
		Tags:             tags,
		Columns:          cols,
		UpstreamModels:   upstream,
		DownstreamModels: downstream,
		ExternalSources:  external,
		Depth:            m.Depth,
	}
}

// Views returns a deterministic map from unique_id to ModelView for every
// model in the collection, together with the sorted list of ids (the
// iteration order both JSON's map and YAML's explicit loop rely on).
func Views(coll *collection.Collection) (map[string]ModelView, []string) {
	models := coll.All() // already unique_id-ascending
	ids := make([]string, len(models))
	views := make(map[string]ModelView, len(models))
	for i, m := range models {
		ids[i] = m.UniqueID
		views[m.UniqueID] = BuildView(m)
	}
	return views, ids
}
