package render

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/datastx/featherflow/internal/collection"
)

// yamlDoc is the top-level YAML envelope: a schema version plus models
// keyed by unique_id. Models is a *yaml.Node (a mapping node) rather than
// a Go map, because yaml.v3 does not guarantee map key ordering the way
// encoding/json does — building the mapping node by hand in unique_id
// ascending order replaces the hand-written permutation the source
// repository shipped (see DESIGN.md).
type yamlDoc struct {
	Version int       `yaml:"version"`
	Models  yaml.Node `yaml:"models"`
}

// YAML writes the full collection as YAML: version 1, models mapped by
// unique_id in ascending order, every nested slice pre-sorted by
// BuildView.
func YAML(w io.Writer, coll *collection.Collection) error {
	views, order := Views(coll)

	modelsNode := yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, id := range order {
		var valueNode yaml.Node
		if err := valueNode.Encode(views[id]); err != nil {
			return err
		}
		modelsNode.Content = append(modelsNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id},
			&valueNode,
		)
	}

	doc := yamlDoc{Version: 1, Models: modelsNode}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}
