package render

import (
	"encoding/json"
	"io"

	"github.com/datastx/featherflow/internal/collection"
)

// jsonDoc is the top-level JSON envelope: models keyed by unique_id.
type jsonDoc struct {
	Models map[string]ModelView `json:"models"`
}

// JSON writes the full collection as indented JSON. Encoding a Go map
// already sorts keys ascending, and every slice field was pre-sorted by
// BuildView, so two runs over the same input produce byte-identical
// output.
func JSON(w io.Writer, coll *collection.Collection) error {
	views, _ := Views(coll)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonDoc{Models: views})
}
