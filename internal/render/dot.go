package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/datastx/featherflow/internal/collection"
)

// DOT writes the model graph in Graphviz dot format, one subgraph cluster
// per depth level so a rendered layout reads left-to-right (rankdir=LR) by
// execution order. Cluster names are prefixed with a random uuid so dot never
// collides two clusters sharing a depth across repeated calls within the
// same process.
func DOT(w io.Writer, coll *collection.Collection) {
	models := coll.All()

	fmt.Fprintln(w, "digraph models {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, fontname=\"monospace\"];")
	fmt.Fprintln(w)

	byDepth := make(map[int][]string)
	var unassigned []string
	for _, m := range models {
		if m.Depth == nil {
			unassigned = append(unassigned, m.UniqueID)
			continue
		}
		byDepth[*m.Depth] = append(byDepth[*m.Depth], m.UniqueID)
	}

	depths := make([]int, 0, len(byDepth))
	for d := range byDepth {
		depths = append(depths, d)
	}
	sort.Ints(depths)

	for _, d := range depths {
		ids := byDepth[d]
		sort.Strings(ids)
		fmt.Fprintf(w, "  subgraph cluster_%s {\n", uuid.New().String())
		fmt.Fprintf(w, "    label=\"depth %d\";\n", d)
		fmt.Fprintln(w, "    rank=same;")
		for _, id := range ids {
			m := coll.Get(id)
			fmt.Fprintf(w, "    %q [label=%q];\n", id, fmt.Sprintf("%s (depth: %d)", m.Name, d))
		}
		fmt.Fprintln(w, "  }")
	}

	if len(unassigned) > 0 {
		sort.Strings(unassigned)
		fmt.Fprintf(w, "  subgraph cluster_%s {\n", uuid.New().String())
		fmt.Fprintln(w, "    label=\"unassigned\";")
		for _, id := range unassigned {
			m := coll.Get(id)
			fmt.Fprintf(w, "    %q [label=%q, style=dashed];\n", id, m.Name+" (depth: unassigned)")
		}
		fmt.Fprintln(w, "  }")
	}

	fmt.Fprintln(w)
	for _, m := range models {
		children := append([]string(nil), m.DownstreamModels...)
		sort.Strings(children)
		for _, child := range children {
			fmt.Fprintf(w, "  %q -> %q;\n", m.UniqueID, child)
		}
	}

	fmt.Fprintln(w, "}")
}
