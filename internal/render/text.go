package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/datastx/featherflow/internal/collection"
	"github.com/datastx/featherflow/pkg/core"
)

// Text writes a human-readable report, models grouped by execution order
// (depth ascending, then unique_id), after a model-count header; a column
// table is printed only for models that declare columns. Unassigned depths (cyclic or cycle-downstream models) are
// grouped last, under "unassigned".
func Text(w io.Writer, coll *collection.Collection) {
	models := coll.ExecutionOrder()

	fmt.Fprintf(w, "%d model(s)\n\n", len(models))

	currentDepth := -2
	for _, m := range models {
		view := BuildView(m)

		depthLabel := "unassigned"
		if m.Depth != nil {
			depthLabel = fmt.Sprintf("%d", *m.Depth)
			if *m.Depth != currentDepth {
				currentDepth = *m.Depth
				fmt.Fprintf(w, "== depth %d ==\n\n", currentDepth)
			}
		} else if currentDepth != -1 {
			currentDepth = -1
			fmt.Fprintf(w, "== unassigned ==\n\n")
		}

		fmt.Fprintf(w, "%s (%s)\n", view.Name, depthLabel)
		if view.Description != "" {
			fmt.Fprintf(w, "  %s\n", view.Description)
		}
		fmt.Fprintf(w, "  materialized: %s\n", displayOr(view.Materialized, core.MaterializationView))
		fmt.Fprintf(w, "  location:     %s\n", m.Location())
		if len(view.Tags) > 0 {
			fmt.Fprintf(w, "  tags:         %s\n", strings.Join(view.Tags, ", "))
		}
		fmt.Fprintf(w, "  upstream:     %s\n", displayList(view.UpstreamModels))
		fmt.Fprintf(w, "  downstream:   %s\n", displayList(view.DownstreamModels))
		fmt.Fprintf(w, "  external:     %s\n", displayList(view.ExternalSources))

		if len(view.Columns) > 0 {
			t := table.NewWriter()
			t.SetOutputMirror(w)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"column", "type", "description"})
			for _, c := range view.Columns {
				t.AppendRow(table.Row{c.Name, displayOr(c.DataType, "-"), c.Description})
			}
			t.Render()
		}
		fmt.Fprintln(w)
	}

	if warnings := coll.ImportWarnings(); len(warnings) > 0 {
		fmt.Fprintln(w, "warnings:")
		for _, w2 := range warnings {
			fmt.Fprintf(w, "  - %s\n", w2)
		}
	}

	if missing := coll.ReportMissingImports(); len(missing) > 0 {
		fmt.Fprintln(w, "missing imports:")
		for _, line := range missing {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}

	if cycles := coll.DetectCycles(); len(cycles) > 0 {
		fmt.Fprintln(w, "cycles:")
		for _, c := range cycles {
			fmt.Fprintf(w, "  - %s\n", strings.Join(c, " -> "))
		}
	}
}

func displayOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func displayList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
