package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/droidview/pkg/view"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes bounds, alignment and attributes in node labels.
	// When false, only the view id and kind are shown.
	Detailed bool
}

// ToDOT converts a view tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Containers are drawn as rounded boxes and leaves as plain boxes. Solid
// edges follow the hierarchy, dashed edges point from a view to the sibling
// it is anchored on, and bold edges join the members of a chain.
func ToDOT(doc *view.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	doc.Walk(func(v *view.View, _ int) bool {
		label := fmtLabel(v, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", v.ID, strings.Join(fmtAttrs(v, label), ", "))
		for _, c := range v.Children {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", v.ID, c.ID))
		}
		for _, c := range v.Constraints {
			if c.Target == "" {
				continue
			}
			edges = append(edges, fmt.Sprintf("  %q -> %q [style=dashed, label=%q, constraint=false];\n", v.ID, c.Target, c.Kind.String()))
		}
		for _, ch := range v.Chains {
			for i := 1; i < len(ch.Members); i++ {
				edges = append(edges, fmt.Sprintf("  %q -> %q [style=bold, color=blue, label=%q, constraint=false];\n",
					ch.Members[i-1], ch.Members[i], string(ch.Style)))
			}
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(v *view.View, detailed bool) string {
	head := v.ID + "\n" + v.Kind.String()
	if !detailed {
		return head
	}

	b := v.Bounds
	parts := []string{fmt.Sprintf("bounds: %g,%g %gx%g", b.Left, b.Top, b.Width(), b.Height())}
	if v.Alignment != 0 {
		parts = append(parts, "align: "+v.Alignment.String())
	}
	if v.Tag != "" {
		parts = append(parts, "tag: "+v.Tag)
	}
	for _, k := range slices.Sorted(maps.Keys(v.Attrs)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v.Attrs[k]))
	}
	return head + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(v *view.View, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !v.Container() {
		attrs = append(attrs, "style=filled", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
