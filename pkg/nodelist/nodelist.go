// Package nodelist provides bulk queries over sibling nodes: float
// tracking, clear detection, linearity tests and baseline selection.
//
// The functions are pure. They read node predicates and geometry and never
// reparent or modify nodes.
package nodelist

import (
	"cmp"
	"slices"

	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/node"
)

// ClearedMap is the per-run record of nodes that close an open float.
type ClearedMap = node.ClearedMap

// Floated returns the distinct float sides present in nodes.
func Floated(nodes []*node.Node) map[string]bool {
	out := map[string]bool{}
	for _, n := range nodes {
		if n.Floating() {
			out[n.Float()] = true
		}
	}
	return out
}

// FloatTracker follows open float sides through a left-to-right scan.
type FloatTracker struct {
	open    map[string]bool
	Cleared ClearedMap
}

// NewFloatTracker returns a tracker with no open floats.
func NewFloatTracker() *FloatTracker {
	return &FloatTracker{open: map[string]bool{}, Cleared: ClearedMap{}}
}

// Push feeds the next node. A clear matching an open side records the
// node's clear direction and closes that side; "both" closes every open
// side and records "both" only when two sides were open. A floating node
// then opens its own side.
func (f *FloatTracker) Push(n *node.Node) {
	if clear := n.Clear(); clear != "none" && len(f.open) > 0 {
		switch {
		case clear == "both":
			if len(f.open) == 2 {
				f.Cleared[n] = "both"
			} else {
				for side := range f.open {
					f.Cleared[n] = side
				}
			}
			for side := range f.open {
				delete(f.open, side)
			}
		case f.open[clear]:
			f.Cleared[n] = clear
			delete(f.open, clear)
		}
	}
	if n.Floating() {
		f.open[n.Float()] = true
	}
}

// Open returns the currently open float sides in sorted order.
func (f *FloatTracker) Open() []string {
	out := make([]string, 0, len(f.open))
	for side := range f.open {
		out = append(out, side)
	}
	slices.Sort(out)
	return out
}

// Cleared runs a [FloatTracker] over nodes and returns its map.
func Cleared(nodes []*node.Node) ClearedMap {
	f := NewFloatTracker()
	for _, n := range nodes {
		f.Push(n)
	}
	return f.Cleared
}

// Pageflow returns the nodes laid out in normal flow.
func Pageflow(nodes []*node.Node) []*node.Node {
	out := make([]*node.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Pageflow() {
			out = append(out, n)
		}
	}
	return out
}

func sameDocumentParent(nodes []*node.Node) bool {
	for _, n := range nodes[1:] {
		if n.DocumentParent() != nodes[0].DocumentParent() {
			return false
		}
	}
	return true
}

// LinearX reports whether the in-flow nodes form one horizontal run.
func LinearX(nodes []*node.Node) bool {
	flow := Pageflow(nodes)
	if len(flow) <= 1 {
		return true
	}
	if sameDocumentParent(flow) {
		cleared := Cleared(flow)
		for i := 1; i < len(flow); i++ {
			if flow[i].AlignedVertically(flow[i-1], cleared, false) {
				return false
			}
		}
		return true
	}
	for _, a := range flow {
		for _, b := range flow {
			if a != b && a.Linear.Top >= b.Linear.Bottom {
				return false
			}
		}
	}
	return true
}

// LinearY reports whether the in-flow nodes form one vertical run.
func LinearY(nodes []*node.Node) bool {
	flow := Pageflow(nodes)
	if len(flow) <= 1 {
		return true
	}
	if sameDocumentParent(flow) {
		cleared := Cleared(flow)
		for i := 1; i < len(flow); i++ {
			if !flow[i].AlignedVertically(flow[i-1], cleared, false) {
				return false
			}
		}
		return true
	}
	for _, a := range flow {
		for _, b := range flow {
			if a != b && a.Linear.Left >= b.Linear.Right {
				return false
			}
		}
	}
	return true
}

func textPriority(n *node.Node) int {
	switch {
	case n.TextElement():
		return 0
	case n.PlainText():
		return 1
	}
	return 2
}

// TextBaseline returns the nodes that set the shared text baseline of a
// row. Among baseline-aligned nodes the winner has the tallest line
// height, then the largest font, then prefers elements holding text over
// bare text over anything else, then the lowest sibling index. Every node
// matching the winner's line height and font size is returned in input
// order.
func TextBaseline(nodes []*node.Node) []*node.Node {
	var candidates []*node.Node
	for _, n := range nodes {
		if n.Baseline() && !n.Hidden {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b *node.Node) int {
		return cmp.Or(
			cmp.Compare(b.LineHeight(), a.LineHeight()),
			cmp.Compare(b.FontSize(), a.FontSize()),
			cmp.Compare(textPriority(a), textPriority(b)),
			cmp.Compare(a.SiblingIndex(), b.SiblingIndex()),
		)
	})
	w := sorted[0]
	var out []*node.Node
	for _, n := range candidates {
		if n.LineHeight() == w.LineHeight() && n.FontSize() == w.FontSize() {
			out = append(out, n)
		}
	}
	return out
}

// OuterRegion returns the envelope of the nodes' Linear rectangles.
func OuterRegion(nodes []*node.Node) geom.Rect {
	rs := make([]geom.Rect, 0, len(nodes))
	for _, n := range nodes {
		rs = append(rs, n.Linear)
	}
	return geom.Union(rs...)
}

// SortByOrder sorts nodes into document order.
func SortByOrder(nodes []*node.Node) {
	slices.SortStableFunc(nodes, func(a, b *node.Node) int { return cmp.Compare(a.Order(), b.Order()) })
}

// SortByLeft sorts nodes by the left edge of their Linear rectangle, then
// document order.
func SortByLeft(nodes []*node.Node) {
	slices.SortStableFunc(nodes, func(a, b *node.Node) int {
		return cmp.Or(cmp.Compare(a.Linear.Left, b.Linear.Left), cmp.Compare(a.Order(), b.Order()))
	})
}

// SortByTop sorts nodes by the top edge of their Linear rectangle, then
// document order.
func SortByTop(nodes []*node.Node) {
	slices.SortStableFunc(nodes, func(a, b *node.Node) int {
		return cmp.Or(cmp.Compare(a.Linear.Top, b.Linear.Top), cmp.Compare(a.Order(), b.Order()))
	})
}
