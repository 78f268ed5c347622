// Package grouping classifies the children of a node into layout
// containers.
//
// [Engine.Arrange] works on one parent at a time. It partitions the
// children into flow and out-of-flow sets, scans the flow set into lines
// with [node.Node.AlignedVertically], classifies every line and decides
// the container kind of the parent. Lines that need their own container
// become synthetic groups. A parent that ends up wrapping a single child
// without adding anything visible is collapsed and the child promoted in
// its place.
//
// The engine never fails: layouts it cannot classify become anchored
// containers.
package grouping

import (
	"cmp"
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/droidview/pkg/config"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/nodelist"
)

// Decision is the outcome of arranging one parent.
type Decision struct {
	Kind      node.Kind
	Alignment node.Alignment
	// Groups lists the synthetic containers created for the parent.
	Groups []*node.Node
	// Promoted is set when the parent collapsed into its only child.
	Promoted *node.Node
	// Pruned is set when the parent was hidden as an empty leaf.
	Pruned bool
}

// Engine arranges nodes of one tree.
type Engine struct {
	tree     *node.Tree
	settings config.Layout
	anchored node.Kind
	logger   *log.Logger
}

// New returns an engine for tree. A nil logger discards output.
func New(tree *node.Tree, settings config.Layout, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	anchored := node.KindRelative
	if settings.ConstraintLayout {
		anchored = node.KindConstraint
	}
	return &Engine{tree: tree, settings: settings, anchored: anchored, logger: logger}
}

// Anchored returns the kind used for anchored containers.
func (e *Engine) Anchored() node.Kind { return e.anchored }

// Arrange classifies parent and its render children. It sets Kind and
// Alignment on parent, on the children and on every group it creates.
func (e *Engine) Arrange(parent *node.Node) Decision {
	children := parent.VisibleChildren()
	if len(children) == 0 || leafTags[parent.Tag()] {
		return e.classifyLeaf(parent)
	}

	p := partitionChildren(children)
	var d Decision
	var items []*node.Node

	switch {
	case len(p.above)+len(p.below) == 0:
		d.Kind, d.Alignment, items = e.arrangeFlow(parent, p.flow, &d)
	default:
		// Out-of-flow children need an anchored parent. The flow content
		// keeps its own container between the two paint layers.
		flow := p.flow
		if len(flow) > 1 {
			g, err := e.tree.NewGroup(parent, flow)
			if err == nil {
				d.Groups = append(d.Groups, g)
				var members []*node.Node
				g.Kind, g.Alignment, members = e.arrangeFlow(g, flow, &d)
				g.SetRenderChildren(members)
				flow = []*node.Node{g}
			}
		}
		for _, n := range p.below {
			n.Alignment |= node.AlignAbsolute
		}
		for _, n := range p.above {
			n.Alignment |= node.AlignAbsolute
		}
		items = slices.Concat(p.below, flow, p.above)
		d.Kind, d.Alignment = e.anchored, node.AlignAbsolute
	}
	items = append(items, p.passthrough...)
	parent.SetRenderChildren(items)
	parent.Kind, parent.Alignment = d.Kind, parent.Alignment|d.Alignment

	if child := e.collapsible(parent, items); child != nil {
		promote(parent, child)
		d.Promoted = child
	}
	e.logger.Debug("arranged", "node", parent.ID, "kind", d.Kind, "alignment", d.Alignment,
		"children", len(items), "groups", len(d.Groups))
	return d
}

// arrangeFlow lays out flow nodes inside container and returns the
// container classification and its render children.
func (e *Engine) arrangeFlow(container *node.Node, flow []*node.Node, d *Decision) (node.Kind, node.Alignment, []*node.Node) {
	if len(flow) == 0 {
		return node.KindFrame, 0, nil
	}
	rows := e.scan(orderFlow(flow))
	if len(rows) == 1 {
		kind, align, items := e.classifyRun(container, rows[0], d)
		return kind, align, items
	}

	items := make([]*node.Node, 0, len(rows))
	for _, row := range rows {
		if len(row) == 1 {
			items = append(items, row[0])
			continue
		}
		g, err := e.tree.NewGroup(container, row)
		if err != nil {
			items = append(items, row...)
			continue
		}
		d.Groups = append(d.Groups, g)
		var members []*node.Node
		g.Kind, g.Alignment, members = e.classifyRun(g, row, d)
		g.SetRenderChildren(members)
		items = append(items, g)
	}
	if !nodelist.LinearY(items) {
		return e.anchored, node.AlignVertical, items
	}
	return node.KindLinear, node.AlignVertical, items
}

// scan splits flow nodes into lines. The cleared map is computed once for
// the whole pass.
func (e *Engine) scan(flow []*node.Node) [][]*node.Node {
	cleared := nodelist.Cleared(flow)
	var (
		rows [][]*node.Node
		row  []*node.Node
	)
	for _, n := range flow {
		if len(row) > 0 && e.breaks(n, row[len(row)-1], cleared) {
			rows = append(rows, row)
			row = nil
		}
		row = append(row, n)
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func (e *Engine) breaks(n, prev *node.Node, cleared nodelist.ClearedMap) bool {
	if e.settings.FloatOverlapDisabled && n.Floating() != prev.Floating() {
		return true
	}
	if n.DocumentParent() != prev.DocumentParent() {
		return n.Linear.Top >= prev.Linear.Bottom
	}
	return n.AlignedVertically(prev, cleared, false)
}

// classifyRun decides the container for one line of nodes. Sub-runs that
// need their own container become groups under container.
func (e *Engine) classifyRun(container *node.Node, run []*node.Node, d *Decision) (node.Kind, node.Alignment, []*node.Node) {
	if len(run) == 1 {
		return node.KindLinear, node.AlignVertical | node.AlignSingle, run
	}

	floating := 0
	for _, n := range run {
		if n.Floating() {
			floating++
		}
	}
	switch {
	case floating == len(run):
		kind, align := floatRun(run)
		return kind, align, run

	case floating > 0:
		var floats, rest []*node.Node
		for _, n := range run {
			if n.Floating() {
				floats = append(floats, n)
			} else {
				rest = append(rest, n)
			}
		}
		items := make([]*node.Node, 0, 2)
		if len(floats) == 1 {
			floatRun(floats)
			items = append(items, floats[0])
		} else if g, err := e.tree.NewGroup(container, floats); err == nil {
			d.Groups = append(d.Groups, g)
			g.Kind, g.Alignment = floatRun(floats)
			g.SetRenderChildren(floats)
			items = append(items, g)
		}
		if len(rest) == 1 {
			items = append(items, rest[0])
		} else if g, err := e.tree.NewGroup(container, rest); err == nil {
			d.Groups = append(d.Groups, g)
			var members []*node.Node
			g.Kind, g.Alignment, members = e.classifyRun(g, rest, d)
			g.SetRenderChildren(members)
			items = append(items, g)
		}
		return node.KindFrame, node.AlignFloat | node.AlignVertical, items

	case percentRun(run, e.settings.EdgeTolerance):
		for _, n := range run {
			n.Alignment |= node.AlignPercent
		}
		if baselineMismatch(run) {
			return e.anchored, node.AlignHorizontal | node.AlignPercent, run
		}
		return node.KindLinear, node.AlignHorizontal | node.AlignPercent, run
	}

	align := node.AlignHorizontal
	anchored := !nodelist.LinearX(run)
	for _, n := range run {
		if n.MultiLine() {
			align |= node.AlignMultiline
			anchored = true
		}
	}
	if baselineMismatch(run) {
		align |= node.AlignBaseline
		anchored = true
	}
	if anchored {
		for _, n := range nodelist.TextBaseline(run) {
			n.Alignment |= node.AlignBaseline
		}
		return e.anchored, align, run
	}
	return node.KindLinear, align, run
}

// floatRun classifies a line of floats and orders it left floats first.
func floatRun(run []*node.Node) (node.Kind, node.Alignment) {
	align := node.AlignHorizontal | node.AlignFloat
	sides := nodelist.Floated(run)
	for _, n := range run {
		if n.Float() == "right" {
			n.Alignment |= node.AlignFloat | node.AlignRight
		} else {
			n.Alignment |= node.AlignFloat | node.AlignLeft
		}
	}
	if sides["left"] {
		align |= node.AlignLeft
	}
	if sides["right"] {
		align |= node.AlignRight
	}
	if sides["left"] && sides["right"] {
		align |= node.AlignSpace
	}
	return node.KindLinear, align
}

// percentRun reports whether run is a row of equally wide
// percentage-sized boxes that do not overlap.
func percentRun(run []*node.Node, tolerance float64) bool {
	width := run[0].Bounds.Width()
	for i, n := range run {
		if !n.Has("width", node.HasPercent) || math.Abs(n.Bounds.Width()-width) > tolerance {
			return false
		}
		for _, m := range run[i+1:] {
			if n.Intersect(m.Bounds, node.DimBounds) {
				return false
			}
		}
	}
	return true
}

// baselineMismatch reports whether some baseline-aligned nodes of run do
// not share the dominant text baseline.
func baselineMismatch(run []*node.Node) bool {
	aligned := 0
	for _, n := range run {
		if n.Baseline() {
			aligned++
		}
	}
	return aligned > len(nodelist.TextBaseline(run))
}

type partition struct {
	flow        []*node.Node
	above       []*node.Node
	below       []*node.Node
	passthrough []*node.Node
}

// partitionChildren splits children by flow participation. Out-of-flow
// nodes are ordered by z-index, then document order.
func partitionChildren(children []*node.Node) partition {
	var p partition
	for _, c := range children {
		switch {
		case c.DocumentRoot() || c.Procedures.Has(node.ProcedureLayout):
			p.passthrough = append(p.passthrough, c)
		case c.Pageflow():
			p.flow = append(p.flow, c)
		case c.ZIndex() < 0:
			p.below = append(p.below, c)
		default:
			p.above = append(p.above, c)
		}
	}
	byZ := func(a, b *node.Node) int {
		return cmp.Or(cmp.Compare(a.ZIndex(), b.ZIndex()), cmp.Compare(a.Order(), b.Order()))
	}
	slices.SortStableFunc(p.above, byZ)
	slices.SortStableFunc(p.below, byZ)
	return p
}

// orderFlow keeps document order but sorts every consecutive run of
// floats left floats first, each side by left edge.
func orderFlow(flow []*node.Node) []*node.Node {
	out := slices.Clone(flow)
	for i := 0; i < len(out); {
		if !out[i].Floating() {
			i++
			continue
		}
		j := i
		for j < len(out) && out[j].Floating() {
			j++
		}
		slices.SortStableFunc(out[i:j], func(a, b *node.Node) int {
			ra, rb := a.Float() == "right", b.Float() == "right"
			if ra != rb {
				if ra {
					return 1
				}
				return -1
			}
			return cmp.Compare(a.Linear.Left, b.Linear.Left)
		})
		i = j
	}
	return out
}
