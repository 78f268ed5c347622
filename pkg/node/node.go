package node

import (
	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/snapshot"
)

// Dimension selects which of a node's concentric rectangles a geometric
// predicate reads.
type Dimension int

const (
	// DimLinear is the border box grown by the margins.
	DimLinear Dimension = iota
	// DimBounds is the border box reported by the provider.
	DimBounds
	// DimBox is the border box minus borders and paddings.
	DimBox
)

// Initial is the state of a node captured by its first [Node.SetBounds].
// Later calibrations never overwrite it.
type Initial struct {
	Bounds geom.Rect
	Linear geom.Rect
	Box    geom.Rect
	Margin geom.Edges
	Style  snapshot.Style
}

// Node is one visual unit: an element, a text run or a synthetic group.
//
// Render hierarchy (Parent, Children) changes during grouping and only
// through [Tree.Reparent]. Document hierarchy (DocumentParent,
// DocumentChildren) mirrors the DOM and never changes.
type Node struct {
	ID      int
	Element *snapshot.Element

	Bounds geom.Rect
	Linear geom.Rect
	Box    geom.Rect

	Margin  geom.Edges
	Padding geom.Edges
	Border  geom.Edges

	Sections   Section
	Procedures Procedure
	Resources  Resource
	Alignment  Alignment
	Kind       Kind

	// Hidden nodes stay in the tree for sibling geometry but are not
	// emitted.
	Hidden bool

	tree     *Tree
	group    bool
	initial  *Initial
	boundsOK bool
	lineRuns int

	styles map[string]string
	tags   map[string]string

	parent           *Node
	children         []*Node
	renderChildren   []*Node
	documentParent   *Node
	documentChildren []*Node
	depth            int
	companion        *Node

	memo memo
}

// IsGroup reports whether n was invented by the grouping engine.
func (n *Node) IsGroup() bool { return n.group }

// IsText reports whether n is a text run.
func (n *Node) IsText() bool { return n.Element != nil && n.Element.IsText() }

// Tag returns the element tag, or "" for groups.
func (n *Node) Tag() string {
	if n.Element == nil {
		return ""
	}
	return n.Element.Tag
}

// Attr returns an element attribute, or "" for groups.
func (n *Node) Attr(name string) string {
	if n.Element == nil {
		return ""
	}
	return n.Element.Attr(name)
}

// ElementID returns the element's id attribute.
func (n *Node) ElementID() string { return n.Attr("id") }

// Tree returns the tree that owns n.
func (n *Node) Tree() *Tree { return n.tree }

// Parent returns the render parent.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the render children in document order. The slice must
// not be modified.
func (n *Node) Children() []*Node { return n.children }

// VisibleChildren returns the render children that are not hidden.
func (n *Node) VisibleChildren() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// RenderChildren returns the final emission order. It defaults to the
// visible render children until [Node.SetRenderChildren] is called.
func (n *Node) RenderChildren() []*Node {
	if n.renderChildren != nil {
		return n.renderChildren
	}
	return n.VisibleChildren()
}

// SetRenderChildren fixes the emission order.
func (n *Node) SetRenderChildren(nodes []*Node) {
	n.renderChildren = append([]*Node(nil), nodes...)
}

// DocumentParent returns the node of the nearest DOM ancestor.
func (n *Node) DocumentParent() *Node { return n.documentParent }

// DocumentChildren returns the nodes whose DOM parent is n.
func (n *Node) DocumentChildren() []*Node { return n.documentChildren }

// DocumentRoot reports whether n has no DOM ancestor node.
func (n *Node) DocumentRoot() bool { return n.documentParent == nil }

// Depth is the DOM depth: DocumentParent().Depth() + 1, or 0 at the root.
func (n *Node) Depth() int { return n.depth }

// RenderDepth is Parent().RenderDepth() + 1, or 0 for a render root.
func (n *Node) RenderDepth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// SiblingIndex returns the DOM index of the node's base element.
func (n *Node) SiblingIndex() int {
	if e := n.BaseElement(); e != nil {
		return e.Index()
	}
	return 0
}

// BaseElement returns the element of n, or for groups the element of the
// first element-backed descendant.
func (n *Node) BaseElement() *snapshot.Element {
	if n.Element != nil {
		return n.Element
	}
	for _, c := range n.children {
		if e := c.BaseElement(); e != nil {
			return e
		}
	}
	return nil
}

// Order returns a key that sorts nodes in document order. Groups take the
// order of their first member.
func (n *Node) Order() int {
	if !n.group {
		return n.ID
	}
	if len(n.children) > 0 {
		return n.children[0].Order()
	}
	return n.ID
}

// Companion returns the control or label linked to n, if any.
func (n *Node) Companion() *Node { return n.companion }

// SetCompanion links n and c in both directions. The link never makes
// either node own the other.
func (n *Node) SetCompanion(c *Node) {
	n.companion = c
	if c != nil {
		c.companion = n
	}
}

// SetTag stores a routing tag that extensions read in later passes.
func (n *Node) SetTag(key, value string) {
	if n.tags == nil {
		n.tags = make(map[string]string)
	}
	n.tags[key] = value
}

// TagValue returns a routing tag set by [Node.SetTag].
func (n *Node) TagValue(key string) (string, bool) {
	v, ok := n.tags[key]
	return v, ok
}

// Initial returns the state captured by the first SetBounds, or nil.
func (n *Node) Initial() *Initial { return n.initial }

// Rect returns the rectangle selected by dim.
func (n *Node) Rect(dim Dimension) geom.Rect {
	switch dim {
	case DimBounds:
		return n.Bounds
	case DimBox:
		return n.Box
	default:
		return n.Linear
	}
}

// SetBounds reads geometry from the provider and derives Linear and Box.
//
// Without calibrate the call is a no-op once geometry has been set. With
// calibrate the bounds-derived fields are recomputed while the initial
// snapshot stays untouched. Text runs take their bounds from their line
// rectangles and become multi-line when those rectangles span more than one
// distinct line. Groups take the envelope of their children's Linear
// rectangles.
func (n *Node) SetBounds(calibrate bool) {
	if n.boundsOK && !calibrate {
		return
	}
	p := n.provider()
	switch {
	case n.group:
		rs := make([]geom.Rect, 0, len(n.children))
		for _, c := range n.children {
			rs = append(rs, c.Linear)
		}
		n.Bounds = geom.Union(rs...)
	case n.IsText():
		rects := p.RangeRects(n.Element)
		n.Bounds = geom.Union(rects...)
		n.lineRuns = distinctLines(rects)
	case n.Element != nil:
		n.Bounds = p.BoundingRect(n.Element)
		if !calibrate || !n.boundsOK {
			bm := p.BoxModel(n.Element)
			n.Margin, n.Padding, n.Border = bm.Margin, bm.Padding, bm.Border
		}
	}
	n.derive()
	n.boundsOK = true
	if n.initial == nil {
		n.initial = &Initial{
			Bounds: n.Bounds,
			Linear: n.Linear,
			Box:    n.Box,
			Margin: n.Margin,
			Style:  n.style().Clone(),
		}
	}
}

// SetMargin replaces the margins and recomputes Linear.
func (n *Node) SetMargin(m geom.Edges) {
	n.Margin = m
	n.derive()
}

// SetPadding replaces the paddings and recomputes Box.
func (n *Node) SetPadding(p geom.Edges) {
	n.Padding = p
	n.derive()
}

// ResetBox zeroes the selected margin and padding sides.
func (n *Node) ResetBox(sides BoxSide) {
	if sides.Has(MarginTop) {
		n.Margin.Top = 0
	}
	if sides.Has(MarginRight) {
		n.Margin.Right = 0
	}
	if sides.Has(MarginBottom) {
		n.Margin.Bottom = 0
	}
	if sides.Has(MarginLeft) {
		n.Margin.Left = 0
	}
	if sides.Has(PaddingTop) {
		n.Padding.Top = 0
	}
	if sides.Has(PaddingRight) {
		n.Padding.Right = 0
	}
	if sides.Has(PaddingBottom) {
		n.Padding.Bottom = 0
	}
	if sides.Has(PaddingLeft) {
		n.Padding.Left = 0
	}
	n.derive()
}

func (n *Node) derive() {
	n.Linear = n.Bounds.Expand(n.Margin)
	n.Box = n.Bounds.Shrink(n.Border.Add(n.Padding))
	n.memo.reset()
}

func (n *Node) provider() snapshot.Provider {
	if n.tree == nil || n.tree.provider == nil {
		return nilProvider{}
	}
	return n.tree.provider
}

func distinctLines(rects []geom.Rect) int {
	type line struct{ top, bottom float64 }
	seen := make(map[line]bool, len(rects))
	for _, r := range rects {
		if r.IsZero() {
			continue
		}
		seen[line{r.Top, r.Bottom}] = true
	}
	return len(seen)
}

// nilProvider answers for nodes created outside a tree.
type nilProvider struct{}

func (nilProvider) BoxModel(*snapshot.Element) snapshot.BoxModel { return snapshot.BoxModel{} }
func (nilProvider) ComputedStyle(e *snapshot.Element) snapshot.Style {
	if e == nil {
		return snapshot.DefaultStyle("div")
	}
	return snapshot.DefaultStyle(e.Tag)
}
func (nilProvider) BoundingRect(*snapshot.Element) geom.Rect { return geom.Rect{} }
func (nilProvider) RangeRects(*snapshot.Element) []geom.Rect { return nil }
func (nilProvider) IsVisible(*snapshot.Element) bool         { return false }
func (nilProvider) Hints(*snapshot.Element) snapshot.Hints   { return snapshot.Hints{} }
