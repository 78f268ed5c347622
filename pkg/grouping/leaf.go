package grouping

import (
	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/node"
)

// leafTags are elements emitted as leaves whatever their children.
var leafTags = map[string]bool{
	"img":      true,
	"svg":      true,
	"input":    true,
	"textarea": true,
	"select":   true,
	"button":   true,
}

var inputKinds = map[string]node.Kind{
	"checkbox": node.KindCheckbox,
	"radio":    node.KindRadio,
	"submit":   node.KindButton,
	"reset":    node.KindButton,
	"button":   node.KindButton,
	"image":    node.KindImage,
}

// classifyLeaf decides the kind of a node without visible children.
// Children of leaf elements such as buttons are hidden; their text is read
// from the element when the view is emitted.
func (e *Engine) classifyLeaf(n *node.Node) Decision {
	for _, c := range n.Children() {
		c.Hidden = true
	}

	kind, prune := e.leafKind(n)
	if prune {
		n.Hidden = true
		e.logger.Debug("pruned", "node", n.ID, "tag", n.Tag())
		return Decision{Pruned: true}
	}
	n.Kind = kind
	return Decision{Kind: kind, Alignment: n.Alignment}
}

func (e *Engine) leafKind(n *node.Node) (node.Kind, bool) {
	if n.IsText() {
		return node.KindText, false
	}
	if n.LineBreak() {
		return node.KindNone, true
	}
	h := e.tree.Provider().Hints(n.Element)
	switch n.Tag() {
	case "img", "svg":
		return node.KindImage, false
	case "input":
		if h.InputType == "hidden" {
			return node.KindNone, true
		}
		if k, ok := inputKinds[h.InputType]; ok {
			return k, false
		}
		return node.KindInput, false
	case "textarea":
		return node.KindInput, false
	case "select":
		return node.KindSelect, false
	case "button":
		return node.KindButton, false
	case "hr":
		return node.KindLine, false
	}
	if h.Image != nil {
		return node.KindImage, false
	}

	bordered := n.Border != (geom.Edges{})
	if n.Has("background-image", 0) && !bordered && n.CSS("background-repeat") == "no-repeat" {
		return node.KindImage, false
	}
	if bordered || n.Has("background-color", 0) {
		return node.KindLine, false
	}
	if e.settings.CollapseUnattributedElements && n.ZeroFootprint() && n.ElementID() == "" {
		return node.KindNone, true
	}
	return node.KindFrame, false
}

// collapsible returns the only child of parent when parent adds nothing
// visible around it and can be replaced by the child.
func (e *Engine) collapsible(parent *node.Node, items []*node.Node) *node.Node {
	if len(items) != 1 || parent.IsGroup() || parent.DocumentRoot() || parent.Element == nil {
		return nil
	}
	child := items[0]
	if !child.Pageflow() || child.Floating() || child.AlignOrigin() {
		return nil
	}
	switch {
	case parent.ElementID() != "",
		parent.Attr("data-ext") != "",
		parent.Attr("data-target") != "",
		parent.Attr("draggable") == "true",
		parent.Floating(),
		!parent.Pageflow(),
		parent.Border != (geom.Edges{}),
		parent.Has("background-color", 0),
		parent.Has("background-image", 0),
		explicitBox(parent, child, e.settings.EdgeTolerance):
		return nil
	}
	return child
}

// explicitBox reports whether parent sets a size of its own. A width or
// height only counts when the content box differs from the margin box of
// the child, since computed styles resolve every size to pixels.
func explicitBox(parent, child *node.Node, tolerance float64) bool {
	for _, p := range []string{"min-width", "min-height", "max-width", "max-height"} {
		if parent.Has(p, 0) {
			return true
		}
	}
	if parent.Has("width", 0) && !geom.Near(parent.Box.Width(), child.Linear.Width(), tolerance) {
		return true
	}
	return parent.Has("height", 0) && !geom.Near(parent.Box.Height(), child.Linear.Height(), tolerance)
}

// promote moves the margin budget of parent onto child: the child's
// effective margin becomes parent margin + parent padding + child margin.
func promote(parent, child *node.Node) {
	m := parent.Margin.Add(parent.Padding).Add(child.Margin)
	child.SetMargin(m)
	parent.Alignment |= node.AlignSingle
}
