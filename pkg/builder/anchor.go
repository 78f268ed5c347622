package builder

import (
	"math"

	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/view"
)

// anchor adds constraints to the children of every anchored container
// below v.
func (s *state) anchor(v *view.View) {
	if v.Anchored() {
		s.anchorChildren(v)
	}
	for _, c := range v.Children {
		s.anchor(c)
	}
}

// anchoring places the children of one container. Siblings are only
// referenced once placed, so the constraint graph has no cycles.
type anchoring struct {
	s        *state
	parent   *view.View
	content  geom.Rect
	padding  geom.Rect
	relative bool
	holder   *view.View
	placed   []*view.View
}

func (s *state) anchorChildren(v *view.View) {
	pn := s.nodeOf(v)
	if pn == nil {
		return
	}
	a := &anchoring{
		s:        s,
		parent:   v,
		content:  pn.Box,
		padding:  pn.Bounds.Shrink(pn.Border),
		relative: v.Kind == node.KindRelative,
		holder:   s.baselineHolder(v),
	}
	for _, c := range v.Children {
		cn := s.nodeOf(c)
		if cn == nil {
			continue
		}
		if c.Alignment.Has(node.AlignAbsolute) || !cn.Pageflow() {
			a.absolute(c, cn)
		} else {
			a.horizontal(c, cn)
			a.vertical(c, cn)
		}
		a.placed = append(a.placed, c)
	}
	if v.Kind == node.KindConstraint {
		s.chain(v, pn.Box)
	}
}

// baselineHolder returns the child carrying the dominant text baseline of
// a baseline row.
func (s *state) baselineHolder(v *view.View) *view.View {
	if !v.Alignment.Has(node.AlignBaseline) {
		return nil
	}
	var fallback *view.View
	for _, c := range v.Children {
		if !c.Alignment.Has(node.AlignBaseline) {
			continue
		}
		if !c.Container() {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

// absolute pins an out-of-flow child by its CSS offsets, measured from the
// parent's padding box.
func (a *anchoring) absolute(c *view.View, cn *node.Node) {
	pad, r := a.padding, cn.Bounds
	switch {
	case cn.Has("left", node.HasZero):
		c.Add(view.Constraint{Kind: view.ParentLeft, Margin: r.Left - pad.Left})
	case cn.Has("right", node.HasZero):
		c.Add(view.Constraint{Kind: view.ParentRight, Margin: pad.Right - r.Right})
	default:
		a.fallback(c, r, pad, view.Horizontal)
	}
	switch {
	case cn.Has("top", node.HasZero):
		c.Add(view.Constraint{Kind: view.ParentTop, Margin: r.Top - pad.Top})
	case cn.Has("bottom", node.HasZero):
		c.Add(view.Constraint{Kind: view.ParentBottom, Margin: pad.Bottom - r.Bottom})
	default:
		a.fallback(c, r, pad, view.Vertical)
	}
}

func (a *anchoring) horizontal(c *view.View, cn *node.Node) {
	tol, gap := a.s.settings.Layout.EdgeTolerance, a.s.settings.Layout.WhitespaceThreshold
	box, r, l := a.content, cn.Bounds, cn.Linear

	if geom.Near(l.Left, box.Left, tol) {
		c.Add(view.Constraint{Kind: view.ParentLeft, Margin: r.Left - box.Left})
		return
	}
	for i := len(a.placed) - 1; i >= 0; i-- {
		p := a.placed[i]
		pn := a.s.nodeOf(p)
		if pn == nil || !overlaps(l.Top, l.Bottom, pn.Linear.Top, pn.Linear.Bottom) {
			continue
		}
		if d := l.Left - pn.Linear.Right; d >= -tol && d <= gap {
			c.Add(view.Constraint{Kind: view.RightOf, Target: p.ID, Margin: max(r.Left-p.Bounds.Right, 0)})
			return
		}
	}
	for _, p := range a.placed {
		if geom.Near(r.Left, p.Bounds.Left, tol) {
			c.Add(view.Constraint{Kind: view.AlignLeft, Target: p.ID})
			return
		}
	}
	if geom.Near(l.Right, box.Right, tol) {
		c.Add(view.Constraint{Kind: view.ParentRight, Margin: box.Right - r.Right})
		return
	}
	a.fallback(c, r, box, view.Horizontal)
}

func (a *anchoring) vertical(c *view.View, cn *node.Node) {
	tol, gap := a.s.settings.Layout.EdgeTolerance, a.s.settings.Layout.WhitespaceThreshold
	box, r, l := a.content, cn.Bounds, cn.Linear

	if a.holder != nil && a.holder != c && cn.Baseline() {
		c.Add(view.Constraint{Kind: view.Baseline, Target: a.holder.ID})
		return
	}
	if geom.Near(l.Top, box.Top, tol) {
		c.Add(view.Constraint{Kind: view.ParentTop, Margin: r.Top - box.Top})
		return
	}
	for i := len(a.placed) - 1; i >= 0; i-- {
		p := a.placed[i]
		pn := a.s.nodeOf(p)
		if pn == nil || !overlaps(l.Left, l.Right, pn.Linear.Left, pn.Linear.Right) {
			continue
		}
		if d := l.Top - pn.Linear.Bottom; d >= -tol && d <= gap {
			c.Add(view.Constraint{Kind: view.Below, Target: p.ID, Margin: max(r.Top-p.Bounds.Bottom, 0)})
			return
		}
	}
	for _, p := range a.placed {
		if geom.Near(r.Top, p.Bounds.Top, tol) {
			c.Add(view.Constraint{Kind: view.AlignTop, Target: p.ID})
			return
		}
	}
	if geom.Near(l.Bottom, box.Bottom, tol) {
		c.Add(view.Constraint{Kind: view.ParentBottom, Margin: box.Bottom - r.Bottom})
		return
	}
	a.fallback(c, r, box, view.Vertical)
}

// fallback centers r in box when it sits in the middle, and otherwise
// places it by bias. Relative containers have no bias and pin the start
// edge instead.
func (a *anchoring) fallback(c *view.View, r, box geom.Rect, axis view.Axis) {
	before, after := r.Left-box.Left, box.Right-r.Right
	center, start, bias := view.CenterHorizontal, view.ParentLeft, view.BiasHorizontal
	if axis == view.Vertical {
		before, after = r.Top-box.Top, box.Bottom-r.Bottom
		center, start, bias = view.CenterVertical, view.ParentTop, view.BiasVertical
	}
	switch {
	case geom.Near(before, after, a.s.settings.Layout.EdgeTolerance):
		c.Add(view.Constraint{Kind: center})
	case a.relative:
		c.Add(view.Constraint{Kind: start, Margin: max(before, 0)})
	default:
		b := 0.0
		if free := before + after; free > 0 {
			b = math.Round(min(max(before/free, 0), 1)*1000) / 1000
		}
		c.Add(view.Constraint{Kind: bias, Bias: b})
	}
}

func overlaps(a0, a1, b0, b1 float64) bool { return a0 < b1 && b0 < a1 }
