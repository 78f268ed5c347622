package node

import "github.com/matzehuels/droidview/pkg/geom"

// Boundary conventions:
//   - Intersect* treats both spans as half-open, so touching edges do not
//     intersect.
//   - Within* is closed on both ends.
//   - Outside* is strict, so touching edges are not outside.

// IntersectX reports whether n overlaps r horizontally.
func (n *Node) IntersectX(r geom.Rect, dim Dimension) bool {
	a := n.Rect(dim)
	return a.Left < r.Right && r.Left < a.Right
}

// IntersectY reports whether n overlaps r vertically.
func (n *Node) IntersectY(r geom.Rect, dim Dimension) bool {
	a := n.Rect(dim)
	return a.Top < r.Bottom && r.Top < a.Bottom
}

// Intersect reports whether n overlaps r on both axes.
func (n *Node) Intersect(r geom.Rect, dim Dimension) bool {
	return n.IntersectX(r, dim) && n.IntersectY(r, dim)
}

// WithinX reports whether n lies inside r horizontally.
func (n *Node) WithinX(r geom.Rect, dim Dimension) bool {
	a := n.Rect(dim)
	return a.Left >= r.Left && a.Right <= r.Right
}

// WithinY reports whether n lies inside r vertically.
func (n *Node) WithinY(r geom.Rect, dim Dimension) bool {
	a := n.Rect(dim)
	return a.Top >= r.Top && a.Bottom <= r.Bottom
}

// Within reports whether n lies inside r.
func (n *Node) Within(r geom.Rect, dim Dimension) bool {
	return n.WithinX(r, dim) && n.WithinY(r, dim)
}

// OutsideX reports whether n lies entirely left or right of r.
func (n *Node) OutsideX(r geom.Rect, dim Dimension) bool {
	a := n.Rect(dim)
	return a.Right < r.Left || a.Left > r.Right
}

// OutsideY reports whether n lies entirely above or below r.
func (n *Node) OutsideY(r geom.Rect, dim Dimension) bool {
	a := n.Rect(dim)
	return a.Bottom < r.Top || a.Top > r.Bottom
}

// Outside reports whether n is separated from r on either axis.
func (n *Node) Outside(r geom.Rect, dim Dimension) bool {
	return n.OutsideX(r, dim) || n.OutsideY(r, dim)
}

// ParentElementAsNode returns the node that anchors n.
//
// Nodes in normal flow anchor to their document parent. Other nodes anchor
// to the nearest positioned document ancestor. With allowNegative, an
// ancestor is skipped when n's negative offset reaches past that ancestor's
// own margin, and the search continues outwards. When no ancestor
// qualifies, fallback is returned, or the document parent when fallback is
// nil.
func (n *Node) ParentElementAsNode(allowNegative bool, fallback *Node) *Node {
	if n.Pageflow() {
		return n.documentParent
	}
	left := n.Px("left", 0)
	top := n.Px("top", 0)
	for a := n.documentParent; a != nil; a = a.documentParent {
		if !a.Positioned() && !a.DocumentRoot() {
			continue
		}
		if allowNegative {
			if n.Has("left", HasZero) && left < 0 && -left > a.Margin.Left {
				continue
			}
			if n.Has("top", HasZero) && top < 0 && -top > a.Margin.Top {
				continue
			}
		}
		return a
	}
	if fallback != nil {
		return fallback
	}
	return n.documentParent
}
