package builder

import (
	"slices"

	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/view"
)

type chainAxis struct {
	axis  view.Axis
	start view.ConstraintKind
	next  view.ConstraintKind
}

var chainAxes = []chainAxis{
	{view.Horizontal, view.ParentLeft, view.RightOf},
	{view.Vertical, view.ParentTop, view.Below},
}

// chain replaces runs of sibling constraints with chains. A run starts at
// a child pinned to the parent's start edge and follows the sibling
// constraints from there. Members lose their constraints on the chain
// axis.
func (s *state) chain(v *view.View, box geom.Rect) {
	for _, ax := range chainAxes {
		follower := map[string]*view.View{}
		for _, c := range v.Children {
			if con, ok := constraintOf(c, ax.next); ok {
				if _, taken := follower[con.Target]; !taken {
					follower[con.Target] = c
				}
			}
		}
		for _, c := range v.Children {
			if _, ok := constraintOf(c, ax.start); !ok {
				continue
			}
			members := []*view.View{c}
			for cur := c; len(members) <= len(v.Children); {
				f, ok := follower[cur.ID]
				if !ok {
					break
				}
				members = append(members, f)
				cur = f
			}
			if len(members) < 2 {
				continue
			}
			ch := view.Chain{Axis: ax.axis, Style: s.chainStyle(members, box, ax.axis)}
			for _, m := range members {
				ch.Members = append(ch.Members, m.ID)
				m.Constraints = slices.DeleteFunc(m.Constraints, func(con view.Constraint) bool {
					return con.Kind.Axis() == ax.axis
				})
			}
			v.Chains = append(v.Chains, ch)
		}
	}
}

// chainStyle is packed when every gap between members is within the
// packed offset, spread_inside when the run touches both parent edges and
// spread otherwise.
func (s *state) chainStyle(members []*view.View, box geom.Rect, axis view.Axis) view.ChainStyle {
	l := s.settings.Layout
	packed := true
	for i := 1; i < len(members); i++ {
		_, prevEnd := extent(members[i-1].Bounds, axis)
		start, _ := extent(members[i].Bounds, axis)
		if start-prevEnd > l.PackedOffset {
			packed = false
			break
		}
	}
	if packed {
		return view.ChainPacked
	}
	first := members[0].Bounds.Expand(members[0].Margin)
	last := members[len(members)-1].Bounds.Expand(members[len(members)-1].Margin)
	boxStart, boxEnd := extent(box, axis)
	firstStart, _ := extent(first, axis)
	_, lastEnd := extent(last, axis)
	if geom.Near(firstStart, boxStart, l.EdgeTolerance) && geom.Near(lastEnd, boxEnd, l.EdgeTolerance) {
		return view.ChainSpreadInside
	}
	return view.ChainSpread
}

func extent(r geom.Rect, axis view.Axis) (start, end float64) {
	if axis == view.Vertical {
		return r.Top, r.Bottom
	}
	return r.Left, r.Right
}

func constraintOf(v *view.View, kind view.ConstraintKind) (view.Constraint, bool) {
	for _, c := range v.Constraints {
		if c.Kind == kind {
			return c, true
		}
	}
	return view.Constraint{}, false
}
