package android

import (
	"slices"
	"strconv"

	"github.com/beevik/etree"

	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/view"
)

// constraintRules lists the ConstraintLayout edge pairs each constraint kind
// sets. Center and bias kinds pull on both parent edges.
var constraintRules = map[view.ConstraintKind][]string{
	view.ParentLeft:   {"Start_toStartOf"},
	view.ParentRight:  {"End_toEndOf"},
	view.ParentTop:    {"Top_toTopOf"},
	view.ParentBottom: {"Bottom_toBottomOf"},
	view.LeftOf:       {"End_toStartOf"},
	view.RightOf:      {"Start_toEndOf"},
	view.Above:        {"Bottom_toTopOf"},
	view.Below:        {"Top_toBottomOf"},
	view.AlignLeft:    {"Start_toStartOf"},
	view.AlignRight:   {"End_toEndOf"},
	view.AlignTop:     {"Top_toTopOf"},
	view.AlignBottom:  {"Bottom_toBottomOf"},
	view.Baseline:     {"Baseline_toBaselineOf"},

	view.CenterHorizontal: {"Start_toStartOf", "End_toEndOf"},
	view.CenterVertical:   {"Top_toTopOf", "Bottom_toBottomOf"},
	view.BiasHorizontal:   {"Start_toStartOf", "End_toEndOf"},
	view.BiasVertical:     {"Top_toTopOf", "Bottom_toBottomOf"},
}

var relativeRules = map[view.ConstraintKind]string{
	view.ParentLeft:       "layout_alignParentStart",
	view.ParentRight:      "layout_alignParentEnd",
	view.ParentTop:        "layout_alignParentTop",
	view.ParentBottom:     "layout_alignParentBottom",
	view.LeftOf:           "layout_toStartOf",
	view.RightOf:          "layout_toEndOf",
	view.Above:            "layout_above",
	view.Below:            "layout_below",
	view.AlignLeft:        "layout_alignStart",
	view.AlignRight:       "layout_alignEnd",
	view.AlignTop:         "layout_alignTop",
	view.AlignBottom:      "layout_alignBottom",
	view.Baseline:         "layout_alignBaseline",
	view.CenterHorizontal: "layout_centerHorizontal",
	view.CenterVertical:   "layout_centerVertical",
	view.BiasHorizontal:   "layout_alignParentStart",
	view.BiasVertical:     "layout_alignParentTop",
}

var marginSides = map[view.ConstraintKind]string{
	view.ParentLeft:   "Start",
	view.ParentRight:  "End",
	view.ParentTop:    "Top",
	view.ParentBottom: "Bottom",
	view.LeftOf:       "End",
	view.RightOf:      "Start",
	view.Above:        "Bottom",
	view.Below:        "Top",
	view.AlignLeft:    "Start",
	view.AlignRight:   "End",
	view.AlignTop:     "Top",
	view.AlignBottom:  "Bottom",
}

// constraints writes the anchoring attributes of v inside parent.
func (r *renderer) constraints(el *etree.Element, v, parent *view.View) {
	if parent.Kind == node.KindRelative {
		r.relative(el, v)
		return
	}
	for _, c := range v.Constraints {
		target := "parent"
		if !c.Kind.Parent() {
			target = "@id/" + c.Target
		}
		for _, attr := range constraintRules[c.Kind] {
			el.CreateAttr("app:layout_constraint"+attr, target)
		}
		switch c.Kind {
		case view.BiasHorizontal:
			el.CreateAttr("app:layout_constraintHorizontal_bias", formatBias(c.Bias))
		case view.BiasVertical:
			el.CreateAttr("app:layout_constraintVertical_bias", formatBias(c.Bias))
		}
		r.constraintMargin(el, c)
	}
	r.chainLinks(el, v, parent)
}

func (r *renderer) relative(el *etree.Element, v *view.View) {
	for _, c := range v.Constraints {
		attr, ok := relativeRules[c.Kind]
		if !ok {
			continue
		}
		value := "true"
		if !c.Kind.Parent() {
			value = "@id/" + c.Target
		}
		el.CreateAttr("android:"+attr, value)
		r.constraintMargin(el, c)
	}
}

func (r *renderer) constraintMargin(el *etree.Element, c view.Constraint) {
	side, ok := marginSides[c.Kind]
	if !ok || c.Margin <= 0 {
		return
	}
	el.CreateAttr("android:layout_margin"+side, r.dp(c.Margin))
}

// chainLinks writes the chain attributes of v when it is a member of one of
// the chains of parent. Each member links to its neighbours, the ends link
// to the parent, and the head carries the chain style.
func (r *renderer) chainLinks(el *etree.Element, v, parent *view.View) {
	content := parent.Bounds.Shrink(parent.Border.Add(parent.Padding))
	for _, ch := range parent.Chains {
		i := slices.Index(ch.Members, v.ID)
		if i < 0 {
			continue
		}
		start, end, startToEnd, endToStart := "Start_toStartOf", "End_toEndOf", "Start_toEndOf", "End_toStartOf"
		styleAttr, biasAttr, marginSide := "Horizontal_chainStyle", "Horizontal_bias", "Start"
		gap := v.Bounds.Left - content.Left
		if ch.Axis == view.Vertical {
			start, end, startToEnd, endToStart = "Top_toTopOf", "Bottom_toBottomOf", "Top_toBottomOf", "Bottom_toTopOf"
			styleAttr, biasAttr, marginSide = "Vertical_chainStyle", "Vertical_bias", "Top"
			gap = v.Bounds.Top - content.Top
		}

		if i == 0 {
			el.CreateAttr("app:layout_constraint"+start, "parent")
			el.CreateAttr("app:layout_constraint"+styleAttr, string(ch.Style))
			if ch.Style == view.ChainPacked {
				el.CreateAttr("app:layout_constraint"+biasAttr, "0")
			}
		} else {
			el.CreateAttr("app:layout_constraint"+startToEnd, "@id/"+ch.Members[i-1])
			if prev := findChild(parent, ch.Members[i-1]); prev != nil {
				gap = v.Bounds.Left - prev.Bounds.Right
				if ch.Axis == view.Vertical {
					gap = v.Bounds.Top - prev.Bounds.Bottom
				}
			}
		}
		if i == len(ch.Members)-1 {
			el.CreateAttr("app:layout_constraint"+end, "parent")
		} else {
			el.CreateAttr("app:layout_constraint"+endToStart, "@id/"+ch.Members[i+1])
		}
		if ch.Style == view.ChainPacked && gap > 0 {
			el.CreateAttr("android:layout_margin"+marginSide, r.dp(gap))
		}
	}
}

func findChild(parent *view.View, id string) *view.View {
	for _, c := range parent.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func formatBias(b float64) string {
	return strconv.FormatFloat(b, 'f', -1, 64)
}
