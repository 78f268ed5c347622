package view

import "fmt"

// Axis is a layout axis.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MarshalText encodes the axis name.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes an axis name.
func (a *Axis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "horizontal":
		*a = Horizontal
	case "vertical":
		*a = Vertical
	default:
		return fmt.Errorf("unknown axis %q", b)
	}
	return nil
}

// ConstraintKind names the edge relation of a [Constraint].
type ConstraintKind uint8

const (
	ParentLeft ConstraintKind = iota + 1
	ParentRight
	ParentTop
	ParentBottom
	LeftOf
	RightOf
	Above
	Below
	AlignLeft
	AlignRight
	AlignTop
	AlignBottom
	Baseline
	CenterHorizontal
	CenterVertical
	BiasHorizontal
	BiasVertical
)

var constraintNames = map[ConstraintKind]string{
	ParentLeft:       "parentLeft",
	ParentRight:      "parentRight",
	ParentTop:        "parentTop",
	ParentBottom:     "parentBottom",
	LeftOf:           "leftOf",
	RightOf:          "rightOf",
	Above:            "above",
	Below:            "below",
	AlignLeft:        "alignLeft",
	AlignRight:       "alignRight",
	AlignTop:         "alignTop",
	AlignBottom:      "alignBottom",
	Baseline:         "baseline",
	CenterHorizontal: "centerHorizontal",
	CenterVertical:   "centerVertical",
	BiasHorizontal:   "biasHorizontal",
	BiasVertical:     "biasVertical",
}

func (k ConstraintKind) String() string {
	if s, ok := constraintNames[k]; ok {
		return s
	}
	return fmt.Sprintf("constraint(%d)", uint8(k))
}

// MarshalText encodes the constraint name.
func (k ConstraintKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a constraint name.
func (k *ConstraintKind) UnmarshalText(b []byte) error {
	for kind, name := range constraintNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown constraint %q", b)
}

// Axis returns the axis the constraint fixes.
func (k ConstraintKind) Axis() Axis {
	switch k {
	case ParentTop, ParentBottom, Above, Below, AlignTop, AlignBottom,
		Baseline, CenterVertical, BiasVertical:
		return Vertical
	}
	return Horizontal
}

// Parent reports whether the constraint targets the parent container.
func (k ConstraintKind) Parent() bool {
	switch k {
	case ParentLeft, ParentRight, ParentTop, ParentBottom,
		CenterHorizontal, CenterVertical, BiasHorizontal, BiasVertical:
		return true
	}
	return false
}

// Constraint ties one edge of a view to its parent or to a sibling.
// Target is empty for parent constraints. Margin is the gap in pixels.
// Bias places the view between the parent edges, 0 at the start.
type Constraint struct {
	Kind   ConstraintKind `json:"kind"`
	Target string         `json:"target,omitempty"`
	Margin float64        `json:"margin,omitzero"`
	Bias   float64        `json:"bias,omitzero"`
}

// ChainStyle distributes the members of a chain.
type ChainStyle string

const (
	ChainPacked       ChainStyle = "packed"
	ChainSpread       ChainStyle = "spread"
	ChainSpreadInside ChainStyle = "spread_inside"
)

// Chain is a run of edge-adjacent siblings along one axis that is laid out
// by one distribution rule instead of pairwise constraints.
type Chain struct {
	Axis    Axis       `json:"axis"`
	Style   ChainStyle `json:"style"`
	Members []string   `json:"members"`
}
