package node

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/droidview/pkg/snapshot"
)

var groupStyle = snapshot.Style{
	"display":        "block",
	"position":       "static",
	"float":          "none",
	"clear":          "none",
	"vertical-align": "baseline",
}

// style returns the provider style overlaid with own overrides.
func (n *Node) style() snapshot.Style {
	var base snapshot.Style
	if n.Element != nil {
		base = n.provider().ComputedStyle(n.Element)
	} else {
		base = groupStyle
	}
	if len(n.styles) == 0 {
		return base
	}
	out := base.Clone()
	for k, v := range n.styles {
		out[k] = v
	}
	return out
}

// CSS returns the value of a style property. Values set with
// [Node.SetCSS] win over the captured computed style.
func (n *Node) CSS(attr string) string {
	if v, ok := n.styles[attr]; ok {
		return v
	}
	if n.Element == nil {
		return groupStyle.Get(attr)
	}
	return n.provider().ComputedStyle(n.Element).Get(attr)
}

// SetCSS overrides a style property on n only and drops memoized
// predicates. The snapshot is never modified.
func (n *Node) SetCSS(attr, value string) {
	if n.styles == nil {
		n.styles = make(map[string]string)
	}
	n.styles[attr] = value
	n.memo.reset()
}

// CSSInitial returns the value of a property as captured by the first
// SetBounds, falling back to the live value before that.
func (n *Node) CSSInitial(attr string) string {
	if n.initial != nil && n.initial.Style != nil {
		return n.initial.Style.Get(attr)
	}
	return n.CSS(attr)
}

// HasFlag widens what [Node.Has] accepts as a set value.
type HasFlag uint8

const (
	// HasZero counts zero lengths such as "0" and "0px".
	HasZero HasFlag = 1 << iota
	// HasAuto counts "auto".
	HasAuto
	// HasLeft counts "left".
	HasLeft
	// HasBaseline counts "baseline".
	HasBaseline
	// HasLength requires an absolute length unit.
	HasLength
	// HasPercent requires a percentage.
	HasPercent
)

type hasOptions struct {
	not     []string
	initial bool
}

// HasOption adjusts a single [Node.Has] query.
type HasOption func(*hasOptions)

// Not treats the given values as unset.
func Not(values ...string) HasOption {
	return func(o *hasOptions) { o.not = append(o.not, values...) }
}

// FromInitial reads the style captured by the first SetBounds.
func FromInitial() HasOption {
	return func(o *hasOptions) { o.initial = true }
}

// unsetValues are never considered set, whatever the flags.
var unsetValues = map[string]bool{
	"":                 true,
	"none":             true,
	"initial":          true,
	"normal":           true,
	"transparent":      true,
	"rgba(0, 0, 0, 0)": true,
}

// Has reports whether a style property carries a meaningful value.
//
// "none", "initial", "normal", "transparent" and fully transparent colors
// are never set. Zero lengths, "auto", "left" and "baseline" are set only
// when the matching flag is given. HasLength and HasPercent further
// restrict the unit.
func (n *Node) Has(attr string, flags HasFlag, opts ...HasOption) bool {
	var o hasOptions
	for _, opt := range opts {
		opt(&o)
	}
	var value string
	if o.initial {
		value = n.CSSInitial(attr)
	} else {
		value = n.CSS(attr)
	}
	value = strings.TrimSpace(value)

	if unsetValues[value] || TransparentColor(value) {
		return false
	}
	for _, v := range o.not {
		if v == value {
			return false
		}
	}
	switch value {
	case "auto":
		if flags&HasAuto == 0 {
			return false
		}
	case "left":
		if flags&HasLeft == 0 {
			return false
		}
	case "baseline":
		if flags&HasBaseline == 0 {
			return false
		}
	}
	if num, unit, ok := ParseLength(value); ok {
		if num == 0 && flags&HasZero == 0 {
			return false
		}
		if flags&HasLength != 0 && unit == "%" {
			return false
		}
		if flags&HasPercent != 0 && unit != "%" {
			return false
		}
		return true
	}
	return flags&(HasLength|HasPercent) == 0
}

// ParseLength splits a CSS length into its number and unit. A bare number
// has an empty unit.
func ParseLength(v string) (float64, string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, "", false
	}
	i := len(v)
	for i > 0 {
		c := v[i-1]
		if (c >= 'a' && c <= 'z') || c == '%' {
			i--
			continue
		}
		break
	}
	num, err := strconv.ParseFloat(v[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return num, v[i:], true
}

// Px converts a style property to pixels. Percentages resolve against
// base; em and rem resolve against the node's font size. Unparseable values
// yield 0.
func (n *Node) Px(attr string, base float64) float64 {
	num, unit, ok := ParseLength(n.CSS(attr))
	if !ok {
		return 0
	}
	switch unit {
	case "", "px":
		return num
	case "%":
		return num * base / 100
	case "em":
		return num * n.FontSize()
	case "rem":
		return num * 16
	case "pt":
		return num * 4 / 3
	}
	return num
}

// FontSize returns the font size in pixels, 16 when unknown.
func (n *Node) FontSize() float64 {
	num, unit, ok := ParseLength(n.CSS("font-size"))
	if !ok || num <= 0 {
		return 16
	}
	if unit == "pt" {
		return num * 4 / 3
	}
	return num
}

// LineHeight returns the used line height in pixels. "normal" resolves to
// 1.2 times the font size.
func (n *Node) LineHeight() float64 {
	v := n.CSS("line-height")
	num, unit, ok := ParseLength(v)
	if !ok || v == "normal" {
		return math.Round(n.FontSize() * 1.2)
	}
	switch unit {
	case "":
		return num * n.FontSize()
	case "%":
		return num * n.FontSize() / 100
	}
	return num
}

// ZIndex returns the numeric z-index, 0 for "auto".
func (n *Node) ZIndex() int {
	z, err := strconv.Atoi(strings.TrimSpace(n.CSS("z-index")))
	if err != nil {
		return 0
	}
	return z
}

// TransparentColor reports whether v is a color with zero alpha.
func TransparentColor(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "transparent":
		return true
	case strings.HasPrefix(v, "rgba(") || strings.HasPrefix(v, "hsla("):
		args := strings.Split(strings.TrimSuffix(v[5:], ")"), ",")
		if len(args) != 4 {
			return false
		}
		a, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64)
		return err == nil && a == 0
	case strings.HasPrefix(v, "#") && len(v) == 9:
		return v[7:] == "00"
	case strings.HasPrefix(v, "#") && len(v) == 5:
		return v[4] == '0'
	}
	return false
}
