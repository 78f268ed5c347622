package node

import "strings"

type memoKey uint16

const (
	memoFloating memoKey = 1 << iota
	memoBlockStatic
	memoInline
	memoPageflow
	memoBaseline
	memoMultiLine
	memoTextElement
	memoPositioned
	memoAlignOrigin
)

// memo caches derived predicates. known marks computed keys, value holds
// their results. Mutations that can change a predicate call reset.
type memo struct {
	known, value memoKey
}

func (m *memo) reset() { *m = memo{} }

func (n *Node) cached(k memoKey, compute func() bool) bool {
	if n.memo.known&k != 0 {
		return n.memo.value&k != 0
	}
	v := compute()
	n.memo.known |= k
	if v {
		n.memo.value |= k
	} else {
		n.memo.value &^= k
	}
	return v
}

// Display returns the CSS display value.
func (n *Node) Display() string { return n.CSS("display") }

// Position returns the CSS position value.
func (n *Node) Position() string { return n.CSS("position") }

// Float returns "left" or "right" for floating nodes and "none" otherwise.
func (n *Node) Float() string {
	if !n.Floating() {
		return "none"
	}
	return n.CSS("float")
}

// Floating reports whether n floats left or right. Absolutely positioned
// nodes never float.
func (n *Node) Floating() bool {
	return n.cached(memoFloating, func() bool {
		switch n.Position() {
		case "absolute", "fixed":
			return false
		}
		f := n.CSS("float")
		return f == "left" || f == "right"
	})
}

// Block reports whether n generates a block-level box.
func (n *Node) Block() bool {
	switch n.Display() {
	case "block", "list-item", "table", "flex", "grid", "flow-root", "table-caption":
		return true
	}
	return false
}

// BlockStatic reports whether n is a block-level box in normal flow that
// does not float.
func (n *Node) BlockStatic() bool {
	return n.cached(memoBlockStatic, func() bool {
		return n.Block() && n.Pageflow() && !n.Floating()
	})
}

// InlineElement reports whether n takes part in an inline formatting
// context: text runs, inline and inline-level boxes.
func (n *Node) InlineElement() bool {
	return n.cached(memoInline, func() bool {
		if n.IsText() {
			return true
		}
		return strings.HasPrefix(n.Display(), "inline")
	})
}

// Positioned reports whether position is anything but static.
func (n *Node) Positioned() bool {
	return n.cached(memoPositioned, func() bool {
		switch n.Position() {
		case "", "static", "initial":
			return false
		}
		return true
	})
}

// AlignOrigin reports whether any of top, right, bottom or left is set
// explicitly. Zero offsets count.
func (n *Node) AlignOrigin() bool {
	return n.cached(memoAlignOrigin, func() bool {
		for _, side := range []string{"top", "right", "bottom", "left"} {
			if n.Has(side, HasZero|HasLeft) {
				return true
			}
		}
		return false
	})
}

// Pageflow reports whether n is laid out in normal flow: its position is
// static, initial or relative, or it has no explicit offsets.
func (n *Node) Pageflow() bool {
	return n.cached(memoPageflow, func() bool {
		switch n.Position() {
		case "", "static", "initial", "relative":
			return true
		}
		return !n.AlignOrigin()
	})
}

// Baseline reports whether n aligns on the text baseline of its line.
func (n *Node) Baseline() bool {
	return n.cached(memoBaseline, func() bool {
		if !n.Pageflow() || n.Floating() || !n.InlineElement() {
			return false
		}
		va := n.CSS("vertical-align")
		return va == "" || va == "baseline"
	})
}

// PlainText reports whether n is a bare text run.
func (n *Node) PlainText() bool { return n.IsText() }

// TextElement reports whether n is an element whose visible document
// children are all text runs.
func (n *Node) TextElement() bool {
	return n.cached(memoTextElement, func() bool {
		if n.Element == nil || n.IsText() || len(n.documentChildren) == 0 {
			return false
		}
		for _, c := range n.documentChildren {
			if !c.IsText() {
				return false
			}
		}
		return true
	})
}

// MultiLine reports whether the text of n wraps onto more than one line.
func (n *Node) MultiLine() bool {
	return n.cached(memoMultiLine, func() bool {
		if n.IsText() {
			return n.lineRuns > 1
		}
		if n.TextElement() {
			for _, c := range n.documentChildren {
				if c.MultiLine() {
					return true
				}
			}
		}
		return false
	})
}

// LineBreak reports whether n is an explicit line break.
func (n *Node) LineBreak() bool { return n.Tag() == "br" }

// AutoMarginLeft reports whether margin-left is auto.
func (n *Node) AutoMarginLeft() bool { return n.CSS("margin-left") == "auto" }

// AutoMarginRight reports whether margin-right is auto.
func (n *Node) AutoMarginRight() bool { return n.CSS("margin-right") == "auto" }

// AutoMargin reports whether either horizontal margin is auto.
func (n *Node) AutoMargin() bool { return n.AutoMarginLeft() || n.AutoMarginRight() }

// Clear returns the CSS clear value, "none" when unset.
func (n *Node) Clear() string {
	switch c := n.CSS("clear"); c {
	case "left", "right", "both":
		return c
	}
	return "none"
}

// WhiteSpaceNoWrap reports whether text in n never wraps.
func (n *Node) WhiteSpaceNoWrap() bool {
	switch n.CSS("white-space") {
	case "nowrap", "pre":
		return true
	}
	return false
}

// ZeroFootprint reports whether n occupies no area.
func (n *Node) ZeroFootprint() bool { return n.Bounds.IsZero() }
