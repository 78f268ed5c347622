package node

// ClearedMap records, for each node that closes an open float, the side it
// clears: "left", "right" or "both".
type ClearedMap map[*Node]string

// Has reports whether n clears a float.
func (m ClearedMap) Has(n *Node) bool {
	_, ok := m[n]
	return ok
}

// AlignedVertically reports whether n must start a new line below previous.
// Both nodes must share a document parent; otherwise n is not aligned.
//
// firstNode is true while n is the first node of the run being scanned,
// which suppresses the clear and float-stacking rules.
func (n *Node) AlignedVertically(previous *Node, cleared ClearedMap, firstNode bool) bool {
	if previous == nil || n.documentParent == nil || previous.documentParent != n.documentParent {
		return false
	}
	parent := n.documentParent

	if n.LineBreak() || previous.LineBreak() {
		return true
	}
	if previous.BlockStatic() {
		return true
	}
	if parent.Box.Width() > 0 && previous.Bounds.Width() > parent.Box.Width() &&
		(!previous.PlainText() || previous.WhiteSpaceNoWrap()) {
		return true
	}
	if (previous.Float() == "left" && n.AutoMarginRight()) ||
		(previous.Float() == "right" && n.AutoMarginLeft()) {
		return true
	}
	if !previous.Floating() && ((!n.InlineElement() && !n.Floating()) || n.BlockStatic()) {
		return true
	}
	if previous.PlainText() && previous.MultiLine() && !n.inRelativeParent() {
		return true
	}
	if n.BlockStatic() && (!previous.InlineElement() || (cleared.Has(previous) && previous.Floating())) {
		return true
	}
	if !firstNode && cleared.Has(n) {
		return true
	}
	if !firstNode && n.Floating() && previous.Floating() && n.Linear.Top >= previous.Linear.Bottom {
		return true
	}
	return false
}

func (n *Node) inRelativeParent() bool {
	p := n.parent
	if p == nil {
		p = n.documentParent
	}
	return p != nil && p.Kind == KindRelative
}
