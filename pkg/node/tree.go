package node

import (
	"errors"
	"slices"

	"github.com/matzehuels/droidview/pkg/snapshot"
)

var (
	// ErrCycle is returned by [Tree.Reparent] when the new parent is the
	// node itself or one of its render descendants.
	ErrCycle = errors.New("reparent would create a cycle")

	// ErrForeignNode is returned when a node from another tree is passed.
	ErrForeignNode = errors.New("node belongs to another tree")
)

// Tree owns every node of one conversion. Node ids are assigned in
// creation order and index the arena.
type Tree struct {
	provider  snapshot.Provider
	nodes     []*Node
	byElement map[*snapshot.Element]*Node
}

// NewTree returns an empty tree that reads geometry and style from p.
func NewTree(p snapshot.Provider) *Tree {
	return &Tree{provider: p, byElement: make(map[*snapshot.Element]*Node)}
}

// Provider returns the geometry and style source of the tree.
func (t *Tree) Provider() snapshot.Provider { return t.provider }

// Len returns the number of nodes created so far.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Nodes returns every node in creation order.
func (t *Tree) Nodes() []*Node { return t.nodes }

// Lookup returns the node created for e, or nil.
func (t *Tree) Lookup(e *snapshot.Element) *Node { return t.byElement[e] }

// NewNode creates the node for e under documentParent. The document parent
// also becomes the initial render parent. Geometry is read immediately.
func (t *Tree) NewNode(e *snapshot.Element, documentParent *Node) *Node {
	n := &Node{ID: len(t.nodes), Element: e, tree: t}
	t.nodes = append(t.nodes, n)
	if e != nil {
		t.byElement[e] = n
	}
	if documentParent != nil {
		n.documentParent = documentParent
		n.depth = documentParent.depth + 1
		documentParent.documentChildren = append(documentParent.documentChildren, n)
		documentParent.memo.reset()
		n.parent = documentParent
		documentParent.children = append(documentParent.children, n)
	}
	n.SetBounds(false)
	return n
}

// NewGroup creates a synthetic container under parent holding members.
// The group takes the render position of its first member and its bounds
// are the envelope of the members' Linear rectangles. Members keep their
// document parents.
func (t *Tree) NewGroup(parent *Node, members []*Node) (*Node, error) {
	g := &Node{ID: len(t.nodes), tree: t, group: true}
	if len(members) > 0 {
		g.documentParent = members[0].documentParent
		g.depth = members[0].depth
	} else if parent != nil {
		g.documentParent = parent
		g.depth = parent.depth + 1
	}
	for _, m := range members {
		if m.tree != t {
			return nil, ErrForeignNode
		}
	}
	t.nodes = append(t.nodes, g)

	at := -1
	if parent != nil && len(members) > 0 {
		at = slices.Index(parent.children, members[0])
	}
	for _, m := range members {
		t.detach(m)
		m.parent = g
		g.children = append(g.children, m)
	}
	if parent != nil {
		if at < 0 || at > len(parent.children) {
			at = len(parent.children)
		}
		parent.children = slices.Insert(parent.children, at, g)
		g.parent = parent
		parent.renderChildren = nil
	}
	g.SetBounds(false)
	return g, nil
}

// Reparent moves n under newParent, appending it to the render children.
// n is always detached from its previous parent first. A nil newParent
// makes n a render root.
func (t *Tree) Reparent(n, newParent *Node) error {
	return t.ReparentAt(n, newParent, -1)
}

// ReparentAt is [Tree.Reparent] with an insertion index; a negative index
// appends.
func (t *Tree) ReparentAt(n, newParent *Node, index int) error {
	if n.tree != t || (newParent != nil && newParent.tree != t) {
		return ErrForeignNode
	}
	for p := newParent; p != nil; p = p.parent {
		if p == n {
			return ErrCycle
		}
	}
	t.detach(n)
	if newParent == nil {
		return nil
	}
	n.parent = newParent
	if index < 0 || index > len(newParent.children) {
		newParent.children = append(newParent.children, n)
	} else {
		newParent.children = slices.Insert(newParent.children, index, n)
	}
	newParent.renderChildren = nil
	return nil
}

func (t *Tree) detach(n *Node) {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	p.renderChildren = nil
	n.parent = nil
}

// Ungroup dissolves a synthetic group, moving its members back into the
// group's position under its parent.
func (t *Tree) Ungroup(g *Node) error {
	if !g.group {
		return nil
	}
	parent := g.parent
	at := -1
	if parent != nil {
		at = slices.Index(parent.children, g)
	}
	members := slices.Clone(g.children)
	t.detach(g)
	for i, m := range members {
		idx := -1
		if at >= 0 {
			idx = at + i
		}
		if err := t.ReparentAt(m, parent, idx); err != nil {
			return err
		}
	}
	g.Hidden = true
	return nil
}
