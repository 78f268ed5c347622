// Package nodetest builds node trees from synthetic snapshots for tests.
package nodetest

import (
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/snapshot"
	"github.com/matzehuels/droidview/pkg/snapshot/snaptest"
)

// Index maps id attributes to nodes. Text runs are indexed as
// "text:<content>".
type Index map[string]*node.Node

// Build links root into a document and creates a node for every element
// in document order.
func Build(root *snapshot.Element) (*node.Tree, Index) {
	doc := snaptest.Doc(root)
	tree := node.NewTree(doc)
	idx := Index{}
	var walk func(e *snapshot.Element, parent *node.Node)
	walk = func(e *snapshot.Element, parent *node.Node) {
		n := tree.NewNode(e, parent)
		if id := e.ID(); id != "" {
			idx[id] = n
		}
		if e.IsText() {
			idx["text:"+e.Text] = n
		}
		for _, c := range e.Children {
			walk(c, n)
		}
	}
	walk(root, nil)
	return tree, idx
}

// Nodes returns the nodes for the given ids in order.
func (idx Index) Nodes(ids ...string) []*node.Node {
	out := make([]*node.Node, len(ids))
	for i, id := range ids {
		out[i] = idx[id]
	}
	return out
}
