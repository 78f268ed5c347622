package builder

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/droidview/pkg/extension"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/snapshot"
)

// collect creates the node tree. Invisible elements donate their children
// to the nearest visible ancestor; display:none hides a whole subtree.
func (s *state) collect() {
	var walk func(e *snapshot.Element, parent *node.Node)
	walk = func(e *snapshot.Element, parent *node.Node) {
		if parent != nil && s.doc.ComputedStyle(e).Get("display") == "none" {
			return
		}
		host := parent
		if parent == nil || s.doc.IsVisible(e) {
			host = s.tree.NewNode(e, parent)
		}
		for _, c := range e.Children {
			walk(c, host)
		}
	}
	walk(s.doc.Root, nil)
	s.root = s.tree.Node(0)

	s.linkCompanions()
	s.reparentOutOfFlow()
}

// linkCompanions pairs labels with the control they describe, either by
// the for attribute or by nesting.
func (s *state) linkCompanions() {
	for _, n := range s.tree.Nodes() {
		if n.Tag() != "label" {
			continue
		}
		var control *node.Node
		if id := n.Attr("for"); id != "" {
			control = s.tree.Lookup(s.doc.FindByID(id))
		} else {
			n.Element.Walk(func(e *snapshot.Element) bool {
				if control != nil {
					return false
				}
				if c := s.tree.Lookup(e); c != nil && c != n && s.doc.Hints(e).FormControl {
					control = c
					return false
				}
				return true
			})
		}
		if control != nil && control != n {
			n.SetCompanion(control)
		}
	}
}

// reparentOutOfFlow moves absolutely positioned nodes under the node their
// offsets are measured from. Fixed nodes anchor to the root.
func (s *state) reparentOutOfFlow() {
	for _, n := range slices.Clone(s.tree.Nodes()) {
		if n == s.root || n.Pageflow() {
			continue
		}
		anchor := s.root
		if n.Position() != "fixed" {
			anchor = n.ParentElementAsNode(true, s.root)
		}
		if anchor == nil || anchor == n.Parent() {
			continue
		}
		if err := s.tree.Reparent(n, anchor); err != nil {
			s.warn("node %d (%s): keep document parent: %v", n.ID, n.Tag(), err)
		}
	}
}

// index builds the column and depth maps and runs the Init hooks.
func (s *state) index() {
	s.registry.BeforeInit(s.ext)
	for _, n := range s.tree.Nodes() {
		s.ext.XMap.Add(n)
		parent := -1
		if p := n.Parent(); p != nil {
			parent = p.ID
		}
		depth := n.RenderDepth()
		if s.ymap[depth] == nil {
			s.ymap[depth] = map[int][]*node.Node{}
		}
		s.ymap[depth][parent] = append(s.ymap[depth][parent], n)
		s.registry.Init(s.ext, n)
	}
	s.registry.AfterInit(s.ext)
}

// arrange classifies every node top-down. Buckets are copied before use:
// grouping reparents nodes while the pass runs.
func (s *state) arrange(ctx context.Context) error {
	for _, depth := range slices.Sorted(maps.Keys(s.ymap)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		bucket := s.ymap[depth]
		for _, parent := range slices.Sorted(maps.Keys(bucket)) {
			for _, n := range slices.Clone(bucket[parent]) {
				s.process(n)
			}
		}
	}
	return nil
}

func (s *state) process(n *node.Node) {
	if n.Hidden || n.Sections.Has(node.SectionTraverse) {
		return
	}
	var (
		res  extension.Result
		name string
	)
	if !n.Sections.Has(node.SectionExtension) {
		res, name = s.registry.ProcessNode(s.ext, n)
	}
	if res.Output != nil {
		s.overrides[n.ID] = res.Output
	}
	if res.Next {
		hideDescendants(n)
		s.logger.Debug("skipped subtree", "node", n.ID, "extension", name)
		return
	}
	for _, c := range n.VisibleChildren() {
		child := s.registry.ProcessChild(s.ext, c, n)
		if child.Output != nil {
			s.overrides[c.ID] = child.Output
		}
		if child.Next {
			hideDescendants(c)
		}
	}
	if res.Complete {
		s.logger.Debug("classified by extension", "node", n.ID, "extension", name, "kind", n.Kind)
		return
	}

	d := s.engine.Arrange(n)
	switch {
	case d.Pruned && n == s.root:
		n.Hidden = false
		n.Kind = node.KindFrame
	case d.Promoted != nil:
		s.alias[n.ID] = d.Promoted.ID
	}
}

func hideDescendants(n *node.Node) {
	for _, c := range n.Children() {
		c.Hidden = true
		hideDescendants(c)
	}
}
