package builder

import (
	"maps"
	"slices"

	"github.com/matzehuels/droidview/pkg/extension"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/view"
)

// slot is one arena entry. Children are kept as node ids until link time
// so that collapsed parents and deferred views can be resolved late.
type slot struct {
	view    *view.View
	pending []int
	linked  bool
}

func (s *state) slot(id int) *slot {
	if id < 0 || id >= len(s.arena) {
		return nil
	}
	return s.arena[id]
}

// emit creates the views of n and its visible render descendants.
func (s *state) emit(n *node.Node) {
	if s.arena == nil {
		s.arena = make([]*slot, s.tree.Len())
	}
	sl := &slot{view: s.makeView(n)}
	s.arena[n.ID] = sl
	for _, c := range n.RenderChildren() {
		if c.Hidden || s.slot(c.ID) != nil {
			continue
		}
		if target := s.deferTarget(c); target != nil {
			s.queue[target.ID] = append(s.queue[target.ID], c.ID)
		} else {
			sl.pending = append(sl.pending, c.ID)
		}
		s.emit(c)
	}
}

func (s *state) makeView(n *node.Node) *view.View {
	v := &view.View{}
	if o, ok := s.overrides[n.ID]; ok && !n.Sections.Has(node.SectionRenderExtension) {
		c := *o
		c.Attrs = maps.Clone(o.Attrs)
		c.Children = nil
		v = &c
	}
	v.NodeID = n.ID
	if v.Kind == node.KindNone {
		v.Kind = n.Kind
	}
	if v.Kind == node.KindNone {
		v.Kind = node.KindFrame
	}
	v.Tag = n.Tag()
	v.Bounds, v.Margin, v.Padding, v.Border = n.Bounds, n.Margin, n.Padding, n.Border
	v.Alignment |= n.Alignment
	if v.Kind == node.KindGrid {
		v.Columns = extension.ColumnsOf(n)
	}
	if cell, ok := extension.CellOf(n); ok {
		v.Cell = &cell
	}
	name := n.ElementID()
	if name == "" {
		name = v.Kind.String()
	}
	v.ID = s.ext.Resources.NewID(s.settings.Render.IDPrefix, name)
	return v
}

// deferTarget returns the node named by the data-target attribute of n.
// Unknown, hidden and self-nested targets are reported and ignored.
func (s *state) deferTarget(n *node.Node) *node.Node {
	id := n.Attr("data-target")
	if id == "" {
		return nil
	}
	target := s.tree.Lookup(s.doc.FindByID(id))
	switch {
	case target == nil:
		s.warn("data-target %q of node %d: no such element", id, n.ID)
		return nil
	case target.Hidden:
		s.warn("data-target %q of node %d: target is not rendered", id, n.ID)
		return nil
	}
	for p := target; p != nil; p = p.Parent() {
		if p == n {
			s.warn("data-target %q of node %d: target is inside the node", id, n.ID)
			return nil
		}
	}
	return target
}

// linkAll resolves the arena into a view tree rooted at the root node and
// splices deferred views into their targets.
func (s *state) linkAll() *view.View {
	root := s.link(s.root.ID)
	if root == nil {
		return nil
	}
	s.registry.BeforeInsert(s.ext, root)
	for _, target := range slices.Sorted(maps.Keys(s.queue)) {
		tv := s.link(target)
		for _, id := range s.queue[target] {
			v := s.link(id)
			switch {
			case v == nil:
			case tv == nil:
				s.warn("deferred view %s: target vanished during grouping", v.ID)
			case contains(v, tv):
				s.warn("deferred view %s: target %s is nested inside it", v.ID, tv.ID)
			default:
				tv.Children = append(tv.Children, v)
			}
		}
	}
	s.registry.AfterInsert(s.ext, root)
	return root
}

// link returns the view for node id with its children attached. Collapsed
// parents resolve to the child that replaced them.
func (s *state) link(id int) *view.View {
	from := id
	for range len(s.arena) {
		next, ok := s.alias[id]
		if !ok {
			break
		}
		id = next
	}
	sl := s.slot(id)
	if sl == nil {
		return nil
	}
	if src := s.slot(from); from != id && src != nil && sl.view.Cell == nil {
		sl.view.Cell = src.view.Cell
	}
	if sl.linked {
		return sl.view
	}
	sl.linked = true
	for _, cid := range sl.pending {
		if v := s.link(cid); v != nil {
			sl.view.Children = append(sl.view.Children, v)
		}
	}
	if sl.view.Alignment.Has(node.AlignSpace) {
		s.insertSpace(sl.view)
	}
	return sl.view
}

// insertSpace separates left and right floats with a stretching space.
func (s *state) insertSpace(v *view.View) {
	i := slices.IndexFunc(v.Children, func(c *view.View) bool {
		return c.Alignment.Has(node.AlignFloat | node.AlignRight)
	})
	if i <= 0 {
		return
	}
	space := &view.View{
		ID:     s.ext.Resources.NewID(s.settings.Render.IDPrefix, "space"),
		NodeID: -1,
		Kind:   node.KindSpace,
	}
	space.SetAttr(AttrWeight, "1")
	v.Children = slices.Insert(v.Children, i, space)
}

func contains(v, target *view.View) bool {
	if v == target {
		return true
	}
	for _, c := range v.Children {
		if contains(c, target) {
			return true
		}
	}
	return false
}

// viewOf returns the view emitted for n, following collapse aliases.
func (s *state) viewOf(n *node.Node) *view.View {
	if n == nil {
		return nil
	}
	id := n.ID
	for range len(s.arena) {
		next, ok := s.alias[id]
		if !ok {
			break
		}
		id = next
	}
	if sl := s.slot(id); sl != nil && sl.linked {
		return sl.view
	}
	return nil
}

// nodeOf returns the node a view was emitted for, or nil for synthetic
// views.
func (s *state) nodeOf(v *view.View) *node.Node {
	if v.NodeID < 0 {
		return nil
	}
	return s.tree.Node(v.NodeID)
}
