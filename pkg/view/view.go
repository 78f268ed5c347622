// Package view defines the output of a conversion: an abstract tree of
// containers and leaves with their anchoring constraints.
//
// The tree carries no markup syntax. Renderers in pkg/render map each
// [node.Kind] to concrete tags and attributes.
//
// # Anchoring
//
// Children of relative and constraint containers carry [Constraint] values
// that tie one edge to the parent or to a sibling. Constraint containers
// may additionally group siblings into a [Chain].
package view

import (
	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/resource"
)

// View is one emitted container or leaf.
type View struct {
	ID        string         `json:"id"`
	NodeID    int            `json:"node"`
	Kind      node.Kind      `json:"kind"`
	Tag       string         `json:"tag,omitempty"`
	Class     string         `json:"class,omitempty"`
	Bounds    geom.Rect      `json:"bounds"`
	Margin    geom.Edges     `json:"margin,omitzero"`
	Padding   geom.Edges     `json:"padding,omitzero"`
	Border    geom.Edges     `json:"border,omitzero"`
	Alignment node.Alignment `json:"alignment,omitzero"`

	// Columns is the column count of grid containers.
	Columns int `json:"columns,omitempty"`
	// Cell places a child of a grid container.
	Cell *Cell `json:"cell,omitempty"`

	Attrs       map[string]string `json:"attrs,omitempty"`
	Constraints []Constraint      `json:"constraints,omitempty"`
	Chains      []Chain           `json:"chains,omitempty"`
	Children    []*View           `json:"children,omitempty"`
}

// Cell is the grid position of a view. Spans default to 1.
type Cell struct {
	Row        int `json:"row"`
	Column     int `json:"column"`
	RowSpan    int `json:"rowSpan"`
	ColumnSpan int `json:"columnSpan"`
}

// Container reports whether v arranges children.
func (v *View) Container() bool { return v.Kind.Is(node.KindContainer) }

// Anchored reports whether v positions its children with constraints.
func (v *View) Anchored() bool { return v.Kind.Is(node.KindAnchored) }

// SetAttr stores an attribute, ignoring empty values.
func (v *View) SetAttr(key, value string) {
	if value == "" {
		return
	}
	if v.Attrs == nil {
		v.Attrs = make(map[string]string)
	}
	v.Attrs[key] = value
}

// Attr returns an attribute value.
func (v *View) Attr(key string) string { return v.Attrs[key] }

// Add appends a constraint.
func (v *View) Add(c Constraint) { v.Constraints = append(v.Constraints, c) }

// Constrained reports whether v has a constraint of the given kind.
func (v *View) Constrained(kind ConstraintKind) bool {
	for _, c := range v.Constraints {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// AnchoredOn reports whether v has at least one constraint on axis.
func (v *View) AnchoredOn(axis Axis) bool {
	for _, c := range v.Constraints {
		if c.Kind.Axis() == axis {
			return true
		}
	}
	return false
}

// Document is the result of one conversion.
type Document struct {
	URL       string            `json:"url,omitempty"`
	Root      *View             `json:"root"`
	Resources *resource.Context `json:"-"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// Walk visits every view depth-first. Returning false from fn skips the
// children of that view.
func (d *Document) Walk(fn func(v *View, depth int) bool) {
	if d == nil || d.Root == nil {
		return
	}
	walk(d.Root, 0, fn)
}

func walk(v *View, depth int, fn func(*View, int) bool) {
	if !fn(v, depth) {
		return
	}
	for _, c := range v.Children {
		walk(c, depth+1, fn)
	}
}

// Find returns the view with the given id.
func (d *Document) Find(id string) *View {
	var found *View
	d.Walk(func(v *View, _ int) bool {
		if found != nil {
			return false
		}
		if v.ID == id {
			found = v
			return false
		}
		return true
	})
	return found
}

// FindNode returns the view emitted for the node with the given id.
func (d *Document) FindNode(nodeID int) *View {
	var found *View
	d.Walk(func(v *View, _ int) bool {
		if found != nil {
			return false
		}
		if v.NodeID == nodeID {
			found = v
		}
		return found == nil
	})
	return found
}

// Count returns the number of views and the depth of the tree.
func (d *Document) Count() (views, depth int) {
	d.Walk(func(_ *View, dep int) bool {
		views++
		depth = max(depth, dep+1)
		return true
	})
	return views, depth
}
