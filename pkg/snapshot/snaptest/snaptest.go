// Package snaptest builds synthetic snapshots for tests.
//
//	doc := snaptest.Doc(
//	    snaptest.El("body", snaptest.Box(0, 0, 400, 200),
//	        snaptest.Children(
//	            snaptest.El("div", snaptest.Box(0, 0, 100, 50), snaptest.Style("float", "left")),
//	            snaptest.Text("hello", snaptest.Box(100, 0, 40, 20)),
//	        ),
//	    ),
//	)
package snaptest

import (
	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/snapshot"
)

// Option customizes an element built by [El].
type Option func(*snapshot.Element)

// Box is shorthand for geom.FromSize.
func Box(left, top, width, height float64) geom.Rect {
	return geom.FromSize(left, top, width, height)
}

// El builds an element with the given tag and border box.
func El(tag string, rect geom.Rect, opts ...Option) *snapshot.Element {
	r := rect
	e := &snapshot.Element{Tag: tag, Rect: &r}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Detached builds an element without geometry.
func Detached(tag string, opts ...Option) *snapshot.Element {
	e := &snapshot.Element{Tag: tag}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Text builds a text run with one rectangle per line box.
func Text(text string, lines ...geom.Rect) *snapshot.Element {
	return &snapshot.Element{Tag: snapshot.TextTag, Text: text, Rects: lines}
}

// Style sets computed style properties from alternating name/value pairs.
func Style(kv ...string) Option {
	return func(e *snapshot.Element) {
		if e.Style == nil {
			e.Style = snapshot.Style{}
		}
		for i := 0; i+1 < len(kv); i += 2 {
			e.Style[kv[i]] = kv[i+1]
		}
	}
}

// Attr sets an attribute.
func Attr(name, value string) Option {
	return func(e *snapshot.Element) {
		if e.Attrs == nil {
			e.Attrs = map[string]string{}
		}
		e.Attrs[name] = value
	}
}

// ID sets the id attribute.
func ID(id string) Option { return Attr("id", id) }

// Margin sets the margin widths.
func Margin(top, right, bottom, left float64) Option {
	return func(e *snapshot.Element) {
		e.Margin = geom.Edges{Top: top, Right: right, Bottom: bottom, Left: left}
	}
}

// Padding sets the padding widths.
func Padding(top, right, bottom, left float64) Option {
	return func(e *snapshot.Element) {
		e.Padding = geom.Edges{Top: top, Right: right, Bottom: bottom, Left: left}
	}
}

// Border sets the border widths.
func Border(top, right, bottom, left float64) Option {
	return func(e *snapshot.Element) {
		e.Border = geom.Edges{Top: top, Right: right, Bottom: bottom, Left: left}
	}
}

// Image attaches an image descriptor. Zero dimensions leave it pending.
func Image(src string, width, height int) Option {
	return func(e *snapshot.Element) {
		e.Image = &snapshot.Image{Src: src, NaturalWidth: width, NaturalHeight: height}
	}
}

// Children appends child elements.
func Children(cs ...*snapshot.Element) Option {
	return func(e *snapshot.Element) {
		e.Children = append(e.Children, cs...)
	}
}

// Doc links root into a document whose viewport matches the root box.
func Doc(root *snapshot.Element) *snapshot.Document {
	d := snapshot.NewDocument(root)
	if root.Rect != nil {
		d.Viewport = snapshot.Viewport{Width: root.Rect.Width(), Height: root.Rect.Height()}
	}
	return d
}
