package snapshot

import (
	"strings"

	"github.com/matzehuels/droidview/pkg/geom"
)

// TextTag is the pseudo tag of text runs.
const TextTag = "#text"

// Style maps CSS property names to computed values.
type Style map[string]string

// Get returns the value of prop, or "" when it is not set.
func (s Style) Get(prop string) string {
	if s == nil {
		return ""
	}
	return s[prop]
}

// Clone returns an independent copy of s.
func (s Style) Clone() Style {
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Image describes the source and intrinsic size of an image element.
// NaturalWidth and NaturalHeight stay zero until the image is decoded.
type Image struct {
	Src           string `json:"src"`
	NaturalWidth  int    `json:"naturalWidth,omitempty"`
	NaturalHeight int    `json:"naturalHeight,omitempty"`
	Settled       bool   `json:"settled,omitempty"`
}

// Pending reports whether the image still waits for a decode.
func (i *Image) Pending() bool {
	return i != nil && i.Src != "" && !i.Settled && i.NaturalWidth == 0 && i.NaturalHeight == 0
}

// Element is one node of the captured document: an HTML element or a text
// run. Exported fields mirror the JSON format; hierarchy links are set by
// [Document.Link].
type Element struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Style    Style             `json:"style,omitempty"`
	Rect     *geom.Rect        `json:"rect,omitempty"`
	Margin   geom.Edges        `json:"margin,omitzero"`
	Padding  geom.Edges        `json:"padding,omitzero"`
	Border   geom.Edges        `json:"border,omitzero"`
	Text     string            `json:"text,omitempty"`
	Rects    []geom.Rect       `json:"rects,omitempty"`
	Image    *Image            `json:"image,omitempty"`
	Children []*Element        `json:"children,omitempty"`

	parent *Element
	doc    *Document
	index  int
}

// Parent returns the enclosing element, or nil for the root.
func (e *Element) Parent() *Element { return e.parent }

// Document returns the document e is linked into, or nil when detached.
func (e *Element) Document() *Document { return e.doc }

// Index returns the position of e among its parent's children.
func (e *Element) Index() int { return e.index }

// IsText reports whether e is a text run.
func (e *Element) IsText() bool { return e.Tag == TextTag }

// Attr returns the value of an attribute, or "".
func (e *Element) Attr(name string) string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// HasAttr reports whether the attribute is present, even when empty.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// ID returns the element's id attribute.
func (e *Element) ID() string { return e.Attr("id") }

// Depth returns the number of ancestors of e.
func (e *Element) Depth() int {
	d := 0
	for p := e.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Contains reports whether o is e or a descendant of e.
func (e *Element) Contains(o *Element) bool {
	for ; o != nil; o = o.parent {
		if o == e {
			return true
		}
	}
	return false
}

// ElementChildren returns the children that are not text runs.
func (e *Element) ElementChildren() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if !c.IsText() {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates the text of every descendant text run.
func (e *Element) TextContent() string {
	if e.IsText() {
		return e.Text
	}
	var b strings.Builder
	for _, c := range e.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Walk visits e and its descendants in document order. Returning false
// from fn skips the subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}
