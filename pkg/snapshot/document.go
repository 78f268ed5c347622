package snapshot

import (
	"strings"

	"github.com/matzehuels/droidview/pkg/geom"
)

// BoxModel holds the per-side margin, padding and border widths of an
// element in pixels.
type BoxModel struct {
	Margin  geom.Edges
	Padding geom.Edges
	Border  geom.Edges
}

// Hints carries the element facts the grouping engine needs beyond style
// and geometry.
type Hints struct {
	Tag         string
	Text        bool
	Image       *Image
	FormControl bool
	InputType   string
}

// Provider answers geometry and style queries about snapshot elements.
// Implementations return zero values for detached elements instead of
// failing.
type Provider interface {
	BoxModel(e *Element) BoxModel
	ComputedStyle(e *Element) Style
	BoundingRect(e *Element) geom.Rect
	RangeRects(e *Element) []geom.Rect
	IsVisible(e *Element) bool
	Hints(e *Element) Hints
}

// Viewport is the browser window size the snapshot was captured at.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is a linked snapshot. It implements [Provider].
//
// A Document is not safe for concurrent use: conversions run one document
// at a time.
type Document struct {
	URL      string
	Viewport Viewport
	Warnings []string
	Root     *Element

	elements []*Element
	memo     map[*Element]*memoEntry
}

type memoEntry struct {
	style   Style
	rect    *geom.Rect
	visible *bool
}

var _ Provider = (*Document)(nil)

// NewDocument links root into a new document.
func NewDocument(root *Element) *Document {
	d := &Document{Root: root}
	d.Link()
	return d
}

// Link sets parent, index and document pointers on every element and
// drops memoized answers. Call it after editing the element tree.
func (d *Document) Link() {
	d.elements = d.elements[:0]
	d.memo = make(map[*Element]*memoEntry)
	if d.Root == nil {
		return
	}
	d.Root.parent = nil
	d.Root.index = 0
	d.link(d.Root)
}

func (d *Document) link(e *Element) {
	e.doc = d
	d.elements = append(d.elements, e)
	for i, c := range e.Children {
		c.parent = e
		c.index = i
		d.link(c)
	}
}

// Elements returns every element in document order.
func (d *Document) Elements() []*Element { return d.elements }

// Images returns the image descriptors of every element that has one.
func (d *Document) Images() []*Image {
	var out []*Image
	for _, e := range d.elements {
		if e.Image != nil {
			out = append(out, e.Image)
		}
	}
	return out
}

// AddWarning records a non-fatal capture or conversion problem once.
func (d *Document) AddWarning(msg string) {
	for _, w := range d.Warnings {
		if w == msg {
			return
		}
	}
	d.Warnings = append(d.Warnings, msg)
}

// FindByID returns the first element with the given id attribute.
func (d *Document) FindByID(id string) *Element {
	if id == "" {
		return nil
	}
	for _, e := range d.elements {
		if e.ID() == id {
			return e
		}
	}
	return nil
}

func (d *Document) attached(e *Element) bool {
	return e != nil && e.doc == d
}

func (d *Document) entry(e *Element) *memoEntry {
	m, ok := d.memo[e]
	if !ok {
		m = &memoEntry{}
		d.memo[e] = m
	}
	return m
}

// BoxModel returns the element's margin, padding and border widths.
func (d *Document) BoxModel(e *Element) BoxModel {
	if !d.attached(e) || e.IsText() {
		return BoxModel{}
	}
	return BoxModel{Margin: e.Margin, Padding: e.Padding, Border: e.Border}
}

// ComputedStyle returns the defaults for the element's tag, overlaid with
// inherited text properties and the captured style.
func (d *Document) ComputedStyle(e *Element) Style {
	if e == nil {
		return Style{}
	}
	if !d.attached(e) {
		s := DefaultStyle(e.Tag)
		for k, v := range e.Style {
			s[k] = v
		}
		return s
	}
	m := d.entry(e)
	if m.style != nil {
		return m.style
	}
	s := DefaultStyle(e.Tag)
	if e.parent != nil {
		ps := d.ComputedStyle(e.parent)
		for _, prop := range inheritedProps {
			if v, ok := ps[prop]; ok {
				s[prop] = v
			}
		}
	}
	for k, v := range e.Style {
		s[k] = v
	}
	m.style = s
	return s
}

// BoundingRect returns the border box of e. Text runs report the union of
// their line rectangles. An image captured before it decoded reports its
// natural size. Detached elements report the zero Rect.
func (d *Document) BoundingRect(e *Element) geom.Rect {
	if !d.attached(e) {
		return geom.Rect{}
	}
	m := d.entry(e)
	if m.rect != nil {
		return *m.rect
	}
	var r geom.Rect
	switch {
	case e.Rect != nil:
		r = *e.Rect
		if img := e.Image; img != nil && r.Width() == 0 && r.Height() == 0 {
			r = geom.FromSize(r.Left, r.Top, float64(img.NaturalWidth), float64(img.NaturalHeight))
		}
	case e.IsText():
		r = geom.Union(e.Rects...)
	}
	m.rect = &r
	return r
}

// RangeRects returns the line rectangles of a text run, or the bounding
// rectangle of any other element.
func (d *Document) RangeRects(e *Element) []geom.Rect {
	if !d.attached(e) {
		return nil
	}
	if e.IsText() {
		return e.Rects
	}
	if r := d.BoundingRect(e); !r.IsZero() {
		return []geom.Rect{r}
	}
	return nil
}

// IsVisible reports whether e takes part in layout.
func (d *Document) IsVisible(e *Element) bool {
	if !d.attached(e) {
		return false
	}
	m := d.entry(e)
	if m.visible != nil {
		return *m.visible
	}
	v := d.visible(e)
	m.visible = &v
	return v
}

func (d *Document) visible(e *Element) bool {
	s := d.ComputedStyle(e)
	if s.Get("display") == "none" {
		return false
	}
	if e.IsText() {
		return strings.TrimSpace(e.Text) != "" && !d.BoundingRect(e).IsZero()
	}
	if e.Tag == "br" {
		return true
	}
	// Images stay in the tree even when they never decoded.
	if e.Image != nil && e.Image.Src != "" {
		return true
	}
	if !d.BoundingRect(e).IsZero() {
		return true
	}
	if f := s.Get("float"); f == "left" || f == "right" {
		return true
	}
	if c := s.Get("clear"); c != "" && c != "none" {
		return true
	}
	for _, hint := range []string{"data-ext", "data-target", "data-layout"} {
		if e.HasAttr(hint) {
			return true
		}
	}
	return false
}

var formTags = map[string]bool{
	"input": true, "button": true, "select": true, "textarea": true,
}

// Hints returns tag-level facts about e.
func (d *Document) Hints(e *Element) Hints {
	if e == nil {
		return Hints{}
	}
	h := Hints{
		Tag:         e.Tag,
		Text:        e.IsText(),
		Image:       e.Image,
		FormControl: formTags[e.Tag],
	}
	if e.Tag == "input" {
		h.InputType = strings.ToLower(e.Attr("type"))
		if h.InputType == "" {
			h.InputType = "text"
		}
	}
	return h
}
