package builder

import (
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/matzehuels/droidview/pkg/extension"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/resource"
	"github.com/matzehuels/droidview/pkg/view"
)

// Attribute keys set on views. Values that name resources use the
// "@kind/name" form.
const (
	AttrText        = "text"
	AttrHint        = "hint"
	AttrStyle       = "style"
	AttrBackground  = "background"
	AttrGravity     = "gravity"
	AttrSrc         = "src"
	AttrScaleType   = "scaleType"
	AttrDescription = "contentDescription"
	AttrInputType   = "inputType"
	AttrChecked     = "checked"
	AttrLabelFor    = "labelFor"
	AttrMarker      = "marker"
	AttrWeight      = "weight"
	AttrBorderColor = "borderColor"
	AttrBorderWidth = "borderWidth"
	AttrRadius      = "cornerRadius"
)

var inputTypes = map[string]string{
	"email":    "textEmailAddress",
	"password": "textPassword",
	"number":   "number",
	"tel":      "phone",
	"url":      "textUri",
	"search":   "text",
	"date":     "date",
	"time":     "time",
}

var scaleTypes = map[string]string{
	"cover":   "centerCrop",
	"contain": "fitCenter",
	"fill":    "fitXY",
	"none":    "center",
}

var gravities = map[string]string{
	"center": "center_horizontal",
	"right":  "end",
	"end":    "end",
}

// populate fills view attributes from styles and element content. Text and
// colors are interned into the resource context.
func (s *state) populate(v *view.View) {
	if n := s.nodeOf(v); n != nil {
		s.populateView(v, n)
	}
	for _, c := range v.Children {
		s.populate(c)
	}
}

func (s *state) populateView(v *view.View, n *node.Node) {
	res := s.ext.Resources
	if !n.IsText() && n.Element != nil {
		if name, ok := res.AddColor(n.CSS("background-color")); ok {
			v.SetAttr(AttrBackground, "@color/"+name)
		}
		if b := n.Border; v.Kind != node.KindLine && !b.IsZero() {
			if name, ok := res.AddColor(n.CSS("border-top-color")); ok {
				v.SetAttr(AttrBorderColor, "@color/"+name)
				v.SetAttr(AttrBorderWidth, formatDim(s.settings.Render.DP(max(b.Top, b.Right, b.Bottom, b.Left))))
			}
		}
		if r := n.Px("border-top-left-radius", 0); r > 0 {
			v.SetAttr(AttrRadius, formatDim(s.settings.Render.DP(r)))
		}
		if title := n.Attr("title"); title != "" {
			if name, ok := res.AddString(title); ok {
				v.SetAttr(AttrDescription, "@string/"+name)
			}
		}
	}

	switch {
	case v.Kind == node.KindText:
		s.setText(v, textOf(n))
		s.setAppearance(v, n)
	case v.Kind.Is(node.KindControl):
		s.populateControl(v, n)
	case v.Kind == node.KindImage:
		s.populateImage(v, n)
	case v.Kind == node.KindLine:
		if v.Attr(AttrBackground) == "" {
			if name, ok := res.AddColor(n.CSS("border-top-color")); ok {
				v.SetAttr(AttrBackground, "@color/"+name)
			}
		}
	}

	if m, ok := n.TagValue(extension.TagMarker); ok {
		v.SetAttr(AttrMarker, m)
	}
	if c := s.companionOf(n); c != nil && c.Tag() != "label" {
		if cv := s.viewOf(c); cv != nil && cv != v {
			v.SetAttr(AttrLabelFor, cv.ID)
		}
	}
}

func (s *state) populateControl(v *view.View, n *node.Node) {
	e := n.Element
	if e == nil {
		return
	}
	switch v.Kind {
	case node.KindButton:
		text := strings.TrimSpace(e.TextContent())
		if text == "" {
			text = e.Attr("value")
		}
		s.setText(v, text)
	case node.KindInput:
		s.setText(v, e.Attr("value"))
		if name, ok := s.ext.Resources.AddString(e.Attr("placeholder")); ok {
			v.SetAttr(AttrHint, "@string/"+name)
		}
		if n.Tag() == "textarea" {
			v.SetAttr(AttrInputType, "textMultiLine")
		} else {
			v.SetAttr(AttrInputType, inputTypes[s.doc.Hints(e).InputType])
		}
	case node.KindCheckbox, node.KindRadio:
		if e.HasAttr("checked") {
			v.SetAttr(AttrChecked, "true")
		}
		if c := s.companionOf(n); c != nil && c.Element != nil {
			s.setText(v, strings.TrimSpace(c.Element.TextContent()))
		}
	case node.KindSelect:
		for _, o := range e.ElementChildren() {
			if o.Tag == "option" {
				if name, ok := s.ext.Resources.AddString(o.TextContent()); ok {
					v.SetAttr(AttrHint, "@string/"+name)
				}
				break
			}
		}
	}
	s.setAppearance(v, n)
}

func (s *state) populateImage(v *view.View, n *node.Node) {
	src := n.Attr("src")
	if e := n.Element; e != nil && e.Image != nil && e.Image.Src != "" {
		src = e.Image.Src
	}
	if src == "" {
		src = cssURL(n.CSS("background-image"))
	}
	if src != "" {
		v.SetAttr(AttrSrc, "@drawable/"+drawableName(src))
	}
	if name, ok := s.ext.Resources.AddString(n.Attr("alt")); ok {
		v.SetAttr(AttrDescription, "@string/"+name)
	}
	v.SetAttr(AttrScaleType, scaleTypes[n.CSS("object-fit")])
}

func (s *state) setText(v *view.View, text string) {
	if name, ok := s.ext.Resources.AddString(text); ok {
		v.SetAttr(AttrText, "@string/"+name)
	}
}

// setAppearance collects font and color properties into a shared style.
func (s *state) setAppearance(v *view.View, n *node.Node) {
	res := s.ext.Resources
	look := map[string]string{
		"textSize": formatDim(s.settings.Render.DP(n.FontSize())) + "sp",
	}
	if name, ok := res.AddColor(n.CSS("color")); ok {
		look["textColor"] = "@color/" + name
	}
	var styles []string
	if w := n.CSS("font-weight"); w == "bold" || w == "bolder" || atoi(w) >= 600 {
		styles = append(styles, "bold")
	}
	if n.CSS("font-style") == "italic" {
		styles = append(styles, "italic")
	}
	if len(styles) > 0 {
		look["textStyle"] = strings.Join(styles, "|")
	}
	v.SetAttr(AttrStyle, "@style/"+res.AddStyle("text_appearance", look))
	v.SetAttr(AttrGravity, gravities[n.CSS("text-align")])
}

// companionOf returns the companion of n or of a parent n replaced.
func (s *state) companionOf(n *node.Node) *node.Node {
	for cur := n; cur != nil; {
		if c := cur.Companion(); c != nil {
			return c
		}
		p := cur.Parent()
		if p == nil || s.alias[p.ID] != cur.ID {
			return nil
		}
		cur = p
	}
	return nil
}

func textOf(n *node.Node) string {
	if n.Element == nil {
		return ""
	}
	return strings.TrimSpace(n.Element.TextContent())
}

// cssURL extracts the address of a url(...) value.
func cssURL(v string) string {
	i := strings.Index(v, "url(")
	if i < 0 {
		return ""
	}
	rest := v[i+4:]
	j := strings.IndexByte(rest, ')')
	if j < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(rest[:j]), `"'`)
}

// drawableName derives a resource name from the last path segment of src.
func drawableName(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	base := path.Base(src)
	base = strings.TrimSuffix(base, path.Ext(base))
	return resource.Slug(base, "image")
}

func formatDim(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
