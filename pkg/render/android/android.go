// Package android writes a view document as Android resources: one layout
// file, the values files for strings, colors and styles, and shape
// drawables for bordered or rounded backgrounds.
//
//	files, err := android.Render(doc, android.Options{Render: settings.Render})
//	// files["res/layout/activity_main.xml"], files["res/values/strings.xml"], ...
//
// Relative containers map to RelativeLayout and constraint containers to
// ConstraintLayout with chains. Sizes are converted to dp at the configured
// density.
package android

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/droidview/pkg/config"
	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/view"
)

const (
	nsAndroid = "http://schemas.android.com/apk/res/android"
	nsApp     = "http://schemas.android.com/apk/res-auto"
	nsTools   = "http://schemas.android.com/tools"
)

// stringsFile is written without reindenting, which would change the
// whitespace inside markup values.
const stringsFile = "res/values/strings.xml"

// DefaultLayoutName names the layout file when none is given.
const DefaultLayoutName = "activity_main"

// Options configures rendering.
type Options struct {
	Render     config.Render
	LayoutName string
}

var tags = map[node.Kind]string{
	node.KindText:       "TextView",
	node.KindImage:      "ImageView",
	node.KindButton:     "Button",
	node.KindInput:      "EditText",
	node.KindCheckbox:   "CheckBox",
	node.KindRadio:      "RadioButton",
	node.KindSelect:     "Spinner",
	node.KindLine:       "View",
	node.KindSpace:      "Space",
	node.KindFrame:      "FrameLayout",
	node.KindLinear:     "LinearLayout",
	node.KindGrid:       "GridLayout",
	node.KindRelative:   "RelativeLayout",
	node.KindConstraint: "androidx.constraintlayout.widget.ConstraintLayout",
}

// Tag returns the widget class emitted for v.
func Tag(v *view.View) string {
	if v.Kind == node.KindExternal && v.Class != "" {
		return v.Class
	}
	if t, ok := tags[v.Kind]; ok {
		return t
	}
	return "View"
}

// Render returns every resource file of doc keyed by its path below the
// module root.
func Render(doc *view.Document, opts Options) (map[string][]byte, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("render android: empty document")
	}
	name := opts.LayoutName
	if name == "" {
		name = DefaultLayoutName
	}
	r := &renderer{opts: opts, drawables: map[string]*etree.Document{}}
	layout := r.layout(doc)

	files := map[string]*etree.Document{"res/layout/" + name + ".xml": layout}
	if res := doc.Resources; res != nil {
		files[stringsFile] = Strings(res)
		files["res/values/colors.xml"] = Colors(res)
		files["res/values/styles.xml"] = Styles(res)
	}
	for id, d := range r.drawables {
		files["res/drawable/"+id+".xml"] = d
	}

	out := make(map[string][]byte, len(files))
	for _, path := range slices.Sorted(maps.Keys(files)) {
		d := files[path]
		if path != stringsFile {
			d.Indent(4)
		}
		data, err := d.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		out[path] = data
	}
	return out, nil
}

type renderer struct {
	opts      Options
	drawables map[string]*etree.Document
}

// layout builds the layout document of doc.
func (r *renderer) layout(doc *view.Document) *etree.Document {
	d := etree.NewDocument()
	d.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := r.element(&d.Element, doc.Root, nil)
	root.CreateAttr("xmlns:android", nsAndroid)
	root.CreateAttr("xmlns:app", nsApp)
	root.CreateAttr("xmlns:tools", nsTools)
	if doc.URL != "" {
		root.CreateAttr("tools:context", doc.URL)
	}
	return d
}

func (r *renderer) element(parentEl *etree.Element, v, parent *view.View) *etree.Element {
	el := parentEl.CreateElement(Tag(v))
	el.CreateAttr("android:id", "@+id/"+v.ID)
	r.size(el, v, parent)

	switch {
	case parent == nil:
	case parent.Anchored():
		r.constraints(el, v, parent)
	case parent.Kind == node.KindFrame:
		content := parent.Bounds.Shrink(parent.Padding)
		r.margins(el, geom.Edges{Left: v.Bounds.Left - content.Left, Top: v.Bounds.Top - content.Top})
	default:
		r.margins(el, v.Margin)
	}
	if v.Cell != nil {
		el.CreateAttr("android:layout_row", strconv.Itoa(v.Cell.Row))
		el.CreateAttr("android:layout_column", strconv.Itoa(v.Cell.Column))
		if v.Cell.RowSpan > 1 {
			el.CreateAttr("android:layout_rowSpan", strconv.Itoa(v.Cell.RowSpan))
		}
		if v.Cell.ColumnSpan > 1 {
			el.CreateAttr("android:layout_columnSpan", strconv.Itoa(v.Cell.ColumnSpan))
		}
	}

	switch v.Kind {
	case node.KindLinear:
		orientation := "horizontal"
		if v.Alignment.Has(node.AlignVertical) {
			orientation = "vertical"
		}
		el.CreateAttr("android:orientation", orientation)
		if v.Alignment.Has(node.AlignBaseline) && orientation == "horizontal" {
			el.CreateAttr("android:baselineAligned", "true")
		}
	case node.KindGrid:
		el.CreateAttr("android:columnCount", strconv.Itoa(max(v.Columns, 1)))
	}
	r.padding(el, v.Padding)
	r.attrs(el, v)

	for _, c := range v.Children {
		r.element(el, c, v)
	}
	return el
}

// size sets layout_width and layout_height. Weighted children of linear
// containers take 0dp along the orientation.
func (r *renderer) size(el *etree.Element, v, parent *view.View) {
	if parent == nil {
		el.CreateAttr("android:layout_width", "match_parent")
		el.CreateAttr("android:layout_height", "match_parent")
		return
	}
	w, h := r.dp(v.Bounds.Width()), r.dp(v.Bounds.Height())
	switch v.Kind {
	case node.KindText, node.KindButton, node.KindCheckbox, node.KindRadio:
		if !v.Alignment.Has(node.AlignMultiline) {
			w = "wrap_content"
		}
		h = "wrap_content"
	}

	weighted := v.Kind == node.KindSpace || v.Alignment.Has(node.AlignPercent)
	if parent.Kind == node.KindLinear {
		vertical := parent.Alignment.Has(node.AlignVertical)
		switch {
		case weighted && vertical:
			h = "0dp"
		case weighted:
			w = "0dp"
		case vertical && geom.Near(v.Bounds.Expand(v.Margin).Width(), parent.Bounds.Shrink(parent.Padding).Width(), 1):
			w = "match_parent"
		}
		if weighted {
			weight := v.Attr("weight")
			if weight == "" {
				weight = "1"
			}
			el.CreateAttr("android:layout_weight", weight)
		}
	}
	el.CreateAttr("android:layout_width", w)
	el.CreateAttr("android:layout_height", h)
}

func (r *renderer) margins(el *etree.Element, m geom.Edges) {
	r.edges(el, "android:layout_margin", m)
}

func (r *renderer) padding(el *etree.Element, p geom.Edges) {
	r.edges(el, "android:padding", p)
}

func (r *renderer) edges(el *etree.Element, prefix string, e geom.Edges) {
	if e.Top == e.Right && e.Right == e.Bottom && e.Bottom == e.Left {
		if e.Top > 0 {
			el.CreateAttr(prefix, r.dp(e.Top))
		}
		return
	}
	for _, side := range []struct {
		name  string
		value float64
	}{{"Start", e.Left}, {"Top", e.Top}, {"End", e.Right}, {"Bottom", e.Bottom}} {
		if side.value > 0 {
			el.CreateAttr(prefix+side.name, r.dp(side.value))
		}
	}
}

// attrMap maps view attribute keys to Android attributes.
var attrMap = map[string]string{
	"text":               "android:text",
	"hint":               "android:hint",
	"style":              "style",
	"gravity":            "android:gravity",
	"src":                "android:src",
	"scaleType":          "android:scaleType",
	"contentDescription": "android:contentDescription",
	"inputType":          "android:inputType",
	"checked":            "android:checked",
	"marker":             "android:tag",
}

func (r *renderer) attrs(el *etree.Element, v *view.View) {
	for _, k := range slices.Sorted(maps.Keys(v.Attrs)) {
		val := v.Attrs[k]
		switch k {
		case "labelFor":
			el.CreateAttr("android:labelFor", "@id/"+val)
		case "background", "borderColor", "borderWidth", "cornerRadius", "weight":
		default:
			if name, ok := attrMap[k]; ok {
				el.CreateAttr(name, val)
			}
		}
	}
	if bg := r.background(v); bg != "" {
		el.CreateAttr("android:background", bg)
	}
}

// background returns the background reference of v, creating a shape
// drawable when v has a border or rounded corners.
func (r *renderer) background(v *view.View) string {
	fill, stroke := v.Attr("background"), v.Attr("borderColor")
	radius := v.Attr("cornerRadius")
	if stroke == "" && radius == "" {
		return fill
	}
	name := v.ID + "_background"
	d := etree.NewDocument()
	d.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	shape := d.CreateElement("shape")
	shape.CreateAttr("xmlns:android", nsAndroid)
	shape.CreateAttr("android:shape", "rectangle")
	if fill != "" {
		shape.CreateElement("solid").CreateAttr("android:color", fill)
	}
	if stroke != "" {
		s := shape.CreateElement("stroke")
		s.CreateAttr("android:width", v.Attr("borderWidth")+"dp")
		s.CreateAttr("android:color", stroke)
	}
	if radius != "" {
		shape.CreateElement("corners").CreateAttr("android:radius", radius+"dp")
	}
	r.drawables[name] = d
	return "@drawable/" + name
}

func (r *renderer) dp(px float64) string {
	return formatDim(r.opts.Render.DP(px)) + "dp"
}

func formatDim(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

// escapeText applies the Android string escapes to character data.
func escapeText(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, `\"`).Replace(s)
}
