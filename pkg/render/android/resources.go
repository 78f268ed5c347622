package android

import (
	"maps"
	"slices"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/droidview/pkg/resource"
)

func valuesDocument() (*etree.Document, *etree.Element) {
	d := etree.NewDocument()
	d.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	d.CreateText("\n")
	return d, d.CreateElement("resources")
}

// Strings returns values/strings.xml. String values keep their inline
// markup; character data gets the Android quote and backslash escapes.
func Strings(res *resource.Context) *etree.Document {
	d, root := valuesDocument()
	for _, e := range res.Strings.Entries() {
		root.CreateText("\n    ")
		el := root.CreateElement("string")
		el.CreateAttr("name", e.Name)
		appendMarkup(el, e.Value)
	}
	if res.Strings.Len() > 0 {
		root.CreateText("\n")
	}
	return d
}

// appendMarkup parses a sanitized fragment into el. A fragment that does not
// parse is stored as escaped plain text.
func appendMarkup(el *etree.Element, fragment string) {
	frag := etree.NewDocument()
	if err := frag.ReadFromString("<string>" + fragment + "</string>"); err != nil || frag.Root() == nil {
		el.SetText(escapeText(resource.PlainText(fragment)))
		return
	}
	escapeCharData(frag.Root())
	for _, tok := range slices.Clone(frag.Root().Child) {
		el.AddChild(tok)
	}
}

func escapeCharData(el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			t.Data = escapeText(t.Data)
		case *etree.Element:
			escapeCharData(t)
		}
	}
}

// Colors returns values/colors.xml.
func Colors(res *resource.Context) *etree.Document {
	d, root := valuesDocument()
	for _, e := range res.Colors.Entries() {
		el := root.CreateElement("color")
		el.CreateAttr("name", e.Name)
		el.SetText(e.Value)
	}
	return d
}

// Styles returns values/styles.xml. Items are written in key order with
// the android namespace prefix.
func Styles(res *resource.Context) *etree.Document {
	d, root := valuesDocument()
	for _, e := range res.Styles.Entries() {
		style := root.CreateElement("style")
		style.CreateAttr("name", e.Name)
		attrs := res.StyleAttrs(e.Name)
		for _, k := range slices.Sorted(maps.Keys(attrs)) {
			item := style.CreateElement("item")
			name := k
			if !strings.Contains(k, ":") {
				name = "android:" + k
			}
			item.CreateAttr("name", name)
			item.SetText(attrs[k])
		}
	}
	return d
}
