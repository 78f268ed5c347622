package resource

import (
	"maps"
	"slices"
	"strings"
)

// Context holds the resource tables of one conversion run.
type Context struct {
	Strings *Table
	Colors  *Table
	Styles  *Table
	IDs     *Table

	styleAttrs map[string]map[string]string
}

// NewContext returns a context with empty tables.
func NewContext() *Context {
	return &Context{
		Strings:    NewTable(),
		Colors:     NewTable(),
		Styles:     NewTable(),
		IDs:        NewTable(),
		styleAttrs: map[string]map[string]string{},
	}
}

// AddColor normalizes a CSS color and stores it, returning the resource
// name. Unparseable and fully transparent colors are not stored.
func (c *Context) AddColor(css string) (string, bool) {
	col, err := ParseColor(css)
	if err != nil || col.Transparent() {
		return "", false
	}
	return c.Colors.Add(NearestName(col), col.Hex()), true
}

// AddString stores the sanitized markup of text under a name derived from
// its words. Empty text is not stored.
func (c *Context) AddString(text string) (string, bool) {
	value := SanitizeMarkup(text)
	if value == "" {
		return "", false
	}
	return c.Strings.Add(Slug(PlainText(value), "string"), value), true
}

// AddStyle stores a style attribute bag. Bags with the same attributes share
// one name regardless of map order.
func (c *Context) AddStyle(name string, attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(attrs))
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(attrs[k])
	}
	stored := c.Styles.Add(Slug(name, "style"), b.String())
	if _, ok := c.styleAttrs[stored]; !ok {
		c.styleAttrs[stored] = maps.Clone(attrs)
	}
	return stored
}

// StyleAttrs returns the attributes of a stored style.
func (c *Context) StyleAttrs(name string) map[string]string {
	return c.styleAttrs[name]
}

// NewID reserves a unique view id built from prefix and kind, such as
// "main_linear_2".
func (c *Context) NewID(prefix, kind string) string {
	base := Slug(kind, "view")
	if prefix != "" {
		base = Slug(prefix, "view") + "_" + base
	}
	return c.IDs.Reserve(base)
}
