package snapshot

// blockTags are elements whose user-agent display is "block".
var blockTags = map[string]bool{
	"html": true, "body": true, "div": true, "p": true, "section": true,
	"article": true, "header": true, "footer": true, "nav": true, "main": true,
	"aside": true, "form": true, "fieldset": true, "figure": true,
	"figcaption": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "ul": true, "ol": true, "dl": true, "dt": true,
	"dd": true, "pre": true, "blockquote": true, "hr": true, "address": true,
	"details": true, "summary": true,
}

var displayByTag = map[string]string{
	"li":       "list-item",
	"table":    "table",
	"thead":    "table-header-group",
	"tbody":    "table-row-group",
	"tfoot":    "table-footer-group",
	"tr":       "table-row",
	"td":       "table-cell",
	"th":       "table-cell",
	"caption":  "table-caption",
	"img":      "inline-block",
	"input":    "inline-block",
	"button":   "inline-block",
	"select":   "inline-block",
	"textarea": "inline-block",
	"head":     "none",
	"script":   "none",
	"style":    "none",
	"template": "none",
	"meta":     "none",
	"link":     "none",
	"title":    "none",
}

// baseStyle holds the initial values every element starts from.
var baseStyle = Style{
	"position":       "static",
	"float":          "none",
	"clear":          "none",
	"vertical-align": "baseline",
	"white-space":    "normal",
	"z-index":        "auto",
	"font-size":      "16px",
	"line-height":    "normal",
	"text-align":     "start",
	"box-sizing":     "content-box",
	"overflow":       "visible",
	"visibility":     "visible",
	"top":            "auto",
	"right":          "auto",
	"bottom":         "auto",
	"left":           "auto",
	"width":          "auto",
	"height":         "auto",
	"min-width":      "auto",
	"min-height":     "auto",
	"max-width":      "none",
	"max-height":     "none",
	"margin-left":    "0px",
	"margin-right":   "0px",
}

// inheritedProps pass from a parent's computed style to children that do
// not set them, which matters for text runs that carry no style at all.
var inheritedProps = []string{
	"font-size", "font-family", "font-weight", "font-style", "line-height",
	"color", "white-space", "text-align", "visibility", "letter-spacing",
}

// DefaultDisplay returns the user-agent display value for tag.
func DefaultDisplay(tag string) string {
	if tag == TextTag {
		return "inline"
	}
	if blockTags[tag] {
		return "block"
	}
	if d, ok := displayByTag[tag]; ok {
		return d
	}
	return "inline"
}

// DefaultStyle returns the initial computed style of an element with the
// given tag before any author style is applied.
func DefaultStyle(tag string) Style {
	s := baseStyle.Clone()
	s["display"] = DefaultDisplay(tag)
	return s
}
