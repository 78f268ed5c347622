package extension

import (
	"strconv"

	"github.com/matzehuels/droidview/pkg/node"
)

// TagMarker is the routing tag holding the bullet text of a list item.
const TagMarker = "list.marker"

// List stacks list items vertically and tags each item with its marker.
type List struct {
	Base
}

// NewList returns the list extension.
func NewList() *List { return &List{Base{ExtName: "list", Tags: []string{"ul", "ol"}}} }

func (l *List) ProcessNode(_ *Context, n *node.Node) Result {
	n.Kind = node.KindLinear
	n.Alignment |= node.AlignVertical
	return Result{Complete: true}
}

func (l *List) ProcessChild(_ *Context, child, parent *node.Node) Result {
	if child.Tag() != "li" {
		return Result{}
	}
	if m := marker(child, parent); m != "" {
		child.SetTag(TagMarker, m)
	}
	return Result{}
}

// marker returns the marker text of item, or "" for list-style-type none.
func marker(item, list *node.Node) string {
	style := item.CSS("list-style-type")
	switch style {
	case "none":
		return ""
	case "circle":
		return "◦"
	case "square":
		return "▪"
	case "disc":
		return "•"
	}
	if list.Tag() != "ol" && style != "decimal" {
		return "•"
	}
	start := 1
	if v, err := strconv.Atoi(list.Attr("start")); err == nil {
		start = v
	}
	index := 0
	for _, c := range list.DocumentChildren() {
		if c == item {
			break
		}
		if c.Tag() == "li" {
			index++
		}
	}
	return strconv.Itoa(start+index) + "."
}
