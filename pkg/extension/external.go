package extension

import (
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/view"
)

// External emits elements carrying data-view="<class>" as custom views of
// that class. Their subtree is not traversed.
type External struct {
	Base
}

// NewExternal returns the external view extension.
func NewExternal() *External { return &External{Base{ExtName: "external"}} }

func (e *External) Included(n *node.Node) bool {
	return n.Attr("data-view") != "" || e.Base.Included(n)
}

func (e *External) ProcessNode(_ *Context, n *node.Node) Result {
	class := n.Attr("data-view")
	if class == "" {
		return Result{}
	}
	n.Kind = node.KindExternal
	return Result{
		Output:   &view.View{Kind: node.KindExternal, Class: class},
		Complete: true,
		Next:     true,
	}
}
