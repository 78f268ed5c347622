// Package extension lets node-specific handlers take over classification
// from the grouping engine.
//
// An [Extension] sees every node it is included for, in the order given by
// the node's data-ext attribute followed by registry order. The first
// extension whose [Extension.ProcessNode] returns output or declares the
// node complete wins; the remaining extensions and the default
// classification are skipped for that node.
//
// Lifecycle hooks run around the build phases:
//
//	BeforeInit   once, before nodes are indexed
//	Init         per node, after the tree is collected
//	AfterInit    once, before arrangement
//	ProcessNode  per parent, top-down by depth
//	ProcessChild per child of a processed parent
//	BeforeInsert once, before deferred views are spliced
//	AfterInsert  once, after deferred views are spliced
//	AfterRender  once, after anchoring
//	Finalize     once, with the finished document
//
// Embed [Base] to implement only the hooks an extension needs.
package extension

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/droidview/pkg/config"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/resource"
	"github.com/matzehuels/droidview/pkg/view"
)

// Context is the state shared with extensions during one build.
type Context struct {
	Tree      *node.Tree
	Settings  config.Layout
	Resources *resource.Context
	XMap      XMap
	// Anchored is the container kind used for anchored layouts, relative
	// or constraint depending on the settings.
	Anchored node.Kind
	Logger   *log.Logger
}

// NewContext returns a context with a discarding logger.
func NewContext(tree *node.Tree, settings config.Layout) *Context {
	anchored := node.KindRelative
	if settings.ConstraintLayout {
		anchored = node.KindConstraint
	}
	return &Context{
		Tree:      tree,
		Settings:  settings,
		Resources: resource.NewContext(),
		XMap:      XMap{},
		Anchored:  anchored,
		Logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// Result is the answer of [Extension.ProcessNode] and
// [Extension.ProcessChild].
type Result struct {
	// Output replaces the view the builder would emit for the node.
	Output *view.View
	// Complete marks the node as classified.
	Complete bool
	// Next skips the subtree of the node.
	Next bool
}

// Handled reports whether the result ends dispatch for the node.
func (r Result) Handled() bool { return r.Output != nil || r.Complete }

// Extension is a pluggable handler for a family of nodes.
type Extension interface {
	Name() string
	Included(n *node.Node) bool

	BeforeInit(ctx *Context)
	Init(ctx *Context, n *node.Node)
	AfterInit(ctx *Context)

	ProcessNode(ctx *Context, n *node.Node) Result
	ProcessChild(ctx *Context, child, parent *node.Node) Result

	BeforeInsert(ctx *Context, root *view.View)
	AfterInsert(ctx *Context, root *view.View)
	AfterRender(ctx *Context, root *view.View)
	Finalize(ctx *Context, doc *view.Document)
}

// Base implements every hook as a no-op. A node is included when its
// data-ext attribute names the extension or its tag is one of Tags.
type Base struct {
	ExtName string
	Tags    []string
}

func (b Base) Name() string { return b.ExtName }

func (b Base) Included(n *node.Node) bool {
	if slices.Contains(Names(n), b.ExtName) {
		return true
	}
	return slices.Contains(b.Tags, n.Tag())
}

func (Base) BeforeInit(*Context)                                  {}
func (Base) Init(*Context, *node.Node)                            {}
func (Base) AfterInit(*Context)                                   {}
func (Base) ProcessNode(*Context, *node.Node) Result              { return Result{} }
func (Base) ProcessChild(*Context, *node.Node, *node.Node) Result { return Result{} }
func (Base) BeforeInsert(*Context, *view.View)                    {}
func (Base) AfterInsert(*Context, *view.View)                     {}
func (Base) AfterRender(*Context, *view.View)                     {}
func (Base) Finalize(*Context, *view.Document)                    {}

// Names returns the extension names listed in the data-ext attribute of n.
func Names(n *node.Node) []string {
	v := n.Attr("data-ext")
	if v == "" {
		return nil
	}
	return strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
}
