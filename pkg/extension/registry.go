package extension

import (
	"fmt"
	"slices"

	apperrors "github.com/matzehuels/droidview/pkg/errors"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/view"
)

// Registry holds extensions in dispatch order.
type Registry struct {
	exts   []Extension
	byName map[string]Extension
}

// NewRegistry returns a registry holding exts in the given order.
func NewRegistry(exts ...Extension) *Registry {
	r := &Registry{byName: make(map[string]Extension)}
	for _, e := range exts {
		r.Register(e)
	}
	return r
}

// Builtin returns a registry of the named built-in extensions.
func Builtin(names ...string) (*Registry, error) {
	r := NewRegistry()
	for _, name := range names {
		ctor, ok := builtins[name]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidSettings,
				fmt.Sprintf("unknown extension %q", name))
		}
		r.Register(ctor())
	}
	return r, nil
}

var builtins = map[string]func() Extension{
	"external": func() Extension { return NewExternal() },
	"table":    func() Extension { return NewTable() },
	"list":     func() Extension { return NewList() },
	"grid":     func() Extension { return NewGrid() },
}

// Register appends e. An extension with the same name is replaced in
// place.
func (r *Registry) Register(e Extension) {
	if _, ok := r.byName[e.Name()]; ok {
		for i, x := range r.exts {
			if x.Name() == e.Name() {
				r.exts[i] = e
			}
		}
	} else {
		r.exts = append(r.exts, e)
	}
	r.byName[e.Name()] = e
}

// Get returns the extension registered under name.
func (r *Registry) Get(name string) (Extension, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Extensions returns the registered extensions in order.
func (r *Registry) Extensions() []Extension { return r.exts }

// For returns the extensions that apply to n: those named in its data-ext
// attribute first, then every other included extension in registry order.
func (r *Registry) For(n *node.Node) []Extension {
	var out []Extension
	for _, name := range Names(n) {
		if e, ok := r.byName[name]; ok && !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	for _, e := range r.exts {
		if !slices.Contains(out, e) && e.Included(n) {
			out = append(out, e)
		}
	}
	return out
}

// ProcessNode dispatches n and returns the first handling result together
// with the name of the extension that produced it.
func (r *Registry) ProcessNode(ctx *Context, n *node.Node) (Result, string) {
	for _, e := range r.For(n) {
		if res := e.ProcessNode(ctx, n); res.Handled() || res.Next {
			return res, e.Name()
		}
	}
	return Result{}, ""
}

// ProcessChild offers child to the extensions of parent.
func (r *Registry) ProcessChild(ctx *Context, child, parent *node.Node) Result {
	for _, e := range r.For(parent) {
		if res := e.ProcessChild(ctx, child, parent); res.Handled() || res.Next {
			return res
		}
	}
	return Result{}
}

// BeforeInit calls BeforeInit on every extension.
func (r *Registry) BeforeInit(ctx *Context) {
	for _, e := range r.exts {
		e.BeforeInit(ctx)
	}
}

// Init calls Init for n on the extensions that include it.
func (r *Registry) Init(ctx *Context, n *node.Node) {
	for _, e := range r.For(n) {
		e.Init(ctx, n)
	}
}

// AfterInit calls AfterInit on every extension.
func (r *Registry) AfterInit(ctx *Context) {
	for _, e := range r.exts {
		e.AfterInit(ctx)
	}
}

// BeforeInsert calls BeforeInsert on every extension.
func (r *Registry) BeforeInsert(ctx *Context, root *view.View) {
	for _, e := range r.exts {
		e.BeforeInsert(ctx, root)
	}
}

// AfterInsert calls AfterInsert on every extension.
func (r *Registry) AfterInsert(ctx *Context, root *view.View) {
	for _, e := range r.exts {
		e.AfterInsert(ctx, root)
	}
}

// AfterRender calls AfterRender on every extension.
func (r *Registry) AfterRender(ctx *Context, root *view.View) {
	for _, e := range r.exts {
		e.AfterRender(ctx, root)
	}
}

// Finalize calls Finalize on every extension.
func (r *Registry) Finalize(ctx *Context, doc *view.Document) {
	for _, e := range r.exts {
		e.Finalize(ctx, doc)
	}
}
