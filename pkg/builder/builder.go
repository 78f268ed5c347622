// Package builder turns a linked snapshot into a view tree.
//
// A build runs in fixed phases over one [node.Tree]:
//
//  1. collect: one node per visible element, label companions linked and
//     out-of-flow nodes moved under the node that positions them
//  2. index: column and depth maps, extension Init hooks
//  3. arrange: parents top-down by depth, extensions first, then the
//     grouping engine
//  4. emit: views into an arena indexed by node id, deferred views queued
//     under their data-target
//  5. link: pending children resolved through collapse aliases, deferred
//     views spliced in
//  6. anchor: constraints and chains for relative and constraint
//     containers
//  7. attributes: text, colors and styles interned into the resource
//     context
//
// The builder never fails on odd layouts. Anything it cannot classify
// becomes an anchored container, and broken references become warnings on
// the returned document.
package builder

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/droidview/pkg/config"
	apperrors "github.com/matzehuels/droidview/pkg/errors"
	"github.com/matzehuels/droidview/pkg/extension"
	"github.com/matzehuels/droidview/pkg/grouping"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/snapshot"
	"github.com/matzehuels/droidview/pkg/view"
)

// Options configures a [Builder].
type Options struct {
	// Settings defaults to [config.Default].
	Settings *config.Settings
	// Registry defaults to the built-in extensions enabled in Settings.
	Registry *extension.Registry
	Logger   *log.Logger

	validated bool
}

// ValidateAndSetDefaults validates the settings and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Settings == nil {
		s := config.Default()
		o.Settings = &s
	}
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	if o.Registry == nil {
		r, err := extension.Builtin(o.Settings.Layout.Extensions...)
		if err != nil {
			return err
		}
		o.Registry = r
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Builder converts snapshots. A Builder holds no per-build state and may be
// shared, but a snapshot document must not be built concurrently.
type Builder struct {
	opts Options
}

// New returns a builder for opts.
func New(opts Options) (*Builder, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Builder{opts: opts}, nil
}

// Settings returns the settings the builder was created with.
func (b *Builder) Settings() config.Settings { return *b.opts.Settings }

// Build converts doc into a view document.
func (b *Builder) Build(ctx context.Context, doc *snapshot.Document) (*view.Document, error) {
	if doc == nil || doc.Root == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidSnapshot, "snapshot has no root element")
	}
	start := time.Now()
	s := b.newState(doc)

	s.collect()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.index()
	if err := s.arrange(ctx); err != nil {
		return nil, err
	}

	s.emit(s.root)
	root := s.linkAll()
	if root == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidSnapshot, "snapshot has no visible content")
	}
	s.anchor(root)
	s.registry.AfterRender(s.ext, root)
	s.populate(root)

	out := &view.Document{
		URL:       doc.URL,
		Root:      root,
		Resources: s.ext.Resources,
		Warnings:  slices.Concat(doc.Warnings, s.warnings),
	}
	s.registry.Finalize(s.ext, out)

	views, depth := out.Count()
	s.logger.Info("built view tree",
		"nodes", s.tree.Len(),
		"views", views,
		"depth", depth,
		"warnings", len(out.Warnings),
		"duration", time.Since(start))
	return out, nil
}

// state is the scratch space of one build.
type state struct {
	settings config.Settings
	registry *extension.Registry
	logger   *log.Logger

	doc    *snapshot.Document
	tree   *node.Tree
	root   *node.Node
	ext    *extension.Context
	engine *grouping.Engine

	// ymap buckets nodes by render depth, then by parent id.
	ymap map[int]map[int][]*node.Node
	// overrides holds extension output views by node id.
	overrides map[int]*view.View
	// alias maps a collapsed parent to the child that replaced it.
	alias map[int]int

	arena []*slot
	// queue holds deferred node ids by target node id.
	queue map[int][]int

	warnings []string
}

func (b *Builder) newState(doc *snapshot.Document) *state {
	tree := node.NewTree(doc)
	ext := extension.NewContext(tree, b.opts.Settings.Layout)
	ext.Logger = b.opts.Logger
	return &state{
		settings:  *b.opts.Settings,
		registry:  b.opts.Registry,
		logger:    b.opts.Logger,
		doc:       doc,
		tree:      tree,
		ext:       ext,
		engine:    grouping.New(tree, b.opts.Settings.Layout, b.opts.Logger),
		ymap:      map[int]map[int][]*node.Node{},
		overrides: map[int]*view.View{},
		alias:     map[int]int{},
		queue:     map[int][]int{},
	}
}

func (s *state) warn(format string, args ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}
