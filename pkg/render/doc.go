// Package render turns a converted view document into output artifacts.
//
// # Overview
//
// [Render] dispatches on the configured formats:
//
//   - xml: Android layout and resource files (in [android] subpackage)
//   - json: the view tree with constraints and resources (in [sink])
//   - dot, svg: a node-link diagram of the view tree (in [nodelink])
//
// Artifacts are returned as a map from relative path to file contents, so
// callers decide whether to write them to disk, cache them, or print them.
//
//	files, err := render.Render(ctx, doc, render.Options{Render: settings.Render})
//	layout := files["res/layout/activity_main.xml"]
//
// [android]: github.com/matzehuels/droidview/pkg/render/android
// [sink]: github.com/matzehuels/droidview/pkg/render/sink
// [nodelink]: github.com/matzehuels/droidview/pkg/render/nodelink
package render
