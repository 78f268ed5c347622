// Package pkg provides the core libraries for droidview.
//
// # Overview
//
// droidview turns a captured web page (DOM, computed styles and pixel
// geometry) into a native Android view hierarchy. The pkg directory is
// organized into four main areas:
//
//  1. Input: [snapshot] documents, [capture] from a live browser, [images]
//     settling intrinsic image sizes
//  2. Classification: [node], [nodelist], [grouping] and [extension] decide
//     what every element becomes and how siblings are grouped
//  3. Output: [builder] emits the [view] tree, [resource] interns strings,
//     colors and styles, and [render] writes Android XML and debug formats
//  4. Orchestration: [pipeline] with [cache], [config] and [observability]
//
// # Architecture
//
// The typical data flow through droidview:
//
//	Live page or snapshot.json
//	         ↓
//	    [capture] / [snapshot] (DOM + computed style + geometry)
//	         ↓
//	    [images] (decode pending images, failures settle at 0×0)
//	         ↓
//	    [builder] + [grouping] (classify, group, anchor)
//	         ↓
//	    [view] tree + [resource] context
//	         ↓
//	    [render] (layout XML, values, drawables, JSON, DOT, SVG)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/droidview/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    SnapshotPath: "page.json",
//	})
//	layout := result.Artifacts["res/layout/activity_main.xml"]
//
// # Main Packages
//
// ## Classification
//
// [grouping] - The grouping engine. It labels each element as a leaf kind
// or a container kind and partitions siblings into vertical runs,
// horizontal runs, grids and absolute groups.
//
// [extension] - Pluggable per-element processors for tables, lists, grids
// and external custom views.
//
// ## Output
//
// [render/android] - Layout XML with ConstraintLayout, RelativeLayout,
// LinearLayout, GridLayout and FrameLayout containers plus values resources.
//
// [render/nodelink] - Graphviz diagrams of the view tree for debugging.
//
// [render/sink] - JSON dump of the view tree.
//
// ## Infrastructure
//
// [cache] - Conversion cache with file, Redis, MongoDB and null backends.
//
// [errors] - Coded errors shared by every package.
package pkg
