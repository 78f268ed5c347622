// Package snapshot holds a captured HTML/CSS document: the element tree,
// computed styles and pixel geometry measured in a browser.
//
// # Overview
//
// A snapshot is the only input of a conversion. It is produced either by
// the capture package (a live page driven through Chrome DevTools) or read
// from a JSON file written earlier. Layout code never touches a browser;
// it asks a [Provider] for box models, computed styles and rectangles.
//
// [Document] implements [Provider] over a decoded snapshot. Every query is
// memoized per element, so repeated lookups during grouping are O(1).
//
// # JSON Format
//
//	{
//	  "url": "https://example.com/",
//	  "viewport": {"width": 1280, "height": 800},
//	  "warnings": ["stylesheet https://cdn.example.com/a.css: SecurityError"],
//	  "root": {
//	    "tag": "body",
//	    "attrs": {"id": "main"},
//	    "style": {"display": "block"},
//	    "rect": {"left": 0, "top": 0, "right": 1280, "bottom": 400},
//	    "margin": {"top": 8},
//	    "children": [
//	      {"tag": "#text", "text": "Hello", "rects": [...]},
//	      {"tag": "img", "image": {"src": "a.png", "naturalWidth": 64, "naturalHeight": 64}}
//	    ]
//	  }
//	}
//
// Text runs use the pseudo tag "#text" and carry one rectangle per line box
// in "rects". Styles list computed values only where they differ from the
// defaults in [DefaultStyle].
//
// # Detached Elements
//
// Elements without a rectangle, or that were never linked into a document,
// report zero geometry instead of failing. They are prunable downstream.
package snapshot
