package snapshot_test

import (
	"bytes"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/droidview/pkg/errors"
	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/snapshot"
	"github.com/matzehuels/droidview/pkg/snapshot/snaptest"
)

func TestIsVisible(t *testing.T) {
	hidden := snaptest.El("div", snaptest.Box(0, 0, 10, 10), snaptest.Style("display", "none"))
	br := snaptest.Detached("br")
	empty := snaptest.Detached("div")
	floated := snaptest.Detached("div", snaptest.Style("float", "left"))
	cleared := snaptest.Detached("div", snaptest.Style("clear", "both"))
	hinted := snaptest.Detached("div", snaptest.Attr("data-target", "main"))
	box := snaptest.El("div", snaptest.Box(0, 0, 10, 10))
	blank := snaptest.Text("   ", snaptest.Box(0, 0, 10, 10))
	words := snaptest.Text("hi", snaptest.Box(0, 0, 10, 10))
	unrendered := snaptest.Text("hi")
	broken := snaptest.El("img", snaptest.Box(0, 0, 0, 0), snaptest.Image("broken.png", 0, 0))

	doc := snaptest.Doc(snaptest.El("body", snaptest.Box(0, 0, 100, 100), snaptest.Children(
		hidden, br, empty, floated, cleared, hinted, box, blank, words, unrendered, broken,
	)))

	tests := []struct {
		name string
		el   *snapshot.Element
		want bool
	}{
		{"display none", hidden, false},
		{"br", br, true},
		{"zero box", empty, false},
		{"float", floated, true},
		{"clear", cleared, true},
		{"layout hint", hinted, true},
		{"sized box", box, true},
		{"whitespace text", blank, false},
		{"text", words, true},
		{"text without rects", unrendered, false},
		{"undecoded image", broken, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.IsVisible(tt.el); got != tt.want {
				t.Errorf("IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImageNaturalSize(t *testing.T) {
	img := snaptest.El("img", snaptest.Box(10, 20, 0, 0), snaptest.Image("logo.png", 64, 32))
	sized := snaptest.El("img", snaptest.Box(0, 0, 16, 16), snaptest.Image("icon.png", 64, 64))
	doc := snaptest.Doc(snaptest.El("body", snaptest.Box(0, 0, 100, 100), snaptest.Children(img, sized)))

	if got, want := doc.BoundingRect(img), snaptest.Box(10, 20, 64, 32); got != want {
		t.Errorf("BoundingRect(zero box) = %+v, want %+v", got, want)
	}
	if got, want := doc.BoundingRect(sized), snaptest.Box(0, 0, 16, 16); got != want {
		t.Errorf("BoundingRect(sized) = %+v, want %+v", got, want)
	}
}

func TestDetachedElementsDegrade(t *testing.T) {
	doc := snaptest.Doc(snaptest.El("body", snaptest.Box(0, 0, 100, 100)))
	stray := snaptest.El("div", snaptest.Box(5, 5, 10, 10), snaptest.Margin(1, 1, 1, 1))

	if r := doc.BoundingRect(stray); r != (geom.Rect{}) {
		t.Errorf("BoundingRect(detached) = %+v, want zero", r)
	}
	if bm := doc.BoxModel(stray); bm != (snapshot.BoxModel{}) {
		t.Errorf("BoxModel(detached) = %+v, want zero", bm)
	}
	if doc.IsVisible(stray) {
		t.Error("detached element should not be visible")
	}
	if doc.BoundingRect(nil) != (geom.Rect{}) {
		t.Error("nil element should report zero rect")
	}
}

func TestTextRunBounds(t *testing.T) {
	run := snaptest.Text("two lines", snaptest.Box(10, 0, 80, 20), snaptest.Box(0, 20, 50, 20))
	doc := snaptest.Doc(snaptest.El("p", snaptest.Box(0, 0, 100, 40), snaptest.Children(run)))

	want := geom.Rect{Left: 0, Top: 0, Right: 90, Bottom: 40}
	if got := doc.BoundingRect(run); got != want {
		t.Errorf("BoundingRect(text) = %+v, want %+v", got, want)
	}
	if got := len(doc.RangeRects(run)); got != 2 {
		t.Errorf("RangeRects() len = %d, want 2", got)
	}
}

func TestComputedStyle(t *testing.T) {
	run := snaptest.Text("x", snaptest.Box(0, 0, 5, 10))
	p := snaptest.El("p", snaptest.Box(0, 0, 100, 20),
		snaptest.Style("font-size", "20px", "color", "rgb(255, 0, 0)"),
		snaptest.Children(run))
	doc := snaptest.Doc(snaptest.El("body", snaptest.Box(0, 0, 100, 20), snaptest.Children(p)))

	ps := doc.ComputedStyle(p)
	if ps.Get("display") != "block" {
		t.Errorf("p display = %q, want block", ps.Get("display"))
	}
	if ps.Get("position") != "static" {
		t.Errorf("p position = %q, want static", ps.Get("position"))
	}

	ts := doc.ComputedStyle(run)
	if ts.Get("display") != "inline" {
		t.Errorf("text display = %q, want inline", ts.Get("display"))
	}
	if ts.Get("font-size") != "20px" || ts.Get("color") != "rgb(255, 0, 0)" {
		t.Errorf("text did not inherit font properties: %v", ts)
	}
}

func TestLink(t *testing.T) {
	a := snaptest.El("span", snaptest.Box(0, 0, 1, 1))
	b := snaptest.El("span", snaptest.Box(1, 0, 1, 1))
	body := snaptest.El("body", snaptest.Box(0, 0, 2, 1), snaptest.Children(a, b))
	doc := snaptest.Doc(body)

	if a.Parent() != body || b.Index() != 1 || b.Document() != doc {
		t.Fatal("Link did not set hierarchy pointers")
	}
	if got := len(doc.Elements()); got != 3 {
		t.Errorf("Elements() len = %d, want 3", got)
	}
	if b.Depth() != 1 || !body.Contains(b) || a.Contains(b) {
		t.Error("Depth/Contains mismatch")
	}
}

func TestReadWriteJSON(t *testing.T) {
	input := `{
	  "url": "https://example.com/",
	  "viewport": {"width": 320, "height": 200},
	  "warnings": ["stylesheet blocked"],
	  "root": {
	    "tag": "body",
	    "rect": {"left": 0, "top": 0, "right": 320, "bottom": 200},
	    "margin": {"top": 8},
	    "children": [
	      {"tag": "#text", "text": "Hello", "rects": [{"left": 8, "top": 8, "right": 48, "bottom": 24}]},
	      {"tag": "img", "attrs": {"id": "logo"}, "image": {"src": "logo.png"}}
	    ]
	  }
	}`

	doc, err := snapshot.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if doc.URL != "https://example.com/" || doc.Viewport.Width != 320 {
		t.Errorf("header not decoded: %+v", doc)
	}
	if len(doc.Warnings) != 1 {
		t.Errorf("Warnings = %v", doc.Warnings)
	}
	logo := doc.FindByID("logo")
	if logo == nil || !logo.Image.Pending() {
		t.Fatal("logo image should be pending")
	}
	if doc.Root.Margin.Top != 8 {
		t.Errorf("margin top = %v, want 8", doc.Root.Margin.Top)
	}

	var buf bytes.Buffer
	if err := snapshot.Write(&buf, doc); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	again, err := snapshot.Read(&buf)
	if err != nil {
		t.Fatalf("re-Read() error: %v", err)
	}
	if len(again.Elements()) != len(doc.Elements()) {
		t.Errorf("element count changed: %d vs %d", len(again.Elements()), len(doc.Elements()))
	}
}

func TestReadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"root": `},
		{"no root", `{"url": "x"}`},
		{"missing tag", `{"root": {"tag": "body", "children": [{"text": "x"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := snapshot.Read(strings.NewReader(tt.input))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidSnapshot) {
				t.Errorf("Read() error = %v, want INVALID_SNAPSHOT", err)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := snapshot.ReadFile(t.TempDir() + "/missing.json")
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestAddWarningDedups(t *testing.T) {
	doc := snaptest.Doc(snaptest.El("body", snaptest.Box(0, 0, 1, 1)))
	doc.AddWarning("a")
	doc.AddWarning("a")
	doc.AddWarning("b")
	if len(doc.Warnings) != 2 {
		t.Errorf("Warnings = %v, want 2 entries", doc.Warnings)
	}
}
