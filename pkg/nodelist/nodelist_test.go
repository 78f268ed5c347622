package nodelist

import (
	"testing"

	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/node/nodetest"
	"github.com/matzehuels/droidview/pkg/snapshot"
	"github.com/matzehuels/droidview/pkg/snapshot/snaptest"
)

func body(children ...*snapshot.Element) *snapshot.Element {
	return snaptest.El("body", snaptest.Box(0, 0, 400, 400), snaptest.ID("body"), snaptest.Children(children...))
}

func box(id string, left, top, w, h float64, style ...string) *snapshot.Element {
	return snaptest.El("div", snaptest.Box(left, top, w, h), snaptest.ID(id), snaptest.Style(style...))
}

func TestFloated(t *testing.T) {
	_, idx := nodetest.Build(body(
		box("a", 0, 0, 50, 20, "float", "left"),
		box("b", 50, 0, 50, 20, "float", "left"),
		box("c", 350, 0, 50, 20, "float", "right"),
		box("d", 0, 20, 400, 20),
	))
	got := Floated(idx.Nodes("a", "b", "c", "d"))
	if len(got) != 2 || !got["left"] || !got["right"] {
		t.Errorf("Floated() = %v, want left and right", got)
	}
	if len(Floated(idx.Nodes("d"))) != 0 {
		t.Error("non-floating nodes contribute no sides")
	}
}

func TestClearedSingleFloat(t *testing.T) {
	_, idx := nodetest.Build(body(
		box("float", 0, 0, 50, 20, "float", "left"),
		box("clear", 0, 20, 400, 20, "clear", "left"),
	))

	f := NewFloatTracker()
	f.Push(idx["float"])
	if got := f.Open(); len(got) != 1 || got[0] != "left" {
		t.Fatalf("Open() = %v, want [left]", got)
	}
	f.Push(idx["clear"])
	if len(f.Cleared) != 1 || f.Cleared[idx["clear"]] != "left" {
		t.Errorf("Cleared = %v, want one entry at the clearing node", f.Cleared)
	}
	if len(f.Open()) != 0 {
		t.Errorf("Open() = %v, want empty after clear", f.Open())
	}
}

func TestCleared(t *testing.T) {
	tests := []struct {
		name  string
		els   []*snapshot.Element
		want  map[string]string
		open  []string
		order []string
	}{
		{
			name: "both with two open sides",
			els: []*snapshot.Element{
				box("l", 0, 0, 50, 20, "float", "left"),
				box("r", 350, 0, 50, 20, "float", "right"),
				box("c", 0, 20, 400, 20, "clear", "both"),
			},
			want: map[string]string{"c": "both"},
		},
		{
			name: "both with one open side",
			els: []*snapshot.Element{
				box("r", 350, 0, 50, 20, "float", "right"),
				box("c", 0, 20, 400, 20, "clear", "both"),
			},
			want: map[string]string{"c": "right"},
		},
		{
			name: "clear without open float",
			els: []*snapshot.Element{
				box("c", 0, 0, 400, 20, "clear", "left"),
				box("l", 0, 20, 50, 20, "float", "left"),
			},
			want: map[string]string{},
			open: []string{"left"},
		},
		{
			name: "clear of the other side",
			els: []*snapshot.Element{
				box("l", 0, 0, 50, 20, "float", "left"),
				box("c", 0, 20, 400, 20, "clear", "right"),
			},
			want: map[string]string{},
			open: []string{"left"},
		},
		{
			name: "clearing float opens its own side",
			els: []*snapshot.Element{
				box("l", 0, 0, 50, 20, "float", "left"),
				box("c", 0, 20, 50, 20, "float", "left", "clear", "left"),
			},
			want: map[string]string{"c": "left"},
			open: []string{"left"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, idx := nodetest.Build(body(tt.els...))
			f := NewFloatTracker()
			for _, e := range tt.els {
				f.Push(idx[e.ID()])
			}
			if len(f.Cleared) != len(tt.want) {
				t.Fatalf("Cleared has %d entries, want %d", len(f.Cleared), len(tt.want))
			}
			for id, side := range tt.want {
				if f.Cleared[idx[id]] != side {
					t.Errorf("Cleared[%s] = %q, want %q", id, f.Cleared[idx[id]], side)
				}
			}
			if got := f.Open(); len(got) != len(tt.open) {
				t.Errorf("Open() = %v, want %v", got, tt.open)
			}
		})
	}
}

func TestLinearXY(t *testing.T) {
	tests := []struct {
		name    string
		els     []*snapshot.Element
		linearX bool
		linearY bool
	}{
		{
			name:    "empty",
			linearX: true,
			linearY: true,
		},
		{
			name:    "single",
			els:     []*snapshot.Element{box("a", 0, 0, 400, 20)},
			linearX: true,
			linearY: true,
		},
		{
			name: "stacked blocks",
			els: []*snapshot.Element{
				box("a", 0, 0, 400, 20),
				box("b", 0, 20, 400, 20),
				box("c", 0, 40, 400, 20),
			},
			linearX: false,
			linearY: true,
		},
		{
			name: "inline row",
			els: []*snapshot.Element{
				snaptest.El("span", snaptest.Box(0, 0, 50, 20), snaptest.ID("a")),
				snaptest.El("span", snaptest.Box(50, 0, 50, 20), snaptest.ID("b")),
			},
			linearX: true,
			linearY: false,
		},
		{
			name: "floats side by side",
			els: []*snapshot.Element{
				box("a", 0, 0, 50, 20, "float", "left"),
				box("b", 350, 0, 50, 20, "float", "right"),
			},
			linearX: true,
			linearY: false,
		},
		{
			name: "absolute nodes are ignored",
			els: []*snapshot.Element{
				box("a", 0, 0, 400, 20),
				box("b", 0, 100, 50, 20, "position", "absolute", "top", "100px"),
			},
			linearX: true,
			linearY: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, idx := nodetest.Build(body(tt.els...))
			ids := make([]string, len(tt.els))
			for i, e := range tt.els {
				ids[i] = e.ID()
			}
			nodes := idx.Nodes(ids...)
			if got := LinearX(nodes); got != tt.linearX {
				t.Errorf("LinearX() = %v, want %v", got, tt.linearX)
			}
			if got := LinearY(nodes); got != tt.linearY {
				t.Errorf("LinearY() = %v, want %v", got, tt.linearY)
			}
		})
	}
}

func TestLinearFallbackAcrossParents(t *testing.T) {
	_, idx := nodetest.Build(body(
		box("p1", 0, 0, 200, 40, "display", "inline-block"),
		box("p2", 200, 0, 200, 40, "display", "inline-block"),
	))
	_, inner := nodetest.Build(body(
		snaptest.El("div", snaptest.Box(0, 0, 200, 40), snaptest.Children(box("x", 0, 0, 100, 20))),
		snaptest.El("div", snaptest.Box(200, 0, 200, 40), snaptest.Children(box("y", 200, 0, 100, 20))),
		snaptest.El("div", snaptest.Box(0, 40, 200, 40), snaptest.Children(box("z", 0, 40, 100, 20))),
	))

	if !LinearX(idx.Nodes("p1", "p2")) {
		t.Error("side by side inline blocks should be linear on X")
	}
	if !LinearX(inner.Nodes("x", "y")) {
		t.Error("cousins on the same row should pass the overlap fallback")
	}
	if LinearX(inner.Nodes("x", "z")) {
		t.Error("cousins on different rows should fail LinearX")
	}
	if !LinearY(inner.Nodes("x", "z")) {
		t.Error("cousins in one column should pass LinearY")
	}
	if LinearY(inner.Nodes("x", "y")) {
		t.Error("cousins side by side should fail LinearY")
	}
}

func TestTextBaseline(t *testing.T) {
	_, idx := nodetest.Build(body(
		snaptest.El("span", snaptest.Box(0, 0, 50, 20), snaptest.ID("small"),
			snaptest.Style("font-size", "12px", "line-height", "20px"),
			snaptest.Children(snaptest.Text("s", snaptest.Box(0, 0, 50, 20)))),
		snaptest.El("span", snaptest.Box(50, 0, 50, 30), snaptest.ID("big"),
			snaptest.Style("font-size", "20px", "line-height", "30px"),
			snaptest.Children(snaptest.Text("b", snaptest.Box(50, 0, 50, 30)))),
		snaptest.El("img", snaptest.Box(100, 0, 30, 30), snaptest.ID("img"),
			snaptest.Style("font-size", "20px", "line-height", "30px")),
		snaptest.El("span", snaptest.Box(130, 0, 50, 30), snaptest.ID("top"),
			snaptest.Style("font-size", "20px", "line-height", "30px", "vertical-align", "top")),
		snaptest.El("span", snaptest.Box(180, 0, 50, 30), snaptest.ID("floated"),
			snaptest.Style("font-size", "40px", "line-height", "60px", "float", "left")),
	))

	got := TextBaseline(idx.Nodes("small", "big", "img", "top", "floated"))
	if len(got) != 2 || got[0] != idx["big"] || got[1] != idx["img"] {
		ids := make([]string, len(got))
		for i, n := range got {
			ids[i] = n.ElementID()
		}
		t.Errorf("TextBaseline() = %v, want [big img]", ids)
	}
	if TextBaseline(nil) != nil {
		t.Error("TextBaseline(nil) should be nil")
	}
}

func TestOuterRegion(t *testing.T) {
	_, idx := nodetest.Build(body(
		snaptest.El("div", snaptest.Box(10, 10, 50, 20), snaptest.ID("a"), snaptest.Margin(5, 0, 0, 5)),
		box("b", 100, 50, 50, 20),
	))
	want := geom.Rect{Left: 5, Top: 5, Right: 150, Bottom: 70}
	if got := OuterRegion(idx.Nodes("a", "b")); got != want {
		t.Errorf("OuterRegion() = %+v, want %+v", got, want)
	}
}

func TestSorts(t *testing.T) {
	_, idx := nodetest.Build(body(
		box("a", 200, 0, 50, 20),
		box("b", 0, 40, 50, 20),
		box("c", 100, 20, 50, 20),
	))
	nodes := idx.Nodes("c", "a", "b")

	SortByLeft(nodes)
	if nodes[0] != idx["b"] || nodes[2] != idx["a"] {
		t.Error("SortByLeft order mismatch")
	}
	SortByTop(nodes)
	if nodes[0] != idx["a"] || nodes[2] != idx["b"] {
		t.Error("SortByTop order mismatch")
	}
	SortByOrder(nodes)
	if nodes[0] != idx["a"] || nodes[1] != idx["b"] || nodes[2] != idx["c"] {
		t.Error("SortByOrder should restore document order")
	}
}
