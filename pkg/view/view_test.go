package view

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/droidview/pkg/node"
)

func sample() *Document {
	return &Document{Root: &View{
		ID:   "root",
		Kind: node.KindLinear,
		Children: []*View{
			{ID: "a", NodeID: 1, Kind: node.KindText},
			{ID: "b", NodeID: 2, Kind: node.KindRelative, Children: []*View{
				{ID: "c", NodeID: 3, Kind: node.KindImage},
			}},
		},
	}}
}

func TestWalkAndFind(t *testing.T) {
	doc := sample()

	views, depth := doc.Count()
	if views != 4 || depth != 3 {
		t.Errorf("Count() = %d, %d, want 4, 3", views, depth)
	}
	if v := doc.Find("c"); v == nil || v.Kind != node.KindImage {
		t.Errorf("Find(c) = %v", v)
	}
	if doc.Find("missing") != nil {
		t.Error("Find(missing) should be nil")
	}
	if v := doc.FindNode(2); v == nil || v.ID != "b" {
		t.Errorf("FindNode(2) = %v", v)
	}

	var seen []string
	doc.Walk(func(v *View, _ int) bool {
		seen = append(seen, v.ID)
		return v.ID != "b"
	})
	if strings.Join(seen, ",") != "root,a,b" {
		t.Errorf("Walk pruned order = %v", seen)
	}
}

func TestConstraintAxis(t *testing.T) {
	for k := range constraintNames {
		want := Horizontal
		switch k {
		case ParentTop, ParentBottom, Above, Below, AlignTop, AlignBottom, Baseline, CenterVertical, BiasVertical:
			want = Vertical
		}
		if k.Axis() != want {
			t.Errorf("%s.Axis() = %s, want %s", k, k.Axis(), want)
		}
	}

	v := &View{}
	v.Add(Constraint{Kind: ParentTop, Margin: 10})
	if !v.AnchoredOn(Vertical) || v.AnchoredOn(Horizontal) {
		t.Error("AnchoredOn mismatch")
	}
	if !v.Constrained(ParentTop) || v.Constrained(ParentLeft) {
		t.Error("Constrained mismatch")
	}
}

func TestMarshalNames(t *testing.T) {
	v := &View{
		ID:          "x",
		Kind:        node.KindLinear,
		Alignment:   node.AlignHorizontal | node.AlignFloat,
		Constraints: []Constraint{{Kind: RightOf, Target: "y", Margin: 4}},
		Chains:      []Chain{{Axis: Vertical, Style: ChainPacked, Members: []string{"a", "b"}}},
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"kind":"linear"`, `"alignment":"horizontal|float"`, `"kind":"rightOf"`, `"axis":"vertical"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("json %s missing %s", data, want)
		}
	}
}

func TestUnmarshalNames(t *testing.T) {
	in := &View{
		ID:          "x",
		Kind:        node.KindConstraint,
		Constraints: []Constraint{{Kind: BiasVertical, Bias: 0.25}, {Kind: Baseline, Target: "y"}},
		Chains:      []Chain{{Axis: Horizontal, Style: ChainSpread, Members: []string{"a", "b"}}},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out View
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, &out); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	var k ConstraintKind
	if err := k.UnmarshalText([]byte("sideways")); err == nil {
		t.Error("expected error for unknown constraint")
	}
}
