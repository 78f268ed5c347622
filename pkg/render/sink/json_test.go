package sink

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/resource"
	"github.com/matzehuels/droidview/pkg/view"
)

func sampleDoc() *view.Document {
	res := resource.NewContext()
	text, _ := res.AddString("Hello")
	return &view.Document{
		URL:       "file:///page.html",
		Resources: res,
		Warnings:  []string{"image a.png: not found"},
		Root: &view.View{
			ID: "root", Kind: node.KindConstraint, Bounds: geom.FromSize(0, 0, 100, 100),
			Children: []*view.View{{
				ID: "t", Kind: node.KindText, Bounds: geom.FromSize(0, 0, 50, 20),
				Attrs:       map[string]string{"text": "@string/" + text},
				Constraints: []view.Constraint{{Kind: view.ParentLeft, Margin: 4}},
			}},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleDoc())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out["views"] != float64(2) {
		t.Errorf("views = %v, want 2", out["views"])
	}
	if out["depth"] != float64(2) {
		t.Errorf("depth = %v, want 2", out["depth"])
	}
	if _, ok := out["run_id"]; ok {
		t.Error("run_id present without option")
	}
	if _, ok := out["resources"]; ok {
		t.Error("resources present without option")
	}

	root := out["root"].(map[string]any)
	if root["kind"] != "constraint" {
		t.Errorf("root kind = %v, want constraint", root["kind"])
	}
	child := root["children"].([]any)[0].(map[string]any)
	c := child["constraints"].([]any)[0].(map[string]any)
	if c["kind"] != "parentLeft" || c["margin"] != float64(4) {
		t.Errorf("constraint = %v", c)
	}
}

func TestRenderJSONWithOptions(t *testing.T) {
	id := uuid.New()
	data, err := RenderJSON(sampleDoc(),
		WithJSONRunID(id),
		WithJSONResources(),
		WithJSONFingerprint("abc123"),
		WithJSONIndent(),
	)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.RunID != id.String() {
		t.Errorf("RunID = %q, want %q", out.RunID, id)
	}
	if out.Fingerprint != "abc123" {
		t.Errorf("Fingerprint = %q", out.Fingerprint)
	}
	if out.Resources == nil || len(out.Resources.Strings) != 1 {
		t.Fatalf("Resources = %+v, want one string", out.Resources)
	}
	if got := out.Resources.Strings[0]; got.Name != "hello" || got.Value != "Hello" {
		t.Errorf("string = %+v", got)
	}
	if len(out.Warnings) != 1 {
		t.Errorf("Warnings = %v", out.Warnings)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	if _, err := RenderJSON(&view.Document{}); err == nil {
		t.Error("expected error for empty document")
	}
}
