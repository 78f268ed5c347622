package render

import (
	"context"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/droidview/pkg/config"
	apperrors "github.com/matzehuels/droidview/pkg/errors"
	"github.com/matzehuels/droidview/pkg/geom"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/resource"
	"github.com/matzehuels/droidview/pkg/view"
)

func sampleDoc() *view.Document {
	return &view.Document{
		Resources: resource.NewContext(),
		Root: &view.View{
			ID: "root", Kind: node.KindLinear, Alignment: node.AlignVertical, Bounds: geom.FromSize(0, 0, 100, 100),
			Children: []*view.View{{ID: "child", Kind: node.KindFrame, Bounds: geom.FromSize(0, 0, 100, 50)}},
		},
	}
}

func TestRenderFormats(t *testing.T) {
	files, err := Render(context.Background(), sampleDoc(), Options{
		Render:  config.Default().Render,
		Formats: []string{config.FormatXML, config.FormatJSON, config.FormatDOT},
		RunID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	want := []string{
		DOTFile,
		"res/layout/activity_main.xml",
		"res/values/colors.xml",
		"res/values/strings.xml",
		"res/values/styles.xml",
		JSONFile,
	}
	if got := slices.Sorted(maps.Keys(files)); !slices.Equal(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
	if !strings.Contains(string(files["res/layout/activity_main.xml"]), "<LinearLayout") {
		t.Errorf("layout missing LinearLayout:\n%s", files["res/layout/activity_main.xml"])
	}
	if !strings.HasPrefix(string(files[DOTFile]), "digraph G {") {
		t.Errorf("dot = %s", files[DOTFile])
	}
}

func TestRenderDefaultsToXML(t *testing.T) {
	files, err := Render(context.Background(), sampleDoc(), Options{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if _, ok := files["res/layout/activity_main.xml"]; !ok {
		t.Errorf("files = %v, want layout", slices.Sorted(maps.Keys(files)))
	}
	if _, ok := files[JSONFile]; ok {
		t.Error("json rendered without being requested")
	}
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(context.Background(), sampleDoc(), Options{Formats: []string{"pdf"}})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want invalid format", err)
	}

	_, err = Render(context.Background(), &view.Document{}, Options{})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want invalid input", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, sampleDoc(), Options{}); err == nil {
		t.Error("expected error for canceled context")
	}
}
