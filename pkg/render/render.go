package render

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/matzehuels/droidview/pkg/config"
	apperrors "github.com/matzehuels/droidview/pkg/errors"
	"github.com/matzehuels/droidview/pkg/render/android"
	"github.com/matzehuels/droidview/pkg/render/nodelink"
	"github.com/matzehuels/droidview/pkg/render/sink"
	"github.com/matzehuels/droidview/pkg/view"
)

// Artifact paths of the debug formats.
const (
	JSONFile = "view.json"
	DOTFile  = "view.dot"
	SVGFile  = "view.svg"
)

// Options configures [Render].
type Options struct {
	Render config.Render
	// Formats overrides Render.Formats when set.
	Formats     []string
	LayoutName  string
	RunID       uuid.UUID
	Fingerprint string
}

// Render writes doc in every requested format. The result maps artifact
// paths to file contents; Android resources live below "res/".
func Render(ctx context.Context, doc *view.Document, opts Options) (map[string][]byte, error) {
	if doc == nil || doc.Root == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "nothing to render")
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = opts.Render.Formats
	}
	if len(formats) == 0 {
		formats = []string{config.FormatXML}
	}
	if err := config.ValidateFormats(formats); err != nil {
		return nil, err
	}

	out := map[string][]byte{}
	var dot string
	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch f {
		case config.FormatXML:
			files, err := android.Render(doc, android.Options{Render: opts.Render, LayoutName: opts.LayoutName})
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render xml")
			}
			maps.Copy(out, files)
		case config.FormatJSON:
			data, err := sink.RenderJSON(doc,
				sink.WithJSONRunID(opts.RunID),
				sink.WithJSONFingerprint(opts.Fingerprint),
				sink.WithJSONResources(),
				sink.WithJSONIndent())
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render json")
			}
			out[JSONFile] = data
		case config.FormatDOT, config.FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
			}
			if f == config.FormatDOT {
				out[DOTFile] = []byte(dot)
				continue
			}
			svg, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render svg")
			}
			out[SVGFile] = svg
		default:
			return nil, fmt.Errorf("unhandled format %q", f)
		}
	}
	return out, nil
}
