// Package images settles the intrinsic size of every pending image in a
// snapshot before conversion starts.
//
// [Settle] is a barrier: it decodes all pending images concurrently, with
// at most limit decodes in flight, and returns only when every image has
// either decoded or failed. Failed images settle with zero dimensions and
// leave a warning on the document, so conversion always proceeds.
package images

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/droidview/pkg/snapshot"
)

// DefaultLimit is the number of concurrent decodes when none is given.
const DefaultLimit = 8

// Stats summarizes one settle pass. Images sharing a source are counted
// once.
type Stats struct {
	Pending int
	Decoded int
	Failed  int
}

// Settler decodes pending images through a [Loader].
type Settler struct {
	Loader Loader
	// Limit caps concurrent decodes. Zero means [DefaultLimit].
	Limit  int
	Logger *log.Logger
}

// Settle decodes the pending images of doc with at most limit decodes in
// flight. A nil loader reads data URIs, URLs and local files.
func Settle(ctx context.Context, doc *snapshot.Document, loader Loader, limit int) (Stats, error) {
	s := &Settler{Loader: loader, Limit: limit}
	return s.Settle(ctx, doc)
}

type outcome struct {
	width, height int
	err           error
}

// Settle decodes the pending images of doc. Only cancellation of ctx is
// returned as an error.
func (s *Settler) Settle(ctx context.Context, doc *snapshot.Document) (Stats, error) {
	loader := s.Loader
	if loader == nil {
		loader = &SourceLoader{}
	}
	logger := s.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	bySrc := map[string][]*snapshot.Image{}
	var srcs []string
	for _, img := range doc.Images() {
		if !img.Pending() {
			continue
		}
		if _, ok := bySrc[img.Src]; !ok {
			srcs = append(srcs, img.Src)
		}
		bySrc[img.Src] = append(bySrc[img.Src], img)
	}
	stats := Stats{Pending: len(srcs)}
	if len(srcs) == 0 {
		return stats, nil
	}

	start := time.Now()
	results := make([]outcome, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, src := range srcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w, h, err := decode(gctx, loader, src)
			results[i] = outcome{width: w, height: h, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	for i, src := range srcs {
		r := results[i]
		for _, img := range bySrc[src] {
			img.Settled = true
			img.NaturalWidth, img.NaturalHeight = r.width, r.height
		}
		if r.err != nil {
			stats.Failed++
			doc.AddWarning(fmt.Sprintf("image %s: %v", src, r.err))
			logger.Warn("image failed to decode", "src", src, "err", r.err)
			continue
		}
		stats.Decoded++
	}
	logger.Debug("settled images",
		"pending", stats.Pending,
		"decoded", stats.Decoded,
		"failed", stats.Failed,
		"duration", time.Since(start))
	return stats, nil
}

func decode(ctx context.Context, loader Loader, src string) (int, int, error) {
	rc, err := loader.Open(ctx, src)
	if err != nil {
		return 0, 0, err
	}
	defer rc.Close()
	return DecodeSize(rc)
}

// DecodeSize reads the pixel size of a raster image or an SVG document.
func DecodeSize(r io.Reader) (int, int, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(512)
	if bytes.Contains(head, []byte("<svg")) {
		return svgSize(br)
	}
	cfg, _, err := image.DecodeConfig(br)
	if err != nil {
		return 0, 0, fmt.Errorf("decode: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// svgSize reads width and height from the root element, falling back to
// the viewBox.
func svgSize(r io.Reader) (int, int, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return 0, 0, fmt.Errorf("decode svg: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return 0, 0, fmt.Errorf("decode svg: no svg root")
	}
	w, wok := svgLength(root.SelectAttrValue("width", ""))
	h, hok := svgLength(root.SelectAttrValue("height", ""))
	if wok && hok {
		return w, h, nil
	}
	box := strings.FieldsFunc(root.SelectAttrValue("viewBox", ""), func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(box) == 4 {
		bw, errW := strconv.ParseFloat(box[2], 64)
		bh, errH := strconv.ParseFloat(box[3], 64)
		if errW == nil && errH == nil && bw > 0 && bh > 0 {
			return int(bw + 0.5), int(bh + 0.5), nil
		}
	}
	return 0, 0, fmt.Errorf("decode svg: no intrinsic size")
}

func svgLength(v string) (int, bool) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(f + 0.5), true
}
