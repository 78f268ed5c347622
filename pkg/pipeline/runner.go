package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/droidview/pkg/builder"
	"github.com/matzehuels/droidview/pkg/buildinfo"
	"github.com/matzehuels/droidview/pkg/cache"
	apperrors "github.com/matzehuels/droidview/pkg/errors"
	"github.com/matzehuels/droidview/pkg/images"
	"github.com/matzehuels/droidview/pkg/observability"
	"github.com/matzehuels/droidview/pkg/render"
	"github.com/matzehuels/droidview/pkg/snapshot"
)

// Runner encapsulates pipeline execution with caching.
//
// A Runner converts one snapshot at a time; a second Execute while one is
// in flight fails with [ErrBusy]. Runners share nothing, so callers that
// need parallel conversions create one Runner per worker.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	busy atomic.Bool
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer scoped to the build version is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CachePrefix())
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedConversion is what a conversion stores in the cache.
type cachedConversion struct {
	Artifacts map[string][]byte `json:"artifacts"`
	Warnings  []string          `json:"warnings,omitempty"`
	Views     int               `json:"views"`
	Depth     int               `json:"depth"`
}

// Execute runs the complete load → settle → build → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer r.busy.Store(false)

	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.New(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID.String()[:8])
	hooks := observability.Pipeline()

	// Stage 1: Load
	loadStart := time.Now()
	source := opts.SnapshotPath
	if opts.Snapshot != nil {
		source = opts.Snapshot.URL
	}
	hooks.OnLoadStart(ctx, source)
	doc, raw, err := r.load(opts)
	result.Stats.LoadTime = time.Since(loadStart)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, result.Stats.LoadTime, err)
		return nil, fmt.Errorf("load: %w", err)
	}
	result.SnapshotHash = cache.Hash(raw)
	result.Stats.Elements = len(doc.Elements())
	hooks.OnLoadComplete(ctx, source, result.Stats.Elements, result.Stats.LoadTime, nil)
	logger.Info("loaded snapshot",
		"elements", result.Stats.Elements,
		"duration", result.Stats.LoadTime)

	fingerprint := opts.Settings.Fingerprint()
	cacheKey := r.Keyer.ConversionKey(result.SnapshotHash, cache.ConversionKeyOpts{
		Settings: fingerprint,
		Formats:  opts.Formats,
	})
	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, cacheKey, logger); ok {
			result.Artifacts = cached.Artifacts
			result.Warnings = cached.Warnings
			result.Stats.Views = cached.Views
			result.Stats.Depth = cached.Depth
			result.CacheHit = true
			logger.Info("using cached conversion", "artifacts", len(cached.Artifacts))
			return result, nil
		}
	}

	// Stage 2: Settle
	settleStart := time.Now()
	settler := &images.Settler{Loader: opts.Loader, Limit: opts.ImageLimit, Logger: logger}
	if settler.Loader == nil {
		settler.Loader = &images.SourceLoader{Dir: r.imageDir(opts)}
	}
	imgStats, err := settler.Settle(ctx, doc)
	result.Stats.SettleTime = time.Since(settleStart)
	result.Stats.Images = imgStats
	hooks.OnSettleComplete(ctx, imgStats.Pending, imgStats.Failed, result.Stats.SettleTime, err)
	if err != nil {
		return nil, fmt.Errorf("settle images: %w", err)
	}
	if imgStats.Pending > 0 {
		logger.Info("settled images",
			"decoded", imgStats.Decoded,
			"failed", imgStats.Failed,
			"duration", result.Stats.SettleTime)
	}

	// Stage 3: Build
	buildStart := time.Now()
	hooks.OnBuildStart(ctx, result.Stats.Elements)
	b, err := builder.New(builder.Options{Settings: opts.Settings, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	vdoc, err := b.Build(ctx, doc)
	result.Stats.BuildTime = time.Since(buildStart)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, result.Stats.BuildTime, err)
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Document = vdoc
	result.Warnings = vdoc.Warnings
	result.Stats.Views, result.Stats.Depth = vdoc.Count()
	hooks.OnBuildComplete(ctx, result.Stats.Views, result.Stats.BuildTime, nil)
	logger.Info("built view tree",
		"views", result.Stats.Views,
		"depth", result.Stats.Depth,
		"warnings", len(result.Warnings),
		"duration", result.Stats.BuildTime)

	// Stage 4: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	fp, _ := json.Marshal(fingerprint)
	artifacts, err := render.Render(ctx, vdoc, render.Options{
		Render:      opts.Settings.Render,
		Formats:     opts.Formats,
		LayoutName:  opts.LayoutName,
		RunID:       result.RunID,
		Fingerprint: cache.Hash(fp),
	})
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"artifacts", len(artifacts),
		"duration", result.Stats.RenderTime)

	r.store(ctx, cacheKey, opts, result, logger)
	return result, nil
}

// Busy reports whether a conversion is running.
func (r *Runner) Busy() bool { return r.busy.Load() }

// load reads the snapshot and returns it with the bytes its cache key is
// derived from.
func (r *Runner) load(opts Options) (*snapshot.Document, []byte, error) {
	if opts.Snapshot != nil {
		if opts.Snapshot.Root == nil {
			return nil, nil, apperrors.New(apperrors.ErrCodeInvalidSnapshot, "snapshot has no root element")
		}
		var buf bytes.Buffer
		if err := snapshot.Write(&buf, opts.Snapshot); err != nil {
			return nil, nil, err
		}
		return opts.Snapshot, buf.Bytes(), nil
	}
	data, err := os.ReadFile(opts.SnapshotPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "snapshot %s", opts.SnapshotPath)
		}
		return nil, nil, fmt.Errorf("read %s: %w", opts.SnapshotPath, err)
	}
	doc, err := snapshot.Read(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

func (r *Runner) imageDir(opts Options) string {
	if opts.ImageDir != "" {
		return opts.ImageDir
	}
	if opts.SnapshotPath != "" {
		return filepath.Dir(opts.SnapshotPath)
	}
	return ""
}

func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (cachedConversion, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed", "err", err)
		return cachedConversion{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "conversion")
		return cachedConversion{}, false
	}
	var cached cachedConversion
	if err := json.Unmarshal(data, &cached); err != nil || len(cached.Artifacts) == 0 {
		// Unreadable entries are recomputed and overwritten.
		observability.Cache().OnCacheMiss(ctx, "conversion")
		return cachedConversion{}, false
	}
	observability.Cache().OnCacheHit(ctx, "conversion")
	return cached, true
}

func (r *Runner) store(ctx context.Context, key string, opts Options, result *Result, logger *log.Logger) {
	ttl, err := opts.Settings.Cache.TTLDuration()
	if err != nil {
		return
	}
	data, err := json.Marshal(cachedConversion{
		Artifacts: result.Artifacts,
		Warnings:  result.Warnings,
		Views:     result.Stats.Views,
		Depth:     result.Stats.Depth,
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache store failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "conversion", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
