// Package pipeline provides the conversion pipeline for droidview.
//
// This package implements the complete load → settle → build → render
// pipeline shared by every command. By centralizing it, conversions behave
// the same whether they start from a snapshot file or a fresh capture.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read and link a snapshot document
//  2. Settle: Decode pending images so every image has its natural size
//  3. Build: Classify and group elements into a view tree
//  4. Render: Write Android XML resources and the debug formats
//
// Conversions are cached by snapshot content and settings, so converting
// the same snapshot twice only renders once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    SnapshotPath: "page.json",
//	    Formats:      []string{"xml", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layout := result.Artifacts["res/layout/activity_main.xml"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/droidview/pkg/config"
	apperrors "github.com/matzehuels/droidview/pkg/errors"
	"github.com/matzehuels/droidview/pkg/images"
	"github.com/matzehuels/droidview/pkg/snapshot"
	"github.com/matzehuels/droidview/pkg/view"
)

// ErrBusy is returned when a runner is asked to convert while another
// conversion is still running on it.
var ErrBusy = apperrors.New(apperrors.ErrCodeBusy, "a conversion is already running")

// Options contains all configuration for one conversion.
type Options struct {
	// SnapshotPath is a JSON snapshot on disk. Ignored when Snapshot is set.
	SnapshotPath string
	// Snapshot is an already loaded document, e.g. from a capture.
	Snapshot *snapshot.Document

	// Settings defaults to [config.Default].
	Settings *config.Settings
	// Formats overrides Settings.Render.Formats.
	Formats    []string
	LayoutName string

	// ImageDir resolves relative image sources. Defaults to the directory
	// of SnapshotPath.
	ImageDir   string
	ImageLimit int
	// Loader replaces the default image loader.
	Loader images.Loader

	// Refresh bypasses cached conversions.
	Refresh bool
	Logger  *log.Logger

	validated bool
}

// ValidateAndSetDefaults validates options and fills in defaults.
// This method is idempotent - calling it multiple times has no effect after the first call.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Snapshot == nil && o.SnapshotPath == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "no snapshot given")
	}
	if o.Settings == nil {
		s := config.Default()
		o.Settings = &s
	}
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = o.Settings.Render.Formats
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{config.FormatXML}
	}
	if err := config.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.ImageLimit < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "image limit must not be negative")
	}
	if o.ImageLimit == 0 {
		o.ImageLimit = images.DefaultLimit
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and in the JSON artifact.
	RunID uuid.UUID
	// Document is the built view tree. It is nil when the artifacts came
	// from the cache.
	Document *view.Document
	// Artifacts maps artifact paths to file contents.
	Artifacts map[string][]byte
	// Warnings collects capture and conversion problems.
	Warnings []string

	Stats Stats
	// CacheHit reports that no stage after load ran.
	CacheHit bool
	// SnapshotHash is the content hash of the loaded snapshot.
	SnapshotHash string
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements int
	Views    int
	Depth    int
	Images   images.Stats

	LoadTime   time.Duration
	SettleTime time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// Total returns the summed duration of all stages.
func (s Stats) Total() time.Duration {
	return s.LoadTime + s.SettleTime + s.BuildTime + s.RenderTime
}
