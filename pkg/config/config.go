// Package config loads conversion settings from TOML files.
//
// A settings file has one table per concern. Every key is optional; unset
// keys keep the values of [Default].
//
//	[layout]
//	whitespace_threshold = 4.0
//	edge_tolerance = 1.5
//	packed_offset = 6.0
//	collapse_unattributed_elements = true
//	float_overlap_disabled = false
//	constraint_layout = true
//	grid_strategy = "scan"      # or "balance"
//	extensions = ["table", "list", "grid", "external"]
//
//	[render]
//	density_dpi = 160
//	id_prefix = ""
//	formats = ["xml"]
//
//	[cache]
//	backend = "file"            # file, none, redis or mongo
//	ttl = "24h"
//
//	[capture]
//	timeout = "30s"
//	viewport_width = 1280
//	viewport_height = 800
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/droidview/pkg/errors"
)

// Grid detection strategies.
const (
	GridScan    = "scan"
	GridBalance = "balance"
)

// Output formats.
const (
	FormatXML  = "xml"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatXML:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Cache backends.
const (
	CacheFile  = "file"
	CacheNone  = "none"
	CacheRedis = "redis"
	CacheMongo = "mongo"
)

// BuiltinExtensions lists the extensions shipped with droidview in their
// default dispatch order.
var BuiltinExtensions = []string{"external", "table", "list", "grid"}

// Settings is the complete conversion configuration.
type Settings struct {
	Layout  Layout  `toml:"layout"`
	Render  Render  `toml:"render"`
	Cache   Cache   `toml:"cache"`
	Capture Capture `toml:"capture"`
}

// Layout tunes the grouping engine and the anchoring pass.
type Layout struct {
	// WhitespaceThreshold is the largest gap in pixels between two
	// siblings that still counts as adjacency.
	WhitespaceThreshold float64 `toml:"whitespace_threshold"`
	// EdgeTolerance is the largest difference in pixels between two edges
	// that still counts as touching.
	EdgeTolerance float64 `toml:"edge_tolerance"`
	// PackedOffset is the largest gap inside a chain that keeps it packed.
	PackedOffset float64 `toml:"packed_offset"`
	// CollapseUnattributedElements prunes empty leaves with no footprint.
	CollapseUnattributedElements bool `toml:"collapse_unattributed_elements"`
	// FloatOverlapDisabled breaks runs wherever floats and non-floats meet.
	FloatOverlapDisabled bool `toml:"float_overlap_disabled"`
	// ConstraintLayout emits constraint containers instead of relative ones.
	ConstraintLayout bool `toml:"constraint_layout"`
	// GridStrategy selects the grid detector: "scan" or "balance".
	GridStrategy string `toml:"grid_strategy"`
	// Extensions lists the enabled built-in extensions in dispatch order.
	Extensions []string `toml:"extensions"`
}

// Render tunes output generation.
type Render struct {
	DensityDPI int      `toml:"density_dpi"`
	IDPrefix   string   `toml:"id_prefix"`
	Formats    []string `toml:"formats"`
}

// Cache selects the conversion cache backend.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	TTL           string `toml:"ttl"`
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Capture tunes live page capture.
type Capture struct {
	Timeout        string  `toml:"timeout"`
	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`
	WaitSelector   string  `toml:"wait_selector"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Layout: Layout{
			WhitespaceThreshold:          4,
			EdgeTolerance:                1.5,
			PackedOffset:                 6,
			CollapseUnattributedElements: true,
			ConstraintLayout:             true,
			GridStrategy:                 GridScan,
			Extensions:                   slices.Clone(BuiltinExtensions),
		},
		Render: Render{
			DensityDPI: 160,
			Formats:    []string{FormatXML},
		},
		Cache: Cache{
			Backend:       CacheFile,
			TTL:           "24h",
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "droidview",
		},
		Capture: Capture{
			Timeout:        "30s",
			ViewportWidth:  1280,
			ViewportHeight: 800,
		},
	}
}

// Load reads a settings file on top of [Default] and validates the
// result. Unknown keys are rejected.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "settings file %s", path)
		}
		return s, apperrors.Wrap(apperrors.ErrCodeInvalidSettings, err, "read %s", path)
	}
	if err := s.Decode(string(data)); err != nil {
		return s, err
	}
	return s, nil
}

// Decode applies a TOML document on top of s and validates the result.
func (s *Settings) Decode(data string) error {
	md, err := toml.Decode(data, s)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidSettings, err, "decode settings")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperrors.New(apperrors.ErrCodeInvalidSettings, "unknown settings: %s", strings.Join(keys, ", "))
	}
	return s.Validate()
}

// Validate checks value ranges and enumerations.
func (s *Settings) Validate() error {
	l := s.Layout
	if l.WhitespaceThreshold < 0 || l.EdgeTolerance < 0 || l.PackedOffset < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidSettings, "layout thresholds must not be negative")
	}
	switch l.GridStrategy {
	case GridScan, GridBalance:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidSettings, "invalid grid_strategy %q (must be scan or balance)", l.GridStrategy)
	}
	for _, ext := range l.Extensions {
		if !slices.Contains(BuiltinExtensions, ext) {
			return apperrors.New(apperrors.ErrCodeInvalidSettings, "unknown extension %q", ext)
		}
	}

	if s.Render.DensityDPI <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidSettings, "density_dpi must be positive")
	}
	if err := apperrors.ValidateIdentifier(s.Render.IDPrefix); err != nil {
		return err
	}
	if err := ValidateFormats(s.Render.Formats); err != nil {
		return err
	}

	switch s.Cache.Backend {
	case CacheFile, CacheNone, CacheRedis, CacheMongo:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidSettings, "invalid cache backend %q", s.Cache.Backend)
	}
	if _, err := s.Cache.TTLDuration(); err != nil {
		return err
	}
	if _, err := s.Capture.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: xml, json, dot, svg)", f)
		}
	}
	return nil
}

// DP converts CSS pixels to density-independent pixels at DensityDPI.
func (r Render) DP(px float64) float64 {
	if r.DensityDPI <= 0 {
		return px
	}
	return px * 160 / float64(r.DensityDPI)
}

// TTLDuration parses the cache TTL. An empty TTL means no expiry.
func (c Cache) TTLDuration() (time.Duration, error) {
	return parseDuration("ttl", c.TTL)
}

// TimeoutDuration parses the capture timeout. An empty value means none.
func (c Capture) TimeoutDuration() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout)
}

func parseDuration(key, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidSettings, "invalid %s %q", key, v)
	}
	return d, nil
}

// Fingerprint returns the settings that influence conversion output, for
// use in cache keys.
func (s Settings) Fingerprint() map[string]any {
	return map[string]any{
		"layout":  s.Layout,
		"density": s.Render.DensityDPI,
		"prefix":  s.Render.IDPrefix,
	}
}
