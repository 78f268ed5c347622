package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/matzehuels/droidview/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if s.Layout.GridStrategy != GridScan {
		t.Errorf("GridStrategy = %q, want scan", s.Layout.GridStrategy)
	}
}

func TestDecode(t *testing.T) {
	s := Default()
	err := s.Decode(`
[layout]
whitespace_threshold = 8.0
grid_strategy = "balance"
extensions = ["table"]

[render]
formats = ["xml", "json"]
id_prefix = "dv"

[cache]
backend = "none"
ttl = "1h"
`)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if s.Layout.WhitespaceThreshold != 8 || s.Layout.GridStrategy != GridBalance {
		t.Errorf("layout not decoded: %+v", s.Layout)
	}
	if s.Layout.EdgeTolerance != Default().Layout.EdgeTolerance {
		t.Error("unset keys should keep defaults")
	}
	if len(s.Layout.Extensions) != 1 || len(s.Render.Formats) != 2 {
		t.Errorf("lists not decoded: %v %v", s.Layout.Extensions, s.Render.Formats)
	}
	if ttl, _ := s.Cache.TTLDuration(); ttl != time.Hour {
		t.Errorf("TTLDuration() = %v, want 1h", ttl)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[layout`},
		{"unknown key", "[layout]\nspacing = 3"},
		{"negative threshold", "[layout]\nedge_tolerance = -1.0"},
		{"grid strategy", "[layout]\ngrid_strategy = \"guess\""},
		{"extension", "[layout]\nextensions = [\"carousel\"]"},
		{"density", "[render]\ndensity_dpi = 0"},
		{"prefix", "[render]\nid_prefix = \"1x\""},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"ttl", "[cache]\nttl = \"soon\""},
		{"timeout", "[capture]\ntimeout = \"-5s\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			err := s.Decode(tt.data)
			if err == nil {
				t.Fatal("Decode() should fail")
			}
			if !apperrors.Is(err, apperrors.ErrCodeInvalidSettings) {
				t.Errorf("Decode() error = %v, want INVALID_SETTINGS", err)
			}
		})
	}
}

func TestDecodeInvalidFormat(t *testing.T) {
	s := Default()
	err := s.Decode("[render]\nformats = [\"pdf\"]")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("Decode() error = %v, want INVALID_FORMAT", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "droidview.toml")
	if err := os.WriteFile(path, []byte("[render]\ndensity_dpi = 320\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if s.Render.DensityDPI != 320 {
		t.Errorf("DensityDPI = %d, want 320", s.Render.DensityDPI)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
