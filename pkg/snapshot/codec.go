package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	apperrors "github.com/matzehuels/droidview/pkg/errors"
)

type wireDocument struct {
	URL      string   `json:"url,omitempty"`
	Viewport Viewport `json:"viewport"`
	Warnings []string `json:"warnings,omitempty"`
	Root     *Element `json:"root"`
}

// Read decodes a JSON snapshot from r and links it.
//
// Read returns an INVALID_SNAPSHOT error when the JSON is malformed, the
// root element is missing, or any element lacks a tag. Read does not
// close r.
func Read(r io.Reader) (*Document, error) {
	var w wireDocument
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidSnapshot, err, "decode snapshot")
	}
	if w.Root == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidSnapshot, "snapshot has no root element")
	}
	if w.Root.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidSnapshot, "root element has no tag")
	}
	var bad error
	w.Root.Walk(func(e *Element) bool {
		for _, c := range e.Children {
			if c == nil || c.Tag == "" {
				bad = apperrors.New(apperrors.ErrCodeInvalidSnapshot, "element without tag under <%s>", e.Tag)
				return false
			}
		}
		return bad == nil
	})
	if bad != nil {
		return nil, bad
	}

	d := &Document{URL: w.URL, Viewport: w.Viewport, Warnings: w.Warnings, Root: w.Root}
	d.Link()
	return d, nil
}

// ReadFile reads a JSON snapshot from path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "snapshot %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes d as indented JSON.
func Write(w io.Writer, d *Document) error {
	out := wireDocument{URL: d.URL, Viewport: d.Viewport, Warnings: d.Warnings, Root: d.Root}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes d to a JSON file at path.
func WriteFile(path string, d *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
