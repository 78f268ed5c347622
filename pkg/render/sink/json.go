// Package sink writes view documents in machine-readable formats.
//
// [RenderJSON] serializes the full view tree with constraints, chains and
// attributes, plus the resource tables when requested. The output is the
// debug format of the converter and the payload stored by the conversion
// cache.
package sink

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/droidview/pkg/resource"
	"github.com/matzehuels/droidview/pkg/view"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	runID       uuid.UUID
	resources   bool
	fingerprint string
	indent      bool
}

// WithJSONRunID records the id of the conversion run that produced the
// document.
func WithJSONRunID(id uuid.UUID) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

// WithJSONResources includes the string, color and style tables.
func WithJSONResources() JSONOption { return func(r *jsonRenderer) { r.resources = true } }

// WithJSONFingerprint records the settings fingerprint used for the run.
func WithJSONFingerprint(fp string) JSONOption { return func(r *jsonRenderer) { r.fingerprint = fp } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	RunID       string         `json:"run_id,omitempty"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	URL         string         `json:"url,omitempty"`
	Views       int            `json:"views"`
	Depth       int            `json:"depth"`
	Root        *view.View     `json:"root"`
	Warnings    []string       `json:"warnings,omitempty"`
	Resources   *jsonResources `json:"resources,omitempty"`
}

type jsonResources struct {
	Strings []jsonEntry `json:"strings,omitempty"`
	Colors  []jsonEntry `json:"colors,omitempty"`
	Styles  []jsonStyle `json:"styles,omitempty"`
}

type jsonEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type jsonStyle struct {
	Name  string            `json:"name"`
	Items map[string]string `json:"items"`
}

// RenderJSON serializes doc.
func RenderJSON(doc *view.Document, opts ...JSONOption) ([]byte, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("render json: empty document")
	}
	r := &jsonRenderer{}
	for _, opt := range opts {
		opt(r)
	}

	views, depth := doc.Count()
	out := jsonOutput{
		Fingerprint: r.fingerprint,
		URL:         doc.URL,
		Views:       views,
		Depth:       depth,
		Root:        doc.Root,
		Warnings:    doc.Warnings,
	}
	if r.runID != uuid.Nil {
		out.RunID = r.runID.String()
	}
	if r.resources && doc.Resources != nil {
		out.Resources = buildResources(doc.Resources)
	}
	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func buildResources(res *resource.Context) *jsonResources {
	out := &jsonResources{
		Strings: entries(res.Strings),
		Colors:  entries(res.Colors),
	}
	for _, e := range res.Styles.Entries() {
		out.Styles = append(out.Styles, jsonStyle{Name: e.Name, Items: res.StyleAttrs(e.Name)})
	}
	return out
}

func entries(t *resource.Table) []jsonEntry {
	out := make([]jsonEntry, 0, t.Len())
	for _, e := range t.Entries() {
		out = append(out, jsonEntry(e))
	}
	return out
}
