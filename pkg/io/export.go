package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
)

// Document is a layout together with the seed it was generated from.
type Document struct {
	Seed uint64 `json:"seed,omitempty"`
	layout.Layout
}

// WriteJSON encodes l as an indented JSON document and writes it to w.
// A non-zero seed is recorded alongside the layout.
func WriteJSON(l layout.Layout, seed uint64, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Seed: seed, Layout: l}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a layout to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(l layout.Layout, seed uint64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, seed, f)
}
