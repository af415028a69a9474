package sink

import (
	"encoding/json"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	seed    uint64
	compact bool
}

// WithJSONSeed records the seed the layout was generated from, so the picture
// can be regenerated instead of re-imported.
func WithJSONSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Seed uint64 `json:"seed,omitempty"`
	layout.Layout
}

// RenderJSON exports the layout as a JSON document: both partitions, both
// stitch patterns, the raw segments and, for merged layouts, the polylines.
// The document can be read back with the io package and rendered again.
//
// RenderJSON returns an error only if JSON marshaling fails, which happens
// for layouts holding NaN or infinite coordinates.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Seed: r.seed, Layout: l}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
