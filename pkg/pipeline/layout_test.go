package pipeline

import (
	"bytes"
	"testing"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/core/partition"
	"github.com/matzehuels/stitchgrid/pkg/core/render"
	"github.com/matzehuels/stitchgrid/pkg/errors"
)

func TestGenerateLayoutDeterministic(t *testing.T) {
	a, err := GenerateLayout(Options{Seed: 9})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	b, err := GenerateLayout(Options{Seed: 9})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	c, err := GenerateLayout(Options{Seed: 10})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}

	svgA := mustRender(t, a, FormatSVG)
	if !bytes.Equal(svgA, mustRender(t, b, FormatSVG)) {
		t.Error("same seed produced different pictures")
	}
	if bytes.Equal(svgA, mustRender(t, c, FormatSVG)) {
		t.Error("different seeds produced the same picture")
	}
}

func TestGenerateLayoutDefaults(t *testing.T) {
	l, err := GenerateLayout(Options{})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	if l.Size != DefaultSize {
		t.Errorf("Size = %v, want %v", l.Size, DefaultSize)
	}
	if l.Columns.Len() != DefaultCount+1 || l.Rows.Len() != DefaultCount+1 {
		t.Errorf("partition lengths = %d/%d, want %d", l.Columns.Len(), l.Rows.Len(), DefaultCount+1)
	}
	if !l.Merged || len(l.Polylines) == 0 {
		t.Errorf("default layout not merged: merged=%v polylines=%d", l.Merged, len(l.Polylines))
	}
	if len(l.ColumnPattern) != DefaultCount || len(l.RowPattern) != DefaultCount {
		t.Errorf("pattern lengths = %d/%d", len(l.ColumnPattern), len(l.RowPattern))
	}
}

func TestGenerateLayoutSkipMerge(t *testing.T) {
	l, err := GenerateLayout(Options{SkipMerge: true})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	if l.Merged || l.Polylines != nil {
		t.Errorf("merged=%v polylines=%d, want unmerged", l.Merged, len(l.Polylines))
	}
	if len(l.Segments) == 0 {
		t.Error("no segments")
	}
}

func TestGenerateLayoutGridOnly(t *testing.T) {
	l, err := GenerateLayout(Options{Size: 400, Columns: 4, Rows: 3, GridOnly: true, SkipMerge: true})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	// 3 interior column lines of 3 cells, 2 interior row lines of 4 cells.
	if len(l.Segments) != 17 {
		t.Errorf("segments = %d, want 17", len(l.Segments))
	}
	if l.ColumnPattern != nil || l.RowPattern != nil {
		t.Error("grid-only layout should carry no patterns")
	}
}

func TestGenerateLayoutStrict(t *testing.T) {
	unskewed := layout.DefaultRowOptions(DefaultSize)
	if _, err := GenerateLayout(Options{Strict: true, ColumnPartition: &unskewed}); err != nil {
		t.Errorf("strict unskewed layout failed: %v", err)
	}

	// Four cells with a four-cell deviation fold the lines over.
	folded := partition.Options{MinDeviation: 2, MaxDeviation: 2}
	opts := Options{Columns: 4, ColumnPartition: &folded}
	if _, err := GenerateLayout(opts); err != nil {
		t.Fatalf("permissive generation failed: %v", err)
	}

	opts.Strict = true
	_, err := GenerateLayout(opts)
	if err == nil {
		t.Fatal("strict generation accepted folded lines")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPartition) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidPartition)
	}
}

func TestGenerateLayoutInvalid(t *testing.T) {
	_, err := GenerateLayout(Options{Columns: 1})
	if !errors.Is(err, errors.ErrCodeInvalidParameters) {
		t.Errorf("err = %v, want INVALID_PARAMETERS", err)
	}
}

func TestRenderFormats(t *testing.T) {
	l, err := GenerateLayout(Options{Size: 200, Columns: 6, Rows: 6})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}

	formats := []string{FormatSVG, FormatPNG, FormatJSON}
	if render.Available() {
		formats = append(formats, FormatPDF)
	}
	artifacts, err := Render(l, Options{Seed: 3, Formats: formats, Scale: 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	prefixes := map[string]string{
		FormatSVG:  "<svg",
		FormatPNG:  "\x89PNG",
		FormatPDF:  "%PDF",
		FormatJSON: "{",
	}
	for _, f := range formats {
		if !bytes.HasPrefix(artifacts[f], []byte(prefixes[f])) {
			t.Errorf("%s artifact starts with %q", f, firstBytes(artifacts[f]))
		}
	}
	if !bytes.Contains(artifacts[FormatJSON], []byte(`"seed": 3`)) {
		t.Error("JSON artifact does not carry the seed")
	}
}

func TestRenderFromLayoutData(t *testing.T) {
	l, err := GenerateLayout(Options{Seed: 5})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	doc := mustRender(t, l, FormatJSON)

	artifacts, err := RenderFromLayoutData(doc, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("RenderFromLayoutData: %v", err)
	}
	if !bytes.Equal(artifacts[FormatSVG], mustRender(t, l, FormatSVG)) {
		t.Error("re-rendered SVG differs from the original")
	}

	if _, err := RenderFromLayoutData([]byte(`{"size": 0}`), Options{}); err == nil {
		t.Error("invalid document should fail")
	}
}

func TestRenderLargeDocumentAsPNG(t *testing.T) {
	l, err := GenerateLayout(Options{Size: 8192, Seed: 5})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}

	_, err = Render(l, Options{Formats: []string{FormatPNG}, Scale: 4})
	if !errors.Is(err, errors.ErrCodeInvalidParameters) {
		t.Errorf("Render() err = %v, want INVALID_PARAMETERS", err)
	}
}

func mustRender(t *testing.T, l layout.Layout, format string) []byte {
	t.Helper()
	artifacts, err := Render(l, Options{Formats: []string{format}})
	if err != nil {
		t.Fatalf("Render(%s): %v", format, err)
	}
	return artifacts[format]
}

func firstBytes(b []byte) []byte {
	if len(b) > 8 {
		return b[:8]
	}
	return b
}
