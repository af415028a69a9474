package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stitchgrid/pkg/core/partition"
	"github.com/matzehuels/stitchgrid/pkg/core/polyline"
	"github.com/matzehuels/stitchgrid/pkg/errors"
)

// ReadJSON decodes a layout document from r.
//
// ReadJSON returns an [errors.ErrCodeInvalidInput] error if:
//   - The JSON is malformed
//   - The size is not positive or exceeds [errors.MaxSize]
//   - A partition has fewer than three lines or mismatched intercept counts
//   - A pattern length does not match its partition
//
// Partition ordering is not checked; use partition.Check for that.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}

	l := &doc.Layout
	if err := errors.ValidateSize(l.Size); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "layout size")
	}
	if err := checkShape("columns", l.Columns, l.ColumnPattern); err != nil {
		return Document{}, err
	}
	if err := checkShape("rows", l.Rows, l.RowPattern); err != nil {
		return Document{}, err
	}
	if l.Merged && len(l.Polylines) == 0 && len(l.Segments) > 0 {
		l.Polylines = polyline.Merge(l.Segments)
	}
	return doc, nil
}

func checkShape(name string, p partition.Partition, pattern []int) error {
	if len(p.Top) != len(p.Bottom) {
		return errors.New(errors.ErrCodeInvalidInput, "%s: %d top and %d bottom intercepts", name, len(p.Top), len(p.Bottom))
	}
	if p.Len() < 3 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: need at least 3 lines, got %d", name, p.Len())
	}
	if pattern != nil && len(pattern) != p.Len()-1 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: pattern has %d bits for %d cells", name, len(pattern), p.Len()-1)
	}
	return nil
}

// ImportJSON reads a JSON file at path and returns the decoded document.
// It returns the same validation errors as [ReadJSON].
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
