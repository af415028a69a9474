// Package io reads and writes stitch layouts as JSON documents.
//
// # Overview
//
// A layout document holds everything needed to draw a picture again without
// regenerating it: both partitions, both stitch patterns, the raw segments
// and, for merged layouts, the polylines. The format is the one written by
// the JSON sink, so an exported picture can be re-imported and rendered to
// any other format:
//
//	{
//	  "seed": 42,
//	  "size": 800,
//	  "columns": {"top": [0, ...], "bottom": [0, ...]},
//	  "rows": {"top": [0, ...], "bottom": [0, ...]},
//	  "column_pattern": [0, 1, ...],
//	  "row_pattern": [1, 1, ...],
//	  "segments": [{"a": {"x": 0, "y": 0}, "b": {"x": 1, "y": 1}}],
//	  "polylines": [{"points": [{"x": 0, "y": 0}, ...]}],
//	  "merged": true
//	}
//
// # Import
//
// Use [ImportJSON] to read a layout from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the document shape; a merged document
// without polylines has its segments merged on import.
//
// # Export
//
// Use [ExportJSON] to write a layout to a file, or [WriteJSON] to write to any
// io.Writer.
package io
