package errors

import (
	"math"
	"regexp"
)

// ValidateSize validates the picture size in pixels.
//
// The validation rules are intentionally conservative:
//   - Must be a finite positive number
//   - Maximum of [MaxSize] pixels (the raster sink allocates size² pixels)
func ValidateSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidParameters, "size must be a finite number")
	}
	if size <= 0 {
		return New(ErrCodeInvalidParameters, "size must be positive, got %g", size)
	}
	if size > MaxSize {
		return New(ErrCodeInvalidParameters, "size too large (max %d)", MaxSize)
	}
	return nil
}

// MaxSize bounds both the picture size and the side of a raster canvas.
const MaxSize = 16384

// ValidateCanvas checks that a raster canvas of size scaled by scale stays
// within MaxSize pixels per side.
func ValidateCanvas(size, scale float64) error {
	px := math.Ceil(size * scale)
	if math.IsNaN(px) || px > MaxSize {
		return New(ErrCodeInvalidParameters,
			"canvas %g x %g too large (max %d pixels per side)", size, scale, MaxSize)
	}
	return nil
}

// ValidateCount validates a column or row count. A warped grid needs at least
// two cells per axis so that there is one internal line to tilt.
func ValidateCount(name string, n int) error {
	if n < 2 {
		return New(ErrCodeInvalidParameters, "%s must be >= 2, got %d", name, n)
	}
	const maxCount = 1024
	if n > maxCount {
		return New(ErrCodeInvalidParameters, "%s too large (max %d)", name, maxCount)
	}
	return nil
}

// MaxCells bounds columns*rows. The stitch count grows with the cell count.
const MaxCells = 16384

// ValidateCells checks the total cell count of a grid.
func ValidateCells(columns, rows int) error {
	if columns*rows > MaxCells {
		return New(ErrCodeInvalidParameters,
			"grid %dx%d too large (max %d cells)", columns, rows, MaxCells)
	}
	return nil
}

// MaxMutations bounds the mutation passes of one partition.
const MaxMutations = 100000

// ValidateMutations checks a partition's mutation count.
func ValidateMutations(name string, n int) error {
	if n < 0 {
		return New(ErrCodeInvalidParameters, "%s mutations must not be negative, got %d", name, n)
	}
	if n > MaxMutations {
		return New(ErrCodeInvalidParameters, "%s mutations too large (max %d)", name, MaxMutations)
	}
	return nil
}

// ValidateFraction validates a parameter expressed in cells or as a share of
// the picture. Negative and non-finite values are rejected.
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameters, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidParameters, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidateMinDistance checks that a minimum line spacing leaves room for n
// strictly increasing partitions of length. It does not guarantee that a
// heavily skewed partition stays feasible; see partition.Check for that.
func ValidateMinDistance(minDistance, length float64, n int) error {
	if err := ValidateFraction("min distance", minDistance); err != nil {
		return err
	}
	if n > 0 && minDistance >= length/float64(n) {
		return New(ErrCodeInvalidParameters,
			"min distance %g leaves no room for %d partitions of %g", minDistance, n, length)
	}
	return nil
}

// colorRegex matches #rgb, #rrggbb and plain CSS color keywords.
var colorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|[a-zA-Z]+)$`)

// ValidateColor validates a stroke or background color. Only values that are
// safe to embed in an SVG attribute are accepted.
func ValidateColor(c string) error {
	if c == "" {
		return New(ErrCodeInvalidInput, "color cannot be empty")
	}
	if !colorRegex.MatchString(c) {
		return New(ErrCodeInvalidInput, "invalid color: %q (use #rrggbb, #rgb or a color name)", c)
	}
	return nil
}
