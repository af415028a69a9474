package cache

import "github.com/matzehuels/stitchgrid/pkg/core/partition"

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key of a generated layout.
	LayoutKey(opts LayoutKeyOpts) string

	// ArtifactKey returns the key of an artifact rendered from the layout
	// whose encoding hashes to layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every parameter that changes a generated layout.
type LayoutKeyOpts struct {
	Size            float64           `json:"size"`
	Columns         int               `json:"columns"`
	Rows            int               `json:"rows"`
	ColumnPartition partition.Options `json:"column_partition"`
	RowPartition    partition.Options `json:"row_partition"`
	Seed            uint64            `json:"seed"`
	Merge           bool              `json:"merge"`
	GridOnly        bool              `json:"grid_only"`
	Tolerance       float64           `json:"tolerance"`
}

// ArtifactKeyOpts holds the style parameters of a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Background  string  `json:"background"`
	Scale       float64 `json:"scale"`
}

// DefaultKeyer is the unprefixed key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256 of opts>".
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}

// ArtifactKey returns "artifact:<sha256 of layoutHash and opts>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
