// Package cache stores generated layouts and rendered artifacts.
//
// Two kinds of entries are cached:
//
//   - Layouts: the JSON-encoded [layout.Layout] for one set of generation
//     parameters and seed. Generation is deterministic, so a layout entry
//     never goes stale; the TTL only bounds storage.
//   - Artifacts: a rendered SVG, PNG, PDF or JSON document, keyed by the
//     hash of the layout it was rendered from plus the style options.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// server, and [NullCache] when caching is disabled. Keys are built by a
// [Keyer] so that every backend shares one key scheme.
//
// [layout.Layout]: github.com/matzehuels/stitchgrid/pkg/core/layout.Layout
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry expiry.
//
// Get reports a miss with (nil, false, nil); an error is returned only when
// the backend itself fails. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
