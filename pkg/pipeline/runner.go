package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stitchgrid/pkg/cache"
	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Generate
	generateStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Layout = l
	result.Stats.GenerateTime = time.Since(generateStart)
	result.Stats.SegmentCount = len(l.Segments)
	result.Stats.PolylineCount = len(l.Polylines)
	result.CacheInfo.LayoutHit = layoutHit

	if data, err := json.Marshal(l); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("generated layout",
		"seed", opts.Seed,
		"segments", result.Stats.SegmentCount,
		"polylines", result.Stats.PolylineCount,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested). Strict mode always
	// regenerates so that the check runs.
	if !opts.Refresh && !opts.Strict {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to regenerate
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	if err := ctx.Err(); err != nil {
		return layout.Layout{}, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Columns, opts.Rows)
	start := time.Now()
	l, err := GenerateLayout(opts)
	if err != nil {
		hooks.OnGenerateComplete(ctx, 0, 0, time.Since(start), err)
		return layout.Layout{}, false, err
	}
	hooks.OnGenerateComplete(ctx, len(l.Segments), len(l.Polylines), time.Since(start), nil)
	if err := ctx.Err(); err != nil {
		return layout.Layout{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache layout", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil // Cache miss
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, opts Options) (layout.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
