// Package observability lets a binary attach metrics or tracing to stitchgrid
// without the libraries importing a backend.
//
// Three hook sets cover pattern generation and rendering ([PipelineHooks]),
// layout and artifact caching ([CacheHooks]) and the HTTP server
// ([HTTPHooks]). Each defaults to a no-op; main registers real
// implementations before the first pipeline run:
//
//	observability.SetPipelineHooks(promHooks{})
//
// Libraries fetch the current set at the call site:
//
//	observability.Pipeline().OnGenerateStart(ctx, columns, rows)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives generate and render events. Cached results fire none.
type PipelineHooks interface {
	OnGenerateStart(ctx context.Context, columns, rows int)
	OnGenerateComplete(ctx context.Context, segments, polylines int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. kind is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives one OnRequest and one OnResponse per request, and
// OnError for each handler error before it is written.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
	OnError(ctx context.Context, method, path string, err error)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, int, int) {}

func (NoopPipelineHooks) OnGenerateComplete(context.Context, int, int, time.Duration, error) {}

func (NoopPipelineHooks) OnRenderStart(context.Context, []string) {}

func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string) {}

func (NoopCacheHooks) OnCacheMiss(context.Context, string) {}

func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string) {}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

func (NoopHTTPHooks) OnError(context.Context, string, string, error) {}

// slot holds the current implementation of one hook set.
type slot[T any] struct {
	mu   sync.RWMutex
	h    T
	noop T
}

func newSlot[T any](noop T) *slot[T] { return &slot[T]{h: noop, noop: noop} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.h
}

func (s *slot[T]) set(h T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h = h
}

func (s *slot[T]) reset() { s.set(s.noop) }

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks replaces the pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.set(h)
	}
}

// SetCacheHooks replaces the cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks replaces the HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Cache() CacheHooks { return cacheSlot.get() }
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores the no-op hooks. Tests that register hooks defer it.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
