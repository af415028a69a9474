package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stitchgrid/pkg/core/partition"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "layout:abc"); err != nil || hit {
		t.Fatalf("Get on empty cache = (hit %v, err %v), want miss", hit, err)
	}

	if err := c.Set(ctx, "layout:abc", []byte(`{"size":800}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set = (hit %v, err %v), want hit", hit, err)
	}
	if string(data) != `{"size":800}` {
		t.Errorf("Get = %q", data)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "artifact:old", []byte("svg"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "artifact:old"); hit {
		t.Error("expired entry returned")
	}

	if err := c.Set(ctx, "artifact:forever", []byte("svg"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "artifact:forever"); !hit {
		t.Error("entry without ttl missing")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	path := c.path("layout:short")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "layout:short"); hit || err != nil {
		t.Errorf("Get = (hit %v, err %v), want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if n, size, err := c.Stats(); err != nil || n != 3 || size == 0 {
		t.Fatalf("Stats = (%d, %d, %v), want 3 non-empty entries", n, size, err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _, err := c.Stats(); err != nil || n != 0 {
		t.Errorf("Stats after Clear = (%d, %v), want 0", n, err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("key %s survived Clear", k)
		}
	}
	if err := c.Set(ctx, "d", []byte("d"), time.Hour); err != nil {
		t.Errorf("Set after Clear: %v", err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{Size: 800, Columns: 17, Rows: 17, Seed: 42, Merge: true}
	lk := k.LayoutKey(base)
	if !strings.HasPrefix(lk, "layout:") || len(lk) != len("layout:")+64 {
		t.Errorf("LayoutKey unexpected: %s", lk)
	}
	if k.LayoutKey(base) != lk {
		t.Error("LayoutKey should be deterministic")
	}

	variants := []LayoutKeyOpts{
		{Size: 800, Columns: 17, Rows: 17, Seed: 43, Merge: true},
		{Size: 800, Columns: 16, Rows: 17, Seed: 42, Merge: true},
		{Size: 800, Columns: 17, Rows: 17, Seed: 42},
		{Size: 800, Columns: 17, Rows: 17, Seed: 42, Merge: true, Tolerance: 0.01},
		{Size: 800, Columns: 17, Rows: 17, Seed: 42, Merge: true, RowPartition: partition.Options{Mutations: 1}},
	}
	for i, v := range variants {
		if k.LayoutKey(v) == lk {
			t.Errorf("variant %d produced the base key", i)
		}
	}

	ak1 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg", Stroke: "black"})
	ak2 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Stroke: "black"})
	ak3 := k.ArtifactKey("abd", ArtifactKeyOpts{Format: "svg", Stroke: "black"})
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey unexpected: %s", ak1)
	}
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different artifact inputs should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "stitchgrid:")

	opts := LayoutKeyOpts{Size: 800, Columns: 17, Rows: 17}
	if got, want := scoped.LayoutKey(opts), "stitchgrid:"+inner.LayoutKey(opts); got != want {
		t.Errorf("ScopedKeyer LayoutKey = %s, want %s", got, want)
	}

	ak := scoped.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(ak, "stitchgrid:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", ak)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey(LayoutKeyOpts{})
	if !strings.HasPrefix(key, "prefix:layout:") {
		t.Errorf("ScopedKeyer with nil inner unexpected: %s", key)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://not-redis"); err == nil {
		t.Error("NewRedisCache should reject a non-redis url")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}

	err := Retryable(fmt.Errorf("ping: %w", ErrNetwork))
	if !IsRetryable(err) {
		t.Error("marked error is not retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("marked error does not wrap ErrNetwork")
	}
	if err.Error() != "ping: network error" {
		t.Errorf("message = %q", err.Error())
	}
	if IsRetryable(ErrNetwork) {
		t.Error("unmarked error is retryable")
	}
	if !IsRetryable(fmt.Errorf("connect: %w", err)) {
		t.Error("wrapped marked error is not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	errFatal := errors.New("fatal")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"not retryable", 5, errFatal, 1, errFatal},
		{"one transient failure", 1, Retryable(ErrNetwork), 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
