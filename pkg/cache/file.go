package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// entryExt marks cache entry files. Stats and Clear ignore everything else.
const entryExt = ".entry"

// FileCache keeps entries as files under one directory, used by the CLI.
//
// An entry file holds an 8-byte big-endian expiry in Unix nanoseconds (zero
// for no expiry) followed by the cached bytes. Files are fanned out over 256
// subdirectories by the first byte of the key hash.
type FileCache struct {
	dir string
}

// NewFileCache opens a cache in dir, creating the directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the entry for key. Unreadable and expired entries are removed
// and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if len(raw) < 8 {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if exp := int64(binary.BigEndian.Uint64(raw)); exp != 0 && time.Now().UnixNano() > exp {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return raw[8:], true, nil
}

// Set writes the entry through a temporary file so readers never see a
// partial entry.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	raw := binary.BigEndian.AppendUint64(make([]byte, 0, 8+len(data)), uint64(exp))
	raw = append(raw, data...)

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry and recreates the empty cache directory.
func (c *FileCache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return os.MkdirAll(c.dir, 0755)
}

// Stats returns the number of entries and their total size in bytes.
// Expired entries count until the next Get of their key removes them.
func (c *FileCache) Stats() (entries int, size int64, err error) {
	err = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil
		case err != nil:
			return err
		case d.IsDir() || filepath.Ext(path) != entryExt:
			return nil
		}
		if info, err := d.Info(); err == nil {
			entries++
			size += info.Size()
		}
		return nil
	})
	return entries, size, err
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

var _ Cache = (*FileCache)(nil)
