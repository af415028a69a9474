package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a file-based gallery for CLI applications.
// Entries are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based gallery.
// If baseDir is empty, defaults to ~/.config/stitchgrid/gallery/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "stitchgrid", "gallery")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create gallery dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) entryPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(_ context.Context, e *Entry) error {
	if err := prepare(e); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if err := os.WriteFile(s.entryPath(e.ID), data, 0644); err != nil {
		return fmt.Errorf("write entry file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Entry, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.entryPath(id), id)
}

func (s *FileStore) read(path, id string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("read entry file: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse entry %s: %w", id, err)
	}
	return &e, nil
}

// List reads every entry file. Files that cannot be parsed are skipped.
func (s *FileStore) List(_ context.Context, limit int) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read gallery dir: %w", err)
	}

	entries := make([]*Entry, 0, len(files))
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		id := f.Name()[:len(f.Name())-len(".json")]
		e, err := s.read(filepath.Join(s.baseDir, f.Name()), id)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}

	sortNewestFirst(entries)
	return entries[:min(len(entries), listLimit(limit))], nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.entryPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove entry file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for entry files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
