package gallery

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

func (s *MemoryStore) Save(_ context.Context, e *Entry) error {
	if err := prepare(e); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e.clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, notFound(id)
	}
	return e.clone(), nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*Entry, error) {
	s.mu.RLock()
	all := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, e.clone())
	}
	s.mu.RUnlock()

	sortNewestFirst(all)
	return all[:min(len(all), listLimit(limit))], nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return notFound(id)
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// sortNewestFirst orders entries by creation time, newest first, breaking
// ties by ID so listings are stable.
func sortNewestFirst(entries []*Entry) {
	slices.SortFunc(entries, func(a, b *Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

var _ Store = (*MemoryStore)(nil)
