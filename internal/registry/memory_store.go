package registry

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-memory map. Intended for
// tests and demos — no sqlite file required.
type MemoryStore struct {
	mu   sync.RWMutex
	apps map[string]AppRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[string]AppRecord)}
}

func (s *MemoryStore) Create(_ context.Context, rec AppRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	s.apps[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*AppRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) List(_ context.Context) ([]AppRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AppRecord, 0, len(s.apps))
	for _, rec := range s.apps {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, id, name string, doc json.RawMessage) (*AppRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	if name != "" {
		rec.Name = name
	}
	if doc != nil {
		rec.Document = doc
	}
	rec.UpdatedAt = time.Now()
	s.apps[id] = rec
	return &rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return ErrNotFound
	}
	delete(s.apps, id)
	return nil
}
