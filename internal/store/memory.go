package store

import (
	"context"
	"sync"

	"github.com/agenthands/causalgraph/internal/core/model"
)

type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	index   map[model.Link]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[model.Link]int)}
}

func (s *MemoryStore) Links(ctx context.Context) ([]model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]model.Link, len(s.records))
	for i, r := range s.records {
		links[i] = r.Link()
	}
	return links, nil
}

func (s *MemoryStore) Record(ctx context.Context, l model.Link) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[l]
	if !ok {
		return nil, ErrRecordNotFound
	}
	rec := s.records[i]
	return &rec, nil
}

// SaveLink is idempotent per (trigger, result) pair; the first record wins.
func (s *MemoryStore) SaveLink(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[rec.Link()]; ok {
		return nil
	}
	s.index[rec.Link()] = len(s.records)
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }
