// Package memory provides an in-process devotion.Store used in tests and
// local development. It mirrors the document store's semantics: per-document
// atomicity and last-writer-wins on concurrent puts.
package memory

import (
	"context"
	"sync"

	"github.com/quiethour/quiethour/internal/devotion"
)

// Store is a concurrency-safe in-memory devotion.Store.
type Store struct {
	mu      sync.RWMutex
	records map[string]devotion.Record
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[string]devotion.Record)}
}

// Seed inserts a record without going through the repository. Test helper.
func (s *Store) Seed(date string, rec devotion.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[date] = rec.Clone()
}

func (s *Store) Get(ctx context.Context, date string) (devotion.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[date]
	if !ok {
		return nil, devotion.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) Put(ctx context.Context, date string, rec devotion.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[date] = rec.Clone()
	return nil
}

func (s *Store) Delete(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[date]; !ok {
		return devotion.ErrNotFound
	}
	delete(s.records, date)
	return nil
}

func (s *Store) Dates(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]string, 0, len(s.records))
	for date := range s.records {
		dates = append(dates, date)
	}
	return dates, nil
}
