package store

import (
	"context"
	"sort"
	"sync"

	envedit "github.com/goliatone/go-envedit"
)

// MemoryStore is an in-memory envedit.Store intended for tests, examples and
// dry runs. It keys values by Ref.Identifier().
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Read implements envedit.Store.
func (s *MemoryStore) Read(_ context.Context, ref envedit.Ref) (string, bool, error) {
	if !ref.Scope.Valid() {
		return "", false, ErrInvalidScope
	}
	s.mu.RLock()
	value, ok := s.values[ref.Identifier()]
	s.mu.RUnlock()
	return value, ok, nil
}

// Write implements envedit.Store.
func (s *MemoryStore) Write(_ context.Context, ref envedit.Ref, value string) error {
	if !ref.Scope.Valid() {
		return ErrInvalidScope
	}
	s.mu.Lock()
	s.values[ref.Identifier()] = value
	s.mu.Unlock()
	return nil
}

// Delete implements envedit.Store. Deleting an absent name is not an error.
func (s *MemoryStore) Delete(_ context.Context, ref envedit.Ref) error {
	if !ref.Scope.Valid() {
		return ErrInvalidScope
	}
	s.mu.Lock()
	delete(s.values, ref.Identifier())
	s.mu.Unlock()
	return nil
}

// Keys returns the identifiers currently stored, sorted.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
