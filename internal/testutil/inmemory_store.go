package testutil

import (
	"context"
	"sync"

	ierr "github.com/recurly/checkout-pricing/internal/errors"
)

// InMemoryStore provides a generic thread-safe store keyed by code,
// backing the in-memory catalog repositories
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

// Create stores an item by code
func (s *InMemoryStore[T]) Create(_ context.Context, code string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[code] = item
	return nil
}

// Get retrieves an item by code
func (s *InMemoryStore[T]) Get(_ context.Context, code string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[code]
	if !ok {
		var zero T
		return zero, ierr.NewErrorf("item %s not found", code).
			WithHint("The requested code does not exist").
			Mark(ierr.ErrNotFound)
	}
	return item, nil
}

// Delete removes an item by code
func (s *InMemoryStore[T]) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, code)
	return nil
}

// Clear removes all items
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}
