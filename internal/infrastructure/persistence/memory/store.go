// Package memory provides a process-local preference store.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/bnema/dimmer/internal/application/port"
)

// Compile-time interface check.
var _ port.KeyValueStore = (*Store)(nil)

// Store is an in-memory KeyValueStore. Values are lost on exit.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStore creates an empty store, optionally seeded with values.
func NewStore(seed map[string]string) *Store {
	values := make(map[string]string, len(seed))
	maps.Copy(values, seed)
	return &Store{values: values}
}

// Get implements port.KeyValueStore.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements port.KeyValueStore.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Snapshot returns a copy of every stored value.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.values)
}
