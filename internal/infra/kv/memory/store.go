// Package memory implements an in-memory key-value Store for tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"neonpm/internal/kv/core"
)

// Store implements core.Store backed by process memory.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New returns an empty in-memory store.
func New() *Store { return &Store{values: make(map[string][]byte)} }

// Driver returns the backend identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Load returns a copy of the value stored under key.
func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("load %s: %w", key, core.ErrNotFound)
	}
	return cloneBytes(v), nil
}

// Save stores a copy of data under key.
func (s *Store) Save(_ context.Context, key string, data []byte) error {
	if strings.TrimSpace(key) == "" {
		return core.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = cloneBytes(data)
	return nil
}

// Delete removes the key returning true if it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	if ok {
		delete(s.values, key)
	}
	return ok, nil
}

// Keys returns all keys matching prefix.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.values))
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func cloneBytes(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
