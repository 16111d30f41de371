package grid

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore implements Store in memory for tests and dry runs.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]Value
	readOnly bool
}

// NewMemoryStore creates an empty, writable in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Value)}
}

// SetReadOnly toggles rejection of writes.
func (s *MemoryStore) SetReadOnly(readOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = readOnly
}

// Get returns a copy of the value at path.
func (s *MemoryStore) Get(ctx context.Context, path string) (Value, error) {
	p, err := cleanPath(path)
	if err != nil {
		return Value{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[p]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return copyValue(v), nil
}

// Set upserts v at path.
func (s *MemoryStore) Set(ctx context.Context, path string, v Value) error {
	p, err := cleanPath(path)
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return fmt.Errorf("set %s: %w", p, ErrReadOnly)
	}
	s.entries[p] = copyValue(v)
	return nil
}

// Has reports whether path holds a value.
func (s *MemoryStore) Has(ctx context.Context, path string) (bool, error) {
	p, err := cleanPath(path)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[p]
	return ok, nil
}

// List returns the immediate children of prefix.
func (s *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.entries))
	for p := range s.entries {
		paths = append(paths, p)
	}
	return childNames(paths, prefix), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored paths.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func copyValue(v Value) Value {
	out := Value{Kind: v.Kind}
	if v.Floats != nil {
		out.Floats = append([]float64(nil), v.Floats...)
	}
	if v.Strings != nil {
		out.Strings = append([]string(nil), v.Strings...)
	}
	return out
}
