// Package window provides WindowStore implementations for the rate limiter.
package window

import (
	"context"
	"sync"
	"time"
)

// InMemoryWindowStore keeps windows in a process-local map. It backs unit and
// handler tests and single-instance demo runs; production uses the Redis
// store so limits hold across instances.
type InMemoryWindowStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]entry
}

type entry struct {
	window    []int64
	expiresAt time.Time
}

// NewInMemoryWindowStore creates an empty in-memory window store.
func NewInMemoryWindowStore() *InMemoryWindowStore {
	return &InMemoryWindowStore{
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Get returns the stored window, or an empty one when the identity is
// unknown or its record expired.
func (s *InMemoryWindowStore) Get(_ context.Context, identity string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[identity]
	if !ok {
		return nil, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, identity)
		return nil, nil
	}

	out := make([]int64, len(e.window))
	copy(out, e.window)
	return out, nil
}

// Put replaces the identity's window and resets its expiry.
func (s *InMemoryWindowStore) Put(_ context.Context, identity string, window []int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]int64, len(window))
	copy(stored, window)
	s.entries[identity] = entry{
		window:    stored,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}
