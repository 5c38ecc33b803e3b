package cache

import (
	"context"
	"sync"
	"time"

	"chsearch/pkg/platform/sentinel"
)

type memoryEntry struct {
	payload   []byte
	fetchedAt time.Time
	expiresAt time.Time
}

// MemoryStore is the volatile cache tier: a process-local map with TTL
// expiration. Entries past expiresAt are treated as absent and dropped
// lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewMemoryStore creates an empty volatile tier.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the cached payload, or sentinel.ErrNotFound when the
// key is missing or expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !s.clock().Before(entry.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// refreshed the entry in between.
		if cur, ok := s.entries[key]; ok && !s.clock().Before(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, sentinel.ErrNotFound
	}

	out := make([]byte, len(entry.payload))
	copy(out, entry.payload)
	return out, nil
}

// Set stores a copy of the payload under key with the given TTL.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	payload := make([]byte, len(value))
	copy(payload, value)

	now := s.clock()
	s.mu.Lock()
	s.entries[key] = memoryEntry{
		payload:   payload,
		fetchedAt: now,
		expiresAt: now.Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

// Len reports the number of entries currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
