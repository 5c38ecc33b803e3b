package snapshot

import (
	"context"
	"sync"
	"time"

	"chsearch/internal/search/models"
	"chsearch/pkg/platform/sentinel"
)

// MemoryStore keeps snapshots in process. Used in tests and when no
// database is configured; exports then only work against the same instance
// that served the search.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
	clock     func() time.Time
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

// NewMemoryStore creates an empty snapshot store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		snapshots: make(map[string]Snapshot),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store saves an immutable copy of the result set under token.
func (s *MemoryStore) Store(_ context.Context, token string, filters models.SearchFilters, items []models.CompanyRecord) error {
	copied := make([]models.CompanyRecord, len(items))
	copy(copied, items)

	s.mu.Lock()
	s.snapshots[token] = Snapshot{
		Token:     token,
		Filters:   filters,
		Items:     copied,
		CreatedAt: s.clock(),
	}
	s.mu.Unlock()
	return nil
}

// Load returns the stored items, or sentinel.ErrNotFound for unknown tokens
// and snapshots past retention.
func (s *MemoryStore) Load(_ context.Context, token string) ([]models.CompanyRecord, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[token]
	s.mu.RUnlock()

	if !ok || s.clock().Sub(snap.CreatedAt) > Retention {
		return nil, sentinel.ErrNotFound
	}

	out := make([]models.CompanyRecord, len(snap.Items))
	copy(out, snap.Items)
	return out, nil
}
