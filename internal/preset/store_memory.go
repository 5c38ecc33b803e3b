package preset

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"chsearch/pkg/platform/sentinel"
)

// MemoryStore keeps presets in process. Used in tests and database-less
// deployments, where presets do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	presets map[string]FilterPreset
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

// NewMemoryStore creates an empty preset store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		presets: make(map[string]FilterPreset),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Create(_ context.Context, p FilterPreset) (FilterPreset, error) {
	now := s.clock()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.mu.Lock()
	s.presets[p.ID] = p
	s.mu.Unlock()
	return p, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (FilterPreset, error) {
	s.mu.RLock()
	p, ok := s.presets[id]
	s.mu.RUnlock()
	if !ok {
		return FilterPreset{}, sentinel.ErrNotFound
	}
	return p, nil
}

// List returns the user's presets, newest first.
func (s *MemoryStore) List(_ context.Context, userID string) ([]FilterPreset, error) {
	s.mu.RLock()
	out := make([]FilterPreset, 0, len(s.presets))
	for _, p := range s.presets {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, p FilterPreset) (FilterPreset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.presets[p.ID]
	if !ok {
		return FilterPreset{}, sentinel.ErrNotFound
	}
	existing.Name = p.Name
	existing.Filters = p.Filters
	existing.UpdatedAt = s.clock()
	s.presets[p.ID] = existing
	return existing, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presets[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.presets, id)
	return nil
}
