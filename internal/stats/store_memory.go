package stats

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps daily counters in process.
type MemoryStore struct {
	mu    sync.Mutex
	days  map[time.Time]int
	clock func() time.Time
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

// NewMemoryStore creates an empty stats store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		days:  make(map[time.Time]int),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) RecordSearch(_ context.Context) error {
	s.mu.Lock()
	s.days[day(s.clock())]++
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Summarize(_ context.Context) (Summary, error) {
	today := day(s.clock())
	weekAgo := today.AddDate(0, 0, -6)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out Summary
	for d, n := range s.days {
		out.Total += n
		if !d.Before(weekAgo) {
			out.LastWeek += n
		}
		if d.Equal(today) {
			out.Today = n
		}
	}
	return out, nil
}
