package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chsearch/internal/platform/metrics"
	"chsearch/pkg/platform/sentinel"
)

// Kind selects the TTL pair for an entry. Search results are short-lived;
// profile and officer data are filter-invariant facts about a company and
// keep far longer.
type Kind int

const (
	KindSearch Kind = iota
	KindProfile
	KindOfficers
)

// TTLs per kind: volatile tier first, durable tier second.
func (k Kind) ttls() (volatile, durable time.Duration) {
	switch k {
	case KindSearch:
		return 10 * time.Minute, 10 * time.Minute
	default:
		return 24 * time.Hour, 30 * 24 * time.Hour
	}
}

func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindProfile:
		return "profile"
	default:
		return "officers"
	}
}

// SearchKey derives the cache key for a keyword search page.
func SearchKey(keyword string, page, pageSize int) string {
	return fmt.Sprintf("search:%s:%d:%d", keyword, page, pageSize)
}

// ProfileKey derives the cache key for a company profile. Profile data is
// keyed by company number alone, independent of any filter context.
func ProfileKey(companyNumber string) string {
	return "company:" + companyNumber
}

// OfficersKey derives the cache key for a company's officer roster.
func OfficersKey(companyNumber string) string {
	return "officers:" + companyNumber
}

// Store is one cache tier. Get returns sentinel.ErrNotFound for missing or
// expired entries; expired entries are never returned.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Tiered is the two-tier result cache. Lookups try the durable tier first
// (it survives process restarts), then the volatile tier; a hit in either
// short-circuits the upstream call. Misses are written through to both
// tiers, each with its own TTL.
//
// Writes are best-effort by design: a failed write logs a warning and the
// operation continues uncached. Do not "fix" this into a hard failure; the
// cache is an optimization, never a dependency.
type Tiered struct {
	durable  Store // may be nil when redis is not configured
	volatile Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Tiered cache.
type Option func(*Tiered)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tiered) { t.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tiered) { t.metrics = m }
}

// NewTiered builds the two-tier cache. durable may be nil.
func NewTiered(durable, volatile Store, opts ...Option) *Tiered {
	t := &Tiered{
		durable:  durable,
		volatile: volatile,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get returns the cached payload for key, or false on miss in both tiers.
// Tier read failures count as misses.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if t.durable != nil {
		val, err := t.durable.Get(ctx, key)
		switch {
		case err == nil:
			t.metrics.ObserveCacheLookup("durable", "hit")
			return val, true
		case !errors.Is(err, sentinel.ErrNotFound):
			t.logger.Warn("durable cache read failed", "key", key, "error", err)
		}
		t.metrics.ObserveCacheLookup("durable", "miss")
	}

	val, err := t.volatile.Get(ctx, key)
	if err == nil {
		t.metrics.ObserveCacheLookup("volatile", "hit")
		return val, true
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		t.logger.Warn("volatile cache read failed", "key", key, "error", err)
	}
	t.metrics.ObserveCacheLookup("volatile", "miss")
	return nil, false
}

// Set writes the payload through to both tiers with kind-appropriate TTLs.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, kind Kind) {
	volatileTTL, durableTTL := kind.ttls()

	if err := t.volatile.Set(ctx, key, value, volatileTTL); err != nil {
		t.logger.Warn("volatile cache write failed", "key", key, "kind", kind.String(), "error", err)
	}
	if t.durable != nil {
		if err := t.durable.Set(ctx, key, value, durableTTL); err != nil {
			t.logger.Warn("durable cache write failed", "key", key, "kind", kind.String(), "error", err)
		}
	}
}
