package snapshot

import (
	"context"
	"time"

	"chsearch/internal/search/models"
)

// Retention is how long a stored snapshot stays loadable. Past it, lookups
// fail as not found; snapshots are immutable in between.
const Retention = 24 * time.Hour

// Snapshot is one frozen search result set, keyed by its export token.
type Snapshot struct {
	Token     string
	Filters   models.SearchFilters
	Items     []models.CompanyRecord
	CreatedAt time.Time
}

// Store persists and retrieves snapshots. Load returns
// sentinel.ErrNotFound (wrapped or bare) for unknown tokens and for
// snapshots past retention.
type Store interface {
	Store(ctx context.Context, token string, filters models.SearchFilters, items []models.CompanyRecord) error
	Load(ctx context.Context, token string) ([]models.CompanyRecord, error)
}
