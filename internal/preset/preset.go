package preset

import (
	"context"
	"time"

	"chsearch/internal/search/models"
)

// PlaceholderUserID stands in for the authenticated user until accounts
// exist. Every preset currently belongs to it.
const PlaceholderUserID = "00000000-0000-0000-0000-000000000000"

// FilterPreset is a named, saved filter set a user can re-run later.
type FilterPreset struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Name      string               `json:"name"`
	Filters   models.SearchFilters `json:"filters"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Store persists filter presets. Get and Delete return sentinel.ErrNotFound
// (wrapped or bare) for unknown ids.
type Store interface {
	Create(ctx context.Context, p FilterPreset) (FilterPreset, error)
	Get(ctx context.Context, id string) (FilterPreset, error)
	List(ctx context.Context, userID string) ([]FilterPreset, error)
	Update(ctx context.Context, p FilterPreset) (FilterPreset, error)
	Delete(ctx context.Context, id string) error
}
