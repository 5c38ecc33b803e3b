package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chsearch/internal/search/models"
	"chsearch/pkg/platform/sentinel"
)

// PostgresStore persists snapshots in the search_snapshots table so exports
// survive restarts and work across instances.
//
// Schema:
//
//	CREATE TABLE search_snapshots (
//	    token      TEXT PRIMARY KEY,
//	    filters    JSONB NOT NULL,
//	    results    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresClock sets the clock function for testability.
func WithPostgresClock(clock func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgresStore wraps a connection pool as a snapshot store.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{pool: pool, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store inserts one snapshot row. Tokens are random, so conflicts do not
// happen in practice; a duplicate is still an error rather than an upsert
// because snapshots are immutable.
func (s *PostgresStore) Store(ctx context.Context, token string, filters models.SearchFilters, items []models.CompanyRecord) error {
	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("marshal snapshot filters: %w", err)
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal snapshot items: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO search_snapshots (token, filters, results, created_at)
		VALUES ($1, $2, $3, $4)
	`, token, filtersJSON, itemsJSON, s.clock())
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Load fetches the items for token, enforcing retention at read time.
func (s *PostgresStore) Load(ctx context.Context, token string) ([]models.CompanyRecord, error) {
	cutoff := s.clock().Add(-Retention)

	var itemsJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT results FROM search_snapshots
		WHERE token = $1 AND created_at > $2
	`, token, cutoff).Scan(&itemsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var items []models.CompanyRecord
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return nil, fmt.Errorf("decode snapshot items: %w", err)
	}
	return items, nil
}

// Prune deletes snapshots past retention. Intended for a periodic
// background call; load correctness does not depend on it.
func (s *PostgresStore) Prune(ctx context.Context) (int64, error) {
	cutoff := s.clock().Add(-Retention)
	tag, err := s.pool.Exec(ctx, `DELETE FROM search_snapshots WHERE created_at <= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
