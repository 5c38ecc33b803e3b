package preset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chsearch/internal/search/models"
	"chsearch/pkg/platform/sentinel"
)

// PostgresStore persists presets in the filter_presets table.
//
// Schema:
//
//	CREATE TABLE filter_presets (
//	    id         UUID PRIMARY KEY,
//	    user_id    UUID NOT NULL,
//	    name       TEXT NOT NULL,
//	    filters    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX filter_presets_user_idx ON filter_presets (user_id, created_at DESC);
type PostgresStore struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

// NewPostgresStore wraps a connection pool as a preset store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, clock: time.Now}
}

func (s *PostgresStore) Create(ctx context.Context, p FilterPreset) (FilterPreset, error) {
	filtersJSON, err := json.Marshal(p.Filters)
	if err != nil {
		return FilterPreset{}, fmt.Errorf("marshal preset filters: %w", err)
	}

	now := s.clock()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err = s.pool.Exec(ctx, `
		INSERT INTO filter_presets (id, user_id, name, filters, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.UserID, p.Name, filtersJSON, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return FilterPreset{}, fmt.Errorf("insert preset: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (FilterPreset, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, name, filters, created_at, updated_at
		FROM filter_presets WHERE id = $1
	`, id)
	p, err := scanPreset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return FilterPreset{}, sentinel.ErrNotFound
	}
	if err != nil {
		return FilterPreset{}, fmt.Errorf("get preset: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string) ([]FilterPreset, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, filters, created_at, updated_at
		FROM filter_presets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	out := make([]FilterPreset, 0)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, p FilterPreset) (FilterPreset, error) {
	filtersJSON, err := json.Marshal(p.Filters)
	if err != nil {
		return FilterPreset{}, fmt.Errorf("marshal preset filters: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE filter_presets
		SET name = $2, filters = $3, updated_at = $4
		WHERE id = $1
		RETURNING id, user_id, name, filters, created_at, updated_at
	`, p.ID, p.Name, filtersJSON, s.clock())
	updated, err := scanPreset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return FilterPreset{}, sentinel.ErrNotFound
	}
	if err != nil {
		return FilterPreset{}, fmt.Errorf("update preset: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM filter_presets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanPreset(row pgx.Row) (FilterPreset, error) {
	var (
		p           FilterPreset
		filtersJSON []byte
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &filtersJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return FilterPreset{}, err
	}
	var filters models.SearchFilters
	if err := json.Unmarshal(filtersJSON, &filters); err != nil {
		return FilterPreset{}, fmt.Errorf("decode preset filters: %w", err)
	}
	p.Filters = filters
	return p, nil
}
