package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one counter row per UTC day in search_stats.
//
// Schema:
//
//	CREATE TABLE search_stats (
//	    day   DATE PRIMARY KEY,
//	    count BIGINT NOT NULL DEFAULT 0
//	);
type PostgresStore struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

// NewPostgresStore wraps a connection pool as a stats store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, clock: time.Now}
}

func (s *PostgresStore) RecordSearch(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO search_stats (day, count) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET count = search_stats.count + 1
	`, day(s.clock()))
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

func (s *PostgresStore) Summarize(ctx context.Context) (Summary, error) {
	today := day(s.clock())
	weekAgo := today.AddDate(0, 0, -6)

	var out Summary
	err := s.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(count) FILTER (WHERE day = $1), 0),
			COALESCE(SUM(count) FILTER (WHERE day >= $2), 0),
			COALESCE(SUM(count), 0)
		FROM search_stats
	`, today, weekAgo).Scan(&out.Today, &out.LastWeek, &out.Total)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize searches: %w", err)
	}
	return out, nil
}
