package stats

import (
	"context"
	"time"
)

// Summary is the aggregate search-volume view served by the stats endpoint.
type Summary struct {
	Today    int `json:"searches_today"`
	LastWeek int `json:"searches_last_7_days"`
	Total    int `json:"searches_total"`
}

// Store counts searches per UTC day and aggregates them on demand.
type Store interface {
	RecordSearch(ctx context.Context) error
	Summarize(ctx context.Context) (Summary, error)
}

// day truncates t to its UTC calendar date.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
