//go:build integration

package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chsearch/pkg/testutil/containers"
)

const statsSchema = `
CREATE TABLE search_stats (
    day   DATE PRIMARY KEY,
    count BIGINT NOT NULL DEFAULT 0
);`

func TestPostgresStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t, statsSchema)
	ctx := context.Background()
	store := NewPostgresStore(pg.Pool)

	for i := 0; i < 4; i++ {
		require.NoError(t, store.RecordSearch(ctx))
	}

	got, err := store.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Today)
	assert.Equal(t, 4, got.LastWeek)
	assert.Equal(t, 4, got.Total)
}
