package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chsearch/internal/search/models"
	"chsearch/pkg/platform/sentinel"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	items := []models.CompanyRecord{
		{CompanyNumber: "001", CompanyName: "ACME LTD"},
		{CompanyNumber: "002", CompanyName: "BETA PLC"},
	}

	t.Run("round trip", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Store(ctx, "tok", models.SearchFilters{Keyword: "acme"}, items))

		got, err := store.Load(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("unknown token", func(t *testing.T) {
		store := NewMemoryStore()
		_, err := store.Load(ctx, "nope")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("expires after retention", func(t *testing.T) {
		now := time.Now()
		store := NewMemoryStore(WithClock(func() time.Time { return now }))
		require.NoError(t, store.Store(ctx, "tok", models.SearchFilters{}, items))

		now = now.Add(Retention - time.Minute)
		_, err := store.Load(ctx, "tok")
		assert.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, err = store.Load(ctx, "tok")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("snapshots are immutable copies", func(t *testing.T) {
		store := NewMemoryStore()
		mutable := []models.CompanyRecord{{CompanyNumber: "001", CompanyName: "ORIGINAL"}}
		require.NoError(t, store.Store(ctx, "tok", models.SearchFilters{}, mutable))
		mutable[0].CompanyName = "MUTATED"

		got, err := store.Load(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "ORIGINAL", got[0].CompanyName)
	})
}
