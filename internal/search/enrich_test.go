package search

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chsearch/internal/search/cache"
	"chsearch/internal/search/models"
	"chsearch/internal/snapshot"
)

func newEnrichService(upstream *fakeUpstream) *Service {
	tiered := cache.NewTiered(nil, cache.NewMemoryStore())
	return New(upstream, tiered, snapshot.NewMemoryStore(), WithBatchDelay(0))
}

func seedCompanies(upstream *fakeUpstream, n int) []models.CompanyRecord {
	for i := 1; i <= n; i++ {
		upstream.companies = append(upstream.companies, company(fmt.Sprintf("%08d", i), fmt.Sprintf("ACME %d LTD", i)))
	}
	return upstream.companies
}

func TestRunBatchesCancellation(t *testing.T) {
	upstream := newFakeUpstream()
	candidates := seedCompanies(upstream, 25)
	qualifying := models.OfficerList{Items: []models.Officer{
		{Name: "ELDER, Jane", DateOfBirth: &models.DateOfBirth{Year: 1940}},
	}}
	for _, c := range candidates {
		upstream.officers[c.CompanyNumber] = qualifying
	}
	svc := newEnrichService(upstream)

	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once
	_, err := svc.filterByOfficers(ctx, candidates, 1960, func(models.Progress) {
		// Cancel after the first batch completes.
		once.Do(cancel)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, upstream.officerCalls, 25, "no further batch may start after cancellation")
}

func TestRunBatchesProgressCadence(t *testing.T) {
	upstream := newFakeUpstream()
	candidates := seedCompanies(upstream, 23)
	for _, c := range candidates {
		upstream.officers[c.CompanyNumber] = models.OfficerList{}
	}
	svc := newEnrichService(upstream)

	var events []models.Progress
	_, err := svc.filterByOfficers(context.Background(), candidates, 1960, func(p models.Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)

	// Officer batches are 10 wide: 10, 10, 3.
	require.Len(t, events, 3)
	assert.Equal(t, models.Progress{Processed: 10, Total: 23}, events[0])
	assert.Equal(t, models.Progress{Processed: 20, Total: 23}, events[1])
	assert.Equal(t, models.Progress{Processed: 23, Total: 23}, events[2])
}

func TestRunBatchesProfileBatchWidth(t *testing.T) {
	upstream := newFakeUpstream()
	candidates := seedCompanies(upstream, 12)
	svc := newEnrichService(upstream)

	var events []models.Progress
	matched, err := svc.enrichProfiles(context.Background(), candidates, models.SearchFilters{Locality: "london"}, func(p models.Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)
	assert.Len(t, matched, 12)

	// Profile batches are 5 wide: 5, 10, 12.
	require.Len(t, events, 3)
	assert.Equal(t, 5, events[0].Processed)
	assert.Equal(t, 10, events[1].Processed)
	assert.Equal(t, 12, events[2].Processed)
}

func TestBatchDelayHonorsContext(t *testing.T) {
	upstream := newFakeUpstream()
	candidates := seedCompanies(upstream, 20)
	for _, c := range candidates {
		upstream.officers[c.CompanyNumber] = models.OfficerList{}
	}
	tiered := cache.NewTiered(nil, cache.NewMemoryStore())
	svc := New(upstream, tiered, snapshot.NewMemoryStore(), WithBatchDelay(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.filterByOfficers(ctx, candidates, 1960, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second, "the inter-batch sleep must yield to cancellation")
}
