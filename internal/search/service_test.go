package search

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"chsearch/internal/search/cache"
	"chsearch/internal/search/models"
	"chsearch/internal/snapshot"
	dErrors "chsearch/pkg/domain-errors"
)

// fakeUpstream is a scripted registry. Calls are counted per operation so
// tests can assert on exactly which endpoints a strategy touched.
type fakeUpstream struct {
	mu sync.Mutex

	companies []models.CompanyRecord
	officers  map[string]models.OfficerList

	advancedDown bool
	profileErrs  map[string]error
	officerErrs  map[string]error

	keywordCalls  int
	advancedCalls int
	profileCalls  int
	officerCalls  int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		officers:    make(map[string]models.OfficerList),
		profileErrs: make(map[string]error),
		officerErrs: make(map[string]error),
	}
}

func (f *fakeUpstream) SearchByKeyword(_ context.Context, _ string, page, pageSize int) (models.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywordCalls++
	return models.SearchPage{Items: slicePage(f.companies, page, pageSize), Total: len(f.companies)}, nil
}

func (f *fakeUpstream) AdvancedSearch(_ context.Context, filters models.SearchFilters, startIndex, size int) (models.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advancedCalls++
	if f.advancedDown {
		return models.SearchPage{}, dErrors.Wrap(dErrors.CodeCapabilityUnavailable, "advanced search endpoint unavailable", nil)
	}

	// Apply the pushable predicates the way the real endpoint would.
	var hits []models.CompanyRecord
	for _, c := range f.companies {
		local := filters
		local.PostcodePrefix = "" // not pushable, must not be applied here
		if local.MatchesLocal(c) {
			hits = append(hits, c)
		}
	}

	end := min(startIndex+size, len(hits))
	if startIndex >= len(hits) {
		return models.SearchPage{Total: len(hits)}, nil
	}
	return models.SearchPage{Items: hits[startIndex:end], Total: len(hits)}, nil
}

func (f *fakeUpstream) GetCompanyProfile(_ context.Context, companyNumber string) (models.CompanyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if err := f.profileErrs[companyNumber]; err != nil {
		return models.CompanyRecord{}, err
	}
	for _, c := range f.companies {
		if c.CompanyNumber == companyNumber {
			return c, nil
		}
	}
	return models.CompanyRecord{}, dErrors.Upstream(404, "company not found")
}

func (f *fakeUpstream) GetCompanyOfficers(_ context.Context, companyNumber string) (models.OfficerList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.officerCalls++
	if err := f.officerErrs[companyNumber]; err != nil {
		return models.OfficerList{}, err
	}
	return f.officers[companyNumber], nil
}

func slicePage(items []models.CompanyRecord, page, pageSize int) []models.CompanyRecord {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	return items[start:min(start+pageSize, len(items))]
}

// company builds a minimal active ltd record for tests.
func company(number, name string) models.CompanyRecord {
	return models.CompanyRecord{
		CompanyNumber:     number,
		CompanyName:       name,
		Status:            "active",
		Type:              "ltd",
		IncorporationDate: "2015-06-01",
		RegisteredOffice:  models.RegisteredOffice{Locality: "London", PostalCode: "EC1A 1AA"},
		SICCodes:          []string{"62010"},
	}
}

type ServiceSuite struct {
	suite.Suite
	upstream  *fakeUpstream
	snapshots *snapshot.MemoryStore
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.upstream = newFakeUpstream()
	s.snapshots = snapshot.NewMemoryStore()
	tiered := cache.NewTiered(nil, cache.NewMemoryStore())
	s.service = New(s.upstream, tiered, s.snapshots, WithBatchDelay(0))
}

func (s *ServiceSuite) seed(n int) {
	for i := 1; i <= n; i++ {
		s.upstream.companies = append(s.upstream.companies, company(fmt.Sprintf("%08d", i), fmt.Sprintf("ACME %d LTD", i)))
	}
}

func (s *ServiceSuite) TestValidationRejectsBeforeUpstream() {
	ctx := context.Background()

	s.Run("bad filters", func() {
		_, err := s.service.Resolve(ctx, models.SearchFilters{CompanyStatus: []string{"zombie"}}, 1, 50, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("bad paging", func() {
		_, err := s.service.Resolve(ctx, models.SearchFilters{Keyword: "acme"}, 0, 50, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = s.service.Resolve(ctx, models.SearchFilters{Keyword: "acme"}, 1, 101, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Equal(0, s.upstream.keywordCalls+s.upstream.advancedCalls+s.upstream.profileCalls+s.upstream.officerCalls)
}

func (s *ServiceSuite) TestKeywordOnlyFastPath() {
	s.seed(3)

	result, err := s.service.Resolve(context.Background(), models.SearchFilters{Keyword: "acme"}, 1, 50, nil)
	s.Require().NoError(err)

	s.Equal(3, result.Total)
	s.Len(result.Items, 3)
	s.NotEmpty(result.Token)
	s.Equal(1, s.upstream.keywordCalls)
	s.Equal(0, s.upstream.advancedCalls)
	s.Equal(0, s.upstream.profileCalls)
	s.Equal(0, s.upstream.officerCalls)
}

func (s *ServiceSuite) TestPushableFiltersCostOneAdvancedCall() {
	s.seed(45)

	filters := models.SearchFilters{Keyword: "acme", CompanyStatus: []string{"active"}}
	result, err := s.service.Resolve(context.Background(), filters, 1, 50, nil)
	s.Require().NoError(err)

	s.Equal(45, result.Total)
	s.Len(result.Items, 45)
	s.Equal(1, s.upstream.advancedCalls)
	s.Equal(0, s.upstream.profileCalls, "no per-company fetch without an officer filter")
	s.Equal(0, s.upstream.officerCalls)
}

func (s *ServiceSuite) TestPostcodeFilterStaysLocal() {
	s.seed(6)
	s.upstream.companies[1].RegisteredOffice.PostalCode = "M1 2AB"
	s.upstream.companies[4].RegisteredOffice.PostalCode = "M1 9ZZ"

	filters := models.SearchFilters{Keyword: "acme", PostcodePrefix: "M1"}
	result, err := s.service.Resolve(context.Background(), filters, 1, 50, nil)
	s.Require().NoError(err)

	s.Equal(2, result.Total)
	s.GreaterOrEqual(s.upstream.advancedCalls, 1)
	s.Equal(0, s.upstream.profileCalls, "postcode filtering uses the addresses already on the hits")
	s.Equal(0, s.upstream.officerCalls)
}

func (s *ServiceSuite) TestOfficerFilterScenario() {
	s.seed(12)
	old := models.OfficerList{Items: []models.Officer{
		{Name: "ELDER, Jane", Role: "director", DateOfBirth: &models.DateOfBirth{Year: 1950}},
	}}
	young := models.OfficerList{Items: []models.Officer{
		{Name: "NEWER, Jack", Role: "director", DateOfBirth: &models.DateOfBirth{Year: 1985}},
	}}
	for i, c := range s.upstream.companies {
		if i%4 == 0 { // companies 1, 5, 9
			s.upstream.officers[c.CompanyNumber] = old
		} else {
			s.upstream.officers[c.CompanyNumber] = young
		}
	}

	var events []models.Progress
	filters := models.SearchFilters{Keyword: "acme", OfficerBirthYear: 1960}
	result, err := s.service.Resolve(context.Background(), filters, 1, 50, func(p models.Progress) {
		events = append(events, p)
	})
	s.Require().NoError(err)

	s.Equal(3, result.Total)
	s.Len(result.Items, 3)
	s.Equal(12, s.upstream.officerCalls)

	s.Require().NotEmpty(events)
	s.Equal(models.Progress{Processed: 12, Total: 12}, events[len(events)-1])
	prev := 0
	for _, e := range events {
		s.GreaterOrEqual(e.Processed, prev, "progress must be monotonically non-decreasing")
		s.Equal(12, e.Total)
		prev = e.Processed
	}
}

func (s *ServiceSuite) TestOfficerFilterPreservesCandidateOrder() {
	s.seed(10)
	qualifying := models.OfficerList{Items: []models.Officer{
		{Name: "ELDER, Jane", DateOfBirth: &models.DateOfBirth{Year: 1940}},
	}}
	for _, c := range s.upstream.companies {
		s.upstream.officers[c.CompanyNumber] = qualifying
	}

	filters := models.SearchFilters{Keyword: "acme", OfficerBirthYear: 1960}
	result, err := s.service.Resolve(context.Background(), filters, 1, 50, nil)
	s.Require().NoError(err)

	s.Require().Len(result.Items, 10)
	for i, item := range result.Items {
		s.Equal(s.upstream.companies[i].CompanyNumber, item.CompanyNumber)
	}
}

func (s *ServiceSuite) TestEnrichmentFailuresAreAbsorbed() {
	s.seed(4)
	qualifying := models.OfficerList{Items: []models.Officer{
		{Name: "ELDER, Jane", DateOfBirth: &models.DateOfBirth{Year: 1940}},
	}}
	for _, c := range s.upstream.companies {
		s.upstream.officers[c.CompanyNumber] = qualifying
	}
	s.upstream.officerErrs["00000002"] = dErrors.Upstream(500, "boom")

	filters := models.SearchFilters{Keyword: "acme", OfficerBirthYear: 1960}
	result, err := s.service.Resolve(context.Background(), filters, 1, 50, nil)
	s.Require().NoError(err, "one bad candidate must not fail the search")

	s.Equal(3, result.Total, "the failed candidate is dropped, the rest survive")
}

func (s *ServiceSuite) TestPaginationIsIdempotent() {
	s.seed(7)
	qualifying := models.OfficerList{Items: []models.Officer{
		{Name: "ELDER, Jane", DateOfBirth: &models.DateOfBirth{Year: 1940}},
	}}
	for _, c := range s.upstream.companies {
		s.upstream.officers[c.CompanyNumber] = qualifying
	}
	filters := models.SearchFilters{Keyword: "acme", OfficerBirthYear: 1960}

	first, err := s.service.Resolve(context.Background(), filters, 2, 3, nil)
	s.Require().NoError(err)
	second, err := s.service.Resolve(context.Background(), filters, 2, 3, nil)
	s.Require().NoError(err)

	s.Equal(first.Items, second.Items, "same filters and page must yield the same slice")
	s.Equal(first.Total, second.Total)
	s.NotEqual(first.Token, second.Token, "every resolution issues a fresh token")

	s.Len(first.Items, 3)
	s.Equal("00000004", first.Items[0].CompanyNumber, "page 2 of size 3 starts at the 4th match")
}

func (s *ServiceSuite) TestOutOfRangePage() {
	s.seed(4)
	qualifying := models.OfficerList{Items: []models.Officer{
		{Name: "ELDER, Jane", DateOfBirth: &models.DateOfBirth{Year: 1940}},
	}}
	for _, c := range s.upstream.companies {
		s.upstream.officers[c.CompanyNumber] = qualifying
	}

	filters := models.SearchFilters{Keyword: "acme", OfficerBirthYear: 1960}
	result, err := s.service.Resolve(context.Background(), filters, 9, 50, nil)
	s.Require().NoError(err)

	s.NotNil(result.Items)
	s.Empty(result.Items)
	s.Equal(4, result.Total, "total reflects the full filtered collection")
}

func (s *ServiceSuite) TestDegradedKeywordPath() {
	s.seed(5)
	s.upstream.advancedDown = true

	s.Run("degrades when a keyword exists", func() {
		filters := models.SearchFilters{Keyword: "acme", Locality: "london"}
		result, err := s.service.Resolve(context.Background(), filters, 1, 50, nil)
		s.Require().NoError(err)

		s.Equal(5, result.Total)
		s.Greater(s.upstream.keywordCalls, 0)
		s.Greater(s.upstream.profileCalls, 0, "degraded path enriches profiles to apply the filters")
	})

	s.Run("propagates without a keyword", func() {
		filters := models.SearchFilters{Locality: "london"}
		_, err := s.service.Resolve(context.Background(), filters, 1, 50, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeCapabilityUnavailable))
	})
}

func (s *ServiceSuite) TestCandidateCeilingSetsTruncated() {
	s.seed(30)
	tiered := cache.NewTiered(nil, cache.NewMemoryStore())
	svc := New(s.upstream, tiered, s.snapshots, WithBatchDelay(0), WithCandidateCeiling(20))

	qualifying := models.OfficerList{Items: []models.Officer{
		{Name: "ELDER, Jane", DateOfBirth: &models.DateOfBirth{Year: 1940}},
	}}
	for _, c := range s.upstream.companies {
		s.upstream.officers[c.CompanyNumber] = qualifying
	}

	filters := models.SearchFilters{Keyword: "acme", OfficerBirthYear: 1960}
	result, err := svc.Resolve(context.Background(), filters, 1, 50, nil)
	s.Require().NoError(err)

	s.True(result.Truncated)
	s.Equal(20, result.Total, "total is a lower bound over the scanned candidates")
}

func (s *ServiceSuite) TestSnapshotHoldsFullCollection() {
	s.seed(7)
	qualifying := models.OfficerList{Items: []models.Officer{
		{Name: "ELDER, Jane", DateOfBirth: &models.DateOfBirth{Year: 1940}},
	}}
	for _, c := range s.upstream.companies {
		s.upstream.officers[c.CompanyNumber] = qualifying
	}

	filters := models.SearchFilters{Keyword: "acme", OfficerBirthYear: 1960}
	result, err := s.service.Resolve(context.Background(), filters, 2, 3, nil)
	s.Require().NoError(err)

	stored, err := s.snapshots.Load(context.Background(), result.Token)
	s.Require().NoError(err)
	s.Len(stored, 7, "the snapshot holds the whole collection, not the requested page")
}

func (s *ServiceSuite) TestOfficerRostersAreCached() {
	s.seed(3)
	qualifying := models.OfficerList{Items: []models.Officer{
		{Name: "ELDER, Jane", DateOfBirth: &models.DateOfBirth{Year: 1940}},
	}}
	for _, c := range s.upstream.companies {
		s.upstream.officers[c.CompanyNumber] = qualifying
	}
	filters := models.SearchFilters{Keyword: "acme", OfficerBirthYear: 1960}

	_, err := s.service.Resolve(context.Background(), filters, 1, 50, nil)
	s.Require().NoError(err)
	firstRound := s.upstream.officerCalls

	_, err = s.service.Resolve(context.Background(), filters, 1, 50, nil)
	s.Require().NoError(err)

	s.Equal(firstRound, s.upstream.officerCalls, "second resolution must be served from cache")
}
