package search

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chsearch/internal/audit"
	"chsearch/internal/platform/metrics"
	"chsearch/internal/search/cache"
	"chsearch/internal/search/models"
	dErrors "chsearch/pkg/domain-errors"
)

const (
	// candidateCeiling bounds how many companies a local-filter scan will
	// pull from upstream. Beyond it results are silently partial; Result.
	// Truncated tells the caller when that happened.
	candidateCeiling = 5000
	// candidatePageSize is the largest page the upstream API serves.
	candidatePageSize = 100

	profileBatchSize = 5
	officerBatchSize = 10

	// interBatchDelay keeps enrichment under the upstream rate limit. A
	// throughput/latency trade-off, not a correctness requirement.
	interBatchDelay = 200 * time.Millisecond
)

// UpstreamClient is the slice of the registry client the engine consumes.
type UpstreamClient interface {
	SearchByKeyword(ctx context.Context, keyword string, page, pageSize int) (models.SearchPage, error)
	AdvancedSearch(ctx context.Context, filters models.SearchFilters, startIndex, size int) (models.SearchPage, error)
	GetCompanyProfile(ctx context.Context, companyNumber string) (models.CompanyRecord, error)
	GetCompanyOfficers(ctx context.Context, companyNumber string) (models.OfficerList, error)
}

// SnapshotStore persists the full filtered collection under an export token.
type SnapshotStore interface {
	Store(ctx context.Context, token string, filters models.SearchFilters, items []models.CompanyRecord) error
}

// StatsRecorder counts successful searches for the stats endpoint.
type StatsRecorder interface {
	RecordSearch(ctx context.Context) error
}

// Service is the filter-resolution and result-aggregation engine. It is
// purely functional over one call: all mutable state is request-local, the
// shared cache being the only exception.
type Service struct {
	upstream  UpstreamClient
	cache     *cache.Tiered
	snapshots SnapshotStore
	stats     StatsRecorder
	auditor   *audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics

	batchDelay time.Duration
	ceiling    int
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithStats(stats StatsRecorder) Option {
	return func(s *Service) { s.stats = stats }
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithBatchDelay overrides the inter-batch pause (tests use zero).
func WithBatchDelay(d time.Duration) Option {
	return func(s *Service) { s.batchDelay = d }
}

// WithCandidateCeiling overrides the candidate scan ceiling.
func WithCandidateCeiling(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.ceiling = n
		}
	}
}

// New constructs the engine. All collaborators are injected; there is no
// process-wide client or cache state.
func New(upstream UpstreamClient, tiered *cache.Tiered, snapshots SnapshotStore, opts ...Option) *Service {
	s := &Service{
		upstream:   upstream,
		cache:      tiered,
		snapshots:  snapshots,
		logger:     slog.Default(),
		batchDelay: interBatchDelay,
		ceiling:    candidateCeiling,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve turns a filter set into one page of a fully filtered collection
// plus an export token for the whole collection.
//
// Pages are 1-based and sliced from the already-filtered collection, never
// from a raw upstream page. Out-of-range pages return an empty item list
// with the correct total. onProgress may be nil; when set it receives
// monotonically non-decreasing (processed, total) events during slow scans,
// strictly before the final result.
func (s *Service) Resolve(ctx context.Context, filters models.SearchFilters, page, pageSize int, onProgress models.ProgressSink) (models.Result, error) {
	start := time.Now()

	if err := filters.Validate(); err != nil {
		return models.Result{}, err
	}
	if err := models.ValidatePaging(page, pageSize); err != nil {
		return models.Result{}, err
	}

	strategy := selectStrategy(filters)
	result, err := s.execute(ctx, strategy, filters, page, pageSize, onProgress)
	if err != nil {
		s.metrics.ObserveSearch(strategy.String(), "error", time.Since(start))
		s.emitAudit(ctx, filters, strategy, 0, err)
		return models.Result{}, err
	}

	token, tokenErr := s.issueToken(ctx, filters, result.collection)
	if tokenErr != nil {
		s.metrics.ObserveSearch(strategy.String(), "error", time.Since(start))
		return models.Result{}, tokenErr
	}

	if s.stats != nil {
		if err := s.stats.RecordSearch(ctx); err != nil {
			s.logger.Warn("search stats write failed", "error", err)
		}
	}
	s.metrics.ObserveSearch(strategy.String(), "ok", time.Since(start))
	s.emitAudit(ctx, filters, strategy, result.total, nil)

	return models.Result{
		Items:     result.pageItems,
		Page:      page,
		Total:     result.total,
		Token:     token,
		Truncated: result.truncated,
	}, nil
}

// resolved is the engine's internal outcome before token issuance.
type resolved struct {
	pageItems []models.CompanyRecord
	// collection is everything that was materialized for this request: the
	// full filtered set on enrichment paths, the returned page on the
	// single-call path. It is what the snapshot stores.
	collection []models.CompanyRecord
	total      int
	truncated  bool
}

func (s *Service) execute(ctx context.Context, strategy Strategy, filters models.SearchFilters, page, pageSize int, onProgress models.ProgressSink) (resolved, error) {
	switch strategy {
	case StrategyOfficerFilter:
		return s.resolveOfficerFilter(ctx, filters, page, pageSize, onProgress)
	default:
		return s.resolveDirect(ctx, filters, page, pageSize, onProgress)
	}
}

// resolveDirect serves every request without an officer constraint. When all
// predicates push down it costs exactly one page-sized advanced-search call.
// A postcode prefix cannot be pushed, so its presence forces a broad
// candidate fetch filtered locally. If the advanced-search endpoint is
// unavailable and a keyword exists, the engine degrades to
// StrategyKeywordThenEnrich instead of failing.
func (s *Service) resolveDirect(ctx context.Context, filters models.SearchFilters, page, pageSize int, onProgress models.ProgressSink) (resolved, error) {
	if filters.KeywordOnly() {
		sp, err := s.keywordPage(ctx, filters.Keyword, page, pageSize)
		if err != nil {
			return resolved{}, err
		}
		return resolved{pageItems: sp.Items, collection: sp.Items, total: sp.Total}, nil
	}

	if filters.PostcodePrefix == "" {
		sp, err := s.upstream.AdvancedSearch(ctx, filters, (page-1)*pageSize, pageSize)
		if err == nil {
			return resolved{pageItems: sp.Items, collection: sp.Items, total: sp.Total}, nil
		}
		if !dErrors.HasCode(err, dErrors.CodeCapabilityUnavailable) {
			return resolved{}, err
		}
		return s.resolveKeywordThenEnrich(ctx, filters, page, pageSize, onProgress, err)
	}

	// Postcode prefix present: materialize candidates with every pushable
	// filter applied, then filter locally. No per-company fetches needed;
	// advanced-search hits already carry the registered office address.
	candidates, truncated, err := s.fetchAdvancedCandidates(ctx, filters)
	if errors.Is(err, errAdvancedUnavailable) {
		return s.resolveKeywordThenEnrich(ctx, filters, page, pageSize, onProgress, err)
	}
	if err != nil {
		return resolved{}, err
	}

	matched := make([]models.CompanyRecord, 0, len(candidates))
	for _, c := range candidates {
		if filters.MatchesLocal(c) {
			matched = append(matched, c)
		}
	}
	return resolved{
		pageItems:  paginate(matched, page, pageSize),
		collection: matched,
		total:      len(matched),
		truncated:  truncated,
	}, nil
}

// resolveKeywordThenEnrich is the degraded plan: keyword-search candidates,
// profile enrichment in small batches, local predicate matching. Without a
// keyword there is nothing to search by, so the original capability failure
// propagates.
func (s *Service) resolveKeywordThenEnrich(ctx context.Context, filters models.SearchFilters, page, pageSize int, onProgress models.ProgressSink, capErr error) (resolved, error) {
	if filters.Keyword == "" {
		return resolved{}, capErr
	}
	s.logger.Warn("advanced search unavailable, degrading to keyword search",
		"keyword", filters.Keyword,
	)

	candidates, truncated, err := s.fetchKeywordCandidates(ctx, filters.Keyword)
	if err != nil {
		return resolved{}, err
	}

	matched, err := s.enrichProfiles(ctx, candidates, filters, onProgress)
	if err != nil {
		return resolved{}, err
	}
	return resolved{
		pageItems:  paginate(matched, page, pageSize),
		collection: matched,
		total:      len(matched),
		truncated:  truncated,
	}, nil
}

// resolveOfficerFilter handles the officer-birth-year predicate: broad
// candidate fetch with every other filter applied, then an officer-roster
// check per candidate.
func (s *Service) resolveOfficerFilter(ctx context.Context, filters models.SearchFilters, page, pageSize int, onProgress models.ProgressSink) (resolved, error) {
	broad := filters
	broad.OfficerBirthYear = 0

	candidates, truncated, err := s.fetchAdvancedCandidates(ctx, broad)
	if errors.Is(err, errAdvancedUnavailable) && broad.Keyword != "" {
		candidates, truncated, err = s.fetchKeywordCandidates(ctx, broad.Keyword)
	}
	if err != nil {
		return resolved{}, err
	}

	// Local-only predicates (postcode) still apply to the candidate set
	// before the expensive officer scan.
	if broad.PostcodePrefix != "" {
		kept := candidates[:0:0]
		for _, c := range candidates {
			if broad.MatchesLocal(c) {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	matched, err := s.filterByOfficers(ctx, candidates, filters.OfficerBirthYear, onProgress)
	if err != nil {
		return resolved{}, err
	}
	return resolved{
		pageItems:  paginate(matched, page, pageSize),
		collection: matched,
		total:      len(matched),
		truncated:  truncated,
	}, nil
}

var errAdvancedUnavailable = errors.New("advanced search unavailable")

// fetchAdvancedCandidates pulls up to the ceiling of advanced-search hits in
// max-size pages. The second return is true when the ceiling cut the scan
// short of the upstream's reported hit count.
func (s *Service) fetchAdvancedCandidates(ctx context.Context, filters models.SearchFilters) ([]models.CompanyRecord, bool, error) {
	var all []models.CompanyRecord
	for start := 0; start < s.ceiling; start += candidatePageSize {
		size := min(candidatePageSize, s.ceiling-start)
		sp, err := s.upstream.AdvancedSearch(ctx, filters, start, size)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeCapabilityUnavailable) {
				return nil, false, errAdvancedUnavailable
			}
			return nil, false, err
		}
		all = append(all, sp.Items...)
		if len(sp.Items) < size || len(all) >= sp.Total {
			return all, false, nil
		}
	}
	return all, true, nil
}

// fetchKeywordCandidates is the keyword-endpoint version of the candidate
// scan, used by the degraded plan. Pages come through the search cache.
func (s *Service) fetchKeywordCandidates(ctx context.Context, keyword string) ([]models.CompanyRecord, bool, error) {
	var all []models.CompanyRecord
	maxPages := s.ceiling / candidatePageSize
	for page := 1; page <= maxPages; page++ {
		sp, err := s.keywordPage(ctx, keyword, page, candidatePageSize)
		if err != nil {
			return nil, false, err
		}
		all = append(all, sp.Items...)
		if len(sp.Items) < candidatePageSize || len(all) >= sp.Total {
			return all, false, nil
		}
	}
	return all, true, nil
}

// keywordPage fetches one keyword-search page through the result cache.
func (s *Service) keywordPage(ctx context.Context, keyword string, page, pageSize int) (models.SearchPage, error) {
	key := cache.SearchKey(keyword, page, pageSize)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var sp models.SearchPage
		if err := json.Unmarshal(raw, &sp); err == nil {
			return sp, nil
		}
		s.logger.Warn("corrupt cached search page, refetching", "key", key)
	}

	sp, err := s.upstream.SearchByKeyword(ctx, keyword, page, pageSize)
	if err != nil {
		return models.SearchPage{}, err
	}
	if raw, err := json.Marshal(sp); err == nil {
		s.cache.Set(ctx, key, raw, cache.KindSearch)
	}
	return sp, nil
}

// companyProfile fetches one profile through the cache.
func (s *Service) companyProfile(ctx context.Context, companyNumber string) (models.CompanyRecord, error) {
	key := cache.ProfileKey(companyNumber)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var rec models.CompanyRecord
		if err := json.Unmarshal(raw, &rec); err == nil {
			return rec, nil
		}
	}

	rec, err := s.upstream.GetCompanyProfile(ctx, companyNumber)
	if err != nil {
		return models.CompanyRecord{}, err
	}
	if raw, err := json.Marshal(rec); err == nil {
		s.cache.Set(ctx, key, raw, cache.KindProfile)
	}
	return rec, nil
}

// companyOfficers fetches one officer roster through the cache.
func (s *Service) companyOfficers(ctx context.Context, companyNumber string) (models.OfficerList, error) {
	key := cache.OfficersKey(companyNumber)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var list models.OfficerList
		if err := json.Unmarshal(raw, &list); err == nil {
			return list, nil
		}
	}

	list, err := s.upstream.GetCompanyOfficers(ctx, companyNumber)
	if err != nil {
		return models.OfficerList{}, err
	}
	if raw, err := json.Marshal(list); err == nil {
		s.cache.Set(ctx, key, raw, cache.KindOfficers)
	}
	return list, nil
}

// issueToken stores the materialized collection under a fresh random token.
// Tokens are independent of content so identical searches get distinct
// snapshots.
func (s *Service) issueToken(ctx context.Context, filters models.SearchFilters, items []models.CompanyRecord) (string, error) {
	token := uuid.NewString()
	if err := s.snapshots.Store(ctx, token, filters, items); err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "store search snapshot", err)
	}
	if s.metrics != nil {
		s.metrics.SnapshotsStored.Inc()
	}
	return token, nil
}

func (s *Service) emitAudit(ctx context.Context, filters models.SearchFilters, strategy Strategy, total int, err error) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Action:   audit.ActionSearch,
		Strategy: strategy.String(),
		Keyword:  filters.Keyword,
		Total:    total,
	}
	if err != nil {
		event.Action = audit.ActionSearchFailed
		event.Error = err.Error()
	}
	s.auditor.Emit(ctx, event)
}

// paginate slices page P (1-based) of size S from the filtered collection.
// Out-of-range pages yield an empty, non-nil slice.
func paginate(items []models.CompanyRecord, page, pageSize int) []models.CompanyRecord {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []models.CompanyRecord{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
