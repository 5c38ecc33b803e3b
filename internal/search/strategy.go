package search

import "chsearch/internal/search/models"

// Strategy is the per-request upstream plan, chosen once before any call is
// made. Keeping the choice in one place stops capability branching from
// leaking into the pipeline.
type Strategy int

const (
	// StrategyDirectAdvancedSearch pushes every filter to the upstream
	// advanced-search endpoint. When no local-only predicate is present the
	// request costs a single page-sized call.
	StrategyDirectAdvancedSearch Strategy = iota
	// StrategyKeywordThenEnrich is the degraded plan used when advanced
	// search is unavailable: keyword-search candidates, then local
	// filtering over profile-enriched records.
	StrategyKeywordThenEnrich
	// StrategyOfficerFilter handles the one predicate no upstream endpoint
	// can express: officer birth year. Candidates are fetched broadly and
	// each company's officer roster is checked locally.
	StrategyOfficerFilter
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirectAdvancedSearch:
		return "direct_advanced_search"
	case StrategyKeywordThenEnrich:
		return "keyword_then_enrich"
	default:
		return "officer_filter"
	}
}

// selectStrategy picks the plan for a validated filter set. The officer
// constraint wins over everything else; all remaining filters are covered
// by advanced search.
func selectStrategy(f models.SearchFilters) Strategy {
	if f.OfficerBirthYear != 0 {
		return StrategyOfficerFilter
	}
	return StrategyDirectAdvancedSearch
}
