package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SearchesTotal     *prometheus.CounterVec
	SearchDuration    prometheus.Histogram
	UpstreamCalls     *prometheus.CounterVec
	UpstreamDuration  prometheus.Histogram
	CacheLookups      *prometheus.CounterVec
	EnrichmentResults *prometheus.CounterVec
	SnapshotsStored   prometheus.Counter
	ExportsTotal      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SearchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chsearch_searches_total",
			Help: "Total searches resolved, labelled by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chsearch_search_duration_seconds",
			Help:    "End-to-end search resolution latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		UpstreamCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chsearch_upstream_calls_total",
			Help: "Companies House API calls by operation and status class",
		}, []string{"operation", "status"}),
		UpstreamDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chsearch_upstream_duration_seconds",
			Help:    "Companies House API call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chsearch_cache_lookups_total",
			Help: "Cache lookups by tier and result",
		}, []string{"tier", "result"}),
		EnrichmentResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chsearch_enrichment_entities_total",
			Help: "Entities processed by the enrichment pipeline, by outcome",
		}, []string{"outcome"}),
		SnapshotsStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chsearch_snapshots_stored_total",
			Help: "Search snapshots persisted for export",
		}),
		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chsearch_exports_total",
			Help: "Snapshot exports by format",
		}, []string{"format"}),
	}
}

// ObserveSearch records one resolved search.
func (m *Metrics) ObserveSearch(strategy, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(strategy, outcome).Inc()
	m.SearchDuration.Observe(d.Seconds())
}

// ObserveUpstream records one upstream API call.
func (m *Metrics) ObserveUpstream(operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamCalls.WithLabelValues(operation, status).Inc()
	m.UpstreamDuration.Observe(d.Seconds())
}

// ObserveCacheLookup records a cache hit or miss for a tier.
func (m *Metrics) ObserveCacheLookup(tier, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(tier, result).Inc()
}

// ObserveEnrichment records a per-entity enrichment outcome.
func (m *Metrics) ObserveEnrichment(outcome string) {
	if m == nil {
		return
	}
	m.EnrichmentResults.WithLabelValues(outcome).Inc()
}
