// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services and keep transport concerns out of the engine.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chsearch/internal/platform/middleware"
	"chsearch/internal/ratelimit"
)

// requestTimeout bounds one API request end to end, including slow
// enrichment scans.
const requestTimeout = 30 * time.Second

// Deps carries everything the router mounts.
type Deps struct {
	Search  *SearchHandler
	Presets *PresetHandler
	Health  *HealthHandler
	Limiter ratelimit.Limiter
	// LimiterMax is the per-window budget, surfaced in response headers.
	LimiterMax int
	Logger     *slog.Logger
}

// NewRouter wires all endpoints with the shared middleware chain. The rate
// limiter guards the /api surface only; health and metrics stay open for
// probes and scrapers.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))

	r.Route("/api", func(api chi.Router) {
		if deps.Limiter != nil {
			api.Use(ratelimit.Middleware(deps.Limiter, deps.LimiterMax, deps.Logger))
		}
		api.Use(middleware.Timeout(requestTimeout))

		deps.Search.Register(api)
		deps.Presets.Register(api)
	})

	deps.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
