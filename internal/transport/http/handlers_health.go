package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chsearch/pkg/platform/httputil"
)

// Pinger reports whether one dependency is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler reports liveness plus per-dependency connectivity. Database
// and redis may be nil when not configured; upstream is the registry client
// and is always set in production wiring.
type HealthHandler struct {
	database Pinger
	redis    Pinger
	upstream Pinger
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(database, redis, upstream Pinger) *HealthHandler {
	return &HealthHandler{database: database, redis: redis, upstream: upstream}
}

// Register mounts the health endpoint on the router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
}

// HandleHealth handles GET /health requests. Database and redis degradation
// is reported in the body but does not fail the probe; the cache and stores
// all degrade gracefully without them. An unreachable registry does fail it,
// since no search can succeed without the upstream.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	upstream := checkDependency(ctx, h.upstream)

	body := map[string]any{
		"status":              "ok",
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
		"database":            checkDependency(ctx, h.database),
		"redis":               checkDependency(ctx, h.redis),
		"companies_house_api": upstream,
	}
	status := http.StatusOK
	if upstream == "error" {
		body["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, body)
}

func checkDependency(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not configured"
	}
	if err := p.Health(ctx); err != nil {
		return "error"
	}
	return "connected"
}
