package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"chsearch/internal/platform/middleware"
	dErrors "chsearch/pkg/domain-errors"
	"chsearch/pkg/platform/httputil"
)

// Middleware rejects requests over the per-IP budget with 429 and a
// Retry-After header. Limiter failures fail open: an unreachable Redis must
// not take the API down with it.
func Middleware(limiter Limiter, limit int, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := limiter.Allow(r.Context(), middleware.ClientIP(r))
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, slow down"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
