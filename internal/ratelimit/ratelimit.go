// Package ratelimit enforces a fixed-window per-client request budget on the
// public API surface.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one limiter check.
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until the window resets. Only meaningful when
	// the request was rejected.
	RetryAfter time.Duration
}

// Limiter counts requests per key in fixed windows. Implementations must be
// safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
