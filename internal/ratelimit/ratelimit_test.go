package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		limiter := NewMemoryLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			d, err := limiter.Allow(ctx, "1.2.3.4")
			require.NoError(t, err)
			assert.True(t, d.Allowed)
			assert.Equal(t, 2-i, d.Remaining)
		}

		d, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Greater(t, d.RetryAfter, time.Duration(0))
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewMemoryLimiter(1, time.Minute)

		d, _ := limiter.Allow(ctx, "a")
		assert.True(t, d.Allowed)
		d, _ = limiter.Allow(ctx, "b")
		assert.True(t, d.Allowed)
		d, _ = limiter.Allow(ctx, "a")
		assert.False(t, d.Allowed)
	})

	t.Run("window reset restores the budget", func(t *testing.T) {
		now := time.Now()
		limiter := NewMemoryLimiter(1, time.Minute, WithClock(func() time.Time { return now }))

		d, _ := limiter.Allow(ctx, "a")
		assert.True(t, d.Allowed)
		d, _ = limiter.Allow(ctx, "a")
		assert.False(t, d.Allowed)

		now = now.Add(61 * time.Second)
		d, _ = limiter.Allow(ctx, "a")
		assert.True(t, d.Allowed)
	})
}

// failingLimiter simulates an unreachable backing store.
type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("connection refused")
}

func TestMiddleware(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("passes allowed requests with budget headers", func(t *testing.T) {
		handler := Middleware(NewMemoryLimiter(5, time.Minute), 5, logger)(ok)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejects over budget with Retry-After", func(t *testing.T) {
		handler := Middleware(NewMemoryLimiter(1, time.Minute), 1, logger)(ok)

		req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(httptest.NewRecorder(), req)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Contains(t, rec.Body.String(), "rate_limited")
	})

	t.Run("limits by forwarded client address", func(t *testing.T) {
		handler := Middleware(NewMemoryLimiter(1, time.Minute), 1, logger)(ok)

		first := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		first.Header.Set("X-Forwarded-For", "203.0.113.7")
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		second.Header.Set("X-Forwarded-For", "203.0.113.8")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		assert.Equal(t, http.StatusOK, rec.Code, "a different client keeps its own budget")
	})

	t.Run("fails open when the limiter errors", func(t *testing.T) {
		handler := Middleware(failingLimiter{}, 5, logger)(ok)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
