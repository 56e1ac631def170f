// Package ratelimit provides sliding-window request limiting keyed by
// client IP. Services mount Middleware ahead of their routes; the store is
// in-memory for a single process or Redis when replicas must share a
// budget.
package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"questify/pkg/apperrors"
	"questify/pkg/platform/httpjson"
	"questify/pkg/requestcontext"
)

// Result reports one admission decision.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Store counts requests per key over a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Limiter is the HTTP middleware around a Store.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	logger *slog.Logger
}

func NewLimiter(store Store, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Middleware admits or rejects by client IP. Store failures fail open: a
// broken limiter must not take the service down with it.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ip := requestcontext.ClientIP(ctx)
		if ip == "" {
			ip = r.RemoteAddr
		}

		result, err := l.store.Allow(ctx, ip, l.limit, l.window)
		if err != nil {
			l.logger.ErrorContext(ctx, "rate limit check failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httpjson.Write(w, http.StatusTooManyRequests, httpjson.ErrorBody{
				Errors: []apperrors.Detail{{Message: "Too many requests"}},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
