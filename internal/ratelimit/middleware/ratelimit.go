// Package middleware throttles anonymous endpoints per client IP.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"portal/internal/ratelimit/metrics"
	"portal/internal/ratelimit/models"
	"portal/pkg/platform/httputil"
	"portal/pkg/requestcontext"
)

// Store counts requests in a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

type Middleware struct {
	store    Store
	limits   map[models.Class]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// WithLimit overrides the limit of one class. Non-positive values keep the
// default.
func WithLimit(class models.Class, limit models.Limit) Option {
	return func(m *Middleware) {
		if limit.Requests > 0 && limit.Window > 0 {
			m.limits[class] = limit
		}
	}
}

// WithDisabled turns every Limit into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(store Store, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		limits: make(map[models.Class]models.Limit, len(models.DefaultLimits)),
		logger: slog.Default(),
	}
	for class, limit := range models.DefaultLimits {
		m.limits[class] = limit
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		m.logger.Info("rate limiting disabled")
	}
	return m
}

func passThrough(next http.Handler) http.Handler {
	return next
}

// Limit throttles a route by client IP under class. A nil Middleware, a
// disabled one or an unknown class pass requests through. Store failures
// fail open.
func (m *Middleware) Limit(class models.Class) func(http.Handler) http.Handler {
	if m == nil || m.disabled {
		return passThrough
	}
	limit, ok := m.limits[class]
	if !ok {
		return passThrough
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, err := m.store.Allow(ctx, models.Key(class, ip), limit.Requests, limit.Window)
			if err != nil {
				m.metrics.IncStoreErrors()
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"error", err,
					"class", string(class),
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				m.metrics.IncRejected(string(class))
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"class", string(class),
					"request_id", requestcontext.RequestID(ctx),
				)
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:       "rate_limit_exceeded",
		Description: "Demasiadas solicitudes. Intente de nuevo más tarde.",
		RetryAfter:  result.RetryAfter,
	})
}
