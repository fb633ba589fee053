package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"portal/internal/platform/metrics"
	"portal/pkg/platform/httputil"
	authmw "portal/pkg/platform/middleware/auth"
	"portal/pkg/platform/middleware/metadata"
	"portal/pkg/platform/middleware/request"
	"portal/pkg/platform/middleware/requesttime"
)

// Module is a bounded context that mounts authenticated routes.
type Module interface {
	Register(r chi.Router)
}

// PublicModule additionally exposes routes that work without a token. The
// actor is still resolved when a valid token is present.
type PublicModule interface {
	RegisterPublic(r chi.Router)
}

// HealthCheck reports whether one backing service is reachable.
type HealthCheck func(ctx context.Context) error

type Config struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Validator   authmw.JWTValidator
	Revocations authmw.TokenRevocationChecker
	// Health is keyed by component name, e.g. "database".
	Health         map[string]HealthCheck
	RequestTimeout time.Duration
	// Clock stamps requests; nil uses the wall clock.
	Clock func() time.Time
}

const defaultRequestTimeout = 60 * time.Second

// NewRouter wires the shared middleware chain and every module under /api.
func NewRouter(cfg Config, modules ...Module) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(requesttime.New(cfg.Clock))
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(logger))
	r.Use(metrics.LatencyMiddleware(cfg.Metrics))

	r.Get("/healthz", healthHandler(cfg.Health))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))
		r.Group(func(r chi.Router) {
			r.Use(authmw.OptionalAuth(cfg.Validator, cfg.Revocations, logger))
			for _, m := range modules {
				if pm, ok := m.(PublicModule); ok {
					pm.RegisterPublic(r)
				}
			}
		})
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(cfg.Validator, cfg.Revocations, logger))
			for _, m := range modules {
				m.Register(r)
			}
		})
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
