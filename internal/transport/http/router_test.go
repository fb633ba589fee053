package httptransport

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/platform/metrics"
	authmw "portal/pkg/platform/middleware/auth"
	"portal/pkg/requestcontext"
	"portal/pkg/testutil"
)

type stubValidator struct{}

func (stubValidator) ValidateAccessToken(token string) (*authmw.JWTClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &authmw.JWTClaims{
		UserID:   "6b1f6c1e-7d3a-4f43-9a55-2f0c1b6a0111",
		Username: "ana",
		Role:     "CIUDADANO",
		JTI:      "jti-1",
	}, nil
}

type stubModule struct{}

func (stubModule) RegisterPublic(r chi.Router) {
	r.Get("/public", func(w http.ResponseWriter, r *http.Request) {
		if requestcontext.Username(r.Context()) != "" {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func (stubModule) Register(r chi.Router) {
	r.Get("/private", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

type privateOnly struct{}

func (privateOnly) Register(r chi.Router) {
	r.Get("/other", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func newRouter(health map[string]HealthCheck) http.Handler {
	return NewRouter(Config{
		Metrics:   metrics.NewWithRegistry(prometheus.NewRegistry()),
		Validator: stubValidator{},
		Health:    health,
	}, stubModule{}, privateOnly{})
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRouterAuthGroups(t *testing.T) {
	router := newRouter(nil)

	t.Run("public route serves anonymous callers", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/public"))
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("public route resolves a valid token", func(t *testing.T) {
		rr := testutil.DoRequest(router, withToken(testutil.NewRequest(t, http.MethodGet, "/api/public"), "good"))
		testutil.AssertStatus(t, rr, http.StatusAccepted)
	})

	t.Run("private route rejects missing token", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/private"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("private route accepts a valid token", func(t *testing.T) {
		rr := testutil.DoRequest(router, withToken(testutil.NewRequest(t, http.MethodGet, "/api/private"), "good"))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	t.Run("modules without public routes still mount", func(t *testing.T) {
		rr := testutil.DoRequest(router, withToken(testutil.NewRequest(t, http.MethodGet, "/api/other"), "good"))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	t.Run("responses carry a request id", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/public"))
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})
}

func TestHealthz(t *testing.T) {
	t.Run("ok without checks", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(nil), testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		body := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("degraded when a dependency fails", func(t *testing.T) {
		router := newRouter(map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		body := testutil.UnmarshalResponse[healthResponse](t, rr)
		require.Len(t, body.Checks, 2)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "ok", body.Checks["database"])
		assert.Equal(t, "connection refused", body.Checks["redis"])
	})
}

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

func TestRevokedTokenIsRejected(t *testing.T) {
	testutil.Given(t, "a router whose blacklist holds the token id", func(t *testing.T) {
		router := NewRouter(Config{
			Metrics:     metrics.NewWithRegistry(prometheus.NewRegistry()),
			Validator:   stubValidator{},
			Revocations: revokedSet{"jti-1": true},
		}, stubModule{})

		testutil.When(t, "the token calls a private route", func(t *testing.T) {
			rr := testutil.DoRequest(router, withToken(testutil.NewRequest(t, http.MethodGet, "/api/private"), "good"))

			testutil.Then(t, "the request is unauthorized", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusUnauthorized)
			})
		})

		testutil.When(t, "the token calls a public route", func(t *testing.T) {
			rr := testutil.DoRequest(router, withToken(testutil.NewRequest(t, http.MethodGet, "/api/public"), "good"))

			testutil.Then(t, "it is rejected rather than treated as anonymous", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusUnauthorized)
			})
			testutil.And(t, "an anonymous call still succeeds", func(t *testing.T) {
				testutil.AssertStatus(t, testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/public")), http.StatusOK)
			})
		})
	})
}
