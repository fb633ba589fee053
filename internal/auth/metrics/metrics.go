package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the auth module.
type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	TokensIssued    *prometheus.CounterVec
	RevocationCheck prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_auth_login_attempts_total",
			Help: "Login attempts by result",
		}, []string{"result"}), // result: "success", "invalid_credentials", "inactive"

		TokensIssued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_auth_tokens_issued_total",
			Help: "Token pairs issued by grant",
		}, []string{"grant"}), // grant: "password", "refresh"

		RevocationCheck: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_auth_revocation_check_duration_ms",
			Help:    "Latency of token blacklist checks in milliseconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}),
	}
}

func (m *Metrics) IncrementLogin(result string) {
	if m != nil {
		m.LoginAttempts.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementTokensIssued(grant string) {
	if m != nil {
		m.TokensIssued.WithLabelValues(grant).Inc()
	}
}

func (m *Metrics) ObserveRevocationCheck(d time.Duration) {
	if m != nil {
		m.RevocationCheck.Observe(float64(d.Microseconds()) / 1000.0)
	}
}
