package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejected    *prometheus.CounterVec
	StoreErrors prometheus.Counter
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_ratelimit_rejected_total",
			Help: "Requests rejected by the rate limiter, by endpoint class",
		}, []string{"class"}),
		StoreErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "portal_ratelimit_store_errors_total",
			Help: "Rate limit checks that failed open because the store errored",
		}),
	}
}

func (m *Metrics) IncRejected(class string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(class).Inc()
}

func (m *Metrics) IncStoreErrors() {
	if m == nil {
		return
	}
	m.StoreErrors.Inc()
}
