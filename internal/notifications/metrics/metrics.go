package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for notification dispatch.
type Metrics struct {
	Created    *prometheus.CounterVec
	EmailsSent prometheus.Counter
	EmailsFail prometheus.Counter
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_notifications_created_total",
			Help: "Notifications persisted by type",
		}, []string{"type"}),

		EmailsSent: f.NewCounter(prometheus.CounterOpts{
			Name: "portal_notifications_emails_sent_total",
			Help: "Notification emails delivered",
		}),

		EmailsFail: f.NewCounter(prometheus.CounterOpts{
			Name: "portal_notifications_emails_failed_total",
			Help: "Notification emails that could not be resolved, rendered or delivered",
		}),
	}
}

func (m *Metrics) IncrementCreated(kind string) {
	if m != nil {
		m.Created.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementEmailSent() {
	if m != nil {
		m.EmailsSent.Inc()
	}
}

func (m *Metrics) IncrementEmailFailed() {
	if m != nil {
		m.EmailsFail.Inc()
	}
}
