package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the application lifecycle.
type Metrics struct {
	Created              *prometheus.CounterVec
	Transitions          *prometheus.CounterVec
	Assignments          prometheus.Counter
	DocumentFailures     *prometheus.CounterVec
	CompletenessDuration prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_applications_created_total",
			Help: "Applications submitted, by offering kind",
		}, []string{"kind"}),

		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_applications_status_transitions_total",
			Help: "Status changes that altered the status",
		}, []string{"from", "to"}),

		Assignments: f.NewCounter(prometheus.CounterOpts{
			Name: "portal_applications_assignments_total",
			Help: "Manual assignments created",
		}),

		DocumentFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_applications_document_failures_total",
			Help: "Uploaded documents skipped during submission, by stage",
		}, []string{"stage"}),

		CompletenessDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_applications_completeness_check_duration_seconds",
			Help:    "Time to load and evaluate the document completeness of one application",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

func (m *Metrics) IncrementCreated(kind string) {
	if m != nil {
		m.Created.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementTransition(from, to string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to).Inc()
	}
}

func (m *Metrics) IncrementAssignments() {
	if m != nil {
		m.Assignments.Inc()
	}
}

func (m *Metrics) IncrementDocumentFailure(stage string) {
	if m != nil {
		m.DocumentFailures.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) ObserveCompleteness(start time.Time) {
	if m != nil {
		m.CompletenessDuration.Observe(time.Since(start).Seconds())
	}
}
