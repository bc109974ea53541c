package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide Prometheus metrics shared across modules.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	WorkflowTransitions *prometheus.CounterVec
	WorkflowDuration    *prometheus.HistogramVec
	UpstreamFailures    *prometheus.CounterVec
	ReportsSubmitted    prometheus.Counter
	ConsumedEvents      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "soukscan_http_request_duration_seconds",
			Help:    "Latency of admin HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		WorkflowTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soukscan_workflow_transitions_total",
			Help: "Workflow transitions by operation and outcome",
		}, []string{"operation", "outcome"}),
		WorkflowDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "soukscan_workflow_duration_seconds",
			Help:    "End-to-end duration of workflow transitions",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		UpstreamFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soukscan_upstream_failures_total",
			Help: "Failed calls to upstream services",
		}, []string{"service"}),
		ReportsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "soukscan_reports_submitted_total",
			Help: "Total number of moderation reports submitted",
		}),
		ConsumedEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soukscan_consumed_events_total",
			Help: "Inbound events processed by topic and result",
		}, []string{"topic", "result"}),
	}
}

// ObserveHTTPRequest records one request. Safe on a nil receiver.
func (m *Metrics) ObserveHTTPRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, method, status).Observe(seconds)
}

// ObserveTransition records a workflow transition outcome and its duration.
func (m *Metrics) ObserveTransition(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.WorkflowTransitions.WithLabelValues(operation, outcome).Inc()
	m.WorkflowDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) IncUpstreamFailure(service string) {
	if m == nil {
		return
	}
	m.UpstreamFailures.WithLabelValues(service).Inc()
}

func (m *Metrics) IncReportsSubmitted() {
	if m == nil {
		return
	}
	m.ReportsSubmitted.Inc()
}

func (m *Metrics) IncConsumedEvent(topic, result string) {
	if m == nil {
		return
	}
	m.ConsumedEvents.WithLabelValues(topic, result).Inc()
}
