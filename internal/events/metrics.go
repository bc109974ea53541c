package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks publish outcomes per topic.
type Metrics struct {
	Published           *prometheus.CounterVec
	Failed              *prometheus.CounterVec
	Dropped             *prometheus.CounterVec
	CircuitBreakerState prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Published: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soukscan_events_published_total",
			Help: "Events acknowledged by the broker",
		}, []string{"topic"}),
		Failed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soukscan_events_failed_total",
			Help: "Events that could not be encoded or delivered",
		}, []string{"topic"}),
		Dropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soukscan_events_circuit_breaker_dropped_total",
			Help: "Events dropped without a delivery attempt while the circuit was open",
		}, []string{"topic"}),
		CircuitBreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "soukscan_events_circuit_breaker_state",
			Help: "Publisher circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) incPublished(topic string) {
	if m != nil {
		m.Published.WithLabelValues(topic).Inc()
	}
}

func (m *Metrics) incFailed(topic string) {
	if m != nil {
		m.Failed.WithLabelValues(topic).Inc()
	}
}

func (m *Metrics) incDropped(topic string) {
	if m != nil {
		m.Dropped.WithLabelValues(topic).Inc()
	}
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
	} else {
		m.CircuitBreakerState.Set(0)
	}
}
