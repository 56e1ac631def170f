// Package metrics holds the Prometheus instruments shared by every
// Questify service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for one service process.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
	EventsPublished  *prometheus.CounterVec
	EventsConsumed   *prometheus.CounterVec
	PublishLatencyMs prometheus.Histogram
	OutboxBacklog    prometheus.Gauge
}

// New creates and registers all metrics under the given service prefix in
// the default registry.
func New(service string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, service)
}

// NewWith registers the metrics in an explicit registry. Tests pass a fresh
// prometheus.NewRegistry so fixtures never collide.
func NewWith(reg prometheus.Registerer, service string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "questify_" + service + "_requests_total",
			Help: "HTTP requests handled, by route and status class",
		}, []string{"route", "status"}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "questify_" + service + "_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "questify_" + service + "_events_published_total",
			Help: "Events handed to the broker, by subject",
		}, []string{"subject"}),
		EventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "questify_" + service + "_events_consumed_total",
			Help: "Events consumed from the broker, by subject",
		}, []string{"subject"}),
		PublishLatencyMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "questify_" + service + "_publish_duration_ms",
			Help:    "Latency of broker acks in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
		OutboxBacklog: factory.NewGauge(prometheus.GaugeOpts{
			Name: "questify_" + service + "_outbox_backlog",
			Help: "Unpublished rows currently in the outbox",
		}),
	}
}
