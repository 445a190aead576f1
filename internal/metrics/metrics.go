// Package metrics exposes Prometheus instrumentation for the HTTP and
// WebSocket surfaces.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for every translation.
const (
	OutcomeOK       = "ok"
	OutcomeNoHand   = "no_hand"
	OutcomeInvalid  = "invalid"
	OutcomeInternal = "internal"
)

// Metrics owns a private registry so tests can create as many as they need.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	predictions *prometheus.CounterVec
	sockets     prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ishaara",
			Name:      "translate_requests_total",
			Help:      "Translation requests by route and outcome.",
		}, []string{"route", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ishaara",
			Name:      "translate_duration_seconds",
			Help:      "Time from receiving a frame to sending the prediction.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ishaara",
			Name:      "predictions_total",
			Help:      "Predicted gesture tags and letters.",
		}, []string{"kind", "label"}),
		sockets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ishaara",
			Name:      "websocket_connections",
			Help:      "Open /ws/translate connections.",
		}),
	}
}

// ObserveRequest records one translation attempt.
func (m *Metrics) ObserveRequest(route, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(route, outcome).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObservePrediction counts a produced label. kind is "gesture" or "letter".
func (m *Metrics) ObservePrediction(kind, label string) {
	if label == "" {
		label = "none"
	}
	m.predictions.WithLabelValues(kind, label).Inc()
}

func (m *Metrics) SocketOpened() { m.sockets.Inc() }
func (m *Metrics) SocketClosed() { m.sockets.Dec() }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
