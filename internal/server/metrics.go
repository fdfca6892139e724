package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render outcomes recorded by dashwise_renders_total.
const (
	outcomeOK         = "ok"
	outcomeEmpty      = "empty"
	outcomeNoData     = "no_data"
	outcomeLoadError  = "load_error"
	outcomeProcessErr = "processing_error"
)

// Metrics is the server's Prometheus instrumentation on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	renders  *prometheus.CounterVec
	uploads  *prometheus.CounterVec
}

func newMetrics(sessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashwise",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashwise",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashwise",
			Name:      "renders_total",
			Help:      "Dashboard pipeline runs by outcome.",
		}, []string{"outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashwise",
			Name:      "uploads_total",
			Help:      "Workbooks attached to sessions by source.",
		}, []string{"source"}),
	}
	m.registry.MustRegister(m.requests, m.latency, m.renders, m.uploads)
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "dashwise",
		Name:      "sessions",
		Help:      "Live dashboard sessions.",
	}, sessions))
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
