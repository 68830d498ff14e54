// Package metrics exposes Prometheus collectors for loads, indicator
// computation, the snapshot stream and alerts.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	Registry *prometheus.Registry

	LoadsTotal      *prometheus.CounterVec // labels: outcome
	FetchDuration   prometheus.Histogram
	ComputeDuration prometheus.Histogram
	StaleResponses  prometheus.Counter
	StoreVersion    prometheus.Gauge

	StreamClients prometheus.Gauge
	AlertsTotal   *prometheus.CounterVec // labels: status
	InsightErrors prometheus.Counter
}

// New creates the metrics on their own registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		LoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_loads_total",
			Help: "Price series loads by outcome",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stocklens_fetch_duration_seconds",
			Help:    "Price provider fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stocklens_indicator_compute_duration_seconds",
			Help:    "Indicator engine compute latency per load",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		StaleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stocklens_stale_responses_total",
			Help: "Fetch responses discarded because a newer request was issued",
		}),
		StoreVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stocklens_store_version",
			Help: "Current market state version",
		}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stocklens_stream_clients",
			Help: "Connected WebSocket snapshot clients",
		}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_alerts_total",
			Help: "RSI alerts sent by status",
		}, []string{"status"}),
		InsightErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stocklens_insight_errors_total",
			Help: "Failed insight requests",
		}),
	}

	m.Registry.MustRegister(
		m.LoadsTotal,
		m.FetchDuration,
		m.ComputeDuration,
		m.StaleResponses,
		m.StoreVersion,
		m.StreamClients,
		m.AlertsTotal,
		m.InsightErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
