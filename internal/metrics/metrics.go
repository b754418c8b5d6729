package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry agrupa todas las métricas Prometheus del dashboard
type MetricsRegistry struct {
	// Métricas HTTP
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Métricas del pipeline de inspección
	ReportsReceivedTotal prometheus.CounterVec
	DefectsFoundTotal    prometheus.Counter
	SSEClientsActive     prometheus.Gauge
	SSEEventsSentTotal   prometheus.Counter
}

// NewMetricsRegistry inicializa y registra todas las métricas
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// Métricas HTTP
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inspector_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inspector_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"endpoint", "method"},
		),

		// Métricas del pipeline
		ReportsReceivedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inspector_reports_received_total",
				Help: "Total analysis reports received by overall risk level",
			},
			[]string{"risk_level"},
		),
		DefectsFoundTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "inspector_defects_found_total",
				Help: "Total structural defects reported across all analyzed images",
			},
		),
		SSEClientsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "inspector_sse_clients_active",
				Help: "Current number of connected SSE dashboard clients",
			},
		),
		SSEEventsSentTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "inspector_sse_events_sent_total",
				Help: "Total SSE events pushed to dashboard clients",
			},
		),
	}
}
