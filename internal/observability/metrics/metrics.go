// Package metrics holds the Prometheus collectors for the gallery front end.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gallery"

// Metrics holds every collector. It satisfies ports.ProxyMetrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ForwardTotal    *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	RefreshTotal    *prometheus.CounterVec
}

// New creates and registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Inbound HTTP requests by method and status code",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Inbound HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		ForwardTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proxy_forward_total",
				Help:      "Gateway forwards by outcome",
			},
			[]string{"outcome"}, // ok/rejected/unauthenticated/transport
		),
		BackendDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "proxy_backend_duration_seconds",
				Help:      "Backend call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		RefreshTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proxy_refresh_total",
				Help:      "Token refresh exchanges by result",
			},
			[]string{"result"}, // refreshed/rejected/error
		),
	}
}

func (m *Metrics) ObserveForward(outcome string) {
	m.ForwardTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveBackend(method string, elapsed time.Duration) {
	m.BackendDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRefresh(result string) {
	m.RefreshTotal.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
