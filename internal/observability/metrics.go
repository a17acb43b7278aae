package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "game_tracker"

// Metrics owns a private prometheus registry. It records pipeline mutations
// and HTTP requests.
type Metrics struct {
	registry         *prometheus.Registry
	mutations        *prometheus.CounterVec
	mutationDuration *prometheus.HistogramVec
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "mutations_total",
			Help:      "Game mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		mutationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "mutation_duration_seconds",
			Help:      "Validate plus commit latency of game mutations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.mutations,
		m.mutationDuration,
		m.requests,
		m.requestDuration,
	)
	return m
}

// ObserveMutation implements usecase.MutationRecorder.
func (m *Metrics) ObserveMutation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
	m.mutationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
