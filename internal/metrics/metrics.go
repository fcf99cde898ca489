// Package metrics exposes Prometheus collectors for HTTP traffic, the
// connection pool and answer scores.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/interview-assistant/internal/repository/postgres"
)

const namespace = "interview_assistant"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
	answerScores *prometheus.HistogramVec
}

// New creates collectors on a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests received",
		}, []string{"method", "route", "status"}),
		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests",
		}),
		answerScores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_score",
			Help:      "Distribution of answer scores by dimension",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}, []string{"dimension"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterPool publishes the connection pool gauge.
func (m *Metrics) RegisterPool(stats func() postgres.PoolStats) {
	gauge := func(name, help string, value func(postgres.PoolStats) int) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(value(stats())) })
	}

	m.registry.MustRegister(
		gauge("active_connections", "Connections counted against the pool bound",
			func(s postgres.PoolStats) int { return s.Active }),
		gauge("max_connections", "Configured pool bound",
			func(s postgres.PoolStats) int { return s.MaxConns }),
		gauge("overflow_connections", "Connections opened beyond the pool bound",
			func(s postgres.PoolStats) int { return s.Overflow }),
	)
}

// ObserveScore records the four sub-scores of one scored answer.
func (m *Metrics) ObserveScore(communication, correctness, completeness, overall int) {
	m.answerScores.WithLabelValues("communication").Observe(float64(communication))
	m.answerScores.WithLabelValues("correctness").Observe(float64(correctness))
	m.answerScores.WithLabelValues("completeness").Observe(float64(completeness))
	m.answerScores.WithLabelValues("overall").Observe(float64(overall))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware records request count and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(rec.status),
		}

		m.httpRequests.With(labels).Inc()
		m.httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}
