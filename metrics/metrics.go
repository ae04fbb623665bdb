// Package metrics provides Prometheus instrumentation for the valuation service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ComputeDuration tracks engine computation time by operation.
	ComputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "openfolio_compute_duration_seconds",
		Help:    "Engine computation time in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation"})

	// CacheLookups counts result cache lookups by operation and outcome (hit or miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openfolio_cache_lookups_total",
		Help: "Result cache lookups",
	}, []string{"operation", "outcome"})

	// Warnings counts the data fallbacks applied by the engine, by kind.
	Warnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openfolio_warnings_total",
		Help: "Data fallbacks applied by the engine",
	}, []string{"kind"})

	// HistoryPoints tracks the size of the computed histories.
	HistoryPoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "openfolio_history_points",
		Help:    "Number of points of the computed histories",
		Buckets: prometheus.ExponentialBuckets(8, 4, 6),
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openfolio_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "openfolio_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "route"})
)

// Observe records the duration of an operation started at start.
func Observe(operation string, start time.Time) {
	ComputeDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Lookup records a cache lookup.
func Lookup(operation string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CacheLookups.WithLabelValues(operation, outcome).Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the route pattern to avoid high cardinality.
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
