package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Session metrics
	SessionsActive         prometheus.Gauge
	SessionsCreatedTotal   prometheus.Counter
	SessionsEvictedTotal   prometheus.Counter
	ProjectLookupsNotFound prometheus.Counter

	// Access metrics
	GrantsTotal         *prometheus.CounterVec
	BindingsAddedTotal  *prometheus.CounterVec
	InertActionsTotal   *prometheus.CounterVec
	FixtureReloadsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permissions_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "permissions_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "permissions_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route"},
		),

		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "permissions_sessions_active",
				Help: "Number of live project sessions",
			},
		),
		SessionsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "permissions_sessions_created_total",
				Help: "Total number of project sessions created",
			},
		),
		SessionsEvictedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "permissions_sessions_evicted_total",
				Help: "Total number of project sessions evicted or expired",
			},
		),
		ProjectLookupsNotFound: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "permissions_project_not_found_total",
				Help: "Total number of lookups for unknown projects",
			},
		),

		GrantsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permissions_grants_total",
				Help: "Total number of saved add-principal workflows",
			},
			[]string{"kind", "outcome"},
		),
		BindingsAddedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permissions_bindings_added_total",
				Help: "Total number of role bindings added",
			},
			[]string{"kind", "role"},
		),
		InertActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permissions_inert_actions_total",
				Help: "Total number of actions that did not apply in the current state",
			},
			[]string{"action"},
		),
		FixtureReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permissions_fixture_reloads_total",
				Help: "Total number of fixture reload attempts",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.SessionsActive,
		m.SessionsCreatedTotal,
		m.SessionsEvictedTotal,
		m.ProjectLookupsNotFound,
		m.GrantsTotal,
		m.BindingsAddedTotal,
		m.InertActionsTotal,
		m.FixtureReloadsTotal,
	)

	return m
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// routeLabel returns the mux path template so that project ids and role ids
// do not explode label cardinality
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// It must run inside the router so the matched route is known.
func HTTPMetricsMiddleware(metrics *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			route := routeLabel(r)
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPResponseSize.WithLabelValues(r.Method, route).Observe(float64(rw.bytesWritten))
		})
	}
}

// MetricsHandler serves the registry in the Prometheus exposition format
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", MetricsHandler(registry))
}
