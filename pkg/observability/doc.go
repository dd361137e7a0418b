// Package observability provides structured logging, Prometheus metrics
// and health checks for the permissions console.
//
// # Logging
//
// NewLogger builds a JSON logrus logger that writes to stdout or to a
// rotating file:
//
//	logger, closer := observability.NewLogger(cfg.Logger())
//	defer closer.Close()
//
// Request-scoped loggers travel in the context. FromContext tags entries
// with the request id:
//
//	observability.FromContext(r.Context()).WithError(err).Error("failed to save roles")
//
// # Metrics
//
// NewMetrics registers the HTTP, session and grant collectors on a
// registry. HTTPMetricsMiddleware labels requests by mux route template so
// project and role ids do not become label values.
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//
// # Health
//
// HealthChecker serves /health/live and /health/ready. Readiness runs the
// registered checks and answers 503 when any fails.
package observability
