package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/xianli123/rhoai-project-permission/pkg/api"
	"github.com/xianli123/rhoai-project-permission/pkg/audit"
	"github.com/xianli123/rhoai-project-permission/pkg/config"
	"github.com/xianli123/rhoai-project-permission/pkg/fixtures"
	"github.com/xianli123/rhoai-project-permission/pkg/httputil"
	"github.com/xianli123/rhoai-project-permission/pkg/observability"
	"github.com/xianli123/rhoai-project-permission/pkg/project"
)

// version is set at build time
var version = "dev"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, closer := observability.NewLogger(cfg.Logger())
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("project console stopped with error")
		closer.Close()
		os.Exit(1)
	}
	logger.Info("project console stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	auditLogger, err := newAuditLogger(cfg, logger)
	if err != nil {
		return err
	}
	defer auditLogger.Close()

	set, err := fixtures.Load(cfg.FixturesPath)
	if err != nil {
		return fmt.Errorf("loading fixtures: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"projects": len(set.Projects()),
		"roles":    len(set.Catalog().Roles()),
	}).Info("fixtures loaded")

	sessions := project.NewRegistry(set,
		project.WithCapacity(cfg.SessionCacheSize, cfg.SessionTTL),
		project.WithMetrics(metrics),
		project.WithLogger(logger),
	)

	health := observability.NewHealthChecker(version)
	health.AddCheck("fixtures", func(context.Context) error {
		return sessions.Ready()
	})

	server := api.NewServer(sessions,
		api.WithAuditLogger(auditLogger),
		api.WithMetrics(metrics),
		api.WithLogger(logger),
	)

	middleware := httputil.Chain(
		httputil.RecoveryMiddleware(logger),
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.SecureHeadersMiddleware(cfg.IsDevelopment()),
		httputil.CORSMiddleware(cfg.AllowedOrigins),
		httputil.RateLimitMiddleware(cfg.RateLimit, cfg.RateWindow),
		httputil.MaxBytesMiddleware(cfg.MaxBodyBytes),
		httputil.ContentTypeMiddleware,
	)

	apiServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      otelhttp.NewHandler(middleware(server), "project-console"),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	opsMux := http.NewServeMux()
	observability.RegisterMetricsEndpoint(opsMux, registry)
	opsMux.HandleFunc("/health/live", health.Liveness)
	opsMux.HandleFunc("/health/ready", health.Readiness)
	opsServer := &http.Server{
		Addr:         cfg.MetricsAddr(),
		Handler:      opsMux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	reporter := cron.New()
	if _, err := reporter.AddFunc(cfg.ReportSchedule, func() {
		defer observability.RecoverPanic(logger, "session report")
		sessions.Report()
	}); err != nil {
		return fmt.Errorf("scheduling session report: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", apiServer.Addr).Info("starting API server")
		return serve(apiServer)
	})

	g.Go(func() error {
		logger.WithField("addr", opsServer.Addr).Info("starting metrics server")
		return serve(opsServer)
	})

	if cfg.WatchFixtures {
		g.Go(func() error {
			defer observability.RecoverPanic(logger, "fixture watcher")
			return fixtures.Watch(ctx, cfg.FixturesPath, logger, func(next *fixtures.Set) {
				sessions.Reload(next)
				metrics.FixtureReloadsTotal.WithLabelValues("success").Inc()
			})
		})
	}

	reporter.Start()
	logger.WithField("schedule", cfg.ReportSchedule).Info("session reporter started")

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		<-reporter.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(
			apiServer.Shutdown(shutdownCtx),
			opsServer.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}

// serve runs srv until it is shut down
func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server on %s: %w", srv.Addr, err)
	}
	return nil
}

// newAuditLogger writes grant events to a rotating file when one is
// configured, otherwise to the application log
func newAuditLogger(cfg *config.Config, logger *logrus.Logger) (audit.Logger, error) {
	if cfg.AuditFile == "" {
		return audit.NewLogrusLogger(logger), nil
	}
	fileLogger, err := audit.NewFileLogger(audit.DefaultFileLoggerConfig(cfg.AuditFile))
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	return fileLogger, nil
}
