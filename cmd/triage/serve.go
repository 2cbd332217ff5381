package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Triage/internal/api"
	"github.com/MikeSquared-Agency/Triage/internal/hermes"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, metrics server and optional hermes responders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	logger := newLogger(os.Stdout, a.cfg.Logging.Format, a.cfg.LogLevel())
	slog.SetDefault(logger)
	a.logger = logger

	analyzer, err := a.newAnalyzer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := api.NewMetrics(reg)

	// Hermes (optional)
	var hermesClient hermes.Client
	if a.cfg.HermesEnabled() {
		hc, err := hermes.NewNATSClient(ctx, a.cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			defer hc.Close()
			hermesClient = hermes.NewBreakerClient(hc, hermes.BreakerSettings{
				FailureThreshold: a.cfg.Hermes.BreakerFailureThreshold,
				Timeout:          a.cfg.BreakerTimeout(),
			}, logger)
			logger.Info("connected to hermes")
		}
	}

	tasks := api.NewTasksHandler(analyzer, hermesClient, metrics, logger)
	if hermesClient != nil {
		if err := api.RegisterRPC(hermesClient, tasks); err != nil {
			logger.Warn("failed to register hermes responders", "error", err)
		}
	}

	// API server
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           api.NewRouter(tasks, a.cfg.Server.RateLimitPerMinute, a.cfg.Server.TrustProxy, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("API server starting", "port", a.cfg.Server.Port, "default_strategy", a.cfg.Scoring.DefaultStrategy)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", a.cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case <-sigCh:
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return runErr
}
