// Package janitorservice runs the storage maintenance daemon: periodic
// durable-tier purge plus an HTTP surface for health and metrics.
package janitorservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/telebridge/botstore/internal/bootstrap"
	"github.com/telebridge/botstore/internal/config"
	"github.com/telebridge/botstore/internal/health"
	"github.com/telebridge/botstore/internal/janitor"
	"github.com/telebridge/botstore/internal/logger"
)

// Run starts the janitor service and blocks until shutdown or error.
func Run() error {
	log := logger.New("storage-janitor")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := bootstrap.NewManager()
	app, err := manager.Init(ctx, bootstrap.OptionsFromConfig(cfg, log))
	if err != nil {
		log.Error().Stack().Err(err).Msg("storage init failed")
		return err
	}
	defer func() { _ = manager.Shutdown(context.Background()) }()

	svcHealth := startHealthCheckers(ctx, cfg, log, app)

	worker := janitor.NewWorker(app.Engine(), janitor.Config{
		Interval: time.Duration(cfg.PurgeIntervalSeconds) * time.Second,
	}, log)
	workerErr := make(chan error, 1)
	go func() {
		if err := worker.Run(ctx); err != nil && err != context.Canceled {
			workerErr <- err
		}
	}()

	server := newHTTPServer(ctx, cfg, buildRouter(svcHealth))
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-workerErr:
		log.Error().Stack().Err(err).Msg("janitor worker failed")
		return err
	case err := <-serverErr:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// startHealthCheckers starts one checker per configured tier plus the
// service aggregator. With no external tiers the service reports healthy.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, app *bootstrap.App) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	var checkers []health.HealthChecker
	if app.Engine().HasRemote() {
		c := health.NewTierHealthChecker("remote", app.Engine().PingRemote, log, probeTimeout)
		go c.Start(ctx, interval)
		checkers = append(checkers, c)
	}
	if app.Engine().HasDurable() {
		c := health.NewTierHealthChecker("durable", app.Engine().PingDurable, log, probeTimeout)
		go c.Start(ctx, interval)
		checkers = append(checkers, c)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func buildRouter(svcHealth *health.ServiceHealthChecker) *mux.Router {
	root := mux.NewRouter()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		code := http.StatusOK
		if !svcHealth.IsHealthy() {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}).Methods("GET")
	root.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return root
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}
