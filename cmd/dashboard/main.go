package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"petcheck-dashboard/internal/adapters/vetapi"
	"petcheck-dashboard/internal/config"
	"petcheck-dashboard/internal/dashboard"
	"petcheck-dashboard/internal/observability/metrics"
	"petcheck-dashboard/internal/platform/logger"
	"petcheck-dashboard/internal/router"
	"petcheck-dashboard/internal/session"
)

func main() {
	// .env es opcional (modo dev)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	loc, _ := cfg.Location() // ya validado en Load
	sess := session.New()

	apiCfg := vetapi.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout, Credentials: sess}
	deps := dashboard.Deps{Session: sess, Logger: log, Location: loc}
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		m := metrics.NewDashboardMetrics(reg)
		apiCfg.Observer = m
		deps.Recorder = m
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	client, err := vetapi.NewClient(apiCfg)
	if err != nil {
		log.Error("vet api client", map[string]any{"err": err})
		os.Exit(1)
	}
	deps.API = client

	svc, err := dashboard.New(deps)
	if err != nil {
		log.Error("dashboard", map[string]any{"err": err})
		os.Exit(1)
	}

	r := router.NewRouter(router.Options{
		Dashboard: svc,
		Session:   sess,
		Logger:    log,
		Metrics:   metricsHandler,
		Swagger:   cfg.SwaggerEnabled,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "api": cfg.APIBaseURL, "tz": loc.String()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"err": err})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", map[string]any{"err": err})
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}
