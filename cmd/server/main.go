package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"patientdir/internal/patient/handler"
	patientmetrics "patientdir/internal/patient/metrics"
	"patientdir/internal/patient/service"
	"patientdir/internal/patient/store"
	"patientdir/internal/patient/view"
	"patientdir/internal/platform/config"
	"patientdir/internal/platform/httpserver"
	"patientdir/internal/platform/logger"
	"patientdir/internal/platform/metrics"
	"patientdir/internal/platform/middleware"
	"patientdir/pkg/platform/httputil"
)

// main wires high-level dependencies, starts the one-time record load and
// keeps the server lifecycle small. Query logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("patientdir stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(registry)
	patientMetrics := patientmetrics.New(registry)

	src, closeSource, err := newSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	records := store.New(store.WithLogger(log), store.WithMetrics(patientMetrics))
	svc, err := service.New(records, service.WithLogger(log), service.WithMetrics(patientMetrics))
	if err != nil {
		return err
	}
	renderer, err := view.New(cfg.AllowedImageHosts)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(middleware.Stack(log, httpMetrics)...)
	router.Handle("/metrics", metrics.Handler(registry))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(records.Status())})
	})
	handler.New(svc, src, renderer, log).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loadCtx := gctx
		if cfg.Source.LoadTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(gctx, cfg.Source.LoadTimeout)
			defer cancel()
		}
		// A failed load is terminal for the store but not for the process:
		// the page keeps serving the error.
		_ = records.Load(loadCtx, src)
		return nil
	})
	g.Go(func() error {
		log.Info("starting patientdir", "addr", cfg.Server.Addr, "source", src.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
