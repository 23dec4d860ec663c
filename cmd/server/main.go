package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	httpapi "journal-directory-backend/internal/api/http"
	"journal-directory-backend/internal/app"
	"journal-directory-backend/internal/config"
	"journal-directory-backend/internal/logger"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Journal Directory backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "public_base_url", cfg.Server.PublicBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	checks := make(map[string]httpapi.HealthCheck)
	for name, check := range a.HealthChecks() {
		checks[name] = check
	}

	handler := httpapi.NewHandler(httpapi.Services{
		Registration: a.Registration,
		Approval:     a.Approval,
		Activation:   a.Activation,
		Auth:         a.Auth,
		Editorial:    a.Editorial,
		Documents:    a.Documents,
	})
	router := httpapi.NewRouter(handler, httpapi.NewAuthMiddleware(a.Auth), httpapi.RouterOptions{
		Metrics: promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}),
		Checks:  checks,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.EmailQueue.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		log.Fatalf("Server error: %v", err)
	}
	logger.Info("Server stopped")
}
