package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/productaware/ecoselect/internal/api"
	"github.com/productaware/ecoselect/internal/catalog"
	"github.com/productaware/ecoselect/internal/config"
	"github.com/productaware/ecoselect/internal/events"
	"github.com/productaware/ecoselect/internal/scoring"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Material catalog
	var store catalog.Store
	if cfg.Catalog.DatabaseURL != "" {
		store, err = catalog.NewPostgresStore(ctx, cfg.Catalog.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		logger.Info("catalog backed by postgres")
	} else {
		store, err = catalog.NewJSONStore(cfg.Catalog.DataFile)
		if err != nil {
			logger.Error("failed to load dataset", "error", err, "path", cfg.Catalog.DataFile)
			os.Exit(1)
		}
		logger.Info("catalog loaded from dataset", "path", cfg.Catalog.DataFile)
	}
	defer store.Close()

	// Events (optional)
	var pub events.Publisher
	if cfg.Events.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.Events.NATSURL, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			pub = np
			defer np.Close()
			logger.Info("connected to nats")
		}
	}

	model := scoring.NewModel(cfg.Scoring.ReferenceLifespanYears)

	// API server
	router := api.NewRouter(store, model, pub, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsRouter := api.NewMetricsRouter()
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsRouter,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
