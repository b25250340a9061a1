package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finances/internal/amqp"
	"finances/internal/config"
	apphttp "finances/internal/http"
	applog "finances/internal/log"
	"finances/internal/services"
	"finances/internal/store"
	"finances/internal/store/memory"
	"finances/internal/store/rest"
	"finances/internal/store/sqlite"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		entityStore store.EntityStore
		closeStore  func() error
	)
	switch cfg.StoreBackend {
	case "rest":
		cli, err := rest.NewClient(cfg.StoreBaseURL)
		if err != nil {
			logger.Error("Failed to initialize REST store client", "error", err, "base_url", cfg.StoreBaseURL)
			os.Exit(1)
		}
		entityStore = cli
		logger.Info("Initialized REST store backend", "base_url", cfg.StoreBaseURL)
	case "sqlite":
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		entityStore = repo
		closeStore = repo.Close
		logger.Info("Initialized SQLite store backend", "path", cfg.SQLiteDBPath)
	default:
		entityStore = memory.New()
		logger.Info("Initialized memory store backend")
	}
	if closeStore != nil {
		defer func() {
			if err := closeStore(); err != nil {
				logger.Error("Failed to close store", "error", err)
			}
		}()
	}

	// AMQP is optional: without a URL, movement events are simply not published.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer events.Close()
		logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	movements := services.NewMovementService(entityStore, events, cfg.TransferCategoryID)

	srv := apphttp.NewServer(":"+cfg.Port, entityStore, movements, cfg.UserID, cfg.HistoryPoints)

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finances server", "port", cfg.Port, "backend", cfg.StoreBackend, "user_id", cfg.UserID)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
