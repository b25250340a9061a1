// ledger-worker consumes ledger-change events and refreshes the Google
// Sheets summary for the month the event landed in, so the shared sheet
// tracks the store without polling.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finances/internal/amqp"
	"finances/internal/config"
	"finances/internal/export/sheets"
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

	logger := applog.WithComponent(applog.Setup(), "ledger-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	var entityStore store.EntityStore
	switch cfg.StoreBackend {
	case "rest":
		cli, err := rest.NewClient(cfg.StoreBaseURL)
		if err != nil {
			logger.Error("Failed to initialize REST store client", "error", err, "base_url", cfg.StoreBaseURL)
			os.Exit(1)
		}
		entityStore = cli
	case "sqlite":
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		entityStore = repo
	default:
		entityStore = memory.New()
	}

	// Sheets export is optional; without it events are logged and acked.
	var exporter *sheets.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		var err error
		exporter, err = sheets.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Sheets exporter", "error", err)
			os.Exit(1)
		}
		logger.Info("Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handle := func(msg *amqp.LedgerEventMessage) error {
		logger.Info("Ledger event received",
			"event_id", msg.EventID, "kind", msg.Kind, "user_id", msg.UserID, "entities", msg.EntityIDs)
		if exporter == nil {
			return nil
		}

		opCtx, opCancel := context.WithTimeout(ctx, time.Minute)
		defer opCancel()

		snap, err := services.LoadSnapshot(opCtx, entityStore, msg.UserID)
		if err != nil {
			return err
		}
		return exporter.ExportMonth(opCtx, snap, msg.Timestamp.Year(), msg.Timestamp.Month())
	}

	go func() {
		if err := amqpClient.ConsumeLedgerEvents(ctx, handle); err != nil {
			if err != context.Canceled {
				logger.Error("Event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	logger.Info("Starting ledger-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}
	cancel()
	logger.Info("Worker stopped")
}
