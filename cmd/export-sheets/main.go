// One-shot export of a month's financial summary to Google Sheets.
// The month defaults to the current one; override with EXPORT_YEAR and
// EXPORT_MONTH.
package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

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
	_ = godotenv.Load()

	logger := applog.WithComponent(applog.Setup(), "export-sheets")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for export")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

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

	exporter, err := sheets.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", "error", err)
		os.Exit(1)
	}

	snap, err := services.LoadSnapshot(ctx, entityStore, cfg.UserID)
	if err != nil {
		logger.Error("Failed to load snapshot", "error", err, "user_id", cfg.UserID)
		os.Exit(1)
	}

	year, month := exportMonth(time.Now())
	if err := exporter.ExportMonth(ctx, snap, year, month); err != nil {
		logger.Error("Export failed", "error", err, "year", year, "month", int(month))
		os.Exit(1)
	}

	logger.Info("Export complete",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName,
		"year", year,
		"month", int(month),
		"transactions", len(snap.Transactions))
}

func exportMonth(now time.Time) (int, time.Month) {
	year := now.Year()
	month := now.Month()
	if v, err := strconv.Atoi(os.Getenv("EXPORT_YEAR")); err == nil && v > 0 {
		year = v
	}
	if v, err := strconv.Atoi(os.Getenv("EXPORT_MONTH")); err == nil && v >= 1 && v <= 12 {
		month = time.Month(v)
	}
	return year, month
}
