package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// User context. The application serves a single user.
	UserID int64

	// Store backend selection
	StoreBackend string
	StoreBaseURL string
	SQLiteDBPath string

	// AMQP (optional; events are skipped when the URL is empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Ledger
	TransferCategoryID int64
	HistoryPoints      int

	// Google Sheets export
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		UserID: getEnvInt64("USER_ID", 1),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		StoreBaseURL: getEnv("STORE_BASE_URL", "http://localhost:8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finances.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finances"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		TransferCategoryID: getEnvInt64("TRANSFER_CATEGORY_ID", 1),
		HistoryPoints:      int(getEnvInt64("HISTORY_POINTS", 12)),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Summary"),
	}
}

// Validate checks the configuration and collects every problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.UserID <= 0 {
		problems = append(problems, fmt.Sprintf("invalid user ID %d: must be positive", c.UserID))
	}

	switch c.StoreBackend {
	case "rest":
		if u, err := url.Parse(c.StoreBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("invalid store base URL '%s'", c.StoreBaseURL))
		}
	case "sqlite":
		if strings.TrimSpace(c.SQLiteDBPath) == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid store backend '%s': must be one of [rest sqlite memory]", c.StoreBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.TransferCategoryID <= 0 {
		problems = append(problems, fmt.Sprintf("invalid transfer category ID %d: must be positive", c.TransferCategoryID))
	}
	if c.HistoryPoints <= 0 {
		problems = append(problems, fmt.Sprintf("invalid history points %d: must be positive", c.HistoryPoints))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
