// Package log configures the application's structured logging on top of
// log/slog.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a text handler on stdout as the default logger, with the
// level taken from LOG_LEVEL (debug, info, warn, error; default info).
func Setup() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: LevelFromEnv(),
	}))
	slog.SetDefault(logger)
	return logger
}

// LevelFromEnv parses LOG_LEVEL, defaulting to info on anything it does
// not recognize.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}
