// Package logger configures the process-wide slog logger. Commands call
// Setup once at startup; everything else logs through slog's default logger
// so packages need no logger plumbing.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Config selects the log level and output encoding.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// Setup installs the default slog logger on stderr according to cfg.
// Unknown levels fall back to info, unknown formats to text.
func Setup(cfg Config) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
