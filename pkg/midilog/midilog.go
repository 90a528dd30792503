// Package midilog provides the package-wide slog setup used by
// cmd/midicat. The midifile package does not import it and does not log.
package midilog

import (
	"fmt"
	"log/slog"
	"os"
)

var globalLogger *slog.Logger

// Init configures the package-wide logger for the given level
// ("debug", "info", "warn", "error").
func Init(level string) error {
	var slogLevel slog.Level

	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	return nil
}

// Get returns the package-wide logger, falling back to slog's default
// if Init has not been called.
func Get() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}
