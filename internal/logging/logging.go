// Package logging provides helpers for structured logging across the
// application.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
)

// Level represents a structured log level used by prdeck.
type Level slog.Level

const (
	// LevelDebug represents the debug logging level.
	LevelDebug Level = Level(slog.LevelDebug)
	// LevelInfo represents the informational logging level.
	LevelInfo Level = Level(slog.LevelInfo)
	// LevelWarn represents the warning logging level.
	LevelWarn Level = Level(slog.LevelWarn)
	// LevelError represents the error logging level.
	LevelError Level = Level(slog.LevelError)
)

// ParseLevel converts a textual log level into a Level value.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// NewLogger constructs a slog.Logger with a tint handler writing to w. A
// nil writer discards everything: the terminal belongs to the UI, so
// nothing may ever log to stderr while the program runs. Colors are off
// because the destination is a file.
func NewLogger(w io.Writer, level Level) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:   slog.Level(level),
		NoColor: true,
	})

	return slog.New(handler)
}

// OpenFile opens the log file at path for appending and returns a logger
// writing to it plus a close func. An empty path yields a silent logger.
func OpenFile(path string, level Level) (*slog.Logger, func() error, error) {
	if path == "" {
		return NewLogger(nil, level), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return NewLogger(f, level), f.Close, nil
}
