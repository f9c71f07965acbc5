// Package slogx provides the shared slog setup and context plumbing used
// across the SDK and the CLI.
package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	App    string
	Env    string // e.g. "dev", "prod"
	Level  string // e.g. "debug", "info", "warn", "error"
	Format string // e.g. "json", "text"
}

// New returns a configured slog.Logger instance writing to stderr.
func New(cfg Config) *slog.Logger {
	return NewWriter(cfg, os.Stderr)
}

// NewWriter is New with an explicit destination, used by tests.
func NewWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev",
		Level:     parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		"app", cfg.App,
		"env", cfg.Env,
	)
}

// Discard returns a logger that drops everything. Handy default for library
// consumers that did not configure logging.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// parseLevel maps a string to slog.Level.
func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
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
