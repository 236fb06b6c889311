// Package logging configures structured logging for the structsearch CLI.
//
// Diagnostics go to stderr as text; when a log file is configured, the same
// records are also written there as JSON through a size-rotated writer.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls where log records go and which survive.
type Config struct {
	// Level is the minimum record level (debug, info, warn, error).
	Level string

	// FilePath is the JSON log file. Empty disables file logging.
	FilePath string

	// MaxSizeMB is the file size before rotation. Zero means 10.
	MaxSizeMB int

	// MaxFiles is how many rotated files to keep. Zero means 5.
	MaxFiles int

	// Stderr also writes text records to stderr.
	Stderr bool
}

// DefaultConfig logs info and above to stderr only.
func DefaultConfig() Config {
	return Config{Level: "info", Stderr: true}
}

// Setup installs the configured logger as the process default and returns
// a cleanup function that flushes and closes the log file, if any.
func Setup(cfg Config) (func(), error) {
	var handlers []slog.Handler
	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	cleanup := func() {}
	if cfg.FilePath != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxFiles := cfg.MaxFiles
		if maxFiles <= 0 {
			maxFiles = 5
		}
		w, err := NewRotatingWriter(cfg.FilePath, maxSize, maxFiles)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
		cleanup = func() { _ = w.Close() }
	}
	if cfg.Stderr || len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, opts))
	}

	if len(handlers) == 1 {
		slog.SetDefault(slog.New(handlers[0]))
	} else {
		slog.SetDefault(slog.New(fanoutHandler(handlers)))
	}
	return cleanup, nil
}

// ParseLevel maps a level name to its slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout duplicates records to every handler. Errors from individual
// handlers are dropped; logging must not fail the operation being logged.
type fanout []slog.Handler

func fanoutHandler(handlers []slog.Handler) slog.Handler {
	return fanout(handlers)
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

var _ io.Writer = (*RotatingWriter)(nil)
