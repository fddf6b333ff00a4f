// Package logging builds the process-wide structured logger.
//
// Three sinks are supported: the console at the configured level, a log file that
// always records DEBUG, or both at once.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sink modes.
const (
	ModeConsole     = "c"
	ModeFile        = "f"
	ModeFileConsole = "fc"
)

// Options configures Setup.
type Options struct {
	// Level values: "debug", "info", "warn", "error" (default: "info").
	// It applies to the console sink only.
	Level string
	// Format values: "text", "json" (default: "text").
	Format string
	// Mode values: "c", "f", "fc" (default: "c").
	Mode string
	// File is the log file path for modes "f" and "fc".
	File string
	// Console defaults to os.Stderr.
	Console io.Writer
}

// Setup builds a logger from opts. The returned close function releases the log
// file, if any.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	mode := strings.ToLower(strings.TrimSpace(opts.Mode))
	if mode == "" {
		mode = ModeConsole
	}

	var handlers []slog.Handler
	closeFn := noop
	if mode == ModeConsole || mode == ModeFileConsole {
		handlers = append(handlers, newHandler(console, opts.Format, parseLevel(opts.Level)))
	}
	if mode == ModeFile || mode == ModeFileConsole {
		if opts.File == "" {
			return nil, noop, errors.New("log file path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, noop, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, newHandler(f, opts.Format, slog.LevelDebug))
		closeFn = f.Close
	}
	if len(handlers) == 0 {
		return nil, noop, fmt.Errorf("unknown log mode %q (use c, f or fc)", opts.Mode)
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0]), closeFn, nil
	}
	return slog.New(fanout(handlers)), closeFn, nil
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string log level to slog.Level.
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

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
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
