// Package log builds the slog.Logger shared by the dictgen commands.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace sits below slog.LevelDebug for per-row generator tracing.
const LevelTrace slog.Level = -8

// Level maps a --log-level flag value to its slog level. Unknown values
// fall back to Info.
func Level(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// sink pairs a handler with the level predicate that routes records to it.
type sink struct {
	accept func(slog.Level) bool
	h      slog.Handler
}

func anyLevel(slog.Level) bool { return true }

// routedHandler hands each record to every sink whose predicate accepts
// its level.
type routedHandler struct {
	sinks []sink
}

func (r routedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range r.sinks {
		if s.accept(level) && s.h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (r routedHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, s := range r.sinks {
		if s.accept(rec.Level) && s.h.Enabled(ctx, rec.Level) {
			_ = s.h.Handle(ctx, rec)
		}
	}
	return nil
}

func (r routedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]sink, len(r.sinks))
	for i, s := range r.sinks {
		out[i] = sink{accept: s.accept, h: s.h.WithAttrs(attrs)}
	}
	return routedHandler{sinks: out}
}

func (r routedHandler) WithGroup(name string) slog.Handler {
	out := make([]sink, len(r.sinks))
	for i, s := range r.sinks {
		out[i] = sink{accept: s.accept, h: s.h.WithGroup(name)}
	}
	return routedHandler{sinks: out}
}

// Setup builds the logger for one run. Without a log file, records below
// Error go to stdout and errors to stderr, keeping normal output pipeable.
// With a log file, the console collapses to stderr and the file receives
// everything at the configured level. The returned closers own the opened
// log file.
func Setup(logLevel, logFile string) (*slog.Logger, []io.Closer, error) {
	opts := &slog.HandlerOptions{Level: Level(logLevel)}

	var sinks []sink
	var closers []io.Closer
	if logFile == "" {
		sinks = append(sinks,
			sink{
				accept: func(l slog.Level) bool { return l < slog.LevelError },
				h:      slog.NewTextHandler(os.Stdout, opts),
			},
			sink{
				accept: func(l slog.Level) bool { return l >= slog.LevelError },
				h:      slog.NewTextHandler(os.Stderr, opts),
			},
		)
	} else {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f)
		sinks = append(sinks,
			sink{accept: anyLevel, h: slog.NewTextHandler(os.Stderr, opts)},
			sink{accept: anyLevel, h: slog.NewTextHandler(f, opts)},
		)
	}
	return slog.New(routedHandler{sinks: sinks}), closers, nil
}
