package ui

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans each record out to several slog handlers, so the
// console and a --log file can use different formats and levels.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler returns a handler that writes to every h.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether any handler accepts level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: out}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: out}
}

// LogEvent records ev as an "rcopy.event" record. Progress events are
// logged at debug level, failures at warn, everything else at info.
func LogEvent(logger *slog.Logger, ev Event) {
	level := slog.LevelInfo
	switch ev.Type {
	case FileProgress:
		level = slog.LevelDebug
	case FileFailed, FileRetry, VerifyFailed:
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{slog.String("type", ev.Type.String())}
	if ev.Path != "" {
		attrs = append(attrs, slog.String("path", ev.Path))
	}
	switch ev.Type {
	case ScanComplete:
		attrs = append(attrs, slog.Int64("files", ev.Total), slog.Int64("bytes", ev.TotalSize))
	case FileProgress, FileCompleted:
		attrs = append(attrs, slog.Int64("current", ev.Current), slog.Int64("size", ev.Size))
	case FileStarted, FileSkipped:
		attrs = append(attrs, slog.Int64("size", ev.Size))
	case FileRetry:
		attrs = append(attrs, slog.Int("attempt", ev.Attempt), slog.Duration("delay", ev.Delay))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	logger.LogAttrs(context.Background(), level, "rcopy.event", attrs...)
}
