package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler duplicates each record to every sink that accepts its
// level. Sinks carry their own levels: the ring buffer can keep debug
// lines for the crash dump while stdout stays at the configured level.
type fanoutHandler struct {
	sinks []slog.Handler
}

// newFanout combines sinks into a single handler. A lone sink is
// returned as-is; zero sinks discard everything.
func newFanout(sinks ...slog.Handler) slog.Handler {
	switch len(sinks) {
	case 0:
		return slog.DiscardHandler
	case 1:
		return sinks[0]
	default:
		return fanoutHandler{sinks: sinks}
	}
}

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range f.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every interested sink. One sink
// failing must not starve the others, so errors are collected and
// joined instead of short-circuiting.
func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, sink := range f.sinks {
		if !sink.Enabled(ctx, r.Level) {
			continue
		}
		if err := sink.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(f.sinks))
	for i, sink := range f.sinks {
		sinks[i] = sink.WithAttrs(attrs)
	}
	return fanoutHandler{sinks: sinks}
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	sinks := make([]slog.Handler, len(f.sinks))
	for i, sink := range f.sinks {
		sinks[i] = sink.WithGroup(name)
	}
	return fanoutHandler{sinks: sinks}
}
