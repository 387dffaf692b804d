package logging

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// GameTimeKey is the attribute carrying the simulated clock.
const GameTimeKey = "game_time"

// GameClock reports the simulated time. ok is false while no engine runs.
type GameClock func() (t time.Time, ok bool)

// clockHandler stamps every record with the game time.
type clockHandler struct {
	inner slog.Handler
	clock GameClock
}

func (h *clockHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *clockHandler) Handle(ctx context.Context, r slog.Record) error {
	if t, ok := h.clock(); ok {
		r.AddAttrs(slog.Time(GameTimeKey, t.UTC()))
	}
	return h.inner.Handle(ctx, r)
}

func (h *clockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &clockHandler{inner: h.inner.WithAttrs(attrs), clock: h.clock}
}

func (h *clockHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &clockHandler{inner: h.inner.WithGroup(name), clock: h.clock}
}

// MultiHandler sends each record to every sink enabled for its level: the
// log file or console, plus Graylog when configured.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler skips nil sinks.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	m := &MultiHandler{}
	for _, h := range handlers {
		if h != nil {
			m.handlers = append(m.handlers, h)
		}
	}
	return m
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle reaches every sink even when one fails and reports all failures.
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
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) each(fn func(slog.Handler) slog.Handler) *MultiHandler {
	out := &MultiHandler{handlers: make([]slog.Handler, len(m.handlers))}
	for i, h := range m.handlers {
		out.handlers[i] = fn(h)
	}
	return out
}
