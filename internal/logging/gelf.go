package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// Facility tags every GELF message.
const Facility = "basesim"

// MessageWriter sends GELF messages. *gelf.Writer satisfies it.
type MessageWriter interface {
	WriteMessage(m *gelf.Message) error
}

// NewGelfWriter opens a GELF UDP writer to addr, e.g. "localhost:12201".
func NewGelfWriter(addr string) (*gelf.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, err
	}
	w.Facility = Facility
	return w, nil
}

// GelfHandler is a slog.Handler that emits one GELF message per record.
// Attributes become additional fields; groups prefix their keys.
type GelfHandler struct {
	w      MessageWriter
	level  slog.Leveler
	host   string
	attrs  []slog.Attr
	prefix string
}

// NewGelfHandler creates a handler writing to w at the given minimum level.
func NewGelfHandler(w MessageWriter, level slog.Leveler) *GelfHandler {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return &GelfHandler{w: w, level: level, host: host}
}

// Enabled reports whether level meets the handler's minimum.
func (h *GelfHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle converts the record and writes it.
func (h *GelfHandler) Handle(_ context.Context, r slog.Record) error {
	extra := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		addExtra(extra, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addExtra(extra, h.prefix, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return h.w.WriteMessage(&gelf.Message{
		Version:  "1.1",
		Host:     h.host,
		Short:    r.Message,
		TimeUnix: float64(ts.UnixNano()) / float64(time.Second),
		Level:    syslogLevel(r.Level),
		Facility: Facility,
		Extra:    extra,
	})
}

// WithAttrs returns a handler that adds attrs to every message.
func (h *GelfHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &next
}

// WithGroup returns a handler that prefixes later keys with name.
func (h *GelfHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "_"
	return &next
}

func addExtra(extra map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			addExtra(extra, prefix+a.Key+"_", ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	switch v.Kind() {
	case slog.KindString:
		extra[prefix+a.Key] = v.String()
	case slog.KindInt64:
		extra[prefix+a.Key] = v.Int64()
	case slog.KindUint64:
		extra[prefix+a.Key] = v.Uint64()
	case slog.KindFloat64:
		extra[prefix+a.Key] = v.Float64()
	case slog.KindBool:
		extra[prefix+a.Key] = v.Bool()
	case slog.KindTime:
		extra[prefix+a.Key] = v.Time().UTC().Format(time.RFC3339)
	default:
		extra[prefix+a.Key] = fmt.Sprint(v.Any())
	}
}

// syslogLevel maps slog levels to syslog severities.
func syslogLevel(l slog.Level) int32 {
	switch {
	case l >= slog.LevelError:
		return 3
	case l >= slog.LevelWarn:
		return 4
	case l >= slog.LevelInfo:
		return 6
	default:
		return 7
	}
}
