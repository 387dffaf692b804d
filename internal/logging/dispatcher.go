package logging

import (
	"time"

	"github.com/rs/zerolog"
)

// badKey holds a value that has no string key, as slog does.
const badKey = "!BADKEY"

// DispatcherLogger writes the dispatcher's event handling records through
// zerolog.
type DispatcherLogger struct {
	logger zerolog.Logger
}

// NewDispatcherLogger tags every record with component=dispatcher.
func NewDispatcherLogger(logger zerolog.Logger) *DispatcherLogger {
	return &DispatcherLogger{logger: logger.With().Str("component", "dispatcher").Logger()}
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	write(l.logger.Debug(), msg, keysAndValues)
}

func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	write(l.logger.Info(), msg, keysAndValues)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	write(l.logger.Error(), msg, keysAndValues)
}

// write adds keysAndValues as typed fields. Durations use zerolog's
// duration unit and errors their message.
func write(e *zerolog.Event, msg string, kv []any) {
	if e == nil {
		return
	}
	for len(kv) > 0 {
		key, ok := kv[0].(string)
		if !ok || len(kv) == 1 {
			e = e.Interface(badKey, kv[0])
			kv = kv[1:]
			continue
		}
		switch v := kv[1].(type) {
		case error:
			e = e.AnErr(key, v)
		case time.Duration:
			e = e.Dur(key, v)
		default:
			e = e.Interface(key, v)
		}
		kv = kv[2:]
	}
	e.Msg(msg)
}
