package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// osStdout is the console target, replaced in tests.
var osStdout = os.Stdout

// SlogManager manages slog-based logging with optional Graylog output.
type SlogManager struct {
	logger *slog.Logger
	gelf   io.Closer
}

// SetupOption configures Setup.
type SetupOption func(*setupConfig)

type setupConfig struct {
	graylogAddr string
	gelfWriter  MessageWriter
	clock       GameClock
}

// WithGraylog sends every record to a GELF UDP endpoint.
func WithGraylog(addr string) SetupOption {
	return func(c *setupConfig) {
		c.graylogAddr = addr
	}
}

// WithGelfWriter sends every record to w as a GELF message.
func WithGelfWriter(w MessageWriter) SetupOption {
	return func(c *setupConfig) {
		c.gelfWriter = w
	}
}

// WithGameClock stamps every record with the simulated time while clock
// reports one.
func WithGameClock(clock GameClock) SetupOption {
	return func(c *setupConfig) {
		c.clock = clock
	}
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. Records go to file, or to stdout
// when file is nil, plus Graylog when configured.
func (m *SlogManager) Setup(file io.Writer, level string, opts ...SetupOption) error {
	cfg := &setupConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	lvl := parseLevel(level)

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(osStdout, handlerOpts))
	}

	gelfWriter := cfg.gelfWriter
	if gelfWriter == nil && cfg.graylogAddr != "" {
		w, err := NewGelfWriter(cfg.graylogAddr)
		if err != nil {
			return fmt.Errorf("failed to connect to graylog: %w", err)
		}
		gelfWriter = w
	}
	if gelfWriter != nil {
		handlers = append(handlers, NewGelfHandler(gelfWriter, lvl))
	}

	_ = m.Close()
	if c, ok := gelfWriter.(io.Closer); ok {
		m.gelf = c
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if cfg.clock != nil {
		handler = &clockHandler{inner: handler, clock: cfg.clock}
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
	return nil
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Close releases the Graylog connection if one is open.
func (m *SlogManager) Close() error {
	if m.gelf == nil {
		return nil
	}
	err := m.gelf.Close()
	m.gelf = nil
	return err
}

// WriteLog writes a log entry with the specified function name, data, and level.
func (m *SlogManager) WriteLog(functionName, data, level string) {
	if m.logger == nil {
		return
	}
	m.logger.Log(context.Background(), parseLevel(level), data, "function", functionName)
}
