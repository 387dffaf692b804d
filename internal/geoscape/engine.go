// Package geoscape advances a saved game through time, running the hourly,
// daily and monthly updates of every base and faction.
package geoscape

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ftageo/basesim/internal/dispatcher"
	"github.com/ftageo/basesim/internal/parser"
	"github.com/ftageo/basesim/internal/rules"
	"github.com/ftageo/basesim/internal/savegame"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TickInterval is the smallest step of the geoscape clock.
const TickInterval = 5 * time.Minute

// Dispatcher receives every emitted event.
type Dispatcher interface {
	Dispatch(dispatcher.Event) (any, error)
}

// Engine runs the geoscape clock over a saved game.
type Engine struct {
	mu sync.Mutex

	game     *savegame.SavedGame
	mod      *rules.Mod
	rng      savegame.RNG
	dispatch Dispatcher
	logger   *slog.Logger
	tick     time.Duration

	events    []savegame.Event
	hourHooks []HourHook

	// clock mirrors the game time in unix nanoseconds for lock-free readers.
	clock atomic.Int64

	ticks   metric.Int64Counter
	emitted metric.Int64Counter
	effort  metric.Float64Histogram
}

// HourHook runs after the hourly update of every base.
type HourHook func(ctx context.Context, game *savegame.SavedGame)

// Option configures an Engine.
type Option func(*Engine)

// WithDispatcher sends every event to d as it is emitted.
func WithDispatcher(d Dispatcher) Option {
	return func(e *Engine) {
		e.dispatch = d
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithHourHook adds a hook run once per game hour.
func WithHourHook(h HourHook) Option {
	return func(e *Engine) {
		e.hourHooks = append(e.hourHooks, h)
	}
}

// WithTick overrides the clock step. Steps longer than an hour are clamped.
func WithTick(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tick = min(d, time.Hour)
		}
	}
}

// New creates an engine. Uses the global OTel meter for metrics.
func New(game *savegame.SavedGame, mod *rules.Mod, rng savegame.RNG, opts ...Option) (*Engine, error) {
	e := &Engine{
		game:   game,
		mod:    mod,
		rng:    rng,
		logger: slog.Default(),
		tick:   TickInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.clock.Store(game.Time.Time().UnixNano())

	m := meter()
	var err error
	e.ticks, err = m.Int64Counter(
		"geoscape.ticks",
		metric.WithDescription("Clock steps advanced"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}
	e.emitted, err = m.Int64Counter(
		"geoscape.events",
		metric.WithDescription("Simulation events emitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating event counter: %w", err)
	}
	e.effort, err = m.Float64Histogram(
		"geoscape.research.progress",
		metric.WithDescription("Hourly research progress per project"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating effort histogram: %w", err)
	}
	return e, nil
}

// Game returns the simulated save.
func (e *Engine) Game() *savegame.SavedGame {
	return e.game
}

// Now returns the current game time. Safe to call while Advance runs.
func (e *Engine) Now() time.Time {
	return time.Unix(0, e.clock.Load()).UTC()
}

// Advance moves the clock forward by d and returns the events it produced.
// Cancellation is checked between steps.
func (e *Engine) Advance(ctx context.Context, d time.Duration) ([]savegame.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.events = nil
	for remaining := d; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return e.events, err
		}
		step := min(e.tick, remaining)
		remaining -= step
		e.step(ctx, step)
	}
	return e.events, nil
}

func (e *Engine) step(ctx context.Context, d time.Duration) {
	crossed := e.game.Time.Advance(d)
	e.clock.Store(e.game.Time.Time().UnixNano())
	e.ticks.Add(ctx, 1)

	if crossed.Hour {
		e.hourly(ctx)
	}
	if crossed.Day {
		e.daily(ctx)
	}
	if crossed.Month {
		e.monthly(ctx)
	}
}

// Run advances the clock by step every interval until ctx is done.
func (e *Engine) Run(ctx context.Context, interval, step time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := e.Advance(ctx, step); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (e *Engine) emit(ctx context.Context, ev savegame.Event) {
	ev.Time = e.game.Time.Time()
	e.events = append(e.events, ev)
	e.emitted.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(ev.Kind))))

	e.logger.Debug("geoscape event",
		"kind", ev.Kind,
		"base", ev.BaseID,
		"subject", ev.Subject,
		"detail", ev.Detail,
		"value", ev.Value,
	)

	if e.dispatch == nil {
		return
	}
	_, err := e.dispatch.Dispatch(dispatcher.Event{
		Command:   ev.Kind.Command(),
		Args:      parser.EncodeEvent(ev),
		Timestamp: time.Now(),
	})
	if err != nil {
		e.logger.Warn("Failed to dispatch event", "kind", ev.Kind, "error", err)
	}
}
