// Package worker persists geoscape events that arrive through the dispatcher.
package worker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ftageo/basesim/internal/cache"
	"github.com/ftageo/basesim/internal/parser"
	"github.com/ftageo/basesim/internal/storage"
)

// ErrNoSave is returned when events arrive before a save name is set.
var ErrNoSave = errors.New("no save to record events for")

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Logger        *slog.Logger
	ParserService parser.Service
	// Counters tallies recorded events per kind. Optional.
	Counters *cache.Counters
	// SaveName is the save events are recorded against.
	SaveName string
}

// Manager manages worker goroutines
type Manager struct {
	deps    Dependencies
	backend storage.Backend
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Counters == nil {
		deps.Counters = cache.NewCounters()
	}
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

// Counts returns the number of recorded events per kind.
func (m *Manager) Counts() map[string]int {
	return m.deps.Counters.Snapshot()
}

// DBWriteDurationProvider is an optional interface that backends can implement
// to expose their last DB write duration for monitoring.
type DBWriteDurationProvider interface {
	GetLastDBWriteDuration() time.Duration
}

// GetLastDBWriteDuration returns the duration of the last DB write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	if p, ok := m.backend.(DBWriteDurationProvider); ok {
		return p.GetLastDBWriteDuration()
	}
	return 0
}

// PendingEventsProvider is implemented by backends that queue events before writing.
type PendingEventsProvider interface {
	PendingEvents() int
}

// PendingWrites returns the number of events waiting for a backend write.
func (m *Manager) PendingWrites() int {
	if p, ok := m.backend.(PendingEventsProvider); ok {
		return p.PendingEvents()
	}
	return 0
}
