package worker

import (
	"fmt"

	"github.com/ftageo/basesim/internal/dispatcher"
	"github.com/ftageo/basesim/internal/savegame"
)

// QueueSize is the buffer of every event handler.
const QueueSize = 1000

// RegisterHandlers registers a handler for every geoscape event command.
// Handlers are buffered and block when full so no event is dropped.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	for _, kind := range savegame.EventKinds() {
		d.Register(kind.Command(), m.handleEvent, dispatcher.Buffered(QueueSize), dispatcher.Blocking(), dispatcher.Logged())
	}
}

func (m *Manager) handleEvent(e dispatcher.Event) (any, error) {
	if m.deps.SaveName == "" {
		return nil, ErrNoSave
	}

	ev, err := m.deps.ParserService.ParseEvent(e.Command, e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}

	if err := m.backend.RecordEvent(m.deps.SaveName, &ev); err != nil {
		return nil, fmt.Errorf("failed to record %s: %w", ev.Kind, err)
	}
	m.deps.Counters.Inc(string(ev.Kind))

	if ev.Kind == savegame.EventProductionStalled {
		m.deps.Logger.Warn("Production stalled",
			"base", ev.BaseID,
			"item", ev.Subject,
			"reason", ev.Detail,
		)
	}
	return nil, nil
}
