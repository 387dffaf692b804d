// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ftageo/basesim/internal/config"
	"github.com/ftageo/basesim/internal/model"
	"github.com/ftageo/basesim/internal/model/convert"
	"github.com/ftageo/basesim/internal/rules"
	"github.com/ftageo/basesim/internal/savegame"
)

// Backend keeps saves in memory and exports them as JSON campaign files.
// With an output directory it reloads earlier exports on Init and writes
// every save back on Close.
type Backend struct {
	cfg    config.MemoryConfig
	mod    *rules.Mod
	logger *slog.Logger

	saves  map[string]model.Save    // keyed by save name
	events map[string][]model.Event // keyed by save name

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig, mod *rules.Mod, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		cfg:    cfg,
		mod:    mod,
		logger: logger,
		saves:  make(map[string]model.Save),
		events: make(map[string][]model.Event),
	}
}

// Init loads campaign files from the output directory
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.loadExports()
}

// Close exports every save when an output directory is configured
func (b *Backend) Close() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	names, _ := b.ListGames()
	for _, name := range names {
		if _, err := b.Export(name); err != nil {
			return err
		}
	}
	return nil
}

// SaveGame stores a flattened copy of the game, replacing any earlier save.
func (b *Backend) SaveGame(g *savegame.SavedGame) error {
	if g.Name == "" {
		return fmt.Errorf("save has no name")
	}
	rec := convert.SaveToRecord(g)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves[g.Name] = rec
	return nil
}

// LoadGame rebuilds a fresh game from the stored copy.
func (b *Backend) LoadGame(name string) (*savegame.SavedGame, error) {
	b.mu.RLock()
	rec, ok := b.saves[name]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("save %q: %w", name, savegame.ErrSaveNotFound)
	}
	return convert.RecordToSave(rec, b.mod)
}

// ListGames returns save names in sorted order
func (b *Backend) ListGames() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.saves))
	for name := range b.saves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// RecordEvent appends an event to the save's log
func (b *Backend) RecordEvent(saveName string, e *savegame.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[saveName] = append(b.events[saveName], convert.EventToRecord(saveName, *e))
	return nil
}

// Events returns the save's events in recording order
func (b *Backend) Events(saveName string) ([]savegame.Event, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	recs := b.events[saveName]
	out := make([]savegame.Event, 0, len(recs))
	for _, r := range recs {
		out = append(out, convert.RecordToEvent(r))
	}
	return out, nil
}

// LastExportPath returns the path of the most recent export
func (b *Backend) LastExportPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
