// internal/storage/storage.go
package storage

import "github.com/ftageo/basesim/internal/savegame"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Save management. SaveGame replaces any earlier save of the same name.
	SaveGame(g *savegame.SavedGame) error
	LoadGame(name string) (*savegame.SavedGame, error)
	ListGames() ([]string, error)

	// Event recording
	RecordEvent(saveName string, e *savegame.Event) error
	Events(saveName string) ([]savegame.Event, error)
}

// Exportable is an optional interface for storage backends that write
// campaign files to disk.
type Exportable interface {
	Export(saveName string) (string, error)
	LastExportPath() string
}
