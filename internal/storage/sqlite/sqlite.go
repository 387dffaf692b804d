// Package sqlitestorage implements the storage.Backend interface using an in-memory
// SQLite database with periodic disk dumps via VACUUM INTO.
// It wraps the GORM backend via composition. The SQLite-specific concerns are
// creating the in-memory DB, restoring the last dump on Init, and dumping to disk
// periodically and on Close.
package sqlitestorage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ftageo/basesim/internal/database"
	gormstorage "github.com/ftageo/basesim/internal/storage/gorm"

	"gorm.io/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	DumpInterval time.Duration
	DumpPath     string // Path for VACUUM INTO dumps
	// Name isolates the in-memory database. Empty uses the shared one.
	Name string
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db       *gorm.DB
	cfg      Config
	deps     gormstorage.Dependencies
	stopChan chan struct{}
	done     chan struct{}
}

// New creates a new SQLite storage backend on a fresh in-memory database.
func New(cfg Config, deps gormstorage.Dependencies) (*Backend, error) {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.Name != "" {
		db, err = database.GetSqliteMemoryDB(cfg.Name)
	} else {
		db, err = database.GetSqliteDBStandalone("")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	// shared-cache connections lock whole tables, so writes go through one connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	deps.DB = db
	return NewWithDB(cfg, deps), nil
}

// NewWithDB wraps an existing SQLite connection, e.g. the fallback of database.Manager.
func NewWithDB(cfg Config, deps gormstorage.Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Backend{
		Backend: gormstorage.New(deps),
		db:      deps.DB,
		cfg:     cfg,
		deps:    deps,
	}
}

// Init migrates the schema, restores the last dump and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.DumpPath != "" {
		if err := database.RestoreDiskDBToMemory(b.db, b.cfg.DumpPath); err != nil {
			return fmt.Errorf("failed to restore %s: %w", b.cfg.DumpPath, err)
		}
	}

	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		go b.dumpLoop()
	} else {
		close(b.done)
	}

	return nil
}

// Close stops the dump goroutine, closes the embedded GORM backend and
// writes a final dump.
func (b *Backend) Close() error {
	if b.stopChan == nil {
		return nil
	}
	close(b.stopChan)
	<-b.done
	b.stopChan = nil

	if err := b.Backend.Close(); err != nil {
		return err
	}
	if b.cfg.DumpPath == "" {
		return nil
	}
	return b.dump()
}

func (b *Backend) dump() error {
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(b.cfg.DumpPath), 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	if err := database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath); err != nil {
		b.deps.Logger.Error("Error dumping to disk", "path", b.cfg.DumpPath, "error", err)
		return err
	}
	b.deps.Logger.Debug("Dumped to disk", "path", b.cfg.DumpPath, "duration", time.Since(start))
	return nil
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via VACUUM INTO.
// VACUUM INTO creates a point-in-time snapshot, so no pause mechanism is needed.
func (b *Backend) dumpLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			_ = b.dump()
		}
	}
}
