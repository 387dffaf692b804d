// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/ftageo/basesim/internal/cache"
	"github.com/ftageo/basesim/internal/config"
	"github.com/ftageo/basesim/internal/database"
	"github.com/ftageo/basesim/internal/rules"
	gormstorage "github.com/ftageo/basesim/internal/storage/gorm"
	"github.com/ftageo/basesim/internal/storage/memory"
	"github.com/ftageo/basesim/internal/storage/postgres"
	sqlitestorage "github.com/ftageo/basesim/internal/storage/sqlite"
	"github.com/ftageo/basesim/internal/storage/websocket"
	"github.com/rs/zerolog"
)

// Dependencies are shared by every backend.
type Dependencies struct {
	Mod      *rules.Mod
	Logger   *slog.Logger
	DBLogger zerolog.Logger
}

// NewBackend creates a storage backend based on configuration.
// "auto" tries Postgres and falls back to in-memory SQLite. "websocket" keeps
// saves in the memory backend and streams them to a live viewer.
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	if deps.Mod == nil {
		return nil, fmt.Errorf("storage needs loaded rules")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	gormDeps := gormstorage.Dependencies{
		Mod:       deps.Mod,
		SaveCache: cache.NewSaveCache(),
		Logger:    deps.Logger,
	}
	sqliteCfg := sqlitestorage.Config{
		DumpInterval: cfg.SQLite.DumpInterval,
		DumpPath:     cfg.SQLite.DumpPath,
	}

	switch cfg.Type {
	case "postgres":
		return postgres.New(gormDeps), nil
	case "sqlite":
		return sqlitestorage.New(sqliteCfg, gormDeps)
	case "memory":
		return memory.New(cfg.Memory, deps.Mod, deps.Logger), nil
	case "websocket":
		store := memory.New(cfg.Memory, deps.Mod, deps.Logger)
		return websocket.New(websocket.Config{
			URL:    cfg.WebSocket.URL,
			Secret: cfg.WebSocket.Secret,
		}, store, deps.Logger), nil
	case "auto":
		m := database.NewManager(deps.DBLogger)
		if err := m.Connect(); err != nil {
			return nil, err
		}
		gormDeps.DB = m.DB
		if m.ShouldSaveLocal {
			return sqlitestorage.NewWithDB(sqliteCfg, gormDeps), nil
		}
		return postgres.New(gormDeps), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
