// Package postgres implements the storage.Backend interface on PostgreSQL.
// It wraps the GORM backend and opens its own connection when none is injected.
package postgres

import (
	"fmt"

	"github.com/ftageo/basesim/internal/database"
	gormstorage "github.com/ftageo/basesim/internal/storage/gorm"
)

// MaxOpenConns caps the connection pool.
const MaxOpenConns = 10

// Backend wraps the GORM backend for PostgreSQL.
type Backend struct {
	*gormstorage.Backend
}

// New creates a new PostgreSQL storage backend.
func New(deps gormstorage.Dependencies) *Backend {
	return &Backend{Backend: gormstorage.New(deps)}
}

// Init connects when no DB was injected via Dependencies, then migrates the
// schema and starts the DB writer goroutine.
func (b *Backend) Init() error {
	if b.DB() == nil {
		db, err := database.GetPostgresDBStandalone()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(MaxOpenConns)
		b.SetDB(db)
	}
	return b.Backend.Init()
}
