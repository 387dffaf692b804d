package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/ftageo/basesim/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sharedMemoryDSN is the in-memory database used when no path is given.
const sharedMemoryDSN = "file::memory:?cache=shared"

// Manager handles database connections and operations.
type Manager struct {
	DB              *gorm.DB
	SqlDB           *sql.DB
	IsValid         bool
	ShouldSaveLocal bool
	SqliteFilePath  string
	Logger          zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		IsValid:         false,
		ShouldSaveLocal: false,
		Logger:          log,
	}
}

// Connect establishes a database connection, falling back to in-memory SQLite if Postgres fails.
func (m *Manager) Connect() error {
	var err error

	m.Logger.Debug().Str("host", viper.GetString("db.host")).Msg("Connecting to Postgres DB")
	m.DB, err = GetPostgresDBStandalone()
	if err == nil {
		m.SqlDB, err = m.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		err = m.SqlDB.Ping()
	}

	if err != nil {
		m.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
		m.ShouldSaveLocal = true
		m.DB, err = m.GetSqliteDB("")
		if err != nil || m.DB == nil {
			m.IsValid = false
			return fmt.Errorf("failed to get local SQLite DB: %w", err)
		}
		if m.SqlDB, err = m.DB.DB(); err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
	} else {
		m.Logger.Info().Msg("Connected to database")
		m.SqlDB.SetMaxOpenConns(10)
	}

	m.IsValid = true
	return nil
}

// GetSqliteDB returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func (m *Manager) GetSqliteDB(path string) (*gorm.DB, error) {
	db, err := GetSqliteDBStandalone(path)
	if err != nil {
		m.IsValid = false
		return nil, err
	}
	if path != "" {
		m.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	} else {
		m.Logger.Info().Msg("Using local SQLite DB in memory with periodic disk dump")
	}
	return db, nil
}

// Setup migrates every table in the save schema.
func (m *Manager) Setup() error {
	if m.DB == nil {
		return fmt.Errorf("db not connected")
	}

	m.Logger.Info().Str("dialect", m.DB.Dialector.Name()).Msg("Migrating schema")
	if err := Migrate(m.DB); err != nil {
		m.IsValid = false
		return err
	}

	m.Logger.Info().Msg("Database setup complete")
	return nil
}

// DumpMemoryToDisk vacuums the in-memory database to the manager's file path.
func (m *Manager) DumpMemoryToDisk() error {
	start := time.Now()
	if err := DumpMemoryDBToDisk(m.DB, m.SqliteFilePath); err != nil {
		return err
	}
	m.Logger.Debug().Dur("duration", time.Since(start)).Msg("Dumped memory DB to disk")
	return nil
}

// Standalone functions for direct usage without Manager

// Migrate creates or updates all tables of the save schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// PostgresDSN builds the connection string from viper config.
func PostgresDSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)
}

// GetPostgresDBStandalone returns a connection to the Postgres database using viper config.
func GetPostgresDBStandalone() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  PostgresDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        1000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GetSqliteDBStandalone returns a connection to a SQLite database.
// If path is empty, uses the shared in-memory database.
func GetSqliteDBStandalone(path string) (*gorm.DB, error) {
	if path == "" {
		path = sharedMemoryDSN
	}
	return openSqlite(path)
}

// GetSqliteMemoryDB returns a named in-memory database, isolated from the shared one.
func GetSqliteMemoryDB(name string) (*gorm.DB, error) {
	return openSqlite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}

func openSqlite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// set PRAGMAS
	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA cache_size = -32000;",
		"PRAGMA temp_store = MEMORY;",
		"PRAGMA page_size = 32768;",
		"PRAGMA mmap_size = 30000000000;",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// DumpMemoryDBToDisk vacuums the in-memory database to a disk file.
func DumpMemoryDBToDisk(db *gorm.DB, sqliteFilePath string) error {
	if sqliteFilePath == "" {
		return fmt.Errorf("sqlite file path not set")
	}

	// remove existing file if it exists
	if exists, err := os.Stat(sqliteFilePath); err == nil && exists != nil {
		if err := os.Remove(sqliteFilePath); err != nil {
			return fmt.Errorf("error removing existing DB file: %w", err)
		}
	}

	err := db.Exec("VACUUM INTO 'file:" + sqliteFilePath + "';").Error
	if err != nil {
		return fmt.Errorf("error dumping memory DB to disk: %w", err)
	}

	return nil
}

// RestoreDiskDBToMemory copies every save table from a dump file into db.
// The schema of db must already be migrated. A missing file is not an error.
func RestoreDiskDBToMemory(db *gorm.DB, sqliteFilePath string) error {
	if _, err := os.Stat(sqliteFilePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading DB file: %w", err)
	}

	// ATTACH is per connection
	return db.Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("ATTACH DATABASE ? AS disk", sqliteFilePath).Error; err != nil {
			return fmt.Errorf("error attaching DB file: %w", err)
		}
		defer conn.Exec("DETACH DATABASE disk")

		for _, m := range model.DatabaseModels {
			table := m.(interface{ TableName() string }).TableName()
			if !conn.Migrator().HasTable(m) {
				continue
			}
			if err := conn.Exec(fmt.Sprintf("DELETE FROM main.%s", table)).Error; err != nil {
				return fmt.Errorf("error clearing %s: %w", table, err)
			}
			if err := conn.Exec(fmt.Sprintf("INSERT INTO main.%s SELECT * FROM disk.%s", table, table)).Error; err != nil {
				return fmt.Errorf("error restoring %s: %w", table, err)
			}
		}
		return nil
	})
}
