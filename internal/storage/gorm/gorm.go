// Package gormstorage implements the storage.Backend interface on GORM.
// Saves are written transactionally; events go through an internal queue
// drained by a background writer goroutine.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ftageo/basesim/internal/cache"
	"github.com/ftageo/basesim/internal/database"
	"github.com/ftageo/basesim/internal/model"
	"github.com/ftageo/basesim/internal/model/convert"
	"github.com/ftageo/basesim/internal/queue"
	"github.com/ftageo/basesim/internal/rules"
	"github.com/ftageo/basesim/internal/savegame"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultFlushInterval is how often queued events are written.
const DefaultFlushInterval = 500 * time.Millisecond

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB
	Mod           *rules.Mod
	SaveCache     *cache.SaveCache
	Logger        *slog.Logger
	FlushInterval time.Duration
}

// Backend implements storage.Backend using GORM with queue-based event writes.
type Backend struct {
	deps     Dependencies
	events   *queue.Queue[model.Event]
	stopChan chan struct{}
	done     chan struct{}

	// writeMu serializes queue drains so Events sees every flushed row.
	writeMu        sync.Mutex
	lastWriteNanos atomic.Int64
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.SaveCache == nil {
		deps.SaveCache = cache.NewSaveCache()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = DefaultFlushInterval
	}
	return &Backend{
		deps:   deps,
		events: queue.New[model.Event](),
	}
}

// DB returns the connection, nil before one is set.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Mod returns the rules saves are linked against.
func (b *Backend) Mod() *rules.Mod {
	return b.deps.Mod
}

// SetDB injects a connection. Must be called before Init.
func (b *Backend) SetDB(db *gorm.DB) {
	b.deps.DB = db
}

// Init runs schema migration and starts the DB writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("gorm backend has no database connection")
	}

	b.deps.Logger.Info("Migrating schema", "dialect", b.deps.DB.Name())
	if err := database.Migrate(b.deps.DB); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.deps.SaveCache.Reset()

	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	b.startDBWriters()
	return nil
}

// Close stops the DB writer goroutine and flushes pending events.
func (b *Backend) Close() error {
	if b.stopChan == nil {
		return nil
	}
	close(b.stopChan)
	<-b.done
	b.stopChan = nil

	if err := b.flushEvents(); err != nil {
		return fmt.Errorf("failed to flush events: %w", err)
	}
	return nil
}

// SaveGame replaces the stored save of the same name in one transaction.
func (b *Backend) SaveGame(g *savegame.SavedGame) error {
	if g.Name == "" {
		return fmt.Errorf("save has no name")
	}
	rec := convert.SaveToRecord(g)

	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		id, found, err := b.lookupSave(tx, g.Name)
		if err != nil {
			return err
		}

		root := rec
		if found {
			if err := deleteChildren(tx, id); err != nil {
				return err
			}
			root.ID = id
			err = tx.Model(&root).
				Select("UpdatedAt", "GameTime", "Funds", "Score", "NextID", "Researched", "Discovered").
				Updates(&root).Error
		} else {
			err = tx.Omit(clause.Associations).Create(&root).Error
		}
		if err != nil {
			return fmt.Errorf("failed to write save: %w", err)
		}
		rec.ID = root.ID

		return createChildren(tx, &rec)
	})
	if err != nil {
		b.deps.SaveCache.Delete(g.Name)
		b.deps.Logger.Error("Failed to store save", "save", g.Name, "error", err)
		return err
	}

	b.deps.SaveCache.Set(g.Name, rec.ID)
	b.deps.Logger.Debug("Stored save", "save", g.Name, "id", rec.ID, "game_time", rec.GameTime)
	return nil
}

// lookupSave finds the row ID of a save, consulting the cache first.
func (b *Backend) lookupSave(tx *gorm.DB, name string) (uint, bool, error) {
	if id, ok := b.deps.SaveCache.Get(name); ok {
		return id, true, nil
	}

	var existing model.Save
	err := tx.Select("id").Where("name = ?", name).Take(&existing).Error
	switch {
	case err == nil:
		return existing.ID, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("failed to find save %s: %w", name, err)
	}
}

func deleteChildren(tx *gorm.DB, saveID uint) error {
	for _, m := range model.ChildModels {
		if err := tx.Where("save_id = ?", saveID).Delete(m).Error; err != nil {
			return fmt.Errorf("failed to clear %T rows: %w", m, err)
		}
	}
	return nil
}

// createChildren stamps the save ID on every child row and inserts them.
func createChildren(tx *gorm.DB, rec *model.Save) error {
	id := rec.ID
	stamp := func(set func(i int), n int) {
		for i := 0; i < n; i++ {
			set(i)
		}
	}
	stamp(func(i int) { rec.Bases[i].SaveID = id }, len(rec.Bases))
	stamp(func(i int) { rec.Facilities[i].SaveID = id }, len(rec.Facilities))
	stamp(func(i int) { rec.Soldiers[i].SaveID = id }, len(rec.Soldiers))
	stamp(func(i int) { rec.Productions[i].SaveID = id }, len(rec.Productions))
	stamp(func(i int) { rec.Research[i].SaveID = id }, len(rec.Research))
	stamp(func(i int) { rec.Prisoners[i].SaveID = id }, len(rec.Prisoners))
	stamp(func(i int) { rec.Factions[i].SaveID = id }, len(rec.Factions))

	if err := createRows(tx, rec.Bases, "bases"); err != nil {
		return err
	}
	if err := createRows(tx, rec.Facilities, "facilities"); err != nil {
		return err
	}
	if err := createRows(tx, rec.Soldiers, "soldiers"); err != nil {
		return err
	}
	if err := createRows(tx, rec.Productions, "productions"); err != nil {
		return err
	}
	if err := createRows(tx, rec.Research, "research projects"); err != nil {
		return err
	}
	if err := createRows(tx, rec.Prisoners, "prisoners"); err != nil {
		return err
	}
	return createRows(tx, rec.Factions, "factions")
}

func createRows[T any](tx *gorm.DB, rows []T, name string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	return nil
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// LoadGame reads the full save graph and links it against the rules.
func (b *Backend) LoadGame(name string) (*savegame.SavedGame, error) {
	var rec model.Save
	err := b.deps.DB.
		Preload("Bases", byID).
		Preload("Facilities", byID).
		Preload("Soldiers", byID).
		Preload("Productions", byID).
		Preload("Research", byID).
		Preload("Prisoners", byID).
		Preload("Factions", byID).
		Where("name = ?", name).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("save %q: %w", name, savegame.ErrSaveNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load save %s: %w", name, err)
	}

	b.deps.SaveCache.Set(name, rec.ID)
	return convert.RecordToSave(rec, b.deps.Mod)
}

// ListGames returns save names in sorted order.
func (b *Backend) ListGames() ([]string, error) {
	var names []string
	if err := b.deps.DB.Model(&model.Save{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	return names, nil
}

// RecordEvent queues an event for the DB writer.
func (b *Backend) RecordEvent(saveName string, e *savegame.Event) error {
	b.events.Push(convert.EventToRecord(saveName, *e))
	return nil
}

// Events flushes the queue and returns the save's events in time order.
func (b *Backend) Events(saveName string) ([]savegame.Event, error) {
	if err := b.flushEvents(); err != nil {
		return nil, err
	}

	var recs []model.Event
	err := b.deps.DB.Where("save_name = ?", saveName).Order("time, id").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	out := make([]savegame.Event, 0, len(recs))
	for _, r := range recs {
		out = append(out, convert.RecordToEvent(r))
	}
	return out, nil
}

// PendingEvents returns the number of queued, unwritten events.
func (b *Backend) PendingEvents() int {
	return b.events.Len()
}

// GetLastDBWriteDuration returns the duration of the most recent queue drain.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	return time.Duration(b.lastWriteNanos.Load())
}

func (b *Backend) flushEvents() error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	start := time.Now()
	err := writeQueue(b.deps.DB, b.events, "events", b.deps.Logger)
	b.lastWriteNanos.Store(int64(time.Since(start)))
	return err
}

// writeQueue drains q in one transaction. Failed batches go back to the
// head of the queue.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger) error {
	if q.Empty() {
		return nil
	}

	items := q.GetAndEmpty()
	tx := db.Begin()
	if err := tx.Create(&items).Error; err != nil {
		log.Error("Error creating rows", "table", name, "count", len(items), "error", err)
		tx.Rollback()
		q.Requeue(items...)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tx.Commit().Error; err != nil {
		q.Requeue(items...)
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}

	log.Debug("Wrote rows", "table", name, "count", len(items))
	return nil
}

// startDBWriters starts the background goroutine that periodically drains the event queue.
func (b *Backend) startDBWriters() {
	ticker := time.NewTicker(b.deps.FlushInterval)
	stop, done := b.stopChan, b.done

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// errors are logged by writeQueue and retried next tick
				_ = b.flushEvents()
			}
		}
	}()
}
