// Package websocket streams campaign saves and geoscape events to a live
// viewer while a local store keeps serving reads.
package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ftageo/basesim/internal/model/convert"
	"github.com/ftageo/basesim/internal/savegame"
	v1 "github.com/ftageo/basesim/internal/storage/memory/export/v1"
)

// Message types.
const (
	TypeSave  = "save"
	TypeEvent = "event"
	TypeEnd   = "end"
	TypeAck   = "ack"
)

// Envelope wraps every message sent to the viewer.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AckMessage is sent by the viewer after a save or end message.
type AckMessage struct {
	Type string `json:"type"`
	For  string `json:"for"`
}

// EventPayload is one geoscape event of a save.
type EventPayload struct {
	Save      string    `json:"save"`
	Time      time.Time `json:"time"`
	Kind      string    `json:"kind"`
	BaseID    int       `json:"baseId"`
	SubjectID int       `json:"subjectId"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
	Value     int64     `json:"value"`
}

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Store is the local backend serving reads. It has the method set of
// storage.Backend.
type Store interface {
	Init() error
	Close() error
	SaveGame(g *savegame.SavedGame) error
	LoadGame(name string) (*savegame.SavedGame, error)
	ListGames() ([]string, error)
	RecordEvent(saveName string, e *savegame.Event) error
	Events(saveName string) ([]savegame.Event, error)
}

// Backend writes through to Store and streams every write to the viewer.
type Backend struct {
	Store
	link *link
	cfg  Config
}

// New creates a new WebSocket storage backend over store.
func New(cfg Config, store Store, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		Store: store,
		link:  newLink(logger),
		cfg:   cfg,
	}
}

// Init opens the local store and connects to the viewer.
func (b *Backend) Init() error {
	if b.cfg.URL == "" {
		return fmt.Errorf("websocket URL not set")
	}
	if err := b.Store.Init(); err != nil {
		return err
	}
	if err := b.link.open(b.cfg.URL, b.cfg.Secret); err != nil {
		_ = b.Store.Close()
		return err
	}
	return nil
}

// Close waits for the viewer to ack everything sent so far, then disconnects
// and closes the local store.
func (b *Backend) Close() error {
	var endErr error
	if b.link.live() {
		endErr = b.sendAndWait(TypeEnd, nil)
	}
	return errors.Join(endErr, b.link.close(), b.Store.Close())
}

// SaveGame stores the game locally and sends the snapshot to the viewer.
func (b *Backend) SaveGame(g *savegame.SavedGame) error {
	if err := b.Store.SaveGame(g); err != nil {
		return err
	}

	snapshot, err := v1.Build(convert.SaveToRecord(g), nil)
	if err != nil {
		return fmt.Errorf("building save snapshot: %w", err)
	}
	data, err := marshalEnvelope(TypeSave, snapshot)
	if err != nil {
		return err
	}

	// replayed first if the viewer reconnects
	b.link.rememberSave(data)
	return b.link.sendAndWait(TypeSave, data, ackTimeout)
}

// RecordEvent stores the event locally and streams it without waiting.
func (b *Backend) RecordEvent(saveName string, e *savegame.Event) error {
	if err := b.Store.RecordEvent(saveName, e); err != nil {
		return err
	}
	return b.send(TypeEvent, EventPayload{
		Save:      saveName,
		Time:      e.Time.UTC(),
		Kind:      string(e.Kind),
		BaseID:    e.BaseID,
		SubjectID: e.SubjectID,
		Subject:   e.Subject,
		Detail:    e.Detail,
		Value:     e.Value,
	})
}

// PendingEvents reports messages waiting for the write loop.
func (b *Backend) PendingEvents() int {
	return len(b.link.queue)
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
		}
		env.Payload = raw
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

func (b *Backend) send(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	if !b.link.enqueue(data) {
		return fmt.Errorf("send queue full: %s", msgType)
	}
	return nil
}

func (b *Backend) sendAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return b.link.sendAndWait(msgType, data, ackTimeout)
}
