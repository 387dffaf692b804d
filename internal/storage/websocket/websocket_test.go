package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftageo/basesim/internal/config"
	"github.com/ftageo/basesim/internal/savegame"
	"github.com/ftageo/basesim/internal/savegame/savegametest"
	"github.com/ftageo/basesim/internal/storage/memory"
	v1 "github.com/ftageo/basesim/internal/storage/memory/export/v1"
)

// testServer upgrades to WebSocket, records received messages and acks
// save and end messages.
func testServer(t *testing.T) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ml.setSecret(r.URL.Query().Get("secret"))
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer c.Close()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var env Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			ml.add(env)

			if env.Type == TypeSave || env.Type == TypeEnd {
				data, _ := json.Marshal(AckMessage{Type: TypeAck, For: env.Type})
				if err := c.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}
		}
	}))

	return srv, ml
}

type messageLog struct {
	mu       sync.Mutex
	secret   string
	messages []Envelope
}

func (m *messageLog) add(env Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, env)
}

func (m *messageLog) setSecret(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = s
}

func (m *messageLog) dialSecret() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.secret
}

func (m *messageLog) all() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Envelope, len(m.messages))
	copy(cp, m.messages)
	return cp
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestBackend(t *testing.T, url string) (*Backend, *memory.Backend) {
	t.Helper()
	store := memory.New(config.MemoryConfig{}, savegametest.Mod(t), nil)
	return New(Config{URL: url, Secret: "hq"}, store, nil), store
}

func TestSaveAndEventsAreStreamed(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	b, store := newTestBackend(t, wsURL(srv))
	require.NoError(t, b.Init())

	g := savegametest.Game(t, savegametest.Mod(t), "campaign")
	require.NoError(t, b.SaveGame(g))

	ev := savegame.Event{
		Kind:      savegame.EventResearchFinished,
		Time:      savegametest.Start,
		BaseID:    g.Bases[0].ID,
		SubjectID: 7,
		Subject:   "STR_ALIEN_ORIGINS",
		Value:     10,
	}
	require.NoError(t, b.RecordEvent("campaign", &ev))
	require.NoError(t, b.Close())

	msgs := ml.all()
	require.Len(t, msgs, 3)
	assert.Equal(t, TypeSave, msgs[0].Type)
	assert.Equal(t, TypeEvent, msgs[1].Type)
	assert.Equal(t, TypeEnd, msgs[2].Type)
	assert.Equal(t, "hq", ml.dialSecret())

	var snapshot v1.Export
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &snapshot))
	assert.Equal(t, "campaign", snapshot.Name)
	assert.Equal(t, g.Funds, snapshot.Funds)
	assert.Len(t, snapshot.Bases, 1)

	var payload EventPayload
	require.NoError(t, json.Unmarshal(msgs[1].Payload, &payload))
	assert.Equal(t, "campaign", payload.Save)
	assert.Equal(t, "research.finished", payload.Kind)
	assert.Equal(t, "STR_ALIEN_ORIGINS", payload.Subject)
	assert.Equal(t, int64(10), payload.Value)

	// reads are served by the local store
	loaded, err := store.LoadGame("campaign")
	require.NoError(t, err)
	assert.Equal(t, g.Funds, loaded.Funds)
	events, err := b.Events("campaign")
	require.NoError(t, err)
	assert.Equal(t, []savegame.Event{ev}, events)
}

func TestInit_NoURL(t *testing.T) {
	b, _ := newTestBackend(t, "")
	assert.ErrorContains(t, b.Init(), "URL not set")
}

func TestInit_DialFails(t *testing.T) {
	srv, _ := testServer(t)
	url := wsURL(srv)
	srv.Close()

	b, _ := newTestBackend(t, url)
	assert.ErrorContains(t, b.Init(), "dial failed")
	assert.NoError(t, b.Close())
}

func TestSaveGame_LocalErrorNotStreamed(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	b, _ := newTestBackend(t, wsURL(srv))
	require.NoError(t, b.Init())

	g := savegametest.Game(t, savegametest.Mod(t), "")
	assert.Error(t, b.SaveGame(g))
	require.NoError(t, b.Close())

	msgs := ml.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, TypeEnd, msgs[0].Type)
}

func TestMarshalEnvelope(t *testing.T) {
	data, err := marshalEnvelope(TypeEnd, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"end"}`, string(data))

	data, err = marshalEnvelope(TypeEvent, EventPayload{Save: "s", Kind: "facility.built"})
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, TypeEvent, env.Type)
	var p EventPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, "facility.built", p.Kind)
}

func TestLink_AcksRouteByType(t *testing.T) {
	l := newLink(slog.Default())
	save := l.await(TypeSave)
	end := l.await(TypeEnd)
	second := l.await(TypeSave)

	l.acked(TypeSave)
	assertClosed(t, save)
	assertOpen(t, end)
	assertOpen(t, second)

	l.forget(TypeSave, second)
	l.acked(TypeSave)
	assertOpen(t, second)

	l.acked(TypeEnd)
	assertClosed(t, end)
}

func assertClosed(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	default:
		t.Fatal("waiter not resolved")
	}
}

func assertOpen(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("waiter resolved by the wrong ack")
	default:
	}
}

// droppingServer closes the first connection right after acking its save,
// then serves later connections like testServer.
func droppingServer(t *testing.T) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}
	var mu sync.Mutex
	conns := 0

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		mu.Lock()
		conns++
		first := conns == 1
		mu.Unlock()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			var env Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			if !first {
				ml.add(env)
			}
			if env.Type == TypeSave || env.Type == TypeEnd {
				data, _ := json.Marshal(AckMessage{Type: TypeAck, For: env.Type})
				if err := c.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}
			if first && env.Type == TypeSave {
				return
			}
		}
	}))
	return srv, ml
}

func TestReconnectReplaysLatestSave(t *testing.T) {
	srv, ml := droppingServer(t)
	defer srv.Close()

	b, _ := newTestBackend(t, wsURL(srv))
	b.link.retryDelay = 10 * time.Millisecond
	require.NoError(t, b.Init())

	g := savegametest.Game(t, savegametest.Mod(t), "campaign")
	require.NoError(t, b.SaveGame(g))

	require.Eventually(t, func() bool {
		return len(ml.all()) == 1 && b.link.live()
	}, 5*time.Second, 10*time.Millisecond, "save not replayed on the new connection")

	ev := savegame.Event{Kind: savegame.EventFacilityBuilt, Time: savegametest.Start, Subject: "STR_WORKSHOP"}
	require.NoError(t, b.RecordEvent("campaign", &ev))
	require.NoError(t, b.Close())

	msgs := ml.all()
	require.Len(t, msgs, 3)
	assert.Equal(t, TypeSave, msgs[0].Type)
	assert.Equal(t, TypeEvent, msgs[1].Type)
	assert.Equal(t, TypeEnd, msgs[2].Type)

	var snapshot v1.Export
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &snapshot))
	assert.Equal(t, "campaign", snapshot.Name)
}
