package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftageo/basesim/internal/cache"
	"github.com/ftageo/basesim/internal/config"
	"github.com/ftageo/basesim/internal/parser"
	"github.com/ftageo/basesim/internal/savegame"
	"github.com/ftageo/basesim/internal/savegame/savegametest"
	"github.com/ftageo/basesim/internal/storage/memory"
	"github.com/ftageo/basesim/internal/worker"
)

var gameNoon = time.Date(2030, time.March, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, interval time.Duration) (*Service, *cache.Counters, string) {
	t.Helper()
	backend := memory.New(config.MemoryConfig{}, savegametest.Mod(t), nil)
	counters := cache.NewCounters()
	wm := worker.NewManager(worker.Dependencies{
		ParserService: parser.NewParser(nil),
		Counters:      counters,
		SaveName:      "campaign",
	}, backend)

	path := filepath.Join(t.TempDir(), "status.json")
	s := NewService(Dependencies{
		WorkerManager: wm,
		Clock:         func() time.Time { return gameNoon },
		StatusPath:    path,
		Interval:      interval,
	})
	return s, counters, path
}

func readStatus(t *testing.T, path string) Status {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.Unmarshal(data, &st))
	return st
}

func TestGetProgramStatus(t *testing.T) {
	s, counters, _ := newService(t, 0)
	counters.Add(string(savegame.EventResearchFinished), 2)

	st := s.GetProgramStatus()
	assert.Equal(t, gameNoon, st.GameTime)
	assert.Equal(t, map[string]int{"research.finished": 2}, st.Events)
	assert.Zero(t, st.PendingWrites)
	assert.Zero(t, st.LastWriteDurationMs)
	assert.WithinDuration(t, time.Now(), st.Time, time.Minute)
}

func TestStartStop_WritesFinalSnapshot(t *testing.T) {
	s, counters, path := newService(t, time.Hour)
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start())

	counters.Inc(string(savegame.EventFacilityBuilt))
	s.Stop()
	assert.False(t, s.IsRunning())

	st := readStatus(t, path)
	assert.Equal(t, gameNoon, st.GameTime)
	assert.Equal(t, 1, st.Events["facility.built"])

	s.Stop()
}

func TestStart_WritesPeriodically(t *testing.T) {
	s, counters, path := newService(t, 10*time.Millisecond)
	counters.Inc(string(savegame.EventPrisonerDied))
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && len(data) > 0 && json.Valid(data)
	}, time.Second, 5*time.Millisecond)
	s.Stop()
	assert.Equal(t, 1, readStatus(t, path).Events["prisoner.died"])
}

func TestStart_BadPath(t *testing.T) {
	s := NewService(Dependencies{
		WorkerManager: worker.NewManager(worker.Dependencies{}, nil),
		StatusPath:    filepath.Join(t.TempDir(), "missing", "status.json"),
	})
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}
