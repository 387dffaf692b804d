package v1

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ftageo/basesim/internal/model"
	"github.com/ftageo/basesim/internal/model/convert"
	"github.com/ftageo/basesim/internal/savegame"
	"github.com/ftageo/basesim/internal/savegame/savegametest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(t *testing.T) (model.Save, []model.Event) {
	t.Helper()
	mod := savegametest.Mod(t)
	g := savegametest.Game(t, mod, "campaign")
	events := []model.Event{
		convert.EventToRecord("campaign", savegame.Event{
			Kind:      savegame.EventProductionStalled,
			Time:      savegametest.Start.Add(time.Hour),
			BaseID:    g.Bases[0].ID,
			SubjectID: 9,
			Subject:   "STR_MEDIKIT",
			Detail:    "NOT_ENOUGH_MONEY",
			Value:     -250,
		}),
	}
	return convert.SaveToRecord(g), events
}

func TestBuild(t *testing.T) {
	save, events := testRecord(t)

	export, err := Build(save, events)
	require.NoError(t, err)

	assert.Equal(t, Version, export.Version)
	assert.Equal(t, "campaign", export.Name)
	assert.Equal(t, int64(5000), export.Funds)
	assert.Equal(t, []string{"STR_BASICS"}, export.Researched)
	assert.Equal(t, []string{"STR_SECTOID_AUTOPSY"}, export.Discovered)

	require.Len(t, export.Bases, 1)
	base := export.Bases[0]
	assert.Equal(t, "Alpha", base.Name)
	assert.Equal(t, 7, base.Items["STR_ALLOY"])
	require.Len(t, base.Mercator, 2)
	assert.InDelta(t, 1491681.0, base.Mercator[0], 1.0)

	assert.Len(t, export.Facilities, 4)
	assert.Len(t, export.Soldiers, 3)
	require.Len(t, export.Events, 1)
	assert.Equal(t, "2030-03-01T13:00:00Z", export.Events[0][0])
	assert.Equal(t, "NOT_ENOUGH_MONEY", export.Events[0][5])
}

func TestBuild_EmptySave(t *testing.T) {
	export, err := Build(model.Save{Name: "empty"}, nil)
	require.NoError(t, err)

	data, err := json.Marshal(export)
	require.NoError(t, err)
	// empty collections serialize as arrays, not null
	assert.Contains(t, string(data), `"bases":[]`)
	assert.Contains(t, string(data), `"events":[]`)
	assert.Contains(t, string(data), `"researched":[]`)
}

func TestBuild_BadItems(t *testing.T) {
	save := model.Save{Bases: []model.Base{{GameID: 1, Items: []byte("{")}}}
	_, err := Build(save, nil)
	assert.ErrorContains(t, err, "base 1 items")
}

func TestRestore_ThroughJSON(t *testing.T) {
	mod := savegametest.Mod(t)
	save, events := testRecord(t)
	export, err := Build(save, events)
	require.NoError(t, err)

	data, err := json.Marshal(export)
	require.NoError(t, err)
	var decoded Export
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, restoredEvents, err := Restore(decoded)
	require.NoError(t, err)

	g, err := convert.RecordToSave(restored, mod)
	require.NoError(t, err)
	want, err := convert.RecordToSave(save, mod)
	require.NoError(t, err)
	assert.Equal(t, want.Funds, g.Funds)
	assert.Equal(t, want.Researched, g.Researched)
	require.Len(t, g.Bases, 1)
	assert.Equal(t, want.Bases[0].Items, g.Bases[0].Items)
	assert.Len(t, g.Bases[0].Soldiers, 3)

	require.Len(t, restoredEvents, 1)
	assert.Equal(t, events[0].Time, restoredEvents[0].Time)
	assert.Equal(t, events[0].Value, restoredEvents[0].Value)
	assert.Equal(t, "campaign", restoredEvents[0].SaveName)
}

func TestRestore_Errors(t *testing.T) {
	_, _, err := Restore(Export{Version: 2})
	assert.ErrorContains(t, err, "unsupported export version")

	tests := []struct {
		name string
		row  []any
	}{
		{"short row", []any{"2030-01-01T00:00:00Z"}},
		{"bad time", []any{"noon", "k", 1.0, 2.0, "s", "d", 3.0}},
		{"fractional id", []any{"2030-01-01T00:00:00Z", "k", 1.5, 2.0, "s", "d", 3.0}},
		{"string value", []any{"2030-01-01T00:00:00Z", "k", 1.0, 2.0, "s", "d", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Restore(Export{Version: Version, Events: [][]any{tt.row}})
			assert.Error(t, err)
		})
	}
}
