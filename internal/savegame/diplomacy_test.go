package savegame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiplomacyFaction_DiscoveryAndFunding(t *testing.T) {
	mod := testMod(t)
	r, err := mod.Faction("STR_COUNCIL")
	require.NoError(t, err)
	g := NewSavedGame("test", testStart, 0)
	f := NewDiplomacyFaction(r)

	assert.False(t, f.Discovered)
	assert.Zero(t, f.ThinkMonthly())

	f.ThinkDaily(g)
	assert.False(t, f.Discovered)
	assert.Equal(t, 7, f.Reputation)
	assert.Equal(t, 7, f.Power)

	g.Researched["STR_PHYSICS"] = true
	f.ThinkDaily(g)
	assert.True(t, f.Discovered)
	assert.Equal(t, "STR_NEUTRAL", f.Level())
	assert.Equal(t, 1000, f.ThinkMonthly())
}

func TestDiplomacyFaction_DriftTowardZero(t *testing.T) {
	mod := testMod(t)
	r, err := mod.Faction("STR_COUNCIL")
	require.NoError(t, err)

	tests := []struct {
		name  string
		start int
		want  int
	}{
		{"positive", 10, 7},
		{"small positive", 2, 0},
		{"negative", -10, -7},
		{"small negative", -2, 0},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDiplomacyFaction(r)
			f.Reputation = tt.start
			f.ThinkDaily(nil)
			assert.Equal(t, tt.want, f.Reputation)
		})
	}
}

func TestDiplomacyFaction_ChangeReputation(t *testing.T) {
	mod := testMod(t)
	r, err := mod.Faction("STR_COUNCIL")
	require.NoError(t, err)
	f := NewDiplomacyFaction(r)
	f.Discovered = true

	assert.Equal(t, "STR_ALLIED", f.ChangeReputation(200))
	assert.Equal(t, 5000, f.ThinkMonthly())
	assert.Equal(t, "STR_HOSTILE", f.ChangeReputation(-500))
	assert.Zero(t, f.ThinkMonthly())
}
