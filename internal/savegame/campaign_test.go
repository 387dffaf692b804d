package savegame

import (
	"testing"

	"github.com/ftageo/basesim/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startingBaseRules = `
startingBase:
  name: Home
  longitude: 13.4
  latitude: 52.5
  facilities: [STR_LIVING_QUARTERS, STR_WORKSHOP]
  personnel: {STR_SCIENTIST: 1, STR_ENGINEER: 2}
  items: {STR_ALLOY: 5}
  researched: [STR_PHYSICS]
`

func TestNewCampaign(t *testing.T) {
	mod, err := rules.LoadBytes("test.rul", []byte(testRules+"---"+startingBaseRules))
	require.NoError(t, err)

	g, err := NewCampaign("Operation Dawn", testStart, 4000, mod, NewRNG(1))
	require.NoError(t, err)

	assert.Equal(t, "Operation Dawn", g.Name)
	assert.Equal(t, testStart, g.Time.Time())
	assert.Equal(t, int64(4000), g.Funds)
	assert.Equal(t, 5, g.Score)
	assert.True(t, g.IsResearched("STR_PHYSICS"))
	assert.True(t, g.IsDiscovered("STR_NEXT"))

	require.Len(t, g.Bases, 1)
	b := g.Bases[0]
	assert.Equal(t, "Home", b.Name)
	assert.Len(t, b.Facilities, 2)
	for _, f := range b.Facilities {
		assert.True(t, f.Built())
	}
	assert.Equal(t, 5, b.ItemCount("STR_ALLOY"))

	require.Len(t, b.Soldiers, 3)
	assert.Equal(t, "STR_ENGINEER", b.Soldiers[0].Type)
	assert.Equal(t, "STR_ENGINEER", b.Soldiers[1].Type)
	assert.Equal(t, "STR_SCIENTIST", b.Soldiers[2].Type)

	require.Len(t, g.Factions, 1)
	assert.Equal(t, "STR_COUNCIL", g.Factions[0].Name)
	assert.True(t, g.Factions[0].Discovered)
	assert.Equal(t, 10, g.Factions[0].Reputation)
}

func TestNewCampaign_NoStartingBase(t *testing.T) {
	_, err := NewCampaign("x", testStart, 0, testMod(t), NewRNG(1))
	assert.ErrorIs(t, err, ErrNoStartingBase)
}

func TestNewCampaign_NoRoom(t *testing.T) {
	mod, err := rules.LoadBytes("test.rul", []byte(testRules+`---
startingBase:
  name: Cramped
  personnel: {STR_AGENT: 1}
`))
	require.NoError(t, err)

	_, err = NewCampaign("x", testStart, 0, mod, NewRNG(1))
	assert.ErrorIs(t, err, ErrNotEnoughLivingSpace)
}

func TestNewCampaign_UnknownFacility(t *testing.T) {
	mod, err := rules.LoadBytes("test.rul", []byte(testRules+`---
startingBase:
  facilities: [STR_HANGAR]
`))
	require.NoError(t, err)

	_, err = NewCampaign("x", testStart, 0, mod, NewRNG(1))
	assert.ErrorIs(t, err, rules.ErrUnknownRule)
}

func TestNewCampaign_OpensStaffedProjects(t *testing.T) {
	mod, err := rules.LoadBytes("test.rul", []byte(testRules+`---
startingBase:
  name: Busy
  facilities: [STR_LIVING_QUARTERS, STR_WORKSHOP]
  personnel: {STR_ENGINEER: 3, STR_SCIENTIST: 2}
  items: {STR_ALLOY: 2}
  research: [STR_PHYSICS]
  manufacture: {STR_WIDGET: 2, STR_LIMITED: 1}
`))
	require.NoError(t, err)
	require.NoError(t, mod.Validate())

	g, err := NewCampaign("x", testStart, 1000, mod, NewRNG(1))
	require.NoError(t, err)
	b := g.Bases[0]

	require.Len(t, b.Research, 1)
	assert.Len(t, b.Research[0].Scientists(b), 2)

	require.Len(t, b.Productions, 2)
	limited, widget := b.Productions[0], b.Productions[1]
	assert.Equal(t, "STR_LIMITED", limited.Rule.Name)
	assert.Len(t, limited.Engineers(b), 1)
	assert.Len(t, widget.Engineers(b), 2)

	assert.Equal(t, int64(900), g.Funds)
	assert.Equal(t, 1, b.ItemCount("STR_ALLOY"))
}

func TestNewCampaign_StartingOrderTooExpensive(t *testing.T) {
	mod, err := rules.LoadBytes("test.rul", []byte(testRules+`---
startingBase:
  items: {STR_ALLOY: 1}
  manufacture: {STR_WIDGET: 1}
`))
	require.NoError(t, err)

	_, err = NewCampaign("x", testStart, 50, mod, NewRNG(1))
	assert.ErrorIs(t, err, ErrNotEnoughMoney)
}
