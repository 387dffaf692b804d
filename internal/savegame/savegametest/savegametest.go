// Package savegametest builds small populated campaigns for storage and worker tests.
package savegametest

import (
	"testing"
	"time"

	"github.com/ftageo/basesim/internal/rules"
	"github.com/ftageo/basesim/internal/savegame"
	"github.com/stretchr/testify/require"
)

// Rules is a minimal mod covering every entity kind a save can hold.
const Rules = `
soldiers:
  - type: STR_ENGINEER
    role: engineer
    minStats: {construction: 40}
  - type: STR_SCIENTIST
    role: scientist
    minStats: {physics: 60}
  - type: STR_AGENT
    role: agent
    minStats: {interrogation: 50}

facilities:
  - type: STR_LIVING_QUARTERS
    personnel: 20
    monthlyCost: 100
  - type: STR_WORKSHOP
    workshops: 20
  - type: STR_LABORATORY
    laboratories: 20
  - type: STR_ALIEN_CONTAINMENT
    prisonCapacity: 5

manufacture:
  - name: STR_MEDIKIT
    time: 10
    cost: 50
    stats: {construction: 1}

research:
  - name: STR_ALIEN_ORIGINS
    cost: 100
    stats: {physics: 1}

prisoners:
  - type: STR_SECTOID
    health: 20
    morale: 50
    interrogationCost: 10
    interrogationStats: {interrogation: 1}

diplomacyFactions:
  - name: STR_COUNCIL
    startingReputation: 5
    reputationLevels:
      - {name: STR_NEUTRAL, minScore: -100, funding: 1000}
`

// Start is the clock of every fixture save.
var Start = time.Date(2030, time.March, 1, 12, 0, 0, 0, time.UTC)

// Mod loads Rules.
func Mod(t testing.TB) *rules.Mod {
	t.Helper()
	mod, err := rules.LoadBytes("savegametest.rul", []byte(Rules))
	require.NoError(t, err)
	return mod
}

// Game builds a save named name with one staffed base running one of every project.
func Game(t testing.TB, mod *rules.Mod, name string) *savegame.SavedGame {
	t.Helper()
	rng := savegame.NewRNG(1)
	g := savegame.NewSavedGame(name, Start, 5000)
	g.Score = 12
	g.AddFinishedResearch(&rules.RuleResearch{Name: "STR_BASICS"})
	g.AddDiscovered("STR_SECTOID_AUTOPSY")

	b := savegame.NewBase(g.NewID(), "Alpha", 13.4, 52.5)
	b.AddItem("STR_ALLOY", 7)
	for _, typ := range []string{"STR_LIVING_QUARTERS", "STR_WORKSHOP", "STR_LABORATORY", "STR_ALIEN_CONTAINMENT"} {
		r, err := mod.Facility(typ)
		require.NoError(t, err)
		b.AddFacility(&savegame.BaseFacility{ID: g.NewID(), Type: typ, Rule: r})
	}
	g.AddBase(b)

	mr, err := mod.Manufacture("STR_MEDIKIT")
	require.NoError(t, err)
	p := savegame.NewProduction(g.NewID(), mr, 3)
	p.TimeSpent = 4.5
	b.AddProduction(p)

	rr, err := mod.Research("STR_ALIEN_ORIGINS")
	require.NoError(t, err)
	r := savegame.NewResearchProject(g.NewID(), rr, mod.Constants, rng)
	r.Spent = 12.25
	b.AddResearch(r)

	pr, err := mod.Prisoner("STR_SECTOID")
	require.NoError(t, err)
	prisoner := savegame.NewBasePrisoner(g.NewID(), "", pr)
	b.AddPrisoner(prisoner)
	prisoner.SetState(b, savegame.PrisonerInterrogation)
	prisoner.Progress = 2

	assign := map[string]savegame.Assignment{
		"STR_ENGINEER":  {Kind: savegame.AssignProduction, TargetID: p.ID},
		"STR_SCIENTIST": {Kind: savegame.AssignResearch, TargetID: r.ID},
		"STR_AGENT":     {Kind: savegame.AssignPrisoner, TargetID: prisoner.ID},
	}
	for _, typ := range []string{"STR_ENGINEER", "STR_SCIENTIST", "STR_AGENT"} {
		s, err := g.SpawnSoldier(b, typ, mod, rng)
		require.NoError(t, err)
		require.NoError(t, b.Assign(s.ID, assign[typ]))
	}

	fr, err := mod.Faction("STR_COUNCIL")
	require.NoError(t, err)
	g.Factions = append(g.Factions, savegame.NewDiplomacyFaction(fr))
	return g
}
