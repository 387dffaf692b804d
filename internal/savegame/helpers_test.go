package savegame

import (
	"testing"
	"time"

	"github.com/ftageo/basesim/internal/rules"
	"github.com/stretchr/testify/require"
)

// scriptedRNG replays fixed answers. Generate pops from the queue and falls
// back to min once it is empty.
type scriptedRNG struct {
	percent  bool
	generate []int
	calls    int
}

func (r *scriptedRNG) Percent(p int) bool {
	r.calls++
	return r.percent && p > 0
}

func (r *scriptedRNG) Generate(lo, hi int) int {
	r.calls++
	if len(r.generate) == 0 {
		return lo
	}
	v := r.generate[0]
	r.generate = r.generate[1:]
	return v
}

func (r *scriptedRNG) Float64() float64 { return 0 }

const testRules = `
constants:
  teamDiminish: 0.5
  referenceSkill: 50

soldiers:
  - type: STR_ENGINEER
    role: engineer
    minStats: {construction: 50}
    statCaps: {construction: 51}
  - type: STR_SCIENTIST
    role: scientist
    minStats: {physics: 50}
  - type: STR_AGENT
    role: agent
    minStats: {interrogation: 50}
  - type: STR_RECRUIT
    role: soldier
    minStats: {strength: 30}

facilities:
  - type: STR_LIVING_QUARTERS
    personnel: 10
  - type: STR_WORKSHOP
    workshops: 10
    productionEfficiency: 0
  - type: STR_ALIEN_CONTAINMENT
    prisonCapacity: 5
  - type: STR_FABRICATOR
    workshops: 5
    productionEfficiency: 50

manufacture:
  - name: STR_WIDGET
    time: 2
    cost: 100
    sellValue: 250
    requiredItems: {STR_ALLOY: 1}
    stats: {construction: 1}
  - name: STR_CLONE
    time: 1
    spawnedPersonType: STR_RECRUIT
    stats: {construction: 1}
  - name: STR_WORKSHOP_KIT
    time: 1
    producedFacility: STR_WORKSHOP
    stats: {construction: 1}
  - name: STR_LIMITED
    time: 10
    maxEngineers: 1
    stats: {construction: 1}

research:
  - name: STR_PHYSICS
    cost: 10
    points: 5
    unlocks: [STR_NEXT]
    stats: {physics: 1}

prisoners:
  - type: STR_SECTOID
    health: 10
    morale: 40
    interrogationCost: 3
    tortureCost: 4
    interrogationResearch: STR_SECTOID_INTEL
    recruitType: STR_RECRUIT
    interrogationStats: {interrogation: 1}
    tortureStats: {interrogation: 1}
    recruitStats: {interrogation: 1}

diplomacyFactions:
  - name: STR_COUNCIL
    startingReputation: 10
    dailyDrift: 3
    startingPower: 5
    dailyPowerGrowth: 2
    discoveredBy: STR_PHYSICS
    reputationLevels:
      - {name: STR_HOSTILE, minScore: -1000, funding: 0}
      - {name: STR_NEUTRAL, minScore: -100, funding: 1000}
      - {name: STR_ALLIED, minScore: 100, funding: 5000}

battleObjects:
  - type: STR_BOMB
    armor: 5
    health: 10
    timer: 2
    burnDamage: 4
`

func testMod(t *testing.T) *rules.Mod {
	t.Helper()
	mod, err := rules.LoadBytes("test.rul", []byte(testRules))
	require.NoError(t, err)
	return mod
}

var testStart = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

// testBase returns a game with one base holding quarters, a workshop and a prison.
func testBase(t *testing.T, mod *rules.Mod) (*SavedGame, *Base) {
	t.Helper()
	g := NewSavedGame("test", testStart, 1000)
	b := NewBase(g.NewID(), "Alpha", 10, 20)
	for _, typ := range []string{"STR_LIVING_QUARTERS", "STR_WORKSHOP", "STR_ALIEN_CONTAINMENT"} {
		addFacility(t, g, b, mod, typ)
	}
	g.AddBase(b)
	return g, b
}

func addFacility(t *testing.T, g *SavedGame, b *Base, mod *rules.Mod, typ string) *BaseFacility {
	t.Helper()
	r, err := mod.Facility(typ)
	require.NoError(t, err)
	f := &BaseFacility{ID: g.NewID(), Type: typ, Rule: r}
	b.AddFacility(f)
	return f
}

func hire(t *testing.T, g *SavedGame, b *Base, mod *rules.Mod, typ string) *Soldier {
	t.Helper()
	s, err := g.SpawnSoldier(b, typ, mod, &scriptedRNG{})
	require.NoError(t, err)
	return s
}
