package savegame

import (
	"testing"

	"github.com/ftageo/basesim/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, g *SavedGame, b *Base, mod *rules.Mod) *BasePrisoner {
	t.Helper()
	r, err := mod.Prisoner("STR_SECTOID")
	require.NoError(t, err)
	p := NewBasePrisoner(g.NewID(), "", r)
	b.AddPrisoner(p)
	return p
}

func assignAgent(t *testing.T, g *SavedGame, b *Base, mod *rules.Mod, p *BasePrisoner) *Soldier {
	t.Helper()
	s := hire(t, g, b, mod, "STR_AGENT")
	require.NoError(t, b.Assign(s.ID, Assignment{Kind: AssignPrisoner, TargetID: p.ID}))
	return s
}

func TestBasePrisoner_Containing(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	assert.Equal(t, PrisonerContaining, p.State)
	p.Health = 5
	p.Aggression = 10

	assert.Equal(t, OutcomeNone, p.Think(b, g, mod, &scriptedRNG{}))
	assert.Equal(t, 6, p.Health)
	assert.Equal(t, 41, p.Morale)
	assert.Equal(t, 9, p.Aggression)

	p.Health = 10
	p.Think(b, g, mod, &scriptedRNG{})
	assert.Equal(t, 10, p.Health)
}

func TestBasePrisoner_NoneGrowsAggression(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.SetState(b, PrisonerNone)
	p.Aggression = 100

	assert.Equal(t, OutcomeNone, p.Think(b, g, mod, &scriptedRNG{}))
	assert.Equal(t, 100, p.Aggression)
	assert.Equal(t, 41, p.Morale)
}

func TestBasePrisoner_DeadPrisoner(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.Health = 0

	assert.Equal(t, OutcomeDied, p.Think(b, g, mod, &scriptedRNG{}))
}

func TestBasePrisoner_InterrogationWithoutAgents(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.SetState(b, PrisonerInterrogation)

	assert.Equal(t, OutcomeNone, p.Think(b, g, mod, &scriptedRNG{}))
	assert.Zero(t, p.Progress)
	assert.Equal(t, 40, p.Morale)
}

func TestBasePrisoner_Interrogation(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.SetState(b, PrisonerInterrogation)
	assignAgent(t, g, b, mod, p)
	rng := &scriptedRNG{}

	assert.Equal(t, OutcomeNone, p.Think(b, g, mod, rng))
	assert.InDelta(t, 1, p.Progress, 1e-9)
	assert.Equal(t, 39, p.Morale)
	assert.Equal(t, OutcomeNone, p.Think(b, g, mod, rng))

	assert.Equal(t, OutcomeInterrogated, p.Think(b, g, mod, rng))
	assert.Equal(t, PrisonerContaining, p.State)
	assert.Zero(t, p.Progress)
	assert.True(t, g.IsDiscovered("STR_SECTOID_INTEL"))
	assert.Empty(t, p.Agents(b))
}

func TestBasePrisoner_InterrogationResisted(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.SetState(b, PrisonerInterrogation)
	p.Cooperation = 50
	p.Aggression = 50
	agent := assignAgent(t, g, b, mod, p)

	p.Think(b, g, mod, &scriptedRNG{percent: true})

	// (100+50)/(100+50) keeps full effort, the resist roll halves it
	assert.InDelta(t, 0.5, p.Progress, 1e-9)
	assert.Equal(t, 51, agent.Stats[rules.StatInterrogation])
}

func TestBasePrisoner_Torture(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.SetState(b, PrisonerTorture)
	assignAgent(t, g, b, mod, p)

	assert.Equal(t, OutcomeNone, p.Think(b, g, mod, &scriptedRNG{}))
	assert.InDelta(t, 2, p.Progress, 1e-9)
	assert.Equal(t, 9, p.Health)
	assert.Equal(t, 37, p.Morale)
	assert.Equal(t, 2, p.Aggression)
	assert.InDelta(t, 1, p.Cooperation, 1e-9)

	assert.Equal(t, OutcomeInterrogated, p.Think(b, g, mod, &scriptedRNG{}))
	assert.True(t, g.IsDiscovered("STR_SECTOID_INTEL"))
}

func TestBasePrisoner_TortureKills(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.SetState(b, PrisonerTorture)
	assignAgent(t, g, b, mod, p)
	p.Health = 1
	p.Progress = 3

	// death wins over a finished interrogation
	assert.Equal(t, OutcomeDied, p.Think(b, g, mod, &scriptedRNG{generate: []int{3}}))
	assert.False(t, g.IsDiscovered("STR_SECTOID_INTEL"))
}

func TestBasePrisoner_Recruiting(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.SetState(b, PrisonerRecruiting)
	assignAgent(t, g, b, mod, p)

	p.Aggression = 60
	assert.Equal(t, OutcomeNone, p.Think(b, g, mod, &scriptedRNG{}))
	assert.Zero(t, p.Cooperation)

	p.Aggression = 0
	assert.Equal(t, OutcomeNone, p.Think(b, g, mod, &scriptedRNG{}))
	assert.InDelta(t, 0.5, p.Cooperation, 1e-9)

	p.Cooperation = 99.5
	assert.Equal(t, OutcomeRecruited, p.Think(b, g, mod, &scriptedRNG{}))
}

func TestBasePrisoner_RecruitingNeedsQuarters(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.SetState(b, PrisonerRecruiting)
	assignAgent(t, g, b, mod, p)
	for b.AvailableQuarters() > 0 {
		hire(t, g, b, mod, "STR_RECRUIT")
	}
	p.Cooperation = 100

	assert.Equal(t, OutcomeNone, p.Think(b, g, mod, &scriptedRNG{}))
	assert.Equal(t, PrisonerRecruiting, p.State)
}

func TestBasePrisoner_SetState(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := capture(t, g, b, mod)
	p.SetState(b, PrisonerInterrogation)
	assignAgent(t, g, b, mod, p)
	p.Progress = 2

	p.SetState(b, PrisonerTorture)
	assert.Zero(t, p.Progress)
	assert.Len(t, p.Agents(b), 1)

	p.Progress = 1
	p.SetState(b, PrisonerRecruiting)
	assert.InDelta(t, 1, p.Progress, 1e-9)

	p.SetState(b, PrisonerContaining)
	assert.Empty(t, p.Agents(b))
}

func TestPrisonerOutcome_String(t *testing.T) {
	assert.Equal(t, "INTERROGATED", OutcomeInterrogated.String())
	assert.True(t, PrisonerTorture.Valid())
	assert.False(t, PrisonerState("escaped").Valid())
}
