package savegame

import (
	"fmt"

	"github.com/ftageo/basesim/internal/rules"
)

// PrisonerState is what the base is doing with a prisoner.
type PrisonerState string

const (
	PrisonerNone          PrisonerState = "none"
	PrisonerContaining    PrisonerState = "containing"
	PrisonerInterrogation PrisonerState = "interrogation"
	PrisonerTorture       PrisonerState = "torture"
	PrisonerRecruiting    PrisonerState = "recruiting"
)

// Valid reports whether s is a known state.
func (s PrisonerState) Valid() bool {
	switch s {
	case PrisonerNone, PrisonerContaining, PrisonerInterrogation, PrisonerTorture, PrisonerRecruiting:
		return true
	}
	return false
}

// working reports whether the state needs agents.
func (s PrisonerState) working() bool {
	return s == PrisonerInterrogation || s == PrisonerTorture || s == PrisonerRecruiting
}

// PrisonerOutcome is the result of one prisoner think.
type PrisonerOutcome int

const (
	OutcomeNone PrisonerOutcome = iota
	OutcomeDied
	OutcomeInterrogated
	OutcomeRecruited
)

func (o PrisonerOutcome) String() string {
	switch o {
	case OutcomeNone:
		return "NONE"
	case OutcomeDied:
		return "DIED"
	case OutcomeInterrogated:
		return "INTERROGATED"
	case OutcomeRecruited:
		return "RECRUITED"
	}
	return fmt.Sprintf("PrisonerOutcome(%d)", int(o))
}

// BasePrisoner is a captured unit held at a base.
type BasePrisoner struct {
	ID          int
	Name        string
	Type        string
	Rule        *rules.RulePrisoner
	Health      int
	Morale      int
	Cooperation float64
	Aggression  int
	State       PrisonerState
	// Progress accumulates interrogation or torture effort.
	Progress float64
}

// NewBasePrisoner puts a unit of the given type into containment.
func NewBasePrisoner(id int, name string, rule *rules.RulePrisoner) *BasePrisoner {
	if name == "" {
		name = rule.Type
	}
	return &BasePrisoner{
		ID:          id,
		Name:        name,
		Type:        rule.Type,
		Rule:        rule,
		Health:      rule.MaxHealth,
		Morale:      rule.Morale,
		Cooperation: float64(rule.Cooperation),
		Aggression:  rule.Aggression,
		State:       PrisonerContaining,
	}
}

// Agents returns the agents assigned to this prisoner.
func (p *BasePrisoner) Agents(b *Base) []*Soldier {
	return b.Roster(AssignPrisoner, p.ID)
}

// SetState switches what the base does with the prisoner. Switching between
// interrogation and torture restarts progress. Dropping to none or
// containing sends the agents back to idle.
func (p *BasePrisoner) SetState(b *Base, s PrisonerState) {
	if s == p.State {
		return
	}
	if (p.State == PrisonerInterrogation || p.State == PrisonerTorture) &&
		(s == PrisonerInterrogation || s == PrisonerTorture) {
		p.Progress = 0
	}
	if !s.working() && b != nil {
		b.Release(AssignPrisoner, p.ID)
	}
	p.State = s
}

func (p *BasePrisoner) weights() rules.StatWeights {
	switch p.State {
	case PrisonerInterrogation:
		return p.Rule.InterrogationWeights
	case PrisonerTorture:
		return p.Rule.TortureWeights
	case PrisonerRecruiting:
		return p.Rule.RecruitWeights
	}
	return nil
}

// Think runs one hour of containment.
func (p *BasePrisoner) Think(b *Base, g *SavedGame, mod *rules.Mod, rng RNG) PrisonerOutcome {
	if p.Health <= 0 {
		return OutcomeDied
	}
	c := mod.Constants

	switch p.State {
	case PrisonerNone, "":
		p.Morale = clamp(p.Morale+c.PrisonerMoraleRegen, 0, 100)
		p.Aggression = clamp(p.Aggression+c.PrisonerAggressionGrow, 0, 100)
		return OutcomeNone
	case PrisonerContaining:
		p.Health = clamp(p.Health+c.PrisonerHealthRegen, 0, p.Rule.MaxHealth)
		p.Morale = clamp(p.Morale+c.PrisonerMoraleRegen, 0, 100)
		p.Aggression = clamp(p.Aggression-c.PrisonerAggressionDecay, 0, 100)
		return OutcomeNone
	}

	roster := p.Agents(b)
	weights := p.weights()
	effort := Effort(roster, weights, c)
	if effort == 0 {
		return OutcomeNone
	}
	defer TrainRoster(roster, weights, mod, rng)

	switch p.State {
	case PrisonerInterrogation:
		return p.interrogate(b, g, effort, c, rng)
	case PrisonerTorture:
		return p.torture(b, g, effort, c, rng)
	case PrisonerRecruiting:
		return p.recruit(b, effort, c)
	}
	return OutcomeNone
}

func (p *BasePrisoner) interrogate(b *Base, g *SavedGame, effort float64, c rules.Constants, rng RNG) PrisonerOutcome {
	work := effort * (100 + p.Cooperation) / float64(100+p.Aggression)
	if c.ResistDivisor > 0 && rng.Percent(p.Morale/c.ResistDivisor) {
		work /= 2
	}
	p.Progress += work
	p.Morale = clamp(p.Morale-1, 0, 100)

	if p.Progress >= float64(p.Rule.InterrogationCost) {
		p.finishInterrogation(b, g)
		return OutcomeInterrogated
	}
	return OutcomeNone
}

func (p *BasePrisoner) torture(b *Base, g *SavedGame, effort float64, c rules.Constants, rng RNG) PrisonerOutcome {
	p.Progress += effort * c.TortureMultiplier
	p.Health -= rng.Generate(c.TortureDamageMin, c.TortureDamageMax)
	p.Morale = clamp(p.Morale-3, 0, 100)
	p.Aggression = clamp(p.Aggression+2, 0, 100)
	p.Cooperation = min(p.Cooperation+1, 100)

	if p.Health <= 0 {
		return OutcomeDied
	}
	if p.Progress >= float64(p.Rule.TortureCost) {
		p.finishInterrogation(b, g)
		return OutcomeInterrogated
	}
	return OutcomeNone
}

func (p *BasePrisoner) finishInterrogation(b *Base, g *SavedGame) {
	if g != nil && p.Rule.InterrogationResearch != "" {
		g.AddDiscovered(p.Rule.InterrogationResearch)
	}
	p.Progress = 0
	p.SetState(b, PrisonerContaining)
}

func (p *BasePrisoner) recruit(b *Base, effort float64, c rules.Constants) PrisonerOutcome {
	if p.Aggression > c.RecruitAggressionLimit {
		return OutcomeNone
	}
	p.Cooperation = min(p.Cooperation+effort*c.RecruitRate, 100)
	if p.Cooperation < 100 {
		return OutcomeNone
	}
	if p.Rule.RecruitType == "" || b.AvailableQuarters() <= 0 {
		return OutcomeNone
	}
	return OutcomeRecruited
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
