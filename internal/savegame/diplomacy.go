package savegame

import "github.com/ftageo/basesim/internal/rules"

// DiplomacyFaction tracks the player's standing with a faction.
type DiplomacyFaction struct {
	Name       string
	Rule       *rules.RuleDiplomacyFaction
	Reputation int
	Power      int
	Discovered bool
}

// NewDiplomacyFaction creates a faction at its starting values.
func NewDiplomacyFaction(rule *rules.RuleDiplomacyFaction) *DiplomacyFaction {
	return &DiplomacyFaction{
		Name:       rule.Name,
		Rule:       rule,
		Reputation: rule.StartingReputation,
		Power:      rule.StartingPower,
		Discovered: rule.DiscoveredBy == "",
	}
}

// Level returns the name of the current reputation level.
func (f *DiplomacyFaction) Level() string {
	l, ok := f.Rule.LevelFor(f.Reputation)
	if !ok {
		return ""
	}
	return l.Name
}

// ChangeReputation shifts the score and returns the new level name.
func (f *DiplomacyFaction) ChangeReputation(delta int) string {
	f.Reputation += delta
	return f.Level()
}

// ThinkDaily discovers the faction once its research is done, drifts
// reputation toward zero and grows power.
func (f *DiplomacyFaction) ThinkDaily(g *SavedGame) {
	if !f.Discovered && g != nil && g.IsResearched(f.Rule.DiscoveredBy) {
		f.Discovered = true
	}

	drift := f.Rule.DailyDrift
	switch {
	case drift <= 0:
	case f.Reputation > 0:
		f.Reputation = max(f.Reputation-drift, 0)
	case f.Reputation < 0:
		f.Reputation = min(f.Reputation+drift, 0)
	}

	f.Power += f.Rule.DailyPowerGrowth
	if f.Power < 0 {
		f.Power = 0
	}
}

// ThinkMonthly returns the funding the faction pays this month.
func (f *DiplomacyFaction) ThinkMonthly() int {
	if !f.Discovered {
		return 0
	}
	l, ok := f.Rule.LevelFor(f.Reputation)
	if !ok {
		return 0
	}
	return l.Funding
}
