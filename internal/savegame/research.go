package savegame

import (
	"math"

	"github.com/ftageo/basesim/internal/rules"
)

// ResearchProject is a topic being researched at a base.
type ResearchProject struct {
	ID   int
	Rule *rules.RuleResearch
	// Cost is rolled once from the rule's cost when the project starts.
	Cost    int
	Spent   float64
	Offline bool
}

// NewResearchProject starts a project with its cost spread by the mod's
// research cost range.
func NewResearchProject(id int, rule *rules.RuleResearch, c rules.Constants, rng RNG) *ResearchProject {
	cost := rule.Cost
	if c.ResearchCostMin > 0 && c.ResearchCostMax > 0 {
		cost = int(math.Round(float64(rule.Cost) * float64(rng.Generate(c.ResearchCostMin, c.ResearchCostMax)) / 100))
	}
	if cost < 1 {
		cost = 1
	}
	return &ResearchProject{ID: id, Rule: rule, Cost: cost}
}

// Scientists returns the scientists assigned to this project.
func (r *ResearchProject) Scientists(b *Base) []*Soldier {
	return b.Roster(AssignResearch, r.ID)
}

// Progress is the effort the assigned scientists put in this tick.
// Offline projects make none.
func (r *ResearchProject) Progress(b *Base, mod *rules.Mod, rng RNG) float64 {
	if r.Offline {
		return 0
	}
	roster := r.Scientists(b)
	effort := Effort(roster, r.Rule.StatWeights, mod.Constants)
	if effort == 0 {
		return 0
	}
	TrainRoster(roster, r.Rule.StatWeights, mod, rng)
	return effort
}

// Step adds this tick's progress and reports whether the project is done.
func (r *ResearchProject) Step(b *Base, mod *rules.Mod, rng RNG) bool {
	r.Spent += r.Progress(b, mod, rng)
	return r.Finished()
}

// Finished reports whether enough work has been spent.
func (r *ResearchProject) Finished() bool {
	return r.Spent >= float64(r.Cost)
}

// PercentComplete is the share of the cost spent, capped at 100.
func (r *ResearchProject) PercentComplete() int {
	if r.Cost <= 0 {
		return 100
	}
	pct := int(r.Spent * 100 / float64(r.Cost))
	if pct > 100 {
		return 100
	}
	return pct
}
