package savegame

import (
	"sort"

	"github.com/ftageo/basesim/internal/rules"
)

// Effort folds a roster into the work it puts in this tick.
//
// Each member's weighted skill is scaled so that a worker at the reference
// skill is worth one unit. Members are ranked best first and member i
// contributes TeamDiminish^i of their skill. Wounded members do not count.
func Effort(roster []*Soldier, weights rules.StatWeights, c rules.Constants) float64 {
	ref := c.ReferenceSkill
	if ref <= 0 {
		ref = 1
	}

	skills := make([]float64, 0, len(roster))
	for _, s := range roster {
		if !s.Available() {
			continue
		}
		skills = append(skills, weights.WeightedSkill(s.Stats, c.DefaultSkill)/ref)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(skills)))

	total := 0.0
	factor := 1.0
	for _, skill := range skills {
		total += skill * factor
		factor *= c.TeamDiminish
	}
	return total
}

// TrainRoster rolls a skill-up for every weighted stat of every working
// member and returns how many stats went up. Stats never pass their cap.
func TrainRoster(roster []*Soldier, weights rules.StatWeights, mod *rules.Mod, rng RNG) int {
	stats := weights.Keys()
	if len(stats) == 0 {
		return 0
	}

	ups := 0
	for _, s := range roster {
		if !s.Available() {
			continue
		}
		for _, stat := range stats {
			if !rng.Percent(mod.Constants.SkillUpChance) {
				continue
			}
			if s.Stats.Get(stat) >= mod.StatCap(s.Type, stat) {
				continue
			}
			if s.Stats == nil {
				s.Stats = rules.Stats{}
			}
			s.Stats[stat]++
			ups++
		}
	}
	return ups
}
