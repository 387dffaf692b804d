package rules

import "sort"

// StatID names a single personnel stat.
type StatID string

// Combat stats
const (
	StatHealth   StatID = "health"
	StatBravery  StatID = "bravery"
	StatStrength StatID = "strength"
)

// Research stats
const (
	StatPhysics         StatID = "physics"
	StatChemistry       StatID = "chemistry"
	StatBiology         StatID = "biology"
	StatInsight         StatID = "insight"
	StatData            StatID = "data"
	StatComputers       StatID = "computers"
	StatMaterials       StatID = "materials"
	StatDesigning       StatID = "designing"
	StatPsionics        StatID = "psionics"
	StatXenolinguistics StatID = "xenolinguistics"
)

// Engineering stats
const (
	StatWeaponry           StatID = "weaponry"
	StatExplosives         StatID = "explosives"
	StatMicroelectronics   StatID = "microelectronics"
	StatMetallurgy         StatID = "metallurgy"
	StatProcessing         StatID = "processing"
	StatEfficiency         StatID = "efficiency"
	StatDiligence          StatID = "diligence"
	StatHacking            StatID = "hacking"
	StatConstruction       StatID = "construction"
	StatReverseEngineering StatID = "reverseEngineering"
)

// Intel stats
const (
	StatStealth       StatID = "stealth"
	StatPerception    StatID = "perception"
	StatCharisma      StatID = "charisma"
	StatInvestigation StatID = "investigation"
	StatDeception     StatID = "deception"
	StatInterrogation StatID = "interrogation"
)

var allStats = []StatID{
	StatHealth, StatBravery, StatStrength,
	StatPhysics, StatChemistry, StatBiology, StatInsight, StatData,
	StatComputers, StatMaterials, StatDesigning, StatPsionics, StatXenolinguistics,
	StatWeaponry, StatExplosives, StatMicroelectronics, StatMetallurgy, StatProcessing,
	StatEfficiency, StatDiligence, StatHacking, StatConstruction, StatReverseEngineering,
	StatStealth, StatPerception, StatCharisma, StatInvestigation, StatDeception, StatInterrogation,
}

var statOrder = func() map[StatID]int {
	m := make(map[StatID]int, len(allStats))
	for i, s := range allStats {
		m[s] = i
	}
	return m
}()

// AllStats returns every known stat in deterministic order.
func AllStats() []StatID {
	out := make([]StatID, len(allStats))
	copy(out, allStats)
	return out
}

// IsKnownStat reports whether id is part of the stat set.
func IsKnownStat(id StatID) bool {
	_, ok := statOrder[id]
	return ok
}

// sortStats orders ids by AllStats order, unknown ids last by name.
func sortStats(ids []StatID) {
	sort.Slice(ids, func(i, j int) bool {
		oi, iok := statOrder[ids[i]]
		oj, jok := statOrder[ids[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return ids[i] < ids[j]
		}
	})
}

// Stats is a stat block. Missing stats read as zero.
type Stats map[StatID]int

// Get returns the value of a stat, zero if absent.
func (s Stats) Get(id StatID) int {
	if s == nil {
		return 0
	}
	return s[id]
}

// Clone returns an independent copy.
func (s Stats) Clone() Stats {
	if s == nil {
		return Stats{}
	}
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Keys returns the stats present in the block in deterministic order.
func (s Stats) Keys() []StatID {
	keys := make([]StatID, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sortStats(keys)
	return keys
}

// StatWeights weights stats when folding a stat block into one skill value.
type StatWeights map[StatID]int

// Keys returns the weighted stats in deterministic order.
func (w StatWeights) Keys() []StatID {
	keys := make([]StatID, 0, len(w))
	for k, v := range w {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	sortStats(keys)
	return keys
}

// Total is the sum of positive weights.
func (w StatWeights) Total() int {
	total := 0
	for _, v := range w {
		if v > 0 {
			total += v
		}
	}
	return total
}

// WeightedSkill folds a stat block into a single skill value.
// With no positive weights the fallback is returned.
func (w StatWeights) WeightedSkill(s Stats, fallback float64) float64 {
	total := w.Total()
	if total == 0 {
		return fallback
	}
	sum := 0
	for _, id := range w.Keys() {
		sum += s.Get(id) * w[id]
	}
	return float64(sum) / float64(total)
}
