package rules

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrUnknownRule is returned when a lookup names a rule the mod does not define.
var ErrUnknownRule = errors.New("unknown rule")

// Mod is the merged rule set of every loaded ruleset file.
type Mod struct {
	Constants Constants
	// StartingBase is nil when no ruleset defines one.
	StartingBase *StartingBase

	soldiers      map[string]*RuleSoldier
	facilities    map[string]*RuleFacility
	manufacture   map[string]*RuleManufacture
	research      map[string]*RuleResearch
	prisoners     map[string]*RulePrisoner
	factions      map[string]*RuleDiplomacyFaction
	battleObjects map[string]*RuleBattleObject
}

// NewMod returns an empty mod with stock constants.
func NewMod() *Mod {
	return &Mod{
		Constants:     DefaultConstants(),
		soldiers:      make(map[string]*RuleSoldier),
		facilities:    make(map[string]*RuleFacility),
		manufacture:   make(map[string]*RuleManufacture),
		research:      make(map[string]*RuleResearch),
		prisoners:     make(map[string]*RulePrisoner),
		factions:      make(map[string]*RuleDiplomacyFaction),
		battleObjects: make(map[string]*RuleBattleObject),
	}
}

func lookup[T any](m map[string]*T, kind, name string) (*T, error) {
	if r, ok := m[name]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%s %q: %w", kind, name, ErrUnknownRule)
}

func sortedKeys[T any](m map[string]*T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Soldier returns the personnel rule for a type.
func (m *Mod) Soldier(typ string) (*RuleSoldier, error) {
	return lookup(m.soldiers, "soldier", typ)
}

// Facility returns the facility rule for a type.
func (m *Mod) Facility(typ string) (*RuleFacility, error) {
	return lookup(m.facilities, "facility", typ)
}

// Manufacture returns the manufacture rule for a project name.
func (m *Mod) Manufacture(name string) (*RuleManufacture, error) {
	return lookup(m.manufacture, "manufacture", name)
}

// Research returns the research rule for a topic name.
func (m *Mod) Research(name string) (*RuleResearch, error) {
	return lookup(m.research, "research", name)
}

// Prisoner returns the containment rule for a unit type.
func (m *Mod) Prisoner(typ string) (*RulePrisoner, error) {
	return lookup(m.prisoners, "prisoner", typ)
}

// Faction returns the diplomacy rule for a faction name.
func (m *Mod) Faction(name string) (*RuleDiplomacyFaction, error) {
	return lookup(m.factions, "faction", name)
}

// BattleObject returns the battlescape object rule for a type.
func (m *Mod) BattleObject(typ string) (*RuleBattleObject, error) {
	return lookup(m.battleObjects, "battle object", typ)
}

// SoldierTypes lists personnel types in name order.
func (m *Mod) SoldierTypes() []string { return sortedKeys(m.soldiers) }

// FacilityTypes lists facility types in name order.
func (m *Mod) FacilityTypes() []string { return sortedKeys(m.facilities) }

// ManufactureNames lists manufacture projects in name order.
func (m *Mod) ManufactureNames() []string { return sortedKeys(m.manufacture) }

// ResearchNames lists research topics in name order.
func (m *Mod) ResearchNames() []string { return sortedKeys(m.research) }

// PrisonerTypes lists prisoner unit types in name order.
func (m *Mod) PrisonerTypes() []string { return sortedKeys(m.prisoners) }

// FactionNames lists factions in name order.
func (m *Mod) FactionNames() []string { return sortedKeys(m.factions) }

// BattleObjectTypes lists battlescape object types in name order.
func (m *Mod) BattleObjectTypes() []string { return sortedKeys(m.battleObjects) }

// StatCap returns the cap for a stat of a personnel type.
func (m *Mod) StatCap(soldierType string, id StatID) int {
	if r, ok := m.soldiers[soldierType]; ok {
		if v, ok := r.StatCaps[id]; ok {
			return v
		}
	}
	return m.Constants.DefaultCap
}

// Validate checks cross references between rules.
func (m *Mod) Validate() error {
	var errs []error
	for _, name := range m.ManufactureNames() {
		r := m.manufacture[name]
		if r.ProducedFacility != "" {
			if _, ok := m.facilities[r.ProducedFacility]; !ok {
				errs = append(errs, fmt.Errorf("manufacture %q produces unknown facility %q", name, r.ProducedFacility))
			}
		}
		if r.SpawnedPersonType != "" {
			if _, ok := m.soldiers[r.SpawnedPersonType]; !ok {
				errs = append(errs, fmt.Errorf("manufacture %q spawns unknown soldier type %q", name, r.SpawnedPersonType))
			}
		}
		for _, f := range r.RequiredFacilities {
			if _, ok := m.facilities[f]; !ok {
				errs = append(errs, fmt.Errorf("manufacture %q requires unknown facility %q", name, f))
			}
		}
	}
	for _, name := range m.ResearchNames() {
		for _, dep := range m.research[name].Dependencies {
			if _, ok := m.research[dep]; !ok {
				errs = append(errs, fmt.Errorf("research %q depends on unknown topic %q", name, dep))
			}
		}
	}
	for _, typ := range m.PrisonerTypes() {
		r := m.prisoners[typ]
		if r.RecruitType != "" {
			if _, ok := m.soldiers[r.RecruitType]; !ok {
				errs = append(errs, fmt.Errorf("prisoner %q recruits into unknown soldier type %q", typ, r.RecruitType))
			}
		}
		if r.InterrogationResearch != "" {
			if _, ok := m.research[r.InterrogationResearch]; !ok {
				errs = append(errs, fmt.Errorf("prisoner %q unlocks unknown research %q", typ, r.InterrogationResearch))
			}
		}
	}
	if sb := m.StartingBase; sb != nil {
		for _, f := range sb.Facilities {
			if _, ok := m.facilities[f]; !ok {
				errs = append(errs, fmt.Errorf("starting base has unknown facility %q", f))
			}
		}
		for typ := range sb.Personnel {
			if _, ok := m.soldiers[typ]; !ok {
				errs = append(errs, fmt.Errorf("starting base hires unknown soldier type %q", typ))
			}
		}
		for _, topic := range append(slices.Clone(sb.Researched), sb.Research...) {
			if _, ok := m.research[topic]; !ok {
				errs = append(errs, fmt.Errorf("starting base knows unknown research %q", topic))
			}
		}
		for name := range sb.Manufacture {
			if _, ok := m.manufacture[name]; !ok {
				errs = append(errs, fmt.Errorf("starting base orders unknown manufacture %q", name))
			}
		}
	}
	return errors.Join(errs...)
}
