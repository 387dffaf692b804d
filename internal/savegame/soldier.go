package savegame

import "github.com/ftageo/basesim/internal/rules"

// AssignmentKind names what a soldier is working on.
type AssignmentKind string

const (
	AssignNone       AssignmentKind = ""
	AssignProduction AssignmentKind = "production"
	AssignResearch   AssignmentKind = "research"
	AssignPrisoner   AssignmentKind = "prisoner"
)

// Assignment links a soldier to a project by ID.
type Assignment struct {
	Kind     AssignmentKind
	TargetID int
}

// Idle reports whether the assignment is empty.
func (a Assignment) Idle() bool {
	return a.Kind == AssignNone
}

// Soldier is any base personnel: soldier, scientist, engineer or agent.
type Soldier struct {
	ID         int
	Name       string
	Type       string
	Role       rules.Role
	Stats      rules.Stats
	WoundDays  int
	Assignment Assignment
}

// NewSoldier rolls a soldier of the given type.
func NewSoldier(id int, name string, r *rules.RuleSoldier, rng RNG) *Soldier {
	stats := rules.Stats{}
	for _, stat := range r.MinStats.Keys() {
		lo := r.MinStats.Get(stat)
		hi := r.MaxStats.Get(stat)
		if hi < lo {
			hi = lo
		}
		stats[stat] = rng.Generate(lo, hi)
	}
	for _, stat := range r.MaxStats.Keys() {
		if _, ok := stats[stat]; !ok {
			stats[stat] = rng.Generate(0, r.MaxStats.Get(stat))
		}
	}
	if name == "" {
		name = r.Type
	}
	return &Soldier{
		ID:    id,
		Name:  name,
		Type:  r.Type,
		Role:  r.Role,
		Stats: stats,
	}
}

// Available reports whether the soldier can work this tick.
func (s *Soldier) Available() bool {
	return s.WoundDays <= 0
}
