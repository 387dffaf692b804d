package savegame

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ftageo/basesim/internal/rules"
)

// ErrNoStartingBase is returned when the mod defines no starting base.
var ErrNoStartingBase = errors.New("mod defines no starting base")

// NewCampaign opens a save from the mod's starting base: one base with its
// facilities built, its personnel hired and its stores filled, plus every
// diplomacy faction at its starting standing.
func NewCampaign(name string, start time.Time, funds int64, mod *rules.Mod, rng RNG) (*SavedGame, error) {
	sb := mod.StartingBase
	if sb == nil {
		return nil, ErrNoStartingBase
	}

	g := NewSavedGame(name, start, funds)
	for _, topic := range sb.Researched {
		r, err := mod.Research(topic)
		if err != nil {
			return nil, err
		}
		g.AddFinishedResearch(r)
	}

	b := NewBase(g.NewID(), sb.Name, sb.Longitude, sb.Latitude)
	for _, typ := range sb.Facilities {
		r, err := mod.Facility(typ)
		if err != nil {
			return nil, err
		}
		b.AddFacility(&BaseFacility{ID: g.NewID(), Type: typ, Rule: r})
	}
	for _, item := range sortedNames(sb.Items) {
		b.AddItem(item, sb.Items[item])
	}
	g.AddBase(b)

	for _, typ := range sortedNames(sb.Personnel) {
		for range sb.Personnel[typ] {
			if _, err := g.SpawnSoldier(b, typ, mod, rng); err != nil {
				return nil, fmt.Errorf("staffing starting base: %w", err)
			}
		}
	}

	if err := openProjects(g, b, sb, mod, rng); err != nil {
		return nil, err
	}

	for _, fn := range mod.FactionNames() {
		r, err := mod.Faction(fn)
		if err != nil {
			return nil, err
		}
		f := NewDiplomacyFaction(r)
		f.Discovered = f.Discovered || g.IsResearched(r.DiscoveredBy)
		g.Factions = append(g.Factions, f)
	}
	return g, nil
}

// openProjects starts the day-one research and manufacture orders and
// spreads idle scientists and engineers over them in turn.
func openProjects(g *SavedGame, b *Base, sb *rules.StartingBase, mod *rules.Mod, rng RNG) error {
	var labs, workshops []int
	for _, topic := range sb.Research {
		r, err := mod.Research(topic)
		if err != nil {
			return err
		}
		p := NewResearchProject(g.NewID(), r, mod.Constants, rng)
		b.AddResearch(p)
		labs = append(labs, p.ID)
	}
	for _, name := range sortedNames(sb.Manufacture) {
		r, err := mod.Manufacture(name)
		if err != nil {
			return err
		}
		p := NewProduction(g.NewID(), r, sb.Manufacture[name])
		if err := p.Start(b, g); err != nil {
			return fmt.Errorf("opening starting orders: %w", err)
		}
		b.AddProduction(p)
		workshops = append(workshops, p.ID)
	}

	staff(b, rules.RoleScientist, AssignResearch, labs)
	staff(b, rules.RoleEngineer, AssignProduction, workshops)
	return nil
}

// staff assigns idle soldiers of a role round robin, skipping full targets.
func staff(b *Base, role rules.Role, kind AssignmentKind, targets []int) {
	if len(targets) == 0 {
		return
	}
	next := 0
	for _, s := range b.Soldiers {
		if s.Role != role || !s.Assignment.Idle() {
			continue
		}
		for range targets {
			target := targets[next%len(targets)]
			next++
			if b.Assign(s.ID, Assignment{Kind: kind, TargetID: target}) == nil {
				break
			}
		}
	}
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
