package convert

import (
	"encoding/json"
	"fmt"

	"github.com/ftageo/basesim/internal/model"
	"github.com/ftageo/basesim/internal/rules"
	"github.com/ftageo/basesim/internal/savegame"
	"gorm.io/datatypes"
)

func topicsFromJSON(data datatypes.JSON) (map[string]bool, error) {
	set := make(map[string]bool)
	if len(data) == 0 {
		return set, nil
	}
	var topics []string
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, err
	}
	for _, t := range topics {
		set[t] = true
	}
	return set, nil
}

// RecordToSave rebuilds a SavedGame from a Save record, linking every entity to its
// rule in mod. Rows whose base is missing are rejected.
func RecordToSave(rec model.Save, mod *rules.Mod) (*savegame.SavedGame, error) {
	g := savegame.NewSavedGame(rec.Name, rec.GameTime, rec.Funds)
	g.Score = rec.Score
	g.NextID = rec.NextID

	var err error
	if g.Researched, err = topicsFromJSON(rec.Researched); err != nil {
		return nil, fmt.Errorf("researched topics: %w", err)
	}
	if g.Discovered, err = topicsFromJSON(rec.Discovered); err != nil {
		return nil, fmt.Errorf("discovered topics: %w", err)
	}

	bases := make(map[int]*savegame.Base, len(rec.Bases))
	for _, br := range rec.Bases {
		b, err := RecordToBase(br)
		if err != nil {
			return nil, err
		}
		bases[b.ID] = b
		g.AddBase(b)
	}
	base := func(id int, what string, gameID int) (*savegame.Base, error) {
		b, ok := bases[id]
		if !ok {
			return nil, fmt.Errorf("%s %d references base %d: %w", what, gameID, id, savegame.ErrSaveNotFound)
		}
		return b, nil
	}

	for _, fr := range rec.Facilities {
		b, err := base(fr.BaseID, "facility", fr.GameID)
		if err != nil {
			return nil, err
		}
		f, err := RecordToFacility(fr, mod)
		if err != nil {
			return nil, err
		}
		b.AddFacility(f)
	}
	for _, sr := range rec.Soldiers {
		b, err := base(sr.BaseID, "soldier", sr.GameID)
		if err != nil {
			return nil, err
		}
		s, err := RecordToSoldier(sr)
		if err != nil {
			return nil, err
		}
		b.AddSoldier(s)
	}
	for _, pr := range rec.Productions {
		b, err := base(pr.BaseID, "production", pr.GameID)
		if err != nil {
			return nil, err
		}
		p, err := RecordToProduction(pr, mod)
		if err != nil {
			return nil, err
		}
		b.AddProduction(p)
	}
	for _, rr := range rec.Research {
		b, err := base(rr.BaseID, "research", rr.GameID)
		if err != nil {
			return nil, err
		}
		r, err := RecordToResearch(rr, mod)
		if err != nil {
			return nil, err
		}
		b.AddResearch(r)
	}
	for _, pr := range rec.Prisoners {
		b, err := base(pr.BaseID, "prisoner", pr.GameID)
		if err != nil {
			return nil, err
		}
		p, err := RecordToPrisoner(pr, mod)
		if err != nil {
			return nil, err
		}
		b.AddPrisoner(p)
	}
	for _, fr := range rec.Factions {
		f, err := RecordToFaction(fr, mod)
		if err != nil {
			return nil, err
		}
		g.Factions = append(g.Factions, f)
	}
	return g, nil
}

// RecordToBase converts a base record without its children.
func RecordToBase(r model.Base) (*savegame.Base, error) {
	b := savegame.NewBase(r.GameID, r.Name, r.Longitude, r.Latitude)
	if len(r.Items) > 0 {
		if err := json.Unmarshal(r.Items, &b.Items); err != nil {
			return nil, fmt.Errorf("base %d items: %w", r.GameID, err)
		}
	}
	if b.Items == nil {
		b.Items = make(map[string]int)
	}
	return b, nil
}

// RecordToFacility converts a facility record.
func RecordToFacility(r model.Facility, mod *rules.Mod) (*savegame.BaseFacility, error) {
	rule, err := mod.Facility(r.Type)
	if err != nil {
		return nil, fmt.Errorf("facility %d: %w", r.GameID, err)
	}
	return &savegame.BaseFacility{
		ID:           r.GameID,
		Type:         r.Type,
		Rule:         rule,
		BuildDays:    r.BuildDays,
		ProductionID: r.ProductionID,
		Disabled:     r.Disabled,
	}, nil
}

// RecordToSoldier converts a soldier record.
func RecordToSoldier(r model.Soldier) (*savegame.Soldier, error) {
	s := &savegame.Soldier{
		ID:        r.GameID,
		Name:      r.Name,
		Type:      r.Type,
		Role:      rules.Role(r.Role),
		Stats:     rules.Stats{},
		WoundDays: r.WoundDays,
		Assignment: savegame.Assignment{
			Kind:     savegame.AssignmentKind(r.AssignmentKind),
			TargetID: r.AssignmentTarget,
		},
	}
	if len(r.Stats) > 0 {
		if err := json.Unmarshal(r.Stats, &s.Stats); err != nil {
			return nil, fmt.Errorf("soldier %d stats: %w", r.GameID, err)
		}
	}
	return s, nil
}

// RecordToProduction converts a manufacture order record.
func RecordToProduction(r model.Production, mod *rules.Mod) (*savegame.Production, error) {
	rule, err := mod.Manufacture(r.Rule)
	if err != nil {
		return nil, fmt.Errorf("production %d: %w", r.GameID, err)
	}
	return &savegame.Production{
		ID:         r.GameID,
		Rule:       rule,
		Amount:     r.Amount,
		Infinite:   r.Infinite,
		Sell:       r.Sell,
		TimeSpent:  r.TimeSpent,
		Efficiency: r.Efficiency,
		FacilityID: r.FacilityID,
	}, nil
}

// RecordToResearch converts a research project record.
func RecordToResearch(r model.ResearchProject, mod *rules.Mod) (*savegame.ResearchProject, error) {
	rule, err := mod.Research(r.Rule)
	if err != nil {
		return nil, fmt.Errorf("research %d: %w", r.GameID, err)
	}
	return &savegame.ResearchProject{
		ID:      r.GameID,
		Rule:    rule,
		Cost:    r.Cost,
		Spent:   r.Spent,
		Offline: r.Offline,
	}, nil
}

// RecordToPrisoner converts a prisoner record.
func RecordToPrisoner(r model.Prisoner, mod *rules.Mod) (*savegame.BasePrisoner, error) {
	rule, err := mod.Prisoner(r.Type)
	if err != nil {
		return nil, fmt.Errorf("prisoner %d: %w", r.GameID, err)
	}
	state := savegame.PrisonerState(r.State)
	if !state.Valid() {
		return nil, fmt.Errorf("prisoner %d: unknown state %q", r.GameID, r.State)
	}
	return &savegame.BasePrisoner{
		ID:          r.GameID,
		Name:        r.Name,
		Type:        r.Type,
		Rule:        rule,
		Health:      r.Health,
		Morale:      r.Morale,
		Cooperation: r.Cooperation,
		Aggression:  r.Aggression,
		State:       state,
		Progress:    r.Progress,
	}, nil
}

// RecordToFaction converts a faction record.
func RecordToFaction(r model.Faction, mod *rules.Mod) (*savegame.DiplomacyFaction, error) {
	rule, err := mod.Faction(r.Name)
	if err != nil {
		return nil, fmt.Errorf("faction: %w", err)
	}
	return &savegame.DiplomacyFaction{
		Name:       r.Name,
		Rule:       rule,
		Reputation: r.Reputation,
		Power:      r.Power,
		Discovered: r.Discovered,
	}, nil
}

// RecordToEvent converts an event record.
func RecordToEvent(r model.Event) savegame.Event {
	return savegame.Event{
		Kind:      savegame.EventKind(r.Kind),
		Time:      r.Time.UTC(),
		BaseID:    r.BaseID,
		SubjectID: r.SubjectID,
		Subject:   r.Subject,
		Detail:    r.Detail,
		Value:     r.Value,
	}
}
