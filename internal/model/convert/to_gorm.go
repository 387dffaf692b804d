// Package convert maps between savegame entities and GORM records
package convert

import (
	"encoding/json"
	"sort"

	"github.com/ftageo/basesim/internal/geo"
	"github.com/ftageo/basesim/internal/model"
	"github.com/ftageo/basesim/internal/savegame"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// toJSON marshals v for a JSON column, falling back to empty.
func toJSON(v any, empty string) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return datatypes.JSON(empty)
	}
	return datatypes.JSON(data)
}

// topicsToJSON stores a topic set as a sorted JSON array.
func topicsToJSON(set map[string]bool) datatypes.JSON {
	topics := make([]string, 0, len(set))
	for name, ok := range set {
		if ok {
			topics = append(topics, name)
		}
	}
	sort.Strings(topics)
	return toJSON(topics, "[]")
}

// locationPoint projects a base location. Out of range coordinates store an empty point.
func locationPoint(lon, lat float64) geom.Point {
	p, err := geo.Point3857From4326(lon, lat)
	if err != nil {
		return geom.Point{}
	}
	return p
}

// SaveToRecord flattens a SavedGame into a Save record with all child rows.
// Record IDs are left zero so the graph can be inserted fresh.
func SaveToRecord(g *savegame.SavedGame) model.Save {
	rec := model.Save{
		Name:       g.Name,
		GameTime:   g.Time.Time(),
		Funds:      g.Funds,
		Score:      g.Score,
		NextID:     g.NextID,
		Researched: topicsToJSON(g.Researched),
		Discovered: topicsToJSON(g.Discovered),
	}

	for _, b := range g.Bases {
		rec.Bases = append(rec.Bases, BaseToRecord(b))
		for _, f := range b.Facilities {
			rec.Facilities = append(rec.Facilities, FacilityToRecord(b.ID, f))
		}
		for _, s := range b.Soldiers {
			rec.Soldiers = append(rec.Soldiers, SoldierToRecord(b.ID, s))
		}
		for _, p := range b.Productions {
			rec.Productions = append(rec.Productions, ProductionToRecord(b.ID, p))
		}
		for _, r := range b.Research {
			rec.Research = append(rec.Research, ResearchToRecord(b.ID, r))
		}
		for _, p := range b.Prisoners {
			rec.Prisoners = append(rec.Prisoners, PrisonerToRecord(b.ID, p))
		}
	}
	for _, f := range g.Factions {
		rec.Factions = append(rec.Factions, FactionToRecord(f))
	}
	return rec
}

// BaseToRecord converts a base without its children.
func BaseToRecord(b *savegame.Base) model.Base {
	return model.Base{
		GameID:    b.ID,
		Name:      b.Name,
		Longitude: b.Longitude,
		Latitude:  b.Latitude,
		Location:  locationPoint(b.Longitude, b.Latitude),
		Items:     toJSON(b.Items, "{}"),
	}
}

// FacilityToRecord converts a base facility.
func FacilityToRecord(baseID int, f *savegame.BaseFacility) model.Facility {
	return model.Facility{
		BaseID:       baseID,
		GameID:       f.ID,
		Type:         f.Type,
		BuildDays:    f.BuildDays,
		ProductionID: f.ProductionID,
		Disabled:     f.Disabled,
	}
}

// SoldierToRecord converts a soldier.
func SoldierToRecord(baseID int, s *savegame.Soldier) model.Soldier {
	return model.Soldier{
		BaseID:           baseID,
		GameID:           s.ID,
		Name:             s.Name,
		Type:             s.Type,
		Role:             string(s.Role),
		Stats:            toJSON(s.Stats, "{}"),
		WoundDays:        s.WoundDays,
		AssignmentKind:   string(s.Assignment.Kind),
		AssignmentTarget: s.Assignment.TargetID,
	}
}

// ProductionToRecord converts a manufacture order.
func ProductionToRecord(baseID int, p *savegame.Production) model.Production {
	return model.Production{
		BaseID:     baseID,
		GameID:     p.ID,
		Rule:       p.Rule.Name,
		Amount:     p.Amount,
		Infinite:   p.Infinite,
		Sell:       p.Sell,
		TimeSpent:  p.TimeSpent,
		Efficiency: p.Efficiency,
		FacilityID: p.FacilityID,
	}
}

// ResearchToRecord converts a research project.
func ResearchToRecord(baseID int, r *savegame.ResearchProject) model.ResearchProject {
	return model.ResearchProject{
		BaseID:  baseID,
		GameID:  r.ID,
		Rule:    r.Rule.Name,
		Cost:    r.Cost,
		Spent:   r.Spent,
		Offline: r.Offline,
	}
}

// PrisonerToRecord converts a prisoner.
func PrisonerToRecord(baseID int, p *savegame.BasePrisoner) model.Prisoner {
	return model.Prisoner{
		BaseID:      baseID,
		GameID:      p.ID,
		Name:        p.Name,
		Type:        p.Type,
		Health:      p.Health,
		Morale:      p.Morale,
		Cooperation: p.Cooperation,
		Aggression:  p.Aggression,
		State:       string(p.State),
		Progress:    p.Progress,
	}
}

// FactionToRecord converts a diplomacy faction.
func FactionToRecord(f *savegame.DiplomacyFaction) model.Faction {
	return model.Faction{
		Name:       f.Name,
		Reputation: f.Reputation,
		Power:      f.Power,
		Discovered: f.Discovered,
	}
}

// EventToRecord converts an event for the given save.
func EventToRecord(saveName string, e savegame.Event) model.Event {
	return model.Event{
		SaveName:  saveName,
		Time:      e.Time,
		Kind:      string(e.Kind),
		BaseID:    e.BaseID,
		SubjectID: e.SubjectID,
		Subject:   e.Subject,
		Detail:    e.Detail,
		Value:     e.Value,
	}
}
