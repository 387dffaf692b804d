package v1

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/ftageo/basesim/internal/geo"
	"github.com/ftageo/basesim/internal/model"
	"gorm.io/datatypes"
)

const eventFields = 7

// Restore rebuilds a save record and its events from an export.
func Restore(e Export) (model.Save, []model.Event, error) {
	if e.Version != Version {
		return model.Save{}, nil, fmt.Errorf("unsupported export version %d", e.Version)
	}

	save := model.Save{
		Name:        e.Name,
		GameTime:    e.GameTime.UTC(),
		Funds:       e.Funds,
		Score:       e.Score,
		NextID:      e.NextID,
		Researched:  encodeJSON(e.Researched, "[]"),
		Discovered:  encodeJSON(e.Discovered, "[]"),
		Facilities:  e.Facilities,
		Soldiers:    e.Soldiers,
		Productions: e.Productions,
		Research:    e.Research,
		Prisoners:   e.Prisoners,
		Factions:    e.Factions,
	}
	for _, b := range e.Bases {
		rec := model.Base{
			GameID:    b.ID,
			Name:      b.Name,
			Longitude: b.Longitude,
			Latitude:  b.Latitude,
			Items:     encodeJSON(b.Items, "{}"),
		}
		if p, err := geo.Point3857From4326(b.Longitude, b.Latitude); err == nil {
			rec.Location = p
		}
		save.Bases = append(save.Bases, rec)
	}

	events := make([]model.Event, 0, len(e.Events))
	for i, row := range e.Events {
		ev, err := eventFromRow(row)
		if err != nil {
			return model.Save{}, nil, fmt.Errorf("event %d: %w", i, err)
		}
		ev.SaveName = e.Name
		events = append(events, ev)
	}
	return save, events, nil
}

func eventFromRow(row []any) (model.Event, error) {
	if len(row) != eventFields {
		return model.Event{}, fmt.Errorf("expected %d fields, got %d", eventFields, len(row))
	}

	var ev model.Event
	stamp, ok := row[0].(string)
	if !ok {
		return ev, fmt.Errorf("time is %T", row[0])
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return ev, err
	}
	ev.Time = t.UTC()

	if ev.Kind, ok = row[1].(string); !ok {
		return ev, fmt.Errorf("kind is %T", row[1])
	}
	if ev.Subject, ok = row[4].(string); !ok {
		return ev, fmt.Errorf("subject is %T", row[4])
	}
	if ev.Detail, ok = row[5].(string); !ok {
		return ev, fmt.Errorf("detail is %T", row[5])
	}

	baseID, err := wholeNumber(row[2])
	if err != nil {
		return ev, fmt.Errorf("base id: %w", err)
	}
	subjectID, err := wholeNumber(row[3])
	if err != nil {
		return ev, fmt.Errorf("subject id: %w", err)
	}
	if ev.Value, err = wholeNumber(row[6]); err != nil {
		return ev, fmt.Errorf("value: %w", err)
	}
	ev.BaseID = int(baseID)
	ev.SubjectID = int(subjectID)
	return ev, nil
}

// wholeNumber accepts the float64 that encoding/json produces for numbers.
func wholeNumber(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not a whole number", n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("unexpected %T", v)
	}
}

func encodeJSON(v any, empty string) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return datatypes.JSON(empty)
	}
	return datatypes.JSON(data)
}
