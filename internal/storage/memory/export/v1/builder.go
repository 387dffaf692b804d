package v1

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ftageo/basesim/internal/model"
	"gorm.io/datatypes"
)

// Build converts a save record and its events into the v1 export format.
func Build(save model.Save, events []model.Event) (Export, error) {
	export := Export{
		Version:     Version,
		Name:        save.Name,
		GameTime:    save.GameTime.UTC(),
		Funds:       save.Funds,
		Score:       save.Score,
		NextID:      save.NextID,
		Researched:  []string{},
		Discovered:  []string{},
		Bases:       make([]Base, 0, len(save.Bases)),
		Facilities:  nonNil(save.Facilities),
		Soldiers:    nonNil(save.Soldiers),
		Productions: nonNil(save.Productions),
		Research:    nonNil(save.Research),
		Prisoners:   nonNil(save.Prisoners),
		Factions:    nonNil(save.Factions),
		Events:      make([][]any, 0, len(events)),
	}

	if err := decodeJSON(save.Researched, &export.Researched); err != nil {
		return Export{}, fmt.Errorf("researched topics: %w", err)
	}
	if err := decodeJSON(save.Discovered, &export.Discovered); err != nil {
		return Export{}, fmt.Errorf("discovered topics: %w", err)
	}

	for _, b := range save.Bases {
		base := Base{
			ID:        b.GameID,
			Name:      b.Name,
			Longitude: b.Longitude,
			Latitude:  b.Latitude,
			Items:     map[string]int{},
		}
		if err := decodeJSON(b.Items, &base.Items); err != nil {
			return Export{}, fmt.Errorf("base %d items: %w", b.GameID, err)
		}
		if xy, ok := b.Location.XY(); ok {
			base.Mercator = []float64{xy.X, xy.Y}
		}
		export.Bases = append(export.Bases, base)
	}

	// Format: [time, kind, baseId, subjectId, subject, detail, value]
	for _, e := range events {
		export.Events = append(export.Events, []any{
			e.Time.UTC().Format(time.RFC3339),
			e.Kind,
			e.BaseID,
			e.SubjectID,
			e.Subject,
			e.Detail,
			e.Value,
		})
	}

	return export, nil
}

func decodeJSON(data datatypes.JSON, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
