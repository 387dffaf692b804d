// Package v1 contains the v1 export format for campaign saves.
package v1

import (
	"time"

	"github.com/ftageo/basesim/internal/model"
)

// Version is written to every v1 export.
const Version = 1

// Export is the root JSON structure for v1 format.
// Child rows reuse the database records and link to bases by game ID.
type Export struct {
	Version    int       `json:"version"`
	Name       string    `json:"name"`
	GameTime   time.Time `json:"gameTime"`
	Funds      int64     `json:"funds"`
	Score      int       `json:"score"`
	NextID     int       `json:"nextId"`
	Researched []string  `json:"researched"`
	Discovered []string  `json:"discovered"`

	Bases       []Base                  `json:"bases"`
	Facilities  []model.Facility        `json:"facilities"`
	Soldiers    []model.Soldier         `json:"soldiers"`
	Productions []model.Production      `json:"productions"`
	Research    []model.ResearchProject `json:"research"`
	Prisoners   []model.Prisoner        `json:"prisoners"`
	Factions    []model.Faction         `json:"factions"`

	// Events holds one array per event:
	// [time, kind, baseId, subjectId, subject, detail, value]
	Events [][]any `json:"events"`
}

// Base is a player base. Mercator is the EPSG:3857 projection, empty when the
// coordinates are out of range.
type Base struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Longitude float64        `json:"longitude"`
	Latitude  float64        `json:"latitude"`
	Mercator  []float64      `json:"mercator,omitempty"`
	Items     map[string]int `json:"items"`
}
