package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Save{},
	&Base{},
	&Facility{},
	&Soldier{},
	&Production{},
	&ResearchProject{},
	&Prisoner{},
	&Faction{},
	&Event{},
}

////////////////////////
// SAVE GRAPH
////////////////////////

// Save is the root record of a campaign. Every child row carries the save's ID.
type Save struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Name       string         `json:"name" gorm:"size:127;uniqueIndex:idx_save_name"`
	GameTime   time.Time      `json:"gameTime" gorm:"type:timestamptz"`
	Funds      int64          `json:"funds"`
	Score      int            `json:"score"`
	NextID     int            `json:"nextId"`
	Researched datatypes.JSON `json:"researched" gorm:"type:jsonb;default:'[]'"` // finished topics
	Discovered datatypes.JSON `json:"discovered" gorm:"type:jsonb;default:'[]'"` // interrogated, not yet researched

	Bases       []Base            `json:"bases" gorm:"foreignKey:SaveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Facilities  []Facility        `json:"facilities" gorm:"foreignKey:SaveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Soldiers    []Soldier         `json:"soldiers" gorm:"foreignKey:SaveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Productions []Production      `json:"productions" gorm:"foreignKey:SaveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Research    []ResearchProject `json:"research" gorm:"foreignKey:SaveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Prisoners   []Prisoner        `json:"prisoners" gorm:"foreignKey:SaveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Factions    []Faction         `json:"factions" gorm:"foreignKey:SaveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*Save) TableName() string {
	return "saves"
}

// ChildModels lists the tables hanging off a save, deepest first.
var ChildModels = []interface{}{
	&Facility{},
	&Soldier{},
	&Production{},
	&ResearchProject{},
	&Prisoner{},
	&Faction{},
	&Base{},
}

// Base is a player base. Location holds the EPSG:3857 projection of Longitude/Latitude.
type Base struct {
	ID        uint           `json:"-" gorm:"primaryKey"`
	SaveID    uint           `json:"saveId" gorm:"index:idx_base_save_id"`
	GameID    int            `json:"id"`
	Name      string         `json:"name" gorm:"size:127"`
	Longitude float64        `json:"longitude"`
	Latitude  float64        `json:"latitude"`
	Location  geom.Point     `json:"location"`
	Items     datatypes.JSON `json:"items" gorm:"type:jsonb;default:'{}'"` // item name -> amount
}

func (*Base) TableName() string {
	return "bases"
}

// Facility is a module placed in a base.
type Facility struct {
	ID           uint   `json:"-" gorm:"primaryKey"`
	SaveID       uint   `json:"saveId" gorm:"index:idx_facility_save_id"`
	BaseID       int    `json:"baseId"`
	GameID       int    `json:"id"`
	Type         string `json:"type" gorm:"size:127"`
	BuildDays    int    `json:"buildDays"`
	ProductionID int    `json:"productionId"` // order building it, 0 when built by the clock
	Disabled     bool   `json:"disabled" gorm:"default:false"`
}

func (*Facility) TableName() string {
	return "facilities"
}

// Soldier is any base personnel.
type Soldier struct {
	ID               uint           `json:"-" gorm:"primaryKey"`
	SaveID           uint           `json:"saveId" gorm:"index:idx_soldier_save_id"`
	BaseID           int            `json:"baseId"`
	GameID           int            `json:"id"`
	Name             string         `json:"name" gorm:"size:127"`
	Type             string         `json:"type" gorm:"size:127"`
	Role             string         `json:"role" gorm:"size:16"`
	Stats            datatypes.JSON `json:"stats" gorm:"type:jsonb;default:'{}'"` // stat id -> value
	WoundDays        int            `json:"woundDays"`
	AssignmentKind   string         `json:"assignmentKind" gorm:"size:16"`
	AssignmentTarget int            `json:"assignmentTarget"`
}

func (*Soldier) TableName() string {
	return "soldiers"
}

// Production is a running manufacture order.
type Production struct {
	ID         uint    `json:"-" gorm:"primaryKey"`
	SaveID     uint    `json:"saveId" gorm:"index:idx_production_save_id"`
	BaseID     int     `json:"baseId"`
	GameID     int     `json:"id"`
	Rule       string  `json:"rule" gorm:"size:127"`
	Amount     int     `json:"amount"`
	Infinite   bool    `json:"infinite"`
	Sell       bool    `json:"sell"`
	TimeSpent  float64 `json:"timeSpent"`
	Efficiency int     `json:"efficiency" gorm:"default:100"`
	FacilityID int     `json:"facilityId"`
}

func (*Production) TableName() string {
	return "productions"
}

// ResearchProject is a running research topic.
type ResearchProject struct {
	ID      uint    `json:"-" gorm:"primaryKey"`
	SaveID  uint    `json:"saveId" gorm:"index:idx_research_save_id"`
	BaseID  int     `json:"baseId"`
	GameID  int     `json:"id"`
	Rule    string  `json:"rule" gorm:"size:127"`
	Cost    int     `json:"cost"`
	Spent   float64 `json:"spent"`
	Offline bool    `json:"offline"`
}

func (*ResearchProject) TableName() string {
	return "research_projects"
}

// Prisoner is a captured unit held in containment.
type Prisoner struct {
	ID          uint    `json:"-" gorm:"primaryKey"`
	SaveID      uint    `json:"saveId" gorm:"index:idx_prisoner_save_id"`
	BaseID      int     `json:"baseId"`
	GameID      int     `json:"id"`
	Name        string  `json:"name" gorm:"size:127"`
	Type        string  `json:"type" gorm:"size:127"`
	Health      int     `json:"health"`
	Morale      int     `json:"morale"`
	Cooperation float64 `json:"cooperation"`
	Aggression  int     `json:"aggression"`
	State       string  `json:"state" gorm:"size:16"`
	Progress    float64 `json:"progress"`
}

func (*Prisoner) TableName() string {
	return "prisoners"
}

// Faction is the player's standing with a diplomacy faction.
type Faction struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	SaveID     uint   `json:"saveId" gorm:"index:idx_faction_save_id"`
	Name       string `json:"name" gorm:"size:127"`
	Reputation int    `json:"reputation"`
	Power      int    `json:"power"`
	Discovered bool   `json:"discovered"`
}

func (*Faction) TableName() string {
	return "factions"
}

////////////////////////
// EVENTS
////////////////////////

// Event is one geoscape outcome. Events outlive save rewrites, so they key on the save name.
type Event struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	SaveName  string    `json:"saveName" gorm:"size:127;index:idx_event_save_name"`
	Time      time.Time `json:"time" gorm:"type:timestamptz;index:idx_event_time"`
	Kind      string    `json:"kind" gorm:"size:64;index:idx_event_kind"`
	BaseID    int       `json:"baseId"`
	SubjectID int       `json:"subjectId"`
	Subject   string    `json:"subject" gorm:"size:127"`
	Detail    string    `json:"detail" gorm:"size:127"`
	Value     int64     `json:"value"`
}

func (*Event) TableName() string {
	return "events"
}
