package rules

// Role is the job a soldier type is hired for.
type Role string

const (
	RoleSoldier   Role = "soldier"
	RoleScientist Role = "scientist"
	RoleEngineer  Role = "engineer"
	RoleAgent     Role = "agent"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSoldier, RoleScientist, RoleEngineer, RoleAgent:
		return true
	}
	return false
}

// RuleSoldier describes a hireable personnel type.
type RuleSoldier struct {
	Type     string `yaml:"type"`
	Role     Role   `yaml:"role"`
	MinStats Stats  `yaml:"minStats"`
	MaxStats Stats  `yaml:"maxStats"`
	StatCaps Stats  `yaml:"statCaps"`
	Salary   int    `yaml:"salary"`
	Delete   bool   `yaml:"delete"`
}

// RuleFacility describes a base module.
type RuleFacility struct {
	Type                 string `yaml:"type"`
	Size                 int    `yaml:"size"`
	BuildDays            int    `yaml:"buildTime"`
	BuildCost            int    `yaml:"buildCost"`
	MonthlyCost          int    `yaml:"monthlyCost"`
	Personnel            int    `yaml:"personnel"`
	Storage              int    `yaml:"storage"`
	PrisonCapacity       int    `yaml:"prisonCapacity"`
	Workshops            int    `yaml:"workshops"`
	Laboratories         int    `yaml:"laboratories"`
	ProductionEfficiency int    `yaml:"productionEfficiency"`
	Delete               bool   `yaml:"delete"`
}

// RuleManufacture describes a manufacture project.
type RuleManufacture struct {
	Name               string         `yaml:"name"`
	Category           string         `yaml:"category"`
	RequiredFacilities []string       `yaml:"requires"`
	ManufactureTime    int            `yaml:"time"`
	Cost               int            `yaml:"cost"`
	SellValue          int            `yaml:"sellValue"`
	RequiredItems      map[string]int `yaml:"requiredItems"`
	ProducedItems      map[string]int `yaml:"producedItems"`
	SpawnedPersonType  string         `yaml:"spawnedPersonType"`
	ProducedFacility   string         `yaml:"producedFacility"`
	SpaceRequired      int            `yaml:"space"`
	MaxEngineers       int            `yaml:"maxEngineers"`
	StatWeights        StatWeights    `yaml:"stats"`
	Delete             bool           `yaml:"delete"`
}

// IsFacility reports whether the project builds a base facility.
func (r *RuleManufacture) IsFacility() bool {
	return r.ProducedFacility != ""
}

// RuleResearch describes a research topic.
type RuleResearch struct {
	Name          string      `yaml:"name"`
	Cost          int         `yaml:"cost"`
	Points        int         `yaml:"points"`
	Dependencies  []string    `yaml:"dependencies"`
	Unlocks       []string    `yaml:"unlocks"`
	NeedItem      bool        `yaml:"needItem"`
	DestroyItem   bool        `yaml:"destroyItem"`
	MaxScientists int         `yaml:"maxScientists"`
	StatWeights   StatWeights `yaml:"stats"`
	Delete        bool        `yaml:"delete"`
}

// RulePrisoner describes how a captured unit type behaves in containment.
type RulePrisoner struct {
	Type                  string      `yaml:"type"`
	MaxHealth             int         `yaml:"health"`
	Morale                int         `yaml:"morale"`
	Aggression            int         `yaml:"aggression"`
	Cooperation           int         `yaml:"cooperation"`
	InterrogationCost     int         `yaml:"interrogationCost"`
	TortureCost           int         `yaml:"tortureCost"`
	InterrogationResearch string      `yaml:"interrogationResearch"`
	RecruitType           string      `yaml:"recruitType"`
	InterrogationWeights  StatWeights `yaml:"interrogationStats"`
	TortureWeights        StatWeights `yaml:"tortureStats"`
	RecruitWeights        StatWeights `yaml:"recruitStats"`
	Delete                bool        `yaml:"delete"`
}

// ReputationLevel is one step of a faction's reputation ladder.
type ReputationLevel struct {
	Name     string `yaml:"name"`
	MinScore int    `yaml:"minScore"`
	Funding  int    `yaml:"funding"`
}

// RuleDiplomacyFaction describes a faction the player can deal with.
type RuleDiplomacyFaction struct {
	Name               string            `yaml:"name"`
	StartingReputation int               `yaml:"startingReputation"`
	DailyDrift         int               `yaml:"dailyDrift"`
	StartingPower      int               `yaml:"startingPower"`
	DailyPowerGrowth   int               `yaml:"dailyPowerGrowth"`
	DiscoveredBy       string            `yaml:"discoveredBy"`
	Levels             []ReputationLevel `yaml:"reputationLevels"`
	Delete             bool              `yaml:"delete"`
}

// LevelFor returns the highest level whose threshold the score reaches.
// Levels are kept sorted by MinScore after load.
func (r *RuleDiplomacyFaction) LevelFor(score int) (ReputationLevel, bool) {
	var found ReputationLevel
	ok := false
	for _, l := range r.Levels {
		if score >= l.MinScore {
			found = l
			ok = true
		}
	}
	if !ok && len(r.Levels) > 0 {
		return r.Levels[0], true
	}
	return found, ok
}

// RuleBattleObject describes a destructible battlescape objective.
type RuleBattleObject struct {
	Type       string `yaml:"type"`
	Armor      int    `yaml:"armor"`
	MaxHealth  int    `yaml:"health"`
	TimerTurns int    `yaml:"timer"`
	BurnDamage int    `yaml:"burnDamage"`
	Delete     bool   `yaml:"delete"`
}

// StartingBase describes the base a new campaign opens with.
type StartingBase struct {
	Name       string         `yaml:"name"`
	Longitude  float64        `yaml:"longitude"`
	Latitude   float64        `yaml:"latitude"`
	Facilities []string       `yaml:"facilities"`
	Personnel  map[string]int `yaml:"personnel"`
	Items      map[string]int `yaml:"items"`
	Researched []string       `yaml:"researched"`
	// Research and Manufacture are projects under way on day one, staffed
	// from the starting personnel.
	Research    []string       `yaml:"research"`
	Manufacture map[string]int `yaml:"manufacture"`
}
