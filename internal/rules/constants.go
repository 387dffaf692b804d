package rules

import "gopkg.in/yaml.v3"

// Constants holds the hand-tuned balancing numbers used by the per-tick formulas.
type Constants struct {
	// Each additional team member contributes TeamDiminish^i of their skill.
	TeamDiminish float64 `yaml:"teamDiminish"`
	// A worker at ReferenceSkill contributes one unit of effort per hour.
	ReferenceSkill float64 `yaml:"referenceSkill"`
	// Used when a project has no stat weights.
	DefaultSkill float64 `yaml:"defaultSkill"`

	SkillUpChance int `yaml:"skillUpChance"`
	DefaultCap    int `yaml:"defaultStatCap"`

	ResearchCostMin int `yaml:"researchCostMin"`
	ResearchCostMax int `yaml:"researchCostMax"`

	PrisonerHealthRegen     int     `yaml:"prisonerHealthRegen"`
	PrisonerMoraleRegen     int     `yaml:"prisonerMoraleRegen"`
	PrisonerAggressionGrow  int     `yaml:"prisonerAggressionGrowth"`
	PrisonerAggressionDecay int     `yaml:"prisonerAggressionDecay"`
	ResistDivisor           int     `yaml:"resistDivisor"`
	TortureMultiplier       float64 `yaml:"tortureMultiplier"`
	TortureDamageMin        int     `yaml:"tortureDamageMin"`
	TortureDamageMax        int     `yaml:"tortureDamageMax"`
	RecruitRate             float64 `yaml:"recruitRate"`
	RecruitAggressionLimit  int     `yaml:"recruitAggressionLimit"`

	WoundRecoveryPerDay int `yaml:"woundRecoveryPerDay"`
}

// DefaultConstants returns the stock balancing values.
func DefaultConstants() Constants {
	return Constants{
		TeamDiminish:            0.9,
		ReferenceSkill:          50,
		DefaultSkill:            50,
		SkillUpChance:           5,
		DefaultCap:              100,
		ResearchCostMin:         50,
		ResearchCostMax:         150,
		PrisonerHealthRegen:     1,
		PrisonerMoraleRegen:     1,
		PrisonerAggressionGrow:  1,
		PrisonerAggressionDecay: 1,
		ResistDivisor:           4,
		TortureMultiplier:       2,
		TortureDamageMin:        1,
		TortureDamageMax:        3,
		RecruitRate:             0.5,
		RecruitAggressionLimit:  50,
		WoundRecoveryPerDay:     1,
	}
}

// merge overlays the keys present in node onto c. Keys the document omits
// keep their current value, explicit zeros included.
func (c *Constants) merge(node *yaml.Node) error {
	return node.Decode(c)
}
