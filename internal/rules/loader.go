package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// rulesetFile is the top level layout of a ruleset document.
type rulesetFile struct {
	Constants     yaml.Node              `yaml:"constants"`
	Soldiers      []RuleSoldier          `yaml:"soldiers"`
	Facilities    []RuleFacility         `yaml:"facilities"`
	Manufacture   []RuleManufacture      `yaml:"manufacture"`
	Research      []RuleResearch         `yaml:"research"`
	Prisoners     []RulePrisoner         `yaml:"prisoners"`
	Factions      []RuleDiplomacyFaction `yaml:"diplomacyFactions"`
	BattleObjects []RuleBattleObject     `yaml:"battleObjects"`
	StartingBase  *StartingBase          `yaml:"startingBase"`
}

var rulesetExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".rul":  true,
}

// Load reads every ruleset file in dir in lexical order and merges them.
// Later files override rules of the same name from earlier files.
func Load(dir string) (*Mod, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if rulesetExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	mod := NewMod()
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := mod.merge(name, data); err != nil {
			return nil, err
		}
	}
	mod.finish()
	return mod, nil
}

// LoadBytes builds a mod from a single in-memory ruleset document.
func LoadBytes(name string, data []byte) (*Mod, error) {
	mod := NewMod()
	if err := mod.merge(name, data); err != nil {
		return nil, err
	}
	mod.finish()
	return mod, nil
}

// merge decodes one ruleset file (possibly several YAML documents) into the mod.
func (m *Mod) merge(name string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var file rulesetFile
		err := dec.Decode(&file)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}

		if !file.Constants.IsZero() {
			if err := m.Constants.merge(&file.Constants); err != nil {
				return fmt.Errorf("failed to parse constants in %s: %w", name, err)
			}
		}
		if file.StartingBase != nil {
			m.StartingBase = file.StartingBase
		}
		for i := range file.Soldiers {
			r := file.Soldiers[i]
			if r.Type == "" {
				return fmt.Errorf("%s: soldier rule without type", name)
			}
			upsert(m.soldiers, r.Type, &r, r.Delete)
		}
		for i := range file.Facilities {
			r := file.Facilities[i]
			if r.Type == "" {
				return fmt.Errorf("%s: facility rule without type", name)
			}
			upsert(m.facilities, r.Type, &r, r.Delete)
		}
		for i := range file.Manufacture {
			r := file.Manufacture[i]
			if r.Name == "" {
				return fmt.Errorf("%s: manufacture rule without name", name)
			}
			upsert(m.manufacture, r.Name, &r, r.Delete)
		}
		for i := range file.Research {
			r := file.Research[i]
			if r.Name == "" {
				return fmt.Errorf("%s: research rule without name", name)
			}
			upsert(m.research, r.Name, &r, r.Delete)
		}
		for i := range file.Prisoners {
			r := file.Prisoners[i]
			if r.Type == "" {
				return fmt.Errorf("%s: prisoner rule without type", name)
			}
			upsert(m.prisoners, r.Type, &r, r.Delete)
		}
		for i := range file.Factions {
			r := file.Factions[i]
			if r.Name == "" {
				return fmt.Errorf("%s: diplomacy faction rule without name", name)
			}
			upsert(m.factions, r.Name, &r, r.Delete)
		}
		for i := range file.BattleObjects {
			r := file.BattleObjects[i]
			if r.Type == "" {
				return fmt.Errorf("%s: battle object rule without type", name)
			}
			upsert(m.battleObjects, r.Type, &r, r.Delete)
		}
	}
}

func upsert[T any](m map[string]*T, key string, r *T, del bool) {
	if del {
		delete(m, key)
		return
	}
	m[key] = r
}

// finish fills defaults once every file is merged.
func (m *Mod) finish() {
	for _, r := range m.soldiers {
		if r.Role == "" {
			r.Role = RoleSoldier
		}
		if r.MinStats == nil {
			r.MinStats = Stats{}
		}
		if r.MaxStats == nil {
			r.MaxStats = r.MinStats.Clone()
		}
		if r.StatCaps == nil {
			r.StatCaps = Stats{}
		}
	}
	for _, r := range m.facilities {
		if r.Size <= 0 {
			r.Size = 1
		}
	}
	for _, r := range m.manufacture {
		if r.RequiredItems == nil {
			r.RequiredItems = map[string]int{}
		}
		if r.ProducedItems == nil {
			r.ProducedItems = map[string]int{}
			if r.SpawnedPersonType == "" && r.ProducedFacility == "" {
				r.ProducedItems[r.Name] = 1
			}
		}
	}
	for _, r := range m.prisoners {
		if r.MaxHealth <= 0 {
			r.MaxHealth = 10
		}
		if r.Morale <= 0 {
			r.Morale = 100
		}
	}
	for _, r := range m.factions {
		sort.SliceStable(r.Levels, func(i, j int) bool {
			return r.Levels[i].MinScore < r.Levels[j].MinScore
		})
	}
	for _, r := range m.battleObjects {
		if r.MaxHealth <= 0 {
			r.MaxHealth = 1
		}
	}
}
