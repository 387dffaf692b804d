package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"Save", &Save{}, "saves"},
		{"Base", &Base{}, "bases"},
		{"Facility", &Facility{}, "facilities"},
		{"Soldier", &Soldier{}, "soldiers"},
		{"Production", &Production{}, "productions"},
		{"ResearchProject", &ResearchProject{}, "research_projects"},
		{"Prisoner", &Prisoner{}, "prisoners"},
		{"Faction", &Faction{}, "factions"},
		{"Event", &Event{}, "events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModelsCoverChildren(t *testing.T) {
	for _, child := range ChildModels {
		assert.Contains(t, DatabaseModels, child)
	}
	assert.Len(t, DatabaseModels, len(ChildModels)+2)
}
