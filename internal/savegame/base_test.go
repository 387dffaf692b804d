package savegame

import (
	"errors"
	"testing"
	"time"

	"github.com/ftageo/basesim/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase_Items(t *testing.T) {
	b := NewBase(1, "Alpha", 0, 0)
	b.AddItem("STR_ALLOY", 3)
	b.AddItem("STR_ALLOY", 0)

	assert.Equal(t, 2, b.RemoveItem("STR_ALLOY", 2))
	assert.Equal(t, 1, b.RemoveItem("STR_ALLOY", 5))
	assert.Zero(t, b.ItemCount("STR_ALLOY"))
	assert.NotContains(t, b.Items, "STR_ALLOY")
	assert.Zero(t, b.RemoveItem("STR_ELERIUM", 1))
}

func TestBase_Capacity(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	hire(t, g, b, mod, "STR_ENGINEER")
	site := addFacility(t, g, b, mod, "STR_FABRICATOR")
	site.BuildDays = 5

	assert.Equal(t, 9, b.AvailableQuarters())
	assert.Equal(t, 5, b.PrisonCapacity())
	assert.Equal(t, 10, b.AvailableWorkshopSpace())
	assert.Equal(t, 100, b.ProductionEfficiency())
	assert.False(t, b.HasFacilities([]string{"STR_FABRICATOR"}))

	site.BuildDays = 0
	assert.Equal(t, 150, b.ProductionEfficiency())
	assert.Equal(t, 15, b.AvailableWorkshopSpace())
	assert.True(t, b.HasFacilities([]string{"STR_WORKSHOP", "STR_FABRICATOR"}))
	assert.Len(t, b.CompletedFacilities("STR_FABRICATOR"), 1)
}

func TestBase_AssignValidates(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	r, err := mod.Manufacture("STR_LIMITED")
	require.NoError(t, err)
	p := NewProduction(g.NewID(), r, 1)
	b.AddProduction(p)
	target := Assignment{Kind: AssignProduction, TargetID: p.ID}

	scientist := hire(t, g, b, mod, "STR_SCIENTIST")
	first := hire(t, g, b, mod, "STR_ENGINEER")
	second := hire(t, g, b, mod, "STR_ENGINEER")

	tests := []struct {
		name string
		id   int
		a    Assignment
	}{
		{"wrong role", scientist.ID, target},
		{"missing soldier", 999, target},
		{"missing target", first.ID, Assignment{Kind: AssignResearch, TargetID: 999}},
		{"unknown kind", first.ID, Assignment{Kind: "guard", TargetID: p.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Assign(tt.id, tt.a)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAssignment))
		})
	}

	require.NoError(t, b.Assign(first.ID, target))
	require.NoError(t, b.Assign(first.ID, target))
	err = b.Assign(second.ID, target)
	assert.True(t, errors.Is(err, ErrInvalidAssignment), "team cap")

	second.WoundDays = 2
	b.Unassign(first.ID)
	err = b.Assign(second.ID, target)
	assert.True(t, errors.Is(err, ErrInvalidAssignment), "wounded")
}

func TestBase_RosterFollowsRemoval(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	b.AddItem("STR_ALLOY", 1)
	p := startOrder(t, g, b, mod, "STR_WIDGET", 1, 2)
	assert.Len(t, p.Engineers(b), 2)

	s := p.Engineers(b)[0]
	_, ok := b.RemoveSoldier(s.ID)
	require.True(t, ok)
	assert.Len(t, p.Engineers(b), 1)

	assert.True(t, b.RemoveProduction(p.ID))
	assert.Empty(t, b.Roster(AssignProduction, p.ID))
	for _, s := range b.Soldiers {
		assert.True(t, s.Assignment.Idle())
	}
	assert.False(t, b.RemoveProduction(p.ID))
}

func TestBase_RemoveProductionUnlinksFacility(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	p := startOrder(t, g, b, mod, "STR_WORKSHOP_KIT", 1, 1)
	site := addFacility(t, g, b, mod, "STR_WORKSHOP")
	site.BuildDays = 4
	site.ProductionID = p.ID
	p.FacilityID = site.ID
	other := addFacility(t, g, b, mod, "STR_WORKSHOP")
	other.BuildDays = 2
	other.ProductionID = p.ID + 100

	p.Refund(b, g)
	require.True(t, b.RemoveProduction(p.ID))
	assert.Zero(t, site.ProductionID)
	assert.Equal(t, 4, site.BuildDays)
	assert.Equal(t, p.ID+100, other.ProductionID)
}

func TestBase_Maintenance(t *testing.T) {
	b := NewBase(1, "Alpha", 0, 0)
	b.AddFacility(&BaseFacility{ID: 1, Rule: &rules.RuleFacility{MonthlyCost: 100}})
	b.AddFacility(&BaseFacility{ID: 2, Rule: &rules.RuleFacility{MonthlyCost: 50}, BuildDays: 3})
	assert.Equal(t, 150, b.MonthlyMaintenance())
}

func TestSavedGame(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)

	next := g.NextID
	assert.Equal(t, next, g.NewID())
	assert.Equal(t, next+1, g.NextID)

	found, err := g.Base(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, found)
	_, err = g.Base(999)
	assert.True(t, errors.Is(err, ErrSaveNotFound))

	err = g.SpendFunds(5000)
	assert.True(t, errors.Is(err, ErrNotEnoughMoney))
	assert.Equal(t, int64(1000), g.Funds)
	require.NoError(t, g.SpendFunds(400))
	g.AddFunds(100)
	assert.Equal(t, int64(700), g.Funds)

	r, err := mod.Research("STR_PHYSICS")
	require.NoError(t, err)
	g.AddDiscovered("STR_PHYSICS")
	g.AddFinishedResearch(r)
	assert.True(t, g.IsResearched("STR_PHYSICS"))
	assert.False(t, g.IsDiscovered("STR_PHYSICS"))
	assert.True(t, g.IsDiscovered("STR_NEXT"))
	assert.Equal(t, 5, g.Score)

	_, err = g.SpawnSoldier(b, "STR_CYBERDISC", mod, &scriptedRNG{})
	assert.True(t, errors.Is(err, rules.ErrUnknownRule))
}

func TestGameTime_Advance(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		step  time.Duration
		want  Boundaries
	}{
		{"inside hour", time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC), 5 * time.Minute, Boundaries{}},
		{"hour", time.Date(2030, 1, 1, 10, 55, 0, 0, time.UTC), 5 * time.Minute, Boundaries{Hour: true}},
		{"day", time.Date(2030, 1, 1, 23, 55, 0, 0, time.UTC), 5 * time.Minute, Boundaries{Hour: true, Day: true}},
		{"month", time.Date(2030, 1, 31, 23, 55, 0, 0, time.UTC), 5 * time.Minute, Boundaries{Hour: true, Day: true, Month: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt := NewGameTime(tt.start)
			assert.Equal(t, tt.want, gt.Advance(tt.step))
			assert.Equal(t, tt.start.Add(tt.step), gt.Time())
		})
	}
}

func TestEventKind_Command(t *testing.T) {
	assert.Equal(t, ":PRODUCTION:COMPLETE:", EventProductionComplete.Command())
	for _, k := range EventKinds() {
		got, ok := KindFromCommand(k.Command())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := KindFromCommand(":NEW:SOLDIER:")
	assert.False(t, ok)
}
