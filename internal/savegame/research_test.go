package savegame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResearchProject_CostSpread(t *testing.T) {
	mod := testMod(t)
	r, err := mod.Research("STR_PHYSICS")
	require.NoError(t, err)

	tests := []struct {
		name   string
		spread int
		want   int
	}{
		{"half", 50, 5},
		{"stock", 100, 10},
		{"double", 200, 20},
		{"floor of one", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewResearchProject(1, r, mod.Constants, &scriptedRNG{generate: []int{tt.spread}})
			assert.Equal(t, tt.want, p.Cost)
		})
	}
}

func TestResearchProject_Step(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	r, err := mod.Research("STR_PHYSICS")
	require.NoError(t, err)
	p := NewResearchProject(g.NewID(), r, mod.Constants, &scriptedRNG{generate: []int{50}})
	b.AddResearch(p)

	s := hire(t, g, b, mod, "STR_SCIENTIST")
	require.NoError(t, b.Assign(s.ID, Assignment{Kind: AssignResearch, TargetID: p.ID}))
	assert.Len(t, p.Scientists(b), 1)

	rng := &scriptedRNG{}
	for range 4 {
		assert.False(t, p.Step(b, mod, rng))
	}
	assert.Equal(t, 80, p.PercentComplete())
	assert.True(t, p.Step(b, mod, rng))
	assert.True(t, p.Finished())
	assert.Equal(t, 100, p.PercentComplete())
}

func TestResearchProject_OfflineMakesNoProgress(t *testing.T) {
	mod := testMod(t)
	g, b := testBase(t, mod)
	r, err := mod.Research("STR_PHYSICS")
	require.NoError(t, err)
	p := NewResearchProject(g.NewID(), r, mod.Constants, &scriptedRNG{generate: []int{100}})
	b.AddResearch(p)
	s := hire(t, g, b, mod, "STR_SCIENTIST")
	require.NoError(t, b.Assign(s.ID, Assignment{Kind: AssignResearch, TargetID: p.ID}))

	p.Offline = true
	assert.False(t, p.Step(b, mod, &scriptedRNG{}))
	assert.Zero(t, p.Spent)
}
