package savegame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rolls(r RNG) []int {
	out := make([]int, 8)
	for i := range out {
		out[i] = r.Generate(0, 1<<20)
	}
	return out
}

func TestResumeRNG_FollowsSaveState(t *testing.T) {
	g := NewSavedGame("test", testStart, 0)
	g.NewID()

	same := NewSavedGame("test", testStart, 0)
	same.NewID()
	assert.Equal(t, rolls(ResumeRNG(7, g)), rolls(ResumeRNG(7, same)))
	assert.NotEqual(t, rolls(ResumeRNG(7, g)), rolls(ResumeRNG(8, g)))

	before := rolls(ResumeRNG(7, g))
	g.Time.Advance(time.Hour)
	assert.NotEqual(t, before, rolls(ResumeRNG(7, g)))

	before = rolls(ResumeRNG(7, g))
	g.NewID()
	assert.NotEqual(t, before, rolls(ResumeRNG(7, g)))
}

func TestResumeRNG_DiffersFromCampaignSeed(t *testing.T) {
	g := NewSavedGame("test", testStart, 0)
	assert.NotEqual(t, rolls(NewRNG(7)), rolls(ResumeRNG(7, g)))
}
