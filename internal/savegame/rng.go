package savegame

import "math/rand/v2"

// RNG is the source of randomness for the per-tick formulas.
type RNG interface {
	// Percent returns true with a p% chance.
	Percent(p int) bool
	// Generate returns a value in [min, max].
	Generate(min, max int) int
	Float64() float64
}

type pcgRNG struct {
	r *rand.Rand
}

// NewRNG returns a deterministic RNG for the given seed.
func NewRNG(seed uint64) RNG {
	return &pcgRNG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *pcgRNG) Percent(p int) bool {
	if p <= 0 {
		return false
	}
	if p >= 100 {
		return true
	}
	return g.r.IntN(100) < p
}

func (g *pcgRNG) Generate(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + g.r.IntN(max-min+1)
}

func (g *pcgRNG) Float64() float64 {
	return g.r.Float64()
}

// ResumeRNG seeds the RNG for a loaded save. The save's clock and ID counter
// are mixed into seed so a resumed campaign does not replay earlier rolls.
func ResumeRNG(seed uint64, g *SavedGame) RNG {
	return NewRNG(resumeSeed(seed, g))
}

func resumeSeed(seed uint64, g *SavedGame) uint64 {
	h := seed
	h ^= uint64(g.Time.Time().Unix()) * 0x9e3779b97f4a7c15
	h ^= uint64(g.NextID) * 0xbf58476d1ce4e5b9
	return h
}
