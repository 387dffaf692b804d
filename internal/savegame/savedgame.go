package savegame

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ftageo/basesim/internal/rules"
)

// ErrSaveNotFound is returned when a save or one of its bases does not exist.
var ErrSaveNotFound = errors.New("save not found")

// SavedGame is the whole simulated campaign.
type SavedGame struct {
	Name     string
	Time     GameTime
	Funds    int64
	Score    int
	Bases    []*Base
	Factions []*DiplomacyFaction
	// Researched holds finished research topics.
	Researched map[string]bool
	// Discovered holds topics revealed by interrogation but not yet researched.
	Discovered map[string]bool
	NextID     int
}

// NewSavedGame starts an empty campaign at the given time.
func NewSavedGame(name string, start time.Time, funds int64) *SavedGame {
	return &SavedGame{
		Name:       name,
		Time:       NewGameTime(start),
		Funds:      funds,
		Researched: make(map[string]bool),
		Discovered: make(map[string]bool),
		NextID:     1,
	}
}

// NewID hands out the next entity ID.
func (g *SavedGame) NewID() int {
	if g.NextID < 1 {
		g.NextID = 1
	}
	id := g.NextID
	g.NextID++
	return id
}

// AddBase adds a base and keeps bases sorted by ID.
func (g *SavedGame) AddBase(b *Base) {
	g.Bases = append(g.Bases, b)
	sort.Slice(g.Bases, func(i, j int) bool { return g.Bases[i].ID < g.Bases[j].ID })
}

// Base finds a base by ID.
func (g *SavedGame) Base(id int) (*Base, error) {
	for _, b := range g.Bases {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("base %d: %w", id, ErrSaveNotFound)
}

// AddFunds credits the player.
func (g *SavedGame) AddFunds(n int64) {
	g.Funds += n
}

// SpendFunds debits the player, failing without change when funds are short.
func (g *SavedGame) SpendFunds(n int64) error {
	if g.Funds < n {
		return fmt.Errorf("need %d, have %d: %w", n, g.Funds, ErrNotEnoughMoney)
	}
	g.Funds -= n
	return nil
}

// IsResearched reports whether a topic is finished.
func (g *SavedGame) IsResearched(name string) bool {
	return g.Researched[name]
}

// AddFinishedResearch records a finished topic and the topics it unlocks.
func (g *SavedGame) AddFinishedResearch(r *rules.RuleResearch) {
	if g.Researched == nil {
		g.Researched = make(map[string]bool)
	}
	g.Researched[r.Name] = true
	delete(g.Discovered, r.Name)
	for _, u := range r.Unlocks {
		if !g.Researched[u] {
			g.AddDiscovered(u)
		}
	}
	g.Score += r.Points
}

// AddDiscovered reveals a topic without finishing it.
func (g *SavedGame) AddDiscovered(name string) {
	if g.Discovered == nil {
		g.Discovered = make(map[string]bool)
	}
	g.Discovered[name] = true
}

// IsDiscovered reports whether a topic has been revealed.
func (g *SavedGame) IsDiscovered(name string) bool {
	return g.Discovered[name]
}

// Faction finds a faction by name.
func (g *SavedGame) Faction(name string) (*DiplomacyFaction, bool) {
	for _, f := range g.Factions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// SpawnSoldier hires a soldier of the given type into a base.
func (g *SavedGame) SpawnSoldier(b *Base, typ string, mod *rules.Mod, rng RNG) (*Soldier, error) {
	r, err := mod.Soldier(typ)
	if err != nil {
		return nil, err
	}
	if b.AvailableQuarters() <= 0 {
		return nil, fmt.Errorf("spawning %s in base %d: %w", typ, b.ID, ErrNotEnoughLivingSpace)
	}
	id := g.NewID()
	s := NewSoldier(id, fmt.Sprintf("%s-%d", r.Type, id), r, rng)
	b.AddSoldier(s)
	return s, nil
}
