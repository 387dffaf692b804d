package savegame

import "time"

// GameTime is the geoscape clock. It is always kept in UTC.
type GameTime struct {
	t time.Time
}

// Boundaries reports which calendar boundaries an Advance crossed.
type Boundaries struct {
	Hour  bool
	Day   bool
	Month bool
}

// NewGameTime starts the clock at t.
func NewGameTime(t time.Time) GameTime {
	return GameTime{t: t.UTC()}
}

// Time returns the current game time.
func (g GameTime) Time() time.Time {
	return g.t
}

// Advance moves the clock forward by d.
func (g *GameTime) Advance(d time.Duration) Boundaries {
	prev := g.t
	g.t = g.t.Add(d)

	py, pm, pd := prev.Date()
	ny, nm, nd := g.t.Date()
	return Boundaries{
		Hour:  prev.Unix()/3600 != g.t.Unix()/3600,
		Day:   py != ny || pm != nm || pd != nd,
		Month: py != ny || pm != nm,
	}
}
