package savegame

import (
	"fmt"

	"github.com/ftageo/basesim/internal/rules"
)

// BattleObjectEvent is the result of one battle object turn.
type BattleObjectEvent int

const (
	BattleObjectNone BattleObjectEvent = iota
	BattleObjectDestroyed
	BattleObjectTriggered
)

func (e BattleObjectEvent) String() string {
	switch e {
	case BattleObjectNone:
		return "NONE"
	case BattleObjectDestroyed:
		return "DESTROYED"
	case BattleObjectTriggered:
		return "TRIGGERED"
	}
	return fmt.Sprintf("BattleObjectEvent(%d)", int(e))
}

// BattleObject is a destructible objective on the battlescape.
type BattleObject struct {
	ID        int
	Type      string
	Rule      *rules.RuleBattleObject
	Health    int
	Armor     int
	FireTurns int
	// Timer counts down once per turn. Zero or less means no timer.
	Timer     int
	Triggered bool
	Destroyed bool
}

// NewBattleObject places an object at full health with its timer set.
func NewBattleObject(id int, rule *rules.RuleBattleObject) *BattleObject {
	return &BattleObject{
		ID:     id,
		Type:   rule.Type,
		Rule:   rule,
		Health: rule.MaxHealth,
		Armor:  rule.Armor,
		Timer:  rule.TimerTurns,
	}
}

// ApplyDamage hits the object and returns the damage that got through armor.
func (o *BattleObject) ApplyDamage(power int) int {
	if o.Destroyed {
		return 0
	}
	dmg := max(power-o.Armor, 0)
	o.damage(dmg)
	return dmg
}

func (o *BattleObject) damage(dmg int) {
	o.Health -= dmg
	if o.Health <= 0 {
		o.Health = 0
		o.Destroyed = true
	}
}

// Ignite sets the object on fire for at least the given number of turns.
func (o *BattleObject) Ignite(turns int) {
	if o.Destroyed || o.Rule.BurnDamage <= 0 {
		return
	}
	o.FireTurns = max(o.FireTurns, turns)
}

// Think runs one battle turn: fire burns through armor, then the timer ticks.
func (o *BattleObject) Think(rng RNG) BattleObjectEvent {
	if o.Destroyed || o.Triggered {
		return BattleObjectNone
	}

	if o.FireTurns > 0 {
		o.FireTurns--
		o.damage(rng.Generate(1, o.Rule.BurnDamage))
		if o.Destroyed {
			o.FireTurns = 0
			return BattleObjectDestroyed
		}
	}

	if o.Timer > 0 {
		o.Timer--
		if o.Timer == 0 {
			o.Triggered = true
			return BattleObjectTriggered
		}
	}
	return BattleObjectNone
}
