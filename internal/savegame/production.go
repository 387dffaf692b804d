package savegame

import (
	"errors"
	"fmt"

	"github.com/ftageo/basesim/internal/rules"
)

var (
	// ErrNotEnoughMoney is returned when funds cannot cover the next unit.
	ErrNotEnoughMoney = errors.New("not enough money")
	// ErrNotEnoughMaterials is returned when stores cannot cover the next unit.
	ErrNotEnoughMaterials = errors.New("not enough materials")
	// ErrNotEnoughLivingSpace is returned when a spawned person has nowhere to live.
	ErrNotEnoughLivingSpace = errors.New("not enough living space")
)

// ProductionProgress is the result of one production step.
type ProductionProgress int

const (
	ProgressNotComplete ProductionProgress = iota
	ProgressComplete
	ProgressNotEnoughMoney
	ProgressNotEnoughMaterials
	ProgressNotEnoughLivingSpace
	ProgressConstruction
)

func (p ProductionProgress) String() string {
	switch p {
	case ProgressNotComplete:
		return "NOT_COMPLETE"
	case ProgressComplete:
		return "COMPLETE"
	case ProgressNotEnoughMoney:
		return "NOT_ENOUGH_MONEY"
	case ProgressNotEnoughMaterials:
		return "NOT_ENOUGH_MATERIALS"
	case ProgressNotEnoughLivingSpace:
		return "NOT_ENOUGH_LIVING_SPACE"
	case ProgressConstruction:
		return "CONSTRUCTION"
	}
	return fmt.Sprintf("ProductionProgress(%d)", int(p))
}

// Finished reports whether the order should leave the queue.
func (p ProductionProgress) Finished() bool {
	return p != ProgressNotComplete
}

// Production is a base's in-progress manufacture order.
type Production struct {
	ID       int
	Rule     *rules.RuleManufacture
	Amount   int
	Infinite bool
	Sell     bool
	// TimeSpent is accumulated effort in man-hours.
	TimeSpent float64
	// Efficiency scales engineer effort, in percent.
	Efficiency int
	// FacilityID is set when the order builds a base facility.
	FacilityID int
}

// NewProduction creates an order for amount units.
func NewProduction(id int, rule *rules.RuleManufacture, amount int) *Production {
	if amount < 1 || rule.IsFacility() {
		amount = 1
	}
	return &Production{
		ID:         id,
		Rule:       rule,
		Amount:     amount,
		Efficiency: 100,
	}
}

func (p *Production) manufactureTime() float64 {
	if p.Rule.ManufactureTime < 1 {
		return 1
	}
	return float64(p.Rule.ManufactureTime)
}

// instant orders have no manufacture time and need no engineers.
func (p *Production) instant() bool {
	return p.Rule.ManufactureTime <= 0
}

// AmountProduced is the number of whole units the spent time covers. An
// instant order always reports its full amount.
func (p *Production) AmountProduced() int {
	if p.instant() {
		return p.Amount
	}
	return int(p.TimeSpent / p.manufactureTime())
}

// Engineers returns the engineers assigned to this order.
func (p *Production) Engineers(b *Base) []*Soldier {
	return b.Roster(AssignProduction, p.ID)
}

func (p *Production) haveEnoughMoney(g *SavedGame) bool {
	return g.Funds >= int64(p.Rule.Cost)
}

func (p *Production) haveEnoughMaterials(b *Base) bool {
	for item, n := range p.Rule.RequiredItems {
		if b.ItemCount(item) < n {
			return false
		}
	}
	return true
}

func (p *Production) haveEnoughLivingSpace(b *Base) bool {
	return p.Rule.SpawnedPersonType == "" || b.AvailableQuarters() > 0
}

// canStart checks the next unit's requirements in the order the engine reports them.
func (p *Production) canStart(b *Base, g *SavedGame) ProductionProgress {
	if !p.haveEnoughMoney(g) {
		return ProgressNotEnoughMoney
	}
	if !p.haveEnoughMaterials(b) {
		return ProgressNotEnoughMaterials
	}
	if !p.haveEnoughLivingSpace(b) {
		return ProgressNotEnoughLivingSpace
	}
	return ProgressNotComplete
}

// StartItem pays for one unit.
func (p *Production) StartItem(b *Base, g *SavedGame) {
	g.Funds -= int64(p.Rule.Cost)
	for item, n := range p.Rule.RequiredItems {
		b.RemoveItem(item, n)
	}
}

// Start pays for the first unit. Nothing is deducted on error.
func (p *Production) Start(b *Base, g *SavedGame) error {
	switch p.canStart(b, g) {
	case ProgressNotEnoughMoney:
		return fmt.Errorf("starting %s: %w", p.Rule.Name, ErrNotEnoughMoney)
	case ProgressNotEnoughMaterials:
		return fmt.Errorf("starting %s: %w", p.Rule.Name, ErrNotEnoughMaterials)
	case ProgressNotEnoughLivingSpace:
		return fmt.Errorf("starting %s: %w", p.Rule.Name, ErrNotEnoughLivingSpace)
	}
	p.StartItem(b, g)
	return nil
}

// Refund returns the cost of the unit in progress.
func (p *Production) Refund(b *Base, g *SavedGame) {
	g.Funds += int64(p.Rule.Cost)
	for item, n := range p.Rule.RequiredItems {
		b.AddItem(item, n)
	}
}

// Progress is the effort the assigned engineers put in this tick, scaled by
// order and base efficiency. Engineers roll skill-ups afterwards.
func (p *Production) Progress(b *Base, mod *rules.Mod, rng RNG) float64 {
	roster := p.Engineers(b)
	effort := Effort(roster, p.Rule.StatWeights, mod.Constants)
	if effort == 0 {
		return 0
	}
	TrainRoster(roster, p.Rule.StatWeights, mod, rng)
	return effort * float64(p.Efficiency) / 100 * float64(b.ProductionEfficiency()) / 100
}

// deliver hands over one finished unit.
func (p *Production) deliver(b *Base, g *SavedGame, mod *rules.Mod, rng RNG) ProductionProgress {
	if p.Rule.IsFacility() {
		if f, ok := b.FacilityByID(p.FacilityID); ok {
			f.BuildDays = 0
			f.ProductionID = 0
		}
		return ProgressConstruction
	}

	if p.Rule.SpawnedPersonType != "" {
		if b.AvailableQuarters() <= 0 {
			return ProgressNotEnoughLivingSpace
		}
		if _, err := g.SpawnSoldier(b, p.Rule.SpawnedPersonType, mod, rng); err != nil {
			return ProgressNotEnoughLivingSpace
		}
	}

	for item, n := range p.Rule.ProducedItems {
		if p.Sell && p.Rule.SellValue > 0 {
			g.Funds += int64(p.Rule.SellValue) * int64(n)
		} else {
			b.AddItem(item, n)
		}
	}
	return ProgressNotComplete
}

// Step adds this tick's progress and delivers every unit it completes.
// Instant orders deliver their remaining units in one step.
func (p *Production) Step(b *Base, g *SavedGame, mod *rules.Mod, rng RNG) ProductionProgress {
	var done, produced int
	if p.instant() {
		// TimeSpent counts delivered units
		done = int(p.TimeSpent)
		produced = p.Amount
		if p.Infinite {
			produced = done + p.Amount
		}
	} else {
		done = p.AmountProduced()
		p.TimeSpent += p.Progress(b, mod, rng)
		produced = p.AmountProduced()
		if !p.Infinite && produced > p.Amount {
			produced = p.Amount
		}
	}

	for count := done; count < produced; {
		if res := p.deliver(b, g, mod, rng); res != ProgressNotComplete {
			return res
		}
		count++
		if p.instant() {
			p.TimeSpent = float64(count)
		}
		if count < produced {
			if res := p.canStart(b, g); res != ProgressNotComplete {
				return res
			}
			p.StartItem(b, g)
		}
	}

	if !p.Infinite && produced >= p.Amount {
		return ProgressComplete
	}
	if done < produced {
		if res := p.canStart(b, g); res != ProgressNotComplete {
			return res
		}
		p.StartItem(b, g)
	}
	return ProgressNotComplete
}
