package savegame

import (
	"errors"
	"fmt"

	"github.com/ftageo/basesim/internal/rules"
)

// ErrInvalidAssignment is returned when a soldier cannot take an assignment.
var ErrInvalidAssignment = errors.New("invalid assignment")

// BaseFacility is a module placed in a base.
type BaseFacility struct {
	ID        int
	Type      string
	Rule      *rules.RuleFacility
	BuildDays int
	// ProductionID links a facility under construction to the
	// manufacture order building it. Zero when built by the clock.
	ProductionID int
	Disabled     bool
}

// Built reports whether construction has finished.
func (f *BaseFacility) Built() bool {
	return f.BuildDays <= 0
}

func (f *BaseFacility) active() bool {
	return f.Built() && !f.Disabled && f.Rule != nil
}

// Base is a player-controlled facility hub.
type Base struct {
	ID        int
	Name      string
	Longitude float64
	Latitude  float64

	Items       map[string]int
	Facilities  []*BaseFacility
	Soldiers    []*Soldier
	Productions []*Production
	Research    []*ResearchProject
	Prisoners   []*BasePrisoner

	// roster indexes assigned soldiers by assignment. nil means stale.
	roster map[Assignment][]*Soldier
}

// NewBase creates an empty base.
func NewBase(id int, name string, lon, lat float64) *Base {
	return &Base{
		ID:        id,
		Name:      name,
		Longitude: lon,
		Latitude:  lat,
		Items:     make(map[string]int),
	}
}

// AddItem stores n units of an item.
func (b *Base) AddItem(item string, n int) {
	if n <= 0 {
		return
	}
	if b.Items == nil {
		b.Items = make(map[string]int)
	}
	b.Items[item] += n
}

// RemoveItem takes up to n units out of stores and reports how many were removed.
func (b *Base) RemoveItem(item string, n int) int {
	have := b.Items[item]
	if n > have {
		n = have
	}
	if n <= 0 {
		return 0
	}
	if have-n == 0 {
		delete(b.Items, item)
	} else {
		b.Items[item] = have - n
	}
	return n
}

// ItemCount returns the stored amount of an item.
func (b *Base) ItemCount(item string) int {
	return b.Items[item]
}

// AddFacility places a facility. A linked production ID keeps the
// daily construction clock from touching it.
func (b *Base) AddFacility(f *BaseFacility) {
	b.Facilities = append(b.Facilities, f)
}

// FacilityByID finds a facility.
func (b *Base) FacilityByID(id int) (*BaseFacility, bool) {
	for _, f := range b.Facilities {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// CompletedFacilities lists built facilities of a type.
func (b *Base) CompletedFacilities(typ string) []*BaseFacility {
	var out []*BaseFacility
	for _, f := range b.Facilities {
		if f.Type == typ && f.Built() {
			out = append(out, f)
		}
	}
	return out
}

func (b *Base) facilitySum(get func(*rules.RuleFacility) int) int {
	total := 0
	for _, f := range b.Facilities {
		if f.active() {
			total += get(f.Rule)
		}
	}
	return total
}

// UsedQuarters counts personnel living in the base.
func (b *Base) UsedQuarters() int {
	return len(b.Soldiers)
}

// AvailableQuarters is living space left.
func (b *Base) AvailableQuarters() int {
	return b.facilitySum(func(r *rules.RuleFacility) int { return r.Personnel }) - b.UsedQuarters()
}

// PrisonCapacity is prison space left.
func (b *Base) PrisonCapacity() int {
	return b.facilitySum(func(r *rules.RuleFacility) int { return r.PrisonCapacity }) - len(b.Prisoners)
}

// AvailableWorkshopSpace is workshop space not taken by running orders.
func (b *Base) AvailableWorkshopSpace() int {
	used := 0
	for _, p := range b.Productions {
		used += p.Rule.SpaceRequired
	}
	return b.facilitySum(func(r *rules.RuleFacility) int { return r.Workshops }) - used
}

// ProductionEfficiency is the base-wide manufacture efficiency in percent.
func (b *Base) ProductionEfficiency() int {
	return 100 + b.facilitySum(func(r *rules.RuleFacility) int { return r.ProductionEfficiency })
}

// HasFacilities reports whether every listed facility type is built.
func (b *Base) HasFacilities(types []string) bool {
	for _, t := range types {
		found := false
		for _, f := range b.Facilities {
			if f.Type == t && f.active() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MonthlyMaintenance sums facility upkeep.
func (b *Base) MonthlyMaintenance() int {
	total := 0
	for _, f := range b.Facilities {
		if f.Rule != nil {
			total += f.Rule.MonthlyCost
		}
	}
	return total
}

// AddSoldier moves a soldier into the base.
func (b *Base) AddSoldier(s *Soldier) {
	b.Soldiers = append(b.Soldiers, s)
	b.roster = nil
}

// RemoveSoldier takes a soldier out of the base.
func (b *Base) RemoveSoldier(id int) (*Soldier, bool) {
	for i, s := range b.Soldiers {
		if s.ID == id {
			b.Soldiers = append(b.Soldiers[:i], b.Soldiers[i+1:]...)
			b.roster = nil
			return s, true
		}
	}
	return nil, false
}

// SoldierByID finds a soldier in the base.
func (b *Base) SoldierByID(id int) (*Soldier, bool) {
	for _, s := range b.Soldiers {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

func (b *Base) rebuildRoster() {
	b.roster = make(map[Assignment][]*Soldier)
	for _, s := range b.Soldiers {
		if !s.Assignment.Idle() {
			b.roster[s.Assignment] = append(b.roster[s.Assignment], s)
		}
	}
}

// Roster returns the soldiers assigned to a target, in base order.
func (b *Base) Roster(kind AssignmentKind, targetID int) []*Soldier {
	if b.roster == nil {
		b.rebuildRoster()
	}
	return b.roster[Assignment{Kind: kind, TargetID: targetID}]
}

// Assign puts a soldier on a project, checking role and team size.
func (b *Base) Assign(soldierID int, a Assignment) error {
	s, ok := b.SoldierByID(soldierID)
	if !ok {
		return fmt.Errorf("soldier %d not in base %d: %w", soldierID, b.ID, ErrInvalidAssignment)
	}
	if a.Idle() {
		b.Unassign(soldierID)
		return nil
	}
	if !s.Available() {
		return fmt.Errorf("soldier %d is wounded: %w", soldierID, ErrInvalidAssignment)
	}

	var role rules.Role
	limit := 0
	switch a.Kind {
	case AssignProduction:
		p, ok := b.ProductionByID(a.TargetID)
		if !ok {
			return fmt.Errorf("production %d not found: %w", a.TargetID, ErrInvalidAssignment)
		}
		role, limit = rules.RoleEngineer, p.Rule.MaxEngineers
	case AssignResearch:
		r, ok := b.ResearchByID(a.TargetID)
		if !ok {
			return fmt.Errorf("research %d not found: %w", a.TargetID, ErrInvalidAssignment)
		}
		role, limit = rules.RoleScientist, r.Rule.MaxScientists
	case AssignPrisoner:
		if _, ok := b.PrisonerByID(a.TargetID); !ok {
			return fmt.Errorf("prisoner %d not found: %w", a.TargetID, ErrInvalidAssignment)
		}
		role = rules.RoleAgent
	default:
		return fmt.Errorf("unknown assignment kind %q: %w", a.Kind, ErrInvalidAssignment)
	}

	if s.Role != role {
		return fmt.Errorf("soldier %d is a %s, %s needs a %s: %w", soldierID, s.Role, a.Kind, role, ErrInvalidAssignment)
	}
	if s.Assignment == a {
		return nil
	}
	if limit > 0 && len(b.Roster(a.Kind, a.TargetID)) >= limit {
		return fmt.Errorf("%s %d already has %d workers: %w", a.Kind, a.TargetID, limit, ErrInvalidAssignment)
	}

	s.Assignment = a
	b.roster = nil
	return nil
}

// Unassign makes a soldier idle.
func (b *Base) Unassign(soldierID int) {
	if s, ok := b.SoldierByID(soldierID); ok && !s.Assignment.Idle() {
		s.Assignment = Assignment{}
		b.roster = nil
	}
}

// Release makes every soldier on a target idle and returns how many were released.
func (b *Base) Release(kind AssignmentKind, targetID int) int {
	roster := b.Roster(kind, targetID)
	for _, s := range roster {
		s.Assignment = Assignment{}
	}
	if len(roster) > 0 {
		b.roster = nil
	}
	return len(roster)
}

// AddProduction queues a manufacture order.
func (b *Base) AddProduction(p *Production) {
	b.Productions = append(b.Productions, p)
}

// ProductionByID finds a manufacture order.
func (b *Base) ProductionByID(id int) (*Production, bool) {
	for _, p := range b.Productions {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// RemoveProduction drops a manufacture order and releases its engineers. A
// facility the order was building goes back to the daily construction clock.
func (b *Base) RemoveProduction(id int) bool {
	for i, p := range b.Productions {
		if p.ID == id {
			b.Release(AssignProduction, id)
			for _, f := range b.Facilities {
				if f.ProductionID == id {
					f.ProductionID = 0
				}
			}
			b.Productions = append(b.Productions[:i], b.Productions[i+1:]...)
			return true
		}
	}
	return false
}

// AddResearch starts a research project.
func (b *Base) AddResearch(r *ResearchProject) {
	b.Research = append(b.Research, r)
}

// ResearchByID finds a research project.
func (b *Base) ResearchByID(id int) (*ResearchProject, bool) {
	for _, r := range b.Research {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// RemoveResearch drops a research project and releases its scientists.
func (b *Base) RemoveResearch(id int) bool {
	for i, r := range b.Research {
		if r.ID == id {
			b.Release(AssignResearch, id)
			b.Research = append(b.Research[:i], b.Research[i+1:]...)
			return true
		}
	}
	return false
}

// AddPrisoner puts a captured unit in containment.
func (b *Base) AddPrisoner(p *BasePrisoner) {
	b.Prisoners = append(b.Prisoners, p)
}

// PrisonerByID finds a prisoner.
func (b *Base) PrisonerByID(id int) (*BasePrisoner, bool) {
	for _, p := range b.Prisoners {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// RemovePrisoner drops a prisoner and releases its agents.
func (b *Base) RemovePrisoner(id int) bool {
	for i, p := range b.Prisoners {
		if p.ID == id {
			b.Release(AssignPrisoner, id)
			b.Prisoners = append(b.Prisoners[:i], b.Prisoners[i+1:]...)
			return true
		}
	}
	return false
}
