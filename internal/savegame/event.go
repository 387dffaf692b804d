package savegame

import (
	"strings"
	"time"
)

// EventKind names an outcome of the simulation.
type EventKind string

const (
	EventProductionComplete   EventKind = "production.complete"
	EventProductionStalled    EventKind = "production.stalled"
	EventFacilityBuilt        EventKind = "facility.built"
	EventResearchFinished     EventKind = "research.finished"
	EventPrisonerDied         EventKind = "prisoner.died"
	EventPrisonerInterrogated EventKind = "prisoner.interrogated"
	EventPrisonerRecruited    EventKind = "prisoner.recruited"
	EventFactionFunding       EventKind = "faction.funding"
	EventBaseMaintenance      EventKind = "base.maintenance"
)

// EventKinds lists every kind in a stable order.
func EventKinds() []EventKind {
	return []EventKind{
		EventProductionComplete,
		EventProductionStalled,
		EventFacilityBuilt,
		EventResearchFinished,
		EventPrisonerDied,
		EventPrisonerInterrogated,
		EventPrisonerRecruited,
		EventFactionFunding,
		EventBaseMaintenance,
	}
}

// Command is the dispatcher command for the kind, e.g. ":PRODUCTION:COMPLETE:".
func (k EventKind) Command() string {
	return ":" + strings.ToUpper(strings.ReplaceAll(string(k), ".", ":")) + ":"
}

// KindFromCommand reverses Command.
func KindFromCommand(cmd string) (EventKind, bool) {
	for _, k := range EventKinds() {
		if k.Command() == cmd {
			return k, true
		}
	}
	return "", false
}

// Event is one outcome emitted by the geoscape.
type Event struct {
	Kind      EventKind
	Time      time.Time
	BaseID    int
	SubjectID int
	// Subject is the rule or entity name the event is about.
	Subject string
	// Detail carries the outcome, e.g. the stall reason.
	Detail string
	Value  int64
}
