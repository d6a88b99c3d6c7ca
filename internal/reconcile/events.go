package reconcile

import "github.com/ravensync/kmlsync/internal/model"

// EventKind identifies the kind of event delivered to Resolve. See
// spec.md §4.2.
type EventKind int

const (
	// EventFinishedGatheringLocal carries the initial full local scan.
	EventFinishedGatheringLocal EventKind = iota
	// EventFinishedGatheringCloud carries the initial full cloud scan.
	EventFinishedGatheringCloud
	// EventUpdatedLocal carries a subsequent full local inventory.
	EventUpdatedLocal
	// EventUpdatedCloud carries a subsequent full cloud inventory.
	EventUpdatedCloud
	// EventError forwards a monitor error without touching state.
	EventError
	// EventReset clears inventories and gathered flags.
	EventReset
)

// Event is the single input type Resolve accepts. Exactly one of
// LocalInventory / CloudInventory / Err is populated, depending on Kind.
// A flat struct (rather than one Go type per event) mirrors how monitor
// observations already arrive — a kind tag plus whichever inventory changed.
type Event struct {
	Kind           EventKind
	LocalInventory model.LocalInventory
	CloudInventory model.CloudInventory
	Err            error
}

// FinishedGatheringLocal builds the event for a local monitor's first full
// scan completing.
func FinishedGatheringLocal(inv model.LocalInventory) Event {
	return Event{Kind: EventFinishedGatheringLocal, LocalInventory: inv}
}

// FinishedGatheringCloud builds the event for a cloud monitor's first full
// scan completing.
func FinishedGatheringCloud(inv model.CloudInventory) Event {
	return Event{Kind: EventFinishedGatheringCloud, CloudInventory: inv}
}

// UpdatedLocal builds the event for a subsequent full local inventory.
func UpdatedLocal(inv model.LocalInventory) Event {
	return Event{Kind: EventUpdatedLocal, LocalInventory: inv}
}

// UpdatedCloud builds the event for a subsequent full cloud inventory.
func UpdatedCloud(inv model.CloudInventory) Event {
	return Event{Kind: EventUpdatedCloud, CloudInventory: inv}
}

// ErrorEvent builds the event that forwards a monitor error unchanged.
func ErrorEvent(err error) Event {
	return Event{Kind: EventError, Err: err}
}

// ResetEvent builds the event that clears inventories and gathered flags.
func ResetEvent() Event {
	return Event{Kind: EventReset}
}

// Phase is the coarse state-machine state exposed for status reporting
// (spec.md §4.2's { Idle, GatheringLocal, GatheringCloud, Gathering, Running }).
// It is derived, never stored independently — see EngineState.Phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGatheringLocal
	PhaseGatheringCloud
	PhaseGathering
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseGatheringLocal:
		return "GatheringLocal"
	case PhaseGatheringCloud:
		return "GatheringCloud"
	case PhaseGathering:
		return "Gathering"
	case PhaseRunning:
		return "Running"
	default:
		return "Unknown"
	}
}
