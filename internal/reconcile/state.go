package reconcile

import "github.com/ravensync/kmlsync/internal/model"

// EngineState is the reconciliation machine's memory (spec.md §3). It is
// owned by exactly one Machine for the lifetime of a sync session and is
// never mutated except through Resolve. The zero value is the correct
// initial state except for InitialSyncDone, which callers should restore
// from internal/statestore before the first Resolve call — it is the one
// field spec.md requires to survive a process restart.
type EngineState struct {
	LastLocal     model.LocalInventory
	LastCloud     model.CloudInventory
	LocalGathered bool
	CloudGathered bool

	// InitialSyncDone persists across runs (spec.md §6). The machine only
	// ever flips it false→true, when it emits ActionInitialSyncCompleted;
	// the caller is responsible for persisting that transition.
	InitialSyncDone bool
}

// Phase derives the coarse lifecycle phase from the gathered flags, per
// spec.md §4.2. It never gates transitions — those are driven solely by
// which events arrive — it exists purely for status reporting.
func (s EngineState) Phase() Phase {
	switch {
	case s.LocalGathered && s.CloudGathered:
		return PhaseRunning
	case s.LocalGathered:
		return PhaseGatheringCloud
	case s.CloudGathered:
		return PhaseGatheringLocal
	default:
		return PhaseIdle
	}
}

// reset clears inventories and gathered flags. InitialSyncDone is left
// untouched: it is persisted state, not session state (spec.md §4.2's
// Reset event only clears "inventories and gathered flags").
func (s *EngineState) reset() {
	s.LastLocal = nil
	s.LastCloud = nil
	s.LocalGathered = false
	s.CloudGathered = false
}
