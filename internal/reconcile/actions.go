package reconcile

import "github.com/ravensync/kmlsync/internal/model"

// ActionType identifies the kind of outgoing action the reconciliation
// machine produces. See spec.md §4.3 for the taxonomy.
type ActionType int

// Action types produced by Resolve. Ordering within this block has no
// significance — see order.go for the emission-order contract.
const (
	ActionCreateLocal ActionType = iota
	ActionUpdateLocal
	ActionRemoveLocal
	ActionStartDownload
	ActionCreateCloud
	ActionUpdateCloud
	ActionRemoveCloud
	ActionResolveVersionConflict
	ActionResolveInitialCollision
	ActionInitialSyncCompleted
	ActionReportError
)

// String returns a human-readable name, used in logging and CLI output.
func (t ActionType) String() string {
	switch t {
	case ActionCreateLocal:
		return "CreateLocal"
	case ActionUpdateLocal:
		return "UpdateLocal"
	case ActionRemoveLocal:
		return "RemoveLocal"
	case ActionStartDownload:
		return "StartDownload"
	case ActionCreateCloud:
		return "CreateCloud"
	case ActionUpdateCloud:
		return "UpdateCloud"
	case ActionRemoveCloud:
		return "RemoveCloud"
	case ActionResolveVersionConflict:
		return "ResolveVersionConflict"
	case ActionResolveInitialCollision:
		return "ResolveInitialCollision"
	case ActionInitialSyncCompleted:
		return "InitialSyncCompleted"
	case ActionReportError:
		return "ReportError"
	default:
		return "Unknown"
	}
}

// Action is a single outgoing instruction from the reconciliation machine to
// the I/O orchestrator. Exactly one of Cloud / Local is populated, depending
// on Type; both are nil for ActionInitialSyncCompleted and ActionReportError.
type Action struct {
	Type ActionType

	// Cloud carries the cloud-side item driving cloud-sourced actions
	// (CreateLocal, UpdateLocal, RemoveLocal, StartDownload,
	// ResolveVersionConflict).
	Cloud *model.CloudItem

	// Local carries the local-side item driving local-sourced actions
	// (CreateCloud, UpdateCloud, RemoveCloud, ResolveInitialCollision).
	Local *model.LocalItem

	// Err carries the forwarded error for ActionReportError.
	Err error
}

func createLocalAction(item model.CloudItem) Action {
	return Action{Type: ActionCreateLocal, Cloud: &item}
}

func updateLocalAction(item model.CloudItem) Action {
	return Action{Type: ActionUpdateLocal, Cloud: &item}
}

func removeLocalAction(item model.CloudItem) Action {
	return Action{Type: ActionRemoveLocal, Cloud: &item}
}

func startDownloadAction(item model.CloudItem) Action {
	return Action{Type: ActionStartDownload, Cloud: &item}
}

func createCloudAction(item model.LocalItem) Action {
	return Action{Type: ActionCreateCloud, Local: &item}
}

func updateCloudAction(item model.LocalItem) Action {
	return Action{Type: ActionUpdateCloud, Local: &item}
}

func removeCloudAction(item model.LocalItem) Action {
	return Action{Type: ActionRemoveCloud, Local: &item}
}

func resolveInitialCollisionAction(item model.LocalItem) Action {
	return Action{Type: ActionResolveInitialCollision, Local: &item}
}

func reportErrorAction(err error) Action {
	return Action{Type: ActionReportError, Err: err}
}

var initialSyncCompletedAction = Action{Type: ActionInitialSyncCompleted}
