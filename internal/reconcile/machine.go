package reconcile

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/ravensync/kmlsync/internal/model"
)

// Machine is the pure reconciliation state machine (spec.md §4.2). It is
// single-threaded by invocation: Resolve must never be called re-entrantly
// or concurrently on the same Machine — callers hand monitor callbacks to
// it under the same mutex that guards EngineState (spec.md §5). The mutex
// lives here rather than in the caller so tests can call Resolve directly
// without reimplementing that guarantee.
type Machine struct {
	mu     sync.Mutex
	state  EngineState
	logger *slog.Logger
}

// NewMachine creates a Machine. initial is typically the zero EngineState
// with InitialSyncDone restored from internal/statestore.
func NewMachine(initial EngineState, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Machine{state: initial, logger: logger}
}

// Snapshot returns a copy of the current state, for status reporting. The
// returned inventories are the same maps held internally — callers must
// treat them as read-only.
func (m *Machine) Snapshot() EngineState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Resolve applies event to the machine's state and returns the ordered list
// of actions the I/O orchestrator must perform. No I/O happens here; this
// method only ever reads its inputs and writes m.state.
func (m *Machine) Resolve(event Event) []Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch event.Kind {
	case EventFinishedGatheringLocal:
		return m.onFinishedGatheringLocal(event.LocalInventory)
	case EventFinishedGatheringCloud:
		return m.onFinishedGatheringCloud(event.CloudInventory)
	case EventUpdatedLocal:
		return m.onUpdatedLocal(event.LocalInventory)
	case EventUpdatedCloud:
		return m.onUpdatedCloud(event.CloudInventory)
	case EventError:
		return []Action{reportErrorAction(event.Err)}
	case EventReset:
		m.state.reset()
		return nil
	default:
		return nil
	}
}

func (m *Machine) onFinishedGatheringLocal(inv model.LocalInventory) []Action {
	m.state.LastLocal = inv
	m.state.LocalGathered = true

	m.logger.Info("local gathering finished", slog.Int("items", len(inv)))

	if !m.state.CloudGathered {
		return nil
	}

	return m.initialReconcile()
}

func (m *Machine) onFinishedGatheringCloud(inv model.CloudInventory) []Action {
	m.state.LastCloud = inv
	m.state.CloudGathered = true

	m.logger.Info("cloud gathering finished", slog.Int("items", len(inv)))

	if !m.state.LocalGathered {
		return nil
	}

	return m.initialReconcile()
}

func (m *Machine) onUpdatedLocal(inv model.LocalInventory) []Action {
	actions := orderBatch(incrementalLocalToCloud(m.state.LastLocal, inv, m.state.LastCloud))
	m.state.LastLocal = inv

	m.logger.Debug("local update reconciled", slog.Int("actions", len(actions)))

	return actions
}

func (m *Machine) onUpdatedCloud(inv model.CloudInventory) []Action {
	actions := orderBatch(incrementalCloudToLocal(inv, m.state.LastLocal))
	m.state.LastCloud = inv

	m.logger.Debug("cloud update reconciled", slog.Int("actions", len(actions)))

	return actions
}

// initialReconcile runs once both sides have completed their first full
// gather (spec.md §4.2's initial-reconciliation-by-emptiness table).
func (m *Machine) initialReconcile() []Action {
	local := m.state.LastLocal
	cloud := m.state.LastCloud

	localEmpty := len(local) == 0
	cloudEmpty := len(cloud) == 0

	switch {
	case localEmpty && cloudEmpty:
		return nil

	case localEmpty && !cloudEmpty:
		return orderBatch(incrementalCloudToLocal(cloud, nil))

	case !localEmpty && cloudEmpty:
		return orderBatch(incrementalLocalToCloud(nil, local, nil))

	default:
		if m.state.InitialSyncDone {
			cloudActions := orderBatch(incrementalCloudToLocal(cloud, local))
			localActions := orderBatch(incrementalLocalToCloud(local, local, cloud))

			return append(cloudActions, localActions...)
		}

		return m.initialCollision(local)
	}
}

// initialCollision handles the first-ever run with non-empty inventories on
// both sides (spec.md §4.7's initial-collision case). Every local item is
// preserved under a device-suffixed name via ActionResolveInitialCollision;
// the cloud items then reconcile into the local directory through the
// normal incremental cloud→local path, and the pass ends with
// ActionInitialSyncCompleted so the caller persists InitialSyncDone.
func (m *Machine) initialCollision(local model.LocalInventory) []Action {
	actions := make([]Action, 0, len(local)+1)

	names := make([]string, 0, len(local))
	for name := range local {
		names = append(names, name)
	}

	sortStrings(names)

	for _, name := range names {
		actions = append(actions, resolveInitialCollisionAction(local[name]))
	}

	actions = append(actions, orderBatch(incrementalCloudToLocal(m.state.LastCloud, local))...)

	m.state.InitialSyncDone = true
	actions = append(actions, initialSyncCompletedAction)

	return actions
}

// incrementalCloudToLocal implements spec.md §4.2's cloud→local matrix.
// cloud is the newly observed cloud inventory; prevLocal is the previously
// stored local inventory (nil treated as empty).
func incrementalCloudToLocal(cloud model.CloudInventory, prevLocal model.LocalInventory) []Action {
	var actions []Action

	names := make([]string, 0, len(cloud))
	for name := range cloud {
		names = append(names, name)
	}

	sortStrings(names)

	for _, name := range names {
		item := cloud[name]
		localItem, existedLocally := prevLocal[name]

		switch {
		case !existedLocally:
			if item.IsInTrash {
				continue
			}

			actions = append(actions, cloudToLocalCreateOrDownload(item))

		case item.IsInTrash:
			actions = append(actions, removeLocalAction(item))

		case item.ModTime().After(localItem.ModTime()):
			actions = append(actions, cloudToLocalUpdateOrDownload(item))
		}
	}

	return actions
}

func cloudToLocalCreateOrDownload(item model.CloudItem) Action {
	if item.IsDownloaded {
		return createLocalAction(item)
	}

	return startDownloadAction(item)
}

func cloudToLocalUpdateOrDownload(item model.CloudItem) Action {
	if item.IsDownloaded {
		return updateLocalAction(item)
	}

	return startDownloadAction(item)
}

// incrementalLocalToCloud implements spec.md §4.2's local→cloud matrix.
// prevLocal and newLocal are the previous and current local inventories;
// cloud is the currently stored cloud inventory.
func incrementalLocalToCloud(prevLocal, newLocal model.LocalInventory, cloud model.CloudInventory) []Action {
	var actions []Action

	names := make([]string, 0, len(newLocal)+len(prevLocal))
	seen := map[string]struct{}{}

	for name := range newLocal {
		if _, ok := seen[name]; !ok {
			names = append(names, name)
			seen[name] = struct{}{}
		}
	}

	for name := range prevLocal {
		if _, ok := seen[name]; !ok {
			names = append(names, name)
			seen[name] = struct{}{}
		}
	}

	sortStrings(names)

	for _, name := range names {
		newItem, stillLocal := newLocal[name]
		oldItem, wasLocal := prevLocal[name]
		cloudItem, existsInCloud := cloud[name]

		switch {
		case stillLocal && !existsInCloud:
			actions = append(actions, createCloudAction(newItem))

		case !stillLocal && wasLocal:
			actions = append(actions, removeCloudAction(oldItem))

		case stillLocal && existsInCloud && !cloudItem.IsInTrash && newItem.ModTime().After(cloudItem.ModTime()):
			actions = append(actions, updateCloudAction(newItem))
		}
	}

	return actions
}

// sortStrings sorts names in place, keeping Resolve's output deterministic
// (spec.md §8 property 1) regardless of Go's randomized map iteration order.
func sortStrings(names []string) {
	sort.Strings(names)
}
