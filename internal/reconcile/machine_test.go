package reconcile_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravensync/kmlsync/internal/model"
	"github.com/ravensync/kmlsync/internal/reconcile"
)

func mkLocal(name string, mod time.Time) model.LocalItem {
	return model.LocalItem{MetadataItem: model.MetadataItem{FileName: name, LastModificationDate: mod}}
}

func mkCloud(name string, mod time.Time, downloaded, trash bool) model.CloudItem {
	return model.CloudItem{
		MetadataItem: model.MetadataItem{FileName: name, LastModificationDate: mod},
		IsDownloaded: downloaded,
		IsInTrash:    trash,
	}
}

func at(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}

func actionTypes(actions []reconcile.Action) []reconcile.ActionType {
	out := make([]reconcile.ActionType, len(actions))
	for i, a := range actions {
		out[i] = a.Type
	}

	return out
}

// S1: empty/empty.
func TestScenarioS1EmptyEmpty(t *testing.T) {
	m := reconcile.NewMachine(reconcile.EngineState{}, nil)

	require.Empty(t, m.Resolve(reconcile.FinishedGatheringLocal(model.LocalInventory{})))
	require.Empty(t, m.Resolve(reconcile.FinishedGatheringCloud(model.CloudInventory{})))
}

// S2: cloud-only.
func TestScenarioS2CloudOnly(t *testing.T) {
	m := reconcile.NewMachine(reconcile.EngineState{}, nil)

	require.Empty(t, m.Resolve(reconcile.FinishedGatheringLocal(model.LocalInventory{})))

	actions := m.Resolve(reconcile.FinishedGatheringCloud(model.CloudInventory{
		"a.kml": mkCloud("a.kml", at(100), true, false),
	}))

	require.Len(t, actions, 1)
	assert.Equal(t, reconcile.ActionCreateLocal, actions[0].Type)
	assert.Equal(t, "a.kml", actions[0].Cloud.FileName)
}

// S3: conflicting edit — cloud is newer, then local update that is stale.
func TestScenarioS3ConflictingEdit(t *testing.T) {
	state := reconcile.EngineState{
		LastLocal:       model.LocalInventory{"b.kml": mkLocal("b.kml", at(10))},
		LastCloud:       model.CloudInventory{"b.kml": mkCloud("b.kml", at(10), true, false)},
		LocalGathered:   true,
		CloudGathered:   true,
		InitialSyncDone: true,
	}
	m := reconcile.NewMachine(state, nil)

	actions := m.Resolve(reconcile.UpdatedCloud(model.CloudInventory{
		"b.kml": mkCloud("b.kml", at(20), true, false),
	}))

	require.Len(t, actions, 1)
	assert.Equal(t, reconcile.ActionUpdateLocal, actions[0].Type)
	assert.True(t, actions[0].Cloud.ModTime().Equal(at(20)))

	actions = m.Resolve(reconcile.UpdatedLocal(model.LocalInventory{
		"b.kml": mkLocal("b.kml", at(15)),
	}))
	assert.Empty(t, actions, "cloud is newer than the stale local edit: no action")
}

// S4: trashed cloud item triggers a local removal.
func TestScenarioS4TrashedCloud(t *testing.T) {
	state := reconcile.EngineState{
		LastLocal:     model.LocalInventory{"c.kml": mkLocal("c.kml", at(1))},
		LastCloud:     model.CloudInventory{"c.kml": mkCloud("c.kml", at(1), true, false)},
		LocalGathered: true,
		CloudGathered: true,
	}
	m := reconcile.NewMachine(state, nil)

	actions := m.Resolve(reconcile.UpdatedCloud(model.CloudInventory{
		"c.kml": mkCloud("c.kml", at(1), true, true),
	}))

	require.Len(t, actions, 1)
	assert.Equal(t, reconcile.ActionRemoveLocal, actions[0].Type)
}

// S5: not-downloaded cloud item requests a download before creating locally.
func TestScenarioS5NotDownloaded(t *testing.T) {
	state := reconcile.EngineState{LocalGathered: true, CloudGathered: true}
	m := reconcile.NewMachine(state, nil)

	actions := m.Resolve(reconcile.UpdatedCloud(model.CloudInventory{
		"d.kml": mkCloud("d.kml", at(1), false, false),
	}))
	require.Len(t, actions, 1)
	assert.Equal(t, reconcile.ActionStartDownload, actions[0].Type)

	actions = m.Resolve(reconcile.UpdatedCloud(model.CloudInventory{
		"d.kml": mkCloud("d.kml", at(1), true, false),
	}))
	require.Len(t, actions, 1)
	assert.Equal(t, reconcile.ActionCreateLocal, actions[0].Type)
}

// S6: initial collision on first-ever run with non-empty sides.
func TestScenarioS6InitialCollision(t *testing.T) {
	m := reconcile.NewMachine(reconcile.EngineState{}, nil)

	require.Empty(t, m.Resolve(reconcile.FinishedGatheringLocal(model.LocalInventory{
		"x.kml": mkLocal("x.kml", at(50)),
	})))

	actions := m.Resolve(reconcile.FinishedGatheringCloud(model.CloudInventory{
		"x.kml": mkCloud("x.kml", at(70), true, false),
	}))

	types := actionTypes(actions)
	require.Len(t, types, 3)
	assert.Equal(t, reconcile.ActionResolveInitialCollision, types[0])
	assert.Equal(t, reconcile.ActionUpdateLocal, types[1])
	assert.Equal(t, reconcile.ActionInitialSyncCompleted, types[2])

	assert.True(t, m.Snapshot().InitialSyncDone)
}

func TestErrorEventForwardsWithoutMutatingState(t *testing.T) {
	m := reconcile.NewMachine(reconcile.EngineState{LocalGathered: true}, nil)

	before := m.Snapshot()
	actions := m.Resolve(reconcile.ErrorEvent(errors.New("boom")))

	require.Len(t, actions, 1)
	assert.Equal(t, reconcile.ActionReportError, actions[0].Type)
	assert.EqualError(t, actions[0].Err, "boom")
	assert.Equal(t, before, m.Snapshot())
}

func TestResetClearsInventoriesButKeepsInitialSyncDone(t *testing.T) {
	m := reconcile.NewMachine(reconcile.EngineState{
		LastLocal:       model.LocalInventory{"a.kml": mkLocal("a.kml", at(1))},
		LocalGathered:   true,
		CloudGathered:   true,
		InitialSyncDone: true,
	}, nil)

	actions := m.Resolve(reconcile.ResetEvent())
	assert.Empty(t, actions)

	snap := m.Snapshot()
	assert.False(t, snap.LocalGathered)
	assert.False(t, snap.CloudGathered)
	assert.Nil(t, snap.LastLocal)
	assert.True(t, snap.InitialSyncDone, "InitialSyncDone survives Reset — it is persisted, not session, state")
}

// Property: purity. The same (state, event) pair always yields the same
// action list.
func TestPropertyPurity(t *testing.T) {
	build := func() *reconcile.Machine {
		return reconcile.NewMachine(reconcile.EngineState{
			LastLocal:       model.LocalInventory{"a.kml": mkLocal("a.kml", at(5))},
			LastCloud:       model.CloudInventory{"a.kml": mkCloud("a.kml", at(5), true, false)},
			LocalGathered:   true,
			CloudGathered:   true,
			InitialSyncDone: true,
		}, nil)
	}

	event := reconcile.UpdatedCloud(model.CloudInventory{
		"a.kml": mkCloud("a.kml", at(9), true, false),
		"b.kml": mkCloud("b.kml", at(1), true, false),
	})

	first := build().Resolve(event)
	second := build().Resolve(event)

	assert.Equal(t, first, second)
}

// Property: convergence. Applying the produced actions to a simulated file
// system and re-running Resolve on the post-state yields no further
// actions within two passes.
func TestPropertyConvergence(t *testing.T) {
	local := model.LocalInventory{}
	cloud := model.CloudInventory{
		"a.kml": mkCloud("a.kml", at(10), true, false),
		"b.kml": mkCloud("b.kml", at(20), true, false),
	}

	m := reconcile.NewMachine(reconcile.EngineState{}, nil)
	require.Empty(t, m.Resolve(reconcile.FinishedGatheringLocal(local)))
	actions := m.Resolve(reconcile.FinishedGatheringCloud(cloud))

	// Simulate applying CreateLocal actions: the local file now matches the
	// cloud item's mod time.
	for _, a := range actions {
		if a.Type == reconcile.ActionCreateLocal {
			local[a.Cloud.FileName] = mkLocal(a.Cloud.FileName, a.Cloud.ModTime())
		}
	}

	more := m.Resolve(reconcile.UpdatedLocal(local))
	assert.Empty(t, more, "post-state should be fully converged after one cloud pass")
}
