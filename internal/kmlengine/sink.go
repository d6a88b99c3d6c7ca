package kmlengine

import (
	"github.com/ravensync/kmlsync/internal/model"
	"github.com/ravensync/kmlsync/internal/reconcile"
)

// localSinkAdapter and cloudSinkAdapter exist because monitor.LocalSink and
// monitor.CloudSink both declare a method named DidFinishGathering (and
// DidUpdate) over different inventory types — Go does not allow one
// receiver to implement both signatures under the same method name, so each
// side gets its own thin adapter onto Engine's actual handlers.
type localSinkAdapter struct{ engine *Engine }

func (a localSinkAdapter) DidFinishGathering(inv model.LocalInventory) {
	a.engine.onLocalEvent(reconcile.FinishedGatheringLocal(inv))
}

func (a localSinkAdapter) DidUpdate(inv model.LocalInventory) {
	a.engine.onLocalEvent(reconcile.UpdatedLocal(inv))
}

func (a localSinkAdapter) DidReceiveError(err error) {
	a.engine.onMonitorError(err)
}

type cloudSinkAdapter struct{ engine *Engine }

func (a cloudSinkAdapter) DidFinishGathering(inv model.CloudInventory) {
	a.engine.onCloudEvent(reconcile.FinishedGatheringCloud(inv))
}

func (a cloudSinkAdapter) DidUpdate(inv model.CloudInventory) {
	a.engine.onCloudEvent(reconcile.UpdatedCloud(inv))
}

func (a cloudSinkAdapter) DidReceiveError(err error) {
	a.engine.onMonitorError(err)
}

// onLocalEvent and onCloudEvent resolve the event against the machine and
// enqueue the resulting actions onto the background queue, never executing
// I/O on the monitor's own goroutine.
func (e *Engine) onLocalEvent(event reconcile.Event) {
	e.enqueue(e.machine.Resolve(event))
}

func (e *Engine) onCloudEvent(event reconcile.Event) {
	e.enqueue(e.machine.Resolve(event))
}

// onMonitorError forwards the error into the state machine (spec.md §4.2's
// EventError, a no-op on EngineState beyond producing a ReportError action)
// and tells the lifecycle controller about it so fatal kinds stop sync.
func (e *Engine) onMonitorError(err error) {
	e.enqueue(e.machine.Resolve(reconcile.ErrorEvent(err)))
	e.controller.OnMonitorError(isFatalMonitorError(err), err)
}
