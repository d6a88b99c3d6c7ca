// Package monitor defines the contracts the reconciliation engine relies on
// to observe the local sync directory and the cloud replica, plus directory-
// backed implementations of both. Per spec.md §4.1/§9, the contract is a
// capability set (start/stop/pause/resume) and a sink for events — not a
// delegate with a back-pointer to the engine — so tests can drive the state
// machine with a fake sink instead of a platform monitor.
package monitor

import (
	"context"

	"github.com/ravensync/kmlsync/internal/model"
)

// Lifecycle is the capability set common to both monitor kinds.
type Lifecycle interface {
	// Start begins observation: an initial full scan followed by a
	// subscription to ongoing changes. Returns once the initial scan has
	// been dispatched to the sink; watching continues in the background.
	Start(ctx context.Context) error
	// Stop ends observation and releases platform watch handles.
	Stop()
	// Pause suspends delivery of DidUpdate/DidReceiveError without tearing
	// down the watch; a resumed monitor does not re-deliver missed events,
	// matching spec.md §4.5 (the next full scan after Resume re-establishes
	// truth).
	Pause()
	// Resume re-enables delivery suspended by Pause.
	Resume()
}

// LocalSink receives events from a LocalMonitor. Exactly one
// DidFinishGathering call is made per Start, followed by zero or more
// DidUpdate calls, each carrying the complete current inventory.
type LocalSink interface {
	DidFinishGathering(model.LocalInventory)
	DidUpdate(model.LocalInventory)
	DidReceiveError(error)
}

// CloudSink receives events from a CloudMonitor. Mirrors LocalSink but
// carries CloudInventory.
type CloudSink interface {
	DidFinishGathering(model.CloudInventory)
	DidUpdate(model.CloudInventory)
	DidReceiveError(error)
}

// LocalMonitor delivers inventories of the local sync directory (spec.md
// §4.1).
type LocalMonitor interface {
	Lifecycle
}

// CloudMonitor delivers inventories of the cloud replica and exposes
// availability / container resolution (spec.md §4.1).
type CloudMonitor interface {
	Lifecycle
	// IsAvailable reports whether the cloud container can currently be
	// reached. The lifecycle controller refuses to Start while it is false.
	IsAvailable() bool
	// IsStarted reports whether Start has been called and Stop has not.
	IsStarted() bool
	// IsPaused reports whether the monitor is currently paused.
	IsPaused() bool
	// FetchContainerURL resolves the cloud container's root location. May
	// block on network/platform calls.
	FetchContainerURL(ctx context.Context) (string, error)
}
