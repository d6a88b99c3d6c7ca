// Package kmlengine wires the monitor, reconcile, conflict, orchestrator,
// statestore, and lifecycle packages into spec.md §4's single sync engine:
// the concrete thing the root kmlsync command starts, pauses, and stops.
package kmlengine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ravensync/kmlsync/internal/conflict"
	"github.com/ravensync/kmlsync/internal/config"
	"github.com/ravensync/kmlsync/internal/coordination"
	"github.com/ravensync/kmlsync/internal/lifecycle"
	"github.com/ravensync/kmlsync/internal/monitor"
	"github.com/ravensync/kmlsync/internal/orchestrator"
	"github.com/ravensync/kmlsync/internal/reconcile"
	"github.com/ravensync/kmlsync/internal/statestore"
)

// Dependencies bundles everything Engine needs that isn't derivable from
// config alone: platform collaborators spec.md §6 calls out as consumed
// interfaces the core does not implement.
type Dependencies struct {
	// CloudRoot is the directory standing in for the cloud replica (see
	// internal/monitor's directory-simulation convention). In a real
	// deployment this is the platform's ubiquity container mount point.
	CloudRoot string

	// StateDBPath overrides where the persisted-state database lives.
	// Defaults to config.StateDBPath() (the platform data directory), not
	// the sync root, since a directory convention already reserves the
	// sync root for .kml files plus the monitor's own sentinel files.
	StateDBPath string

	Downloader orchestrator.Downloader
	Loader     orchestrator.BookmarkLoader
	Extension  lifecycle.BackgroundExtension
	Bookmarks  lifecycle.BookmarkSubscription

	Logger *slog.Logger
}

// Engine is the assembled sync engine: one reconcile.Machine fed by two
// monitors, dispatching to one Orchestrator through a single background
// queue so reconcile passes never overlap (spec.md §4.4).
type Engine struct {
	cfg    config.Config
	logger *slog.Logger

	store        *statestore.Store
	machine      *reconcile.Machine
	orchestrator *orchestrator.Orchestrator
	controller   *lifecycle.Controller
	cloud        monitor.CloudMonitor
	local        monitor.LocalMonitor

	queue chan []reconcile.Action
	quit  chan struct{}
}

// New assembles an Engine from cfg and deps. It opens the state database
// at deps.StateDBPath (default config.StateDBPath()), restores
// InitialSyncDone, and wires every
// collaborator, but does not start monitoring — call Start for that.
func New(ctx context.Context, cfg config.Config, deps Dependencies) (*Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := config.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("kmlengine: invalid config: %w", err)
	}

	if err := config.RequireSyncRoot(&cfg); err != nil {
		return nil, fmt.Errorf("kmlengine: %w", err)
	}

	dbPath := deps.StateDBPath
	if dbPath == "" {
		dbPath = config.StateDBPath()
	}

	store, err := statestore.Open(ctx, dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("kmlengine: opening state store: %w", err)
	}

	initialDone, err := store.GetInitialSyncDone(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("kmlengine: reading initial sync state: %w", err)
	}

	machine := reconcile.NewMachine(reconcile.EngineState{InitialSyncDone: initialDone}, logger)

	coordinator := coordination.NewCoordinator()

	resolver := conflict.NewResolver(
		coordinator,
		&conflict.DirVersionLister{},
		config.DeviceNameOrHostname(&cfg),
		cfg.Sync.SyncRoot,
		logger,
	)

	e := &Engine{
		cfg:    cfg,
		logger: logger,
		store:  store,
		queue:  make(chan []reconcile.Action, 64),
		quit:   make(chan struct{}),
	}

	local := monitor.NewLocalDirMonitor(cfg.Sync.SyncRoot, cfg.Sync.Extension, localSinkAdapter{e}, logger)
	cloud := monitor.NewCloudDirMonitor(deps.CloudRoot, cfg.Sync.TrashDirName, cfg.Sync.Extension, cloudSinkAdapter{e}, logger)

	e.machine = machine
	e.cloud = cloud
	e.local = local

	e.orchestrator = orchestrator.New(orchestrator.Config{
		LocalRoot:            cfg.Sync.SyncRoot,
		TrashDirName:         cfg.Sync.TrashDirName,
		SupportsTrashListing: true,
		Cloud:                cloud,
		Coordinator:          coordinator,
		Downloader:           deps.Downloader,
		Resolver:             resolver,
		Loader:               deps.Loader,
		Logger:               logger,
	})

	e.controller = lifecycle.NewController(lifecycle.Config{
		Cloud:     cloud,
		Local:     local,
		Machine:   machine,
		Batch:     e.orchestrator,
		Extension: deps.Extension,
		Bookmarks: deps.Bookmarks,
		Logger:    logger,
	})

	go e.drainQueue()

	return e, nil
}

// Start begins monitoring (spec.md §4.5).
func (e *Engine) Start(ctx context.Context) error {
	return e.controller.Start(ctx)
}

// Stop ends monitoring, resets the state machine, stops the background
// queue, and closes the state database. Batches still waiting in the queue
// are not executed.
func (e *Engine) Stop() error {
	e.controller.Stop()
	close(e.quit)

	return e.store.Close()
}

// Pause suspends monitoring without tearing down watch handles.
func (e *Engine) Pause() { e.controller.Pause() }

// Resume re-enables monitoring.
func (e *Engine) Resume() { e.controller.Resume() }

// State reports the lifecycle controller's coarse state.
func (e *Engine) State() lifecycle.State { return e.controller.State() }

// Phase reports the reconciliation machine's derived phase, for status
// reporting (spec.md §4.2).
func (e *Engine) Phase() reconcile.Phase {
	return e.machine.Snapshot().Phase()
}

// NotifyBookmarkLoadFinished must be invoked by the bookmark loader's
// completion callback (spec.md §4.4/§6).
func (e *Engine) NotifyBookmarkLoadFinished() {
	e.orchestrator.NotifyLoadFinished()
}

// ConflictHistory returns the resolved-conflict log for the `kmlsync
// conflicts` CLI command.
func (e *Engine) ConflictHistory(ctx context.Context) ([]statestore.ConflictRecord, error) {
	return e.store.ListConflictHistory(ctx)
}

// drainQueue runs the background queue spec.md §4.4 describes: one
// reconcile pass's actions execute start to finish before the next batch is
// dispatched to the orchestrator, so two batches never interleave.
func (e *Engine) drainQueue() {
	for {
		select {
		case <-e.quit:
			return
		case actions := <-e.queue:
			e.execute(actions)
		}
	}
}

func (e *Engine) execute(actions []reconcile.Action) {
	if len(actions) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := e.orchestrator.Execute(ctx, actions); err != nil {
		e.logger.Warn("batch completed with errors", "error", err)
	}

	for _, a := range actions {
		if a.Type == reconcile.ActionInitialSyncCompleted {
			if err := e.store.SetInitialSyncDone(ctx, true); err != nil {
				e.logger.Error("failed to persist initial_sync_done", "error", err)
			}
		}
	}
}

func (e *Engine) enqueue(actions []reconcile.Action) {
	if len(actions) == 0 {
		return
	}

	select {
	case e.queue <- actions:
	case <-e.quit:
	}
}
