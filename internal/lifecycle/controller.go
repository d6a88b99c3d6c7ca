// Package lifecycle implements spec.md §4.5: start/stop/pause/resume,
// application foreground/background transitions, and background-execution
// extension handling, on top of the monitor and orchestrator packages.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ravensync/kmlsync/internal/monitor"
	"github.com/ravensync/kmlsync/internal/reconcile"
)

// State is the lifecycle controller's coarse running state.
type State int

const (
	StateStopped State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// BatchInProgress reports whether the orchestrator is mid-batch, consulted
// by OnAppEnteredBackground to decide whether a background-execution
// extension is needed. Satisfied by *orchestrator.Orchestrator.
type BatchInProgress interface {
	InProgress() bool
}

// BackgroundExtension requests additional background execution time from
// the platform (spec.md §4.5). Begin returns a cancel function; onExpire is
// invoked by the platform if the extension runs out before Cancel is
// called.
type BackgroundExtension interface {
	Begin(onExpire func()) (cancel func())
}

// BookmarkSubscription represents the consumed "subscribe to bookmark-change
// notifications" collaborator (spec.md §4.5/§6).
type BookmarkSubscription interface {
	Subscribe() (unsubscribe func())
}

// Config bundles Controller's construction-time dependencies.
type Config struct {
	Cloud     monitor.CloudMonitor
	Local     monitor.LocalMonitor
	Machine   *reconcile.Machine
	Batch     BatchInProgress
	Extension BackgroundExtension
	Bookmarks BookmarkSubscription
	Logger    *slog.Logger
}

// Controller drives the {Stopped, Running, Paused} state machine of
// spec.md §4.5.
type Controller struct {
	cloud     monitor.CloudMonitor
	local     monitor.LocalMonitor
	machine   *reconcile.Machine
	batch     BatchInProgress
	extension BackgroundExtension
	bookmarks BookmarkSubscription
	logger    *slog.Logger

	mu               sync.Mutex
	state            State
	unsubscribeBooks func()
	cancelExtension  func()
}

// NewController creates a Controller in state Stopped.
func NewController(cfg Config) *Controller {
	return &Controller{
		cloud:     cfg.Cloud,
		local:     cfg.Local,
		machine:   cfg.Machine,
		batch:     cfg.Batch,
		extension: cfg.Extension,
		bookmarks: cfg.Bookmarks,
		logger:    cfg.Logger,
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// OnAppBecameActive implements the "app becomes active" transition: cancel
// any outstanding background-extension token, then Start.
func (c *Controller) OnAppBecameActive(ctx context.Context) error {
	c.mu.Lock()
	if c.cancelExtension != nil {
		c.cancelExtension()
		c.cancelExtension = nil
	}
	c.mu.Unlock()

	return c.Start(ctx)
}

// Start implements spec.md §4.5: if the cloud is unavailable, fail; else
// start the cloud monitor, then the local monitor, then subscribe to
// bookmark-change notifications.
func (c *Controller) Start(ctx context.Context) error {
	if !c.cloud.IsAvailable() {
		return fmt.Errorf("lifecycle: cloud unavailable, cannot start")
	}

	if err := c.cloud.Start(ctx); err != nil {
		return fmt.Errorf("lifecycle: starting cloud monitor: %w", err)
	}

	if err := c.local.Start(ctx); err != nil {
		c.cloud.Stop()
		return fmt.Errorf("lifecycle: starting local monitor: %w", err)
	}

	c.mu.Lock()
	if c.bookmarks != nil {
		c.unsubscribeBooks = c.bookmarks.Subscribe()
	}
	c.state = StateRunning
	c.mu.Unlock()

	c.logger.Info("lifecycle: started")

	return nil
}

// Stop ends sync and issues a state-machine Reset (spec.md §4.5: "stop
// additionally issues a state-machine Reset").
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.unsubscribeBooks != nil {
		c.unsubscribeBooks()
		c.unsubscribeBooks = nil
	}
	c.state = StateStopped
	c.mu.Unlock()

	c.cloud.Stop()
	c.local.Stop()
	c.machine.Resolve(reconcile.ResetEvent())

	c.logger.Info("lifecycle: stopped")
}

// Pause disables monitor updates and unsubscribes from bookmark changes
// (spec.md §4.5), without tearing down the watch handles.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.unsubscribeBooks != nil {
		c.unsubscribeBooks()
		c.unsubscribeBooks = nil
	}
	c.state = StatePaused
	c.mu.Unlock()

	c.cloud.Pause()
	c.local.Pause()

	c.logger.Info("lifecycle: paused")
}

// Resume re-enables both monitor updates and bookmark-change subscription.
func (c *Controller) Resume() {
	c.cloud.Resume()
	c.local.Resume()

	c.mu.Lock()
	if c.bookmarks != nil && c.unsubscribeBooks == nil {
		c.unsubscribeBooks = c.bookmarks.Subscribe()
	}
	c.state = StateRunning
	c.mu.Unlock()

	c.logger.Info("lifecycle: resumed")
}

// OnAppEnteredBackground implements spec.md §4.5: if a sync batch is in
// progress, request a background-execution extension whose expiration
// handler pauses monitors and cancels the extension; otherwise pause
// immediately.
func (c *Controller) OnAppEnteredBackground() {
	if c.batch == nil || !c.batch.InProgress() || c.extension == nil {
		c.Pause()
		return
	}

	cancel := c.extension.Begin(func() {
		c.logger.Warn("lifecycle: background extension expired, pausing")
		c.Pause()

		c.mu.Lock()
		if c.cancelExtension != nil {
			c.cancelExtension()
			c.cancelExtension = nil
		}
		c.mu.Unlock()
	})

	c.mu.Lock()
	c.cancelExtension = cancel
	c.mu.Unlock()
}

// OnSyncEnabledChanged implements the "user toggles sync setting" transition.
func (c *Controller) OnSyncEnabledChanged(ctx context.Context, enabled bool) error {
	if enabled {
		return c.Start(ctx)
	}

	c.Stop()

	return nil
}

// OnMonitorError implements "monitor reports unrecoverable error → stop"
// (spec.md §4.5) for error kinds the caller has already classified as
// fatal.
func (c *Controller) OnMonitorError(fatal bool, err error) {
	if !fatal {
		c.logger.Warn("lifecycle: monitor error (non-fatal)", "error", err)
		return
	}

	c.logger.Error("lifecycle: monitor reported unrecoverable error, stopping", "error", err)
	c.Stop()
}
