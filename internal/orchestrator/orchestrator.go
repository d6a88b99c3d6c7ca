// Package orchestrator executes the actions produced by the reconciliation
// state machine against the local file system and the cloud replica:
// coordinated reads/writes, downloads, trash handling, and conflict
// resolution, with modification timestamps preserved across every copy
// (spec.md §4.4).
package orchestrator

import (
	"context"
	"log/slog"
	"sync"

	"go.uber.org/multierr"

	"github.com/ravensync/kmlsync/internal/conflict"
	"github.com/ravensync/kmlsync/internal/coordination"
	"github.com/ravensync/kmlsync/internal/reconcile"
)

// CloudResolver resolves the cloud container's root location. Satisfied by
// monitor.CloudMonitor; kept as its own small interface so the orchestrator
// does not need to depend on the monitor package for anything else.
type CloudResolver interface {
	FetchContainerURL(ctx context.Context) (string, error)
}

// Orchestrator executes reconcile.Action batches one at a time per spec.md
// §4.4/§5: a dedicated background queue drains one reconcile pass's actions
// sequentially, and errors from one action never abort its siblings.
type Orchestrator struct {
	localRoot            string
	trashDirName         string
	supportsTrashListing bool

	cloud       CloudResolver
	coordinator *coordination.Coordinator
	downloader  Downloader
	resolver    *conflict.Resolver
	loader      BookmarkLoader
	rendezvous  *reloadRendezvous

	logger *slog.Logger

	mu              sync.Mutex
	inProgress      bool
	reloadBookmarks bool
}

// Config bundles Orchestrator's construction-time dependencies.
type Config struct {
	LocalRoot            string
	TrashDirName         string
	SupportsTrashListing bool
	Cloud                CloudResolver
	// Coordinator guards file access across both the orchestrator and the
	// conflict resolver (spec.md §4.4/§4.7 both require "coordinated
	// access"). Callers that also construct a conflict.Resolver must pass
	// the same Coordinator here so the two never race over the same file.
	// A nil Coordinator gets a fresh one, for callers with no Resolver.
	Coordinator *coordination.Coordinator
	Downloader  Downloader
	Resolver    *conflict.Resolver
	Loader      BookmarkLoader
	Logger      *slog.Logger
}

// New creates an Orchestrator from cfg.
func New(cfg Config) *Orchestrator {
	coordinator := cfg.Coordinator
	if coordinator == nil {
		coordinator = coordination.NewCoordinator()
	}

	return &Orchestrator{
		localRoot:            cfg.LocalRoot,
		trashDirName:         cfg.TrashDirName,
		supportsTrashListing: cfg.SupportsTrashListing,
		cloud:                cfg.Cloud,
		coordinator:          coordinator,
		downloader:           cfg.Downloader,
		resolver:             cfg.Resolver,
		loader:               cfg.Loader,
		rendezvous:           newReloadRendezvous(),
		logger:               cfg.Logger,
	}
}

// InProgress reports whether a batch is currently executing, per spec.md
// §4.4's in_progress flag (exposed for status reporting and the lifecycle
// controller's background-extension decision).
func (o *Orchestrator) InProgress() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.inProgress
}

// NotifyLoadFinished must be called by the bookmark loader's
// on_load_finished callback once it has re-read the local directory.
func (o *Orchestrator) NotifyLoadFinished() {
	o.rendezvous.notifyLoadFinished()
}

// Execute runs one reconcile pass's actions sequentially, in the order the
// state machine emitted them, and aggregates per-action errors without
// aborting siblings (spec.md §4.4/§5/§7). After the batch drains, if any
// action set reload_bookmarks, it asks the bookmark loader to reload and
// waits for its completion callback before returning.
func (o *Orchestrator) Execute(ctx context.Context, actions []reconcile.Action) error {
	o.mu.Lock()
	o.inProgress = true
	o.mu.Unlock()

	var combined error
	reload := false

	for _, action := range actions {
		didReload, err := o.executeOne(ctx, action)
		if err != nil {
			o.logger.Warn("action failed", "action", action.Type.String(), "error", err)
			combined = multierr.Append(combined, err)
		}

		reload = reload || didReload
	}

	o.mu.Lock()
	o.inProgress = false
	o.reloadBookmarks = reload
	o.mu.Unlock()

	if reload && o.loader != nil {
		if err := o.rendezvous.requestReload(ctx, o.loader); err != nil {
			combined = multierr.Append(combined, err)
		} else if err := o.rendezvous.wait(ctx); err != nil {
			combined = multierr.Append(combined, err)
		}

		o.mu.Lock()
		o.reloadBookmarks = false
		o.mu.Unlock()
	}

	return combined
}

func (o *Orchestrator) executeOne(ctx context.Context, action reconcile.Action) (bool, error) {
	switch action.Type {
	case reconcile.ActionCreateLocal:
		return o.createOrUpdateLocal("CreateLocal", action.Cloud)
	case reconcile.ActionUpdateLocal:
		return o.createOrUpdateLocal("UpdateLocal", action.Cloud)
	case reconcile.ActionRemoveLocal:
		return o.removeLocal(action.Cloud)
	case reconcile.ActionStartDownload:
		return o.startDownload(ctx, action.Cloud)
	case reconcile.ActionCreateCloud:
		return o.createOrUpdateCloudWithConflictCheck(ctx, "CreateCloud", action.Local)
	case reconcile.ActionUpdateCloud:
		return o.createOrUpdateCloudWithConflictCheck(ctx, "UpdateCloud", action.Local)
	case reconcile.ActionRemoveCloud:
		return o.removeCloud(ctx, action.Local)
	case reconcile.ActionResolveInitialCollision:
		return o.resolveInitialCollision(ctx, action.Local)
	case reconcile.ActionInitialSyncCompleted:
		return false, nil
	case reconcile.ActionReportError:
		o.logger.Warn("reconciliation reported error", "error", action.Err)
		return false, nil
	default:
		return false, nil
	}
}
