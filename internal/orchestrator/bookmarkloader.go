package orchestrator

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// BookmarkLoader is the external collaborator that re-reads local files
// into the application's in-memory model (spec.md §6, out of scope for
// this core). Load must not block; completion is signaled asynchronously
// through NotifyLoadFinished.
type BookmarkLoader interface {
	Load(ctx context.Context)
}

// reloadRendezvous makes the orchestrator wait for BookmarkLoader's
// completion callback using a single-permit semaphore (spec.md §4.4: "waiting
// via a single-permit semaphore for the loader's completion callback").
type reloadRendezvous struct {
	sem *semaphore.Weighted
}

func newReloadRendezvous() *reloadRendezvous {
	return &reloadRendezvous{sem: semaphore.NewWeighted(1)}
}

// requestReload acquires the single permit, then asks the loader to reload.
// The permit is held until NotifyLoadFinished releases it.
func (r *reloadRendezvous) requestReload(ctx context.Context, loader BookmarkLoader) error {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	loader.Load(ctx)

	return nil
}

// wait blocks until the outstanding reload's completion callback has fired.
// A no-op (returns immediately) if no reload is outstanding.
func (r *reloadRendezvous) wait(ctx context.Context) error {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	r.sem.Release(1)

	return nil
}

// notifyLoadFinished is called by the bookmark loader's on_load_finished
// callback (spec.md §6) to release the permit requestReload is holding.
func (r *reloadRendezvous) notifyLoadFinished() {
	r.sem.Release(1)
}
