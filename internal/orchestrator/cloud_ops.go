package orchestrator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ravensync/kmlsync/internal/fsutil"
	"github.com/ravensync/kmlsync/internal/model"
)

// createOrUpdateCloud implements CreateCloud and UpdateCloud (spec.md
// §4.4): resolve the cloud container url, then under coordinated access
// copy bytes and set the modification timestamp from the local item.
func (o *Orchestrator) createOrUpdateCloud(ctx context.Context, action string, local *model.LocalItem) (bool, error) {
	containerURL, err := o.cloud.FetchContainerURL(ctx)
	if err != nil {
		return false, newError(KindContainerNotFound, action, local.FileName, err)
	}

	cloudURL := filepath.Join(containerURL, filepath.Base(local.FileURL))

	err = o.coordinator.WithReadWrite(local.FileURL, cloudURL, func() error {
		return fsutil.CopyAtomic(local.FileURL, cloudURL, local.LastModificationDate)
	})
	if err != nil {
		return false, newError(classifyIOErr(err), action, local.FileName, err)
	}

	o.logger.Info("wrote cloud file from local", "action", action, "name", local.FileName)

	return false, nil
}

// removeCloud implements RemoveCloud: move the target into the cloud
// replica's reserved trash directory, first purging any same-named file
// already there, since platform trash does not allow name collisions and
// does not let the caller choose the trashed name (spec.md §4.4).
func (o *Orchestrator) removeCloud(ctx context.Context, local *model.LocalItem) (bool, error) {
	containerURL, err := o.cloud.FetchContainerURL(ctx)
	if err != nil {
		return false, newError(KindContainerNotFound, "RemoveCloud", local.FileName, err)
	}

	name := filepath.Base(local.FileURL)
	cloudURL := filepath.Join(containerURL, name)
	trashURL := filepath.Join(containerURL, o.trashDirName, name)

	err = o.coordinator.WithReadWrite(cloudURL, trashURL, func() error {
		if o.supportsTrashListing {
			if err := fsutil.RemoveIfExists(trashURL); err != nil {
				return err
			}
		}

		if !fsutil.Exists(cloudURL) {
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(trashURL), 0o700); err != nil {
			return err
		}

		return os.Rename(cloudURL, trashURL)
	})
	if err != nil {
		return false, newError(classifyIOErr(err), "RemoveCloud", local.FileName, err)
	}

	o.logger.Info("trashed cloud file", "name", local.FileName)

	return false, nil
}

// createOrUpdateCloudWithConflictCheck implements spec.md §4.4's tie-break:
// "A cloud item reported with multiple unresolved versions (detected by the
// orchestrator at write time) produces a ResolveVersionConflict action
// rather than an update." It checks for unresolved versions before writing
// and, if any exist, resolves the conflict instead of overwriting.
func (o *Orchestrator) createOrUpdateCloudWithConflictCheck(ctx context.Context, action string, local *model.LocalItem) (bool, error) {
	if o.resolver == nil {
		return o.createOrUpdateCloud(ctx, action, local)
	}

	containerURL, err := o.cloud.FetchContainerURL(ctx)
	if err != nil {
		return false, newError(KindContainerNotFound, action, local.FileName, err)
	}

	cloudURL := filepath.Join(containerURL, filepath.Base(local.FileURL))

	if fsutil.Exists(cloudURL) {
		current := model.CloudItem{MetadataItem: local.MetadataItem}
		current.FileURL = cloudURL

		reload, err := o.resolver.ResolveVersionConflict(ctx, current)
		if err != nil {
			return false, newError(KindInternal, "ResolveVersionConflict", local.FileName, err)
		}

		if reload {
			return true, nil
		}
	}

	return o.createOrUpdateCloud(ctx, action, local)
}

// resolveInitialCollision implements the ResolveInitialCollision action by
// delegating to the conflict resolver.
func (o *Orchestrator) resolveInitialCollision(ctx context.Context, local *model.LocalItem) (bool, error) {
	if o.resolver == nil {
		return false, nil
	}

	if _, err := o.resolver.ResolveInitialCollision(ctx, *local); err != nil {
		return false, newError(KindInternal, "ResolveInitialCollision", local.FileName, err)
	}

	return true, nil
}
