package orchestrator

import (
	"path/filepath"

	"github.com/ravensync/kmlsync/internal/fsutil"
	"github.com/ravensync/kmlsync/internal/model"
)

// createOrUpdateLocal implements CreateLocal and UpdateLocal identically
// (spec.md §4.4): under a coordinated read of the cloud url and coordinated
// write of the target local url, copy bytes atomically and set the local
// file's modification timestamp to the cloud item's. Returns whether
// reload_bookmarks should be set.
func (o *Orchestrator) createOrUpdateLocal(action string, cloud *model.CloudItem) (bool, error) {
	localURL := filepath.Join(o.localRoot, filepath.Base(cloud.FileURL))

	err := o.coordinator.WithReadWrite(cloud.FileURL, localURL, func() error {
		return fsutil.CopyAtomic(cloud.FileURL, localURL, cloud.LastModificationDate)
	})
	if err != nil {
		return false, newError(classifyIOErr(err), action, cloud.FileName, err)
	}

	o.logger.Info("wrote local file from cloud", "action", action, "name", cloud.FileName)

	return true, nil
}

// removeLocal implements RemoveLocal: absent is success (spec.md §4.4).
func (o *Orchestrator) removeLocal(cloud *model.CloudItem) (bool, error) {
	localURL := filepath.Join(o.localRoot, filepath.Base(cloud.FileURL))

	if err := fsutil.RemoveIfExists(localURL); err != nil {
		return false, newError(classifyIOErr(err), "RemoveLocal", cloud.FileName, err)
	}

	o.logger.Info("removed local file", "name", cloud.FileName)

	return true, nil
}

// classifyIOErr maps a raw file-system error to an orchestrator.Kind. Real
// platform APIs (quota, network) return richer error types than the local
// os package; here every non-nil I/O failure is treated as
// FileUnavailable, which is the safe default — the next monitor
// observation re-derives the action (spec.md §7).
func classifyIOErr(err error) Kind {
	if err == nil {
		return KindInternal
	}

	return KindFileUnavailable
}
