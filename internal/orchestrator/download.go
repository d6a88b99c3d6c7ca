package orchestrator

import (
	"context"

	"github.com/ravensync/kmlsync/internal/model"
)

// Downloader asks the cloud platform to materialize a cloud item's bytes
// locally. StartDownload must not block: progress is observed later through
// the cloud monitor's next DidUpdate (spec.md §4.4).
type Downloader interface {
	StartDownload(ctx context.Context, item model.CloudItem) error
}

// startDownload implements the StartDownload action: non-blocking, errors
// are FileUnavailable so the next cloud observation retries.
func (o *Orchestrator) startDownload(ctx context.Context, cloud *model.CloudItem) (bool, error) {
	if o.downloader == nil {
		return false, nil
	}

	if err := o.downloader.StartDownload(ctx, *cloud); err != nil {
		return false, newError(KindFileUnavailable, "StartDownload", cloud.FileName, err)
	}

	o.logger.Debug("requested download", "name", cloud.FileName)

	return false, nil
}
