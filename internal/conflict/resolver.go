// Package conflict implements spec.md §4.7: version conflicts (the cloud
// platform reports multiple unresolved versions of one file) and initial-
// sync collisions (both sides have independent histories for the same
// name on the very first run).
package conflict

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/ravensync/kmlsync/internal/coordination"
	"github.com/ravensync/kmlsync/internal/fsutil"
	"github.com/ravensync/kmlsync/internal/model"
)

// Resolver executes both conflict-resolution operations against the local
// and cloud directories, under the shared Coordinator so its file moves
// never race with the orchestrator's.
type Resolver struct {
	coordinator *coordination.Coordinator
	versions    VersionLister
	deviceName  string
	localRoot   string
	logger      *slog.Logger
}

// NewResolver creates a Resolver. localRoot is stored on the Resolver;
// ResolveInitialCollision does not read it and writes its copy beside the
// colliding local file's own url.
func NewResolver(coordinator *coordination.Coordinator, versions VersionLister, deviceName, localRoot string, logger *slog.Logger) *Resolver {
	return &Resolver{
		coordinator: coordinator,
		versions:    versions,
		deviceName:  deviceName,
		localRoot:   localRoot,
		logger:      logger,
	}
}

// ResolveVersionConflict implements spec.md §4.7's documented branch (the
// "current-version vs latest-unresolved" race is resolved in favor of
// preserving the currently-live file as a renamed artifact — see
// DESIGN.md's Open Question decision): enumerate unresolved versions,
// pick the one with the greatest modification date, copy the current file's
// bytes to a fresh url (preserving the loser), replace the current file
// with latest's bytes, then mark every version resolved. If the fresh url
// already exists (an observer race), that is treated as success.
func (r *Resolver) ResolveVersionConflict(ctx context.Context, current model.CloudItem) (bool, error) {
	versions, err := r.versions.ListUnresolvedVersions(current.FileURL)
	if err != nil {
		return false, fmt.Errorf("conflict: %w", err)
	}

	if len(versions) == 0 {
		return false, nil
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].LastModificationDate.After(versions[j].LastModificationDate)
	})
	latest := versions[0]

	freshURL := FreshURL(current.FileURL, "", fsutil.Exists)

	err = r.coordinator.WithReadWrite(current.FileURL, freshURL, func() error {
		if fsutil.Exists(freshURL) {
			return nil
		}

		return fsutil.CopyAtomic(current.FileURL, freshURL, current.LastModificationDate)
	})
	if err != nil {
		return false, fmt.Errorf("conflict: preserving current version of %s: %w", current.FileName, err)
	}

	err = r.coordinator.WithReadWrite(latest.FileURL, current.FileURL, func() error {
		return fsutil.CopyAtomic(latest.FileURL, current.FileURL, latest.LastModificationDate)
	})
	if err != nil {
		return false, fmt.Errorf("conflict: applying latest version of %s: %w", current.FileName, err)
	}

	for _, v := range versions {
		if err := r.versions.MarkResolved(v); err != nil {
			r.logger.Warn("conflict: failed to mark version resolved",
				slog.String("name", v.FileName), slog.String("error", err.Error()))
		}
	}

	r.logger.Info("resolved version conflict", "name", current.FileName, "versions", len(versions))

	return true, nil
}

// ResolveInitialCollision implements spec.md §4.7's initial-collision
// branch: for a local item that collides with a cloud item of the same
// name on the very first run, copy the local file to a name suffixed
// "_<device>_<n>" (§4.6), preserving this device's history as a distinct
// file. The cloud item is left untouched; it reconciles into the local
// directory via the normal incremental cloud→local path.
func (r *Resolver) ResolveInitialCollision(ctx context.Context, local model.LocalItem) (string, error) {
	freshURL := FreshURL(local.FileURL, r.deviceName, fsutil.Exists)

	err := r.coordinator.WithReadWrite(local.FileURL, freshURL, func() error {
		return fsutil.CopyAtomic(local.FileURL, freshURL, local.LastModificationDate)
	})
	if err != nil {
		return "", fmt.Errorf("conflict: preserving local history of %s: %w", local.FileName, err)
	}

	r.logger.Info("preserved local history under device-suffixed name",
		"name", local.FileName, "fresh_name", filepath.Base(freshURL))

	return freshURL, nil
}
