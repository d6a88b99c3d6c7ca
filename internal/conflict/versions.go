package conflict

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ravensync/kmlsync/internal/model"
)

// versionMarker is the directory convention standing in for the platform's
// "multiple unresolved versions" API (spec.md §4.4: "a cloud item reported
// with multiple unresolved versions (detected by the orchestrator at write
// time)"): a version sibling of "name.ext" is named "name.ext.~v<unixnano>"
// and holds that version's full content.
const versionMarker = ".~v"

// VersionLister enumerates a cloud file's unresolved versions and marks
// them resolved once a conflict has been handled.
type VersionLister interface {
	ListUnresolvedVersions(cloudURL string) ([]model.CloudItem, error)
	MarkResolved(version model.CloudItem) error
}

// DirVersionLister implements VersionLister over a plain directory using
// the versionMarker sibling-file convention.
type DirVersionLister struct{}

// ListUnresolvedVersions returns the version siblings of cloudURL, oldest
// first by encoded timestamp.
func (DirVersionLister) ListUnresolvedVersions(cloudURL string) ([]model.CloudItem, error) {
	dir := filepath.Dir(cloudURL)
	base := filepath.Base(cloudURL)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("conflict: listing versions of %s: %w", cloudURL, err)
	}

	prefix := base + versionMarker

	var versions []model.CloudItem

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}

		nanos, parseErr := strconv.ParseInt(strings.TrimPrefix(entry.Name(), prefix), 10, 64)
		if parseErr != nil {
			continue
		}

		info, statErr := entry.Info()
		if statErr != nil {
			continue
		}

		versions = append(versions, model.CloudItem{MetadataItem: model.MetadataItem{
			FileName:             entry.Name(),
			FileURL:              filepath.Join(dir, entry.Name()),
			LastModificationDate: time.Unix(0, nanos),
			CreationDate:         info.ModTime(),
		}})
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].LastModificationDate.Before(versions[j].LastModificationDate)
	})

	return versions, nil
}

// MarkResolved removes a version sibling file, matching the platform's
// "mark all other versions resolved" contract by discarding the tombstone.
func (DirVersionLister) MarkResolved(version model.CloudItem) error {
	if err := os.Remove(version.FileURL); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("conflict: marking %s resolved: %w", version.FileURL, err)
	}

	return nil
}
