// Package model defines the metadata value types shared by the local and
// cloud sides of the sync engine, and the keyed inventories built from them.
// Everything here is an immutable snapshot produced by a monitor at one
// observation instant — no type in this package performs I/O.
package model

import "time"

// MetadataItem is the field set common to both sides of a sync pair.
// FileName is the identity key within one side's inventory: two items on
// the same side cannot share a FileName.
type MetadataItem struct {
	FileName             string
	FileURL              string
	FileSize             *int64 // nil when unknown (e.g. a directory listing without a stat)
	ContentType          string
	CreationDate         time.Time
	LastModificationDate time.Time
}

// LocalItem is an immutable snapshot of one file in the local sync
// directory, as observed by a LocalMonitor.
type LocalItem struct {
	MetadataItem
}

// CloudItem is an immutable snapshot of one file in the cloud replica, as
// observed by a CloudMonitor.
type CloudItem struct {
	MetadataItem

	// IsDownloaded reports whether the cloud platform has materialized this
	// item's bytes locally to the cloud container. An item with
	// IsDownloaded = false must not be used as a source for local writes;
	// see the orchestrator's StartDownload action.
	IsDownloaded bool

	// DownloadFraction is the in-progress download ratio in [0.0, 1.0].
	// Nil when no download is in flight or the platform does not report
	// progress.
	DownloadFraction *float64

	// IsInTrash reports whether this item's FileURL lives under the cloud
	// replica's reserved trash directory. Derived by the monitor from the
	// path, not carried as a separate platform flag. A trashed item must
	// never create or update a local item (spec invariant).
	IsInTrash bool
}

// ModTime returns the item's last-modification timestamp. Exists so
// reconciliation code can compare LocalItem and CloudItem through a single
// accessor rather than reaching into MetadataItem directly.
func (m MetadataItem) ModTime() time.Time {
	return m.LastModificationDate
}
