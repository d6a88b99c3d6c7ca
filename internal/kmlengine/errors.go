package kmlengine

import (
	"errors"
	"io/fs"
	"syscall"
)

// isFatalMonitorError classifies a raw monitor-reported error (spec.md
// §4.1's DidReceiveError, typically a filesystem-watch failure) for the
// lifecycle controller's stop decision (spec.md §4.5/§7). A vanished
// directory or exhausted disk is unrecoverable without user action; any
// other watch hiccup is logged and sync continues, waiting for the next
// observation.
func isFatalMonitorError(err error) bool {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return true
	case errors.Is(err, syscall.ENOSPC):
		return true
	default:
		return false
	}
}
