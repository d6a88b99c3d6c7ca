// Package fsutil holds the small file-system primitives shared by the I/O
// orchestrator and the conflict resolver: atomic byte copies with
// modification-timestamp preservation, and existence checks. Kept separate
// from both callers so neither package needs to import the other just to
// share a copy routine.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// CopyAtomic copies src to dst by writing to a temporary file in dst's
// directory and renaming it into place, then sets dst's modification time
// to modTime. Atomic-replace semantics (spec.md §4.4): a reader of dst never
// observes a partially written file.
func CopyAtomic(src, dst string, modTime time.Time) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("fsutil: opening %s: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".kmlsync-tmp-*")
	if err != nil {
		return fmt.Errorf("fsutil: creating temp file for %s: %w", dst, err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("fsutil: copying %s to %s: %w", src, dst, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("fsutil: closing temp file for %s: %w", dst, err)
	}

	if err := os.Chtimes(tmpPath, modTime, modTime); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("fsutil: setting modtime on %s: %w", dst, err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("fsutil: replacing %s: %w", dst, err)
	}

	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RemoveIfExists removes path, treating "already absent" as success
// (spec.md §4.4: "if the file is absent, treat as success").
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("fsutil: removing %s: %w", path, err)
	}

	return nil
}
