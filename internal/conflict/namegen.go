package conflict

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// trailingSuffix matches a "_<n>" suffix on a base name, e.g. "notes_3".
var trailingSuffix = regexp.MustCompile(`^(.*)_(\d+)$`)

// FreshURL implements spec.md §4.6's name-generation procedure: given
// "<dir>/<base>.<ext>", produce a url that does not currently exist, e.g.
// "x.kml" with deviceSuffix "phone" on first collision yields
// "x_phone_1.kml" (spec.md §8 S6).
//
//  1. If deviceSuffix is non-empty, append "_<deviceSuffix>" to base (used
//     only for initial-collision naming).
//  2. Parse a trailing "_<n>" suffix; increment n, or append "_1" if absent.
//  3. Reassemble "<dir>/<newbase>.<ext>". If it exists, recurse (with
//     deviceSuffix already folded in, so further collisions only bump n).
//
// Deterministic and total: it always terminates (n strictly increases) and
// never returns an existing path.
func FreshURL(url, deviceSuffix string, exists func(string) bool) string {
	dir := filepath.Dir(url)
	name := filepath.Base(url)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	if deviceSuffix != "" {
		base = base + "_" + deviceSuffix
	}

	newBase := incrementSuffix(base)

	candidate := filepath.Join(dir, newBase+ext)
	if exists(candidate) {
		return FreshURL(candidate, "", exists)
	}

	return candidate
}

// incrementSuffix increments a trailing "_<n>" on base, or appends "_1".
func incrementSuffix(base string) string {
	m := trailingSuffix.FindStringSubmatch(base)
	if m == nil {
		return base + "_1"
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return base + "_1"
	}

	return fmt.Sprintf("%s_%d", m[1], n+1)
}
