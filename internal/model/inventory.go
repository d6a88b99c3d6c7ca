package model

import "golang.org/x/text/unicode/norm"

// Inventory is the complete mapping from file name to item on one side at
// one instant. Iteration order is never meaningful; callers that need
// determinism (tests, logging) must sort keys themselves.
type Inventory[T any] map[string]T

// LocalInventory is the local side's complete file listing at one instant.
type LocalInventory = Inventory[LocalItem]

// CloudInventory is the cloud side's complete file listing at one instant.
type CloudInventory = Inventory[CloudItem]

// NormalizeName returns name in Unicode NFC form. Local and cloud monitors
// may observe the same logical filename decomposed differently (HFS+
// historically stores decomposed forms; most cloud replicas normalize to
// composed form), so every inventory key is normalized at construction time
// to keep FileName a reliable identity across sides.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// Keys returns the set of file names present in inv.
func Keys[T any](inv Inventory[T]) map[string]struct{} {
	out := make(map[string]struct{}, len(inv))
	for k := range inv {
		out[k] = struct{}{}
	}

	return out
}

// Added returns the keys present in next but absent from prev.
func Added[T any](prev, next Inventory[T]) []string {
	var out []string

	for k := range next {
		if _, ok := prev[k]; !ok {
			out = append(out, k)
		}
	}

	return out
}

// Removed returns the keys present in prev but absent from next.
func Removed[T any](prev, next Inventory[T]) []string {
	var out []string

	for k := range prev {
		if _, ok := next[k]; !ok {
			out = append(out, k)
		}
	}

	return out
}

// Common returns the keys present in both prev and next.
func Common[T any](prev, next Inventory[T]) []string {
	var out []string

	for k := range prev {
		if _, ok := next[k]; ok {
			out = append(out, k)
		}
	}

	return out
}
