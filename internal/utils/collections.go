package utils

import (
	"maps"
	"slices"
)

// SortedSet returns a newly allocated, sorted copy of values with duplicates
// removed. The result is never nil and never shares storage with values.
func SortedSet[T ~string](values []T) []T {
	set := make([]T, len(values))
	copy(set, values)
	slices.Sort(set)
	return slices.Compact(set)
}

// CopyMap returns a newly allocated shallow copy of m. A nil map yields an
// empty, non-nil map.
func CopyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	maps.Copy(out, m)
	return out
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
