package tectonic

// insertAt grows s by one element and shifts everything from i onward right by
// one slot before writing v at i. Used by both compacting and shift-compacted
// entity kinds: spec.md §4.7 insertion is identical across kinds, only delete
// strategy differs.
func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:len(s)-1])
	s[i] = v
	return s
}

// swapRemoveAt removes index i by moving the last element into its slot, then
// shrinking by one. This is the Model/Brush compaction strategy (spec.md §3):
// cheap, but does not preserve the relative order of surviving elements.
func swapRemoveAt[T any](s []T, i int) []T {
	n := len(s) - 1
	s[i] = s[n]
	var zero T
	s[n] = zero
	return s[:n]
}

// shiftRemoveAt removes index i by shifting the tail down by one. This is the
// compaction strategy for every entity kind other than Model/Brush (spec.md §3):
// preserves order, costs O(n) per delete.
func shiftRemoveAt[T any](s []T, i int) []T {
	return append(s[:i], s[i+1:]...)
}
