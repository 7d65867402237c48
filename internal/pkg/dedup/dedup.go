// Package dedup removes repeated records from ordered sequences.
package dedup

// ByKey returns the records of items whose key has not been seen earlier in
// the sequence. Records for which key reports no identifier are dropped
// entirely. The first occurrence of each key wins and relative order is
// preserved. items is not modified.
func ByKey[T any, K comparable](items []T, key func(T) (K, bool)) []T {
	out := make([]T, 0, len(items))
	seen := make(map[K]struct{}, len(items))
	for _, it := range items {
		k, ok := key(it)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
