package lake

// DedupBy drops rows whose key projection was already seen. First
// occurrence wins, which only matters for slice order; membership is a set
// property and does not depend on input order.
func DedupBy[T any, K comparable](in []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Dedup is DedupBy under full-row value equality.
func Dedup[T comparable](in []T) []T {
	return DedupBy(in, func(v T) T { return v })
}
