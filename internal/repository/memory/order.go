package memory

// newestFirst copies up to limit items from the tail of an append-ordered slice, reversed.
func newestFirst[T any](items []T, limit int) []T {
	if limit <= 0 || len(items) == 0 {
		return []T{}
	}
	if limit > len(items) {
		limit = len(items)
	}
	out := make([]T, 0, limit)
	for i := len(items) - 1; i >= len(items)-limit; i-- {
		out = append(out, items[i])
	}
	return out
}
