// Package aggregate implements the typed join ("pluck") algorithm that
// Aggregate items use to decide whether their Data pool satisfies their
// receiver (spec §4.6). It is grounded directly on original_source's
// voyager/src/queue/aggregate_data.rs, whose pluck<T, U> function scans a
// pool for the first element of a wanted type, removes exactly that
// element, and returns the rest of the pool untouched and in its original
// relative order.
//
// Match is generic over the pool's element type so that both package queue
// (which needs it for Aggregate's local reduction case) and package engine
// (which needs it for cross-item routing of Data to parked aggregates) can
// call it without either depending on the other.
package aggregate

// Match scans pool for one element of each key in expected, in order, and
// reports whether all were found. matched[i] satisfies expected[i]; the
// search for each successive key resumes over what's left of the pool
// after the previous pluck, so no element is consumed twice and ties break
// FIFO (the first matching element in pool order wins). remaining is every
// pool element not consumed by a match, in its original relative order -
// nothing is discarded, matching pluck's "leftover" semantics exactly.
//
// If any key in expected has no remaining match, ok is false and matched/
// remaining are nil: a partial match is not a match, callers should retain
// the original, unmodified pool in that case rather than use remaining.
func Match[K comparable, D any](expected []K, pool []D, keyOf func(D) K) (matched []D, remaining []D, ok bool) {
	working := append([]D(nil), pool...)
	matched = make([]D, 0, len(expected))

	for _, want := range expected {
		idx := indexOfKey(working, want, keyOf)
		if idx < 0 {
			return nil, nil, false
		}
		matched = append(matched, working[idx])
		working = pluck(working, idx)
	}

	return matched, working, true
}

// indexOfKey returns the index of the first element of pool whose key
// equals want, or -1 if none matches.
func indexOfKey[K comparable, D any](pool []D, want K, keyOf func(D) K) int {
	for i, d := range pool {
		if keyOf(d) == want {
			return i
		}
	}
	return -1
}

// pluck returns a new slice with the element at idx removed, preserving the
// relative order of every other element.
func pluck[D any](pool []D, idx int) []D {
	out := make([]D, 0, len(pool)-1)
	out = append(out, pool[:idx]...)
	out = append(out, pool[idx+1:]...)
	return out
}
