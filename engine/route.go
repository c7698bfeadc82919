package engine

import "github.com/ibc-relay/voyager/queue"

// routeInto attempts to append data to the first Aggregate found in item
// (searched depth-first, left to right) whose Receiver still expects
// data.Kind() and does not already hold a matching element. This is the
// cross-item routing spec §3's lifecycle describes ("Data produced
// elsewhere... is routed to the first aggregate on the same chain
// awaiting its type"): package queue's Reduce only resolves an
// Aggregate's own sub-queue's Data locally, so Data produced by an
// unrelated sibling ticket on the same chain has to be threaded back in
// by whatever is walking the whole chain's ticket list - that's this
// function, called by Driver.
func routeInto(item queue.Item, data queue.Data) (queue.Item, bool) {
	switch it := item.(type) {
	case queue.Aggregate:
		if awaits(it, data.Kind()) {
			it.Data = append(it.Data, data)
			return it, true
		}
		if next, ok := routeIntoSlice(it.Queue, data); ok {
			it.Queue = next
			return it, true
		}
		return it, false

	case queue.Seq:
		if next, ok := routeIntoSlice(it.Items, data); ok {
			it.Items = next
			return it, true
		}
		return it, false

	case queue.Conc:
		if next, ok := routeIntoSlice(it.Items, data); ok {
			it.Items = next
			return it, true
		}
		return it, false

	case queue.Repeat:
		if next, ok := routeInto(it.Current, data); ok {
			it.Current = next
			return it, true
		}
		return it, false

	case queue.Timeout:
		if next, ok := routeInto(it.Inner, data); ok {
			it.Inner = next
			return it, true
		}
		return it, false

	default:
		return item, false
	}
}

// routeIntoSlice tries routeInto against each element in order, stopping
// at the first success.
func routeIntoSlice(items []queue.Item, data queue.Data) ([]queue.Item, bool) {
	for i, sub := range items {
		if next, ok := routeInto(sub, data); ok {
			out := append([]queue.Item(nil), items...)
			out[i] = next
			return out, true
		}
	}
	return items, false
}

// awaits reports whether agg's receiver expects kind and doesn't already
// hold an unmatched element of it - a coarse over-count check (it doesn't
// re-run the full aggregate.Match algorithm, just tallies expected vs.
// held counts per kind) that's good enough to decide where a single new
// element belongs.
func awaits(agg queue.Aggregate, kind queue.DataKind) bool {
	wanted := 0
	for _, k := range agg.Receiver.Expected() {
		if k == kind {
			wanted++
		}
	}
	if wanted == 0 {
		return false
	}
	held := 0
	for _, d := range agg.Data {
		if d.Kind() == kind {
			held++
		}
	}
	return held < wanted
}
