// Package queue implements the queue algebra of spec §3/§4.4: the
// constructors Noop, Fetch, Wait, Event, Command, Aggregate, Effect, Seq,
// Conc, Repeat, and Timeout, and the structural reduction rules that are the
// same across every chain family. The chain-specific leaves (do_fetch,
// do_wait, do_effect, do_aggregate, event lowering) are supplied by whatever
// implements Reducer — see package reducer.
package queue

import (
	"time"

	"github.com/ibc-relay/voyager/chain"
)

// Item is the QueueItem tagged union. It is implemented by the concrete
// types in this file; a type switch (see Reduce) dispatches on the concrete
// type the same way spec §4.4 dispatches on the tag.
//
// Items are pure values: reducing one never mutates it, only ever replaces
// it with a new term (spec §3 Lifecycle).
type Item interface {
	isItem()
}

// Noop is the terminal item: Noop reduces to Noop.
type Noop struct{}

func (Noop) isItem() {}

// Fetch is an I/O request against a chain. Payload is interpreted by the
// chain family's reducer (see package reducer); its shape is opaque here.
type Fetch struct {
	ChainID chain.ID
	Payload any
}

func (Fetch) isItem() {}

// Wait is a time/height barrier (e.g. wait-for-block, wait-for-trusted-
// height).
type Wait struct {
	ChainID chain.ID
	Payload any
}

func (Wait) isItem() {}

// Event is a chain-emitted occurrence to react to, lowered one-shot into a
// replacement term by the chain family's event-to-queue lowering (spec
// §4.5).
type Event struct {
	ChainID chain.ID
	Payload any
}

func (Event) isItem() {}

// Command is an operator-issued (non chain-emitted) request, lowered
// one-shot the same way Event is. This is the one addition SPEC_FULL makes
// to the queue algebra, recovered from original_source's Event<Hc,Tr> enum
// which has exactly two variants, Ibc and Command (see SPEC_FULL.md §6).
type Command struct {
	ChainID chain.ID
	Payload any
}

func (Command) isItem() {}

// Effect is a transaction-producing item: reducing it submits a message on
// ChainID and resolves to Noop on success, or re-enqueues on retryable
// failure (spec §4.9).
type Effect struct {
	ChainID chain.ID
	Payload any
}

func (Effect) isItem() {}

// Aggregate is a join point: Queue is reduced to empty via ordinary
// scheduling (its sub-items may themselves produce Data), then Data is
// matched against Receiver's expected type list. Spec §3 invariant 3: Queue
// must be non-empty, or Data must already satisfy Receiver, for the term to
// be well-formed.
type Aggregate struct {
	Queue    []Item
	Data     []Data
	Receiver Aggregation
}

func (Aggregate) isItem() {}

// Seq reduces left to right: the next item is blocked until the previous
// yields Noop.
type Seq struct {
	Items []Item
}

func (Seq) isItem() {}

// Conc schedules every item independently; order of completion is
// unspecified. The outer term resolves to Noop only once every inner item
// has.
type Conc struct {
	Items []Item
}

func (Conc) isItem() {}

// Repeat re-issues a fresh copy of Template every time Current resolves to
// Noop. Template is the pure value handed to RepeatItem; Current is
// whatever Template has been reduced to so far.
type Repeat struct {
	Template Item
	Current  Item
}

func (Repeat) isItem() {}

// Timeout drops Inner and surfaces a terminal error once wall-clock passes
// Deadline; a timer need not fire mid-reduction, the deadline is checked at
// each reduction attempt (spec §5).
type Timeout struct {
	Deadline time.Time
	Inner    Item
}

func (Timeout) isItem() {}

// Aggregation is a receiver descriptor: the ordered list of Data variants it
// consumes, and (implicitly, via the Reducer.DoAggregate dispatch on its
// concrete type) the continuation term produced once all are present. Each
// chain family registers concrete Aggregation implementations alongside its
// Fetch/Data variants (spec §9 "capability set + tagged dispatch").
type Aggregation interface {
	// Expected is the ordered list of Data kinds this receiver consumes.
	// The aggregation join engine matches the pool against this list in
	// order (spec §4.6).
	Expected() []DataKind

	// DispatchChainID names the chain whose Reducer builds this
	// receiver's continuation once Expected is satisfied - the chain the
	// resulting message/message-shape belongs to, not necessarily the
	// chain the preceding Fetch ran against.
	DispatchChainID() chain.ID
}

// Constructors. These mirror spec §2's names (Noop, Fetch(x), Wait(x),
// Event(x), Aggregate(deps, data, receiver), Effect(x), Seq([…]),
// Conc([…]), Repeat(inner), Timeout(deadline, inner)).

func NoopItem() Item { return Noop{} }

func FetchItem(c chain.ID, payload any) Item { return Fetch{ChainID: c, Payload: payload} }

func WaitItem(c chain.ID, payload any) Item { return Wait{ChainID: c, Payload: payload} }

func EventItem(c chain.ID, payload any) Item { return Event{ChainID: c, Payload: payload} }

func CommandItem(c chain.ID, payload any) Item { return Command{ChainID: c, Payload: payload} }

func EffectItem(c chain.ID, payload any) Item { return Effect{ChainID: c, Payload: payload} }

// AggregateItem constructs an Aggregate term. Per spec §3 invariant 3, the
// caller must ensure deps is non-empty or data already satisfies receiver.
func AggregateItem(deps []Item, data []Data, receiver Aggregation) Item {
	return Aggregate{Queue: deps, Data: data, Receiver: receiver}
}

func SeqItem(items ...Item) Item { return Seq{Items: items} }

func ConcItem(items ...Item) Item { return Conc{Items: items} }

// RepeatItem wraps inner so that, after it resolves to Noop, a fresh copy
// of inner is re-enqueued.
func RepeatItem(inner Item) Item { return Repeat{Template: inner, Current: inner} }

func TimeoutItem(deadline time.Time, inner Item) Item {
	return Timeout{Deadline: deadline, Inner: inner}
}

// IsNoop reports whether item is the terminal Noop value.
func IsNoop(item Item) bool {
	_, ok := item.(Noop)
	return ok
}
