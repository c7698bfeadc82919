package queue

import (
	"context"

	"github.com/ibc-relay/voyager/chain"
)

// Reducer supplies the chain-specific leaves of the queue algebra: what a
// Fetch/Wait/Effect actually does, what an Aggregate's continuation is once
// matched, and how a chain Event or operator Command lowers into a
// replacement term (spec §4.5, §9). Reduce dispatches to these methods for
// every leaf item; the structural items (Seq, Conc, Repeat, Timeout,
// Aggregate's own sub-queue) are reduced by Reduce itself, identically
// across every chain family.
//
// Implementations live under chainfamily/rollup and chainfamily/cometbls;
// package reducer holds the per-chain-id registry that package engine
// consults to find the right one.
type Reducer interface {
	ChainFamily() string

	DoFetch(ctx context.Context, item Fetch) (Item, []Data, error)
	DoWait(ctx context.Context, item Wait) (Item, error)
	DoEffect(ctx context.Context, item Effect) (Item, []Data, error)
	DoAggregate(ctx context.Context, receiver Aggregation, matched []Data) (Item, error)
	LowerEvent(ctx context.Context, item Event) (Item, error)
	LowerCommand(ctx context.Context, item Command) (Item, error)
}

// Resolver looks up the Reducer responsible for a chain id. Every leaf item
// (Fetch, Wait, Effect, Event, Command) and every Aggregation carries its
// own target chain id (spec §4.5: a ticket homed on Hc still issues Waits,
// Fetches, and a final Effect against Tr, the counterparty); Reduce
// consults a Resolver at each leaf rather than assuming the whole ticket
// reduces under one Reducer. reducer.Registry satisfies this interface.
type Resolver interface {
	Lookup(id chain.ID) (Reducer, bool)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(chain.ID) (Reducer, bool)

func (f ResolverFunc) Lookup(id chain.ID) (Reducer, bool) { return f(id) }
