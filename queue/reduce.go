package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ibc-relay/voyager/aggregate"
	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/queueerr"
)

// Reduce performs one reduction step of item under red, returning its
// replacement term and any Data it produced along the way. Reduce is a
// pure function modulo the I/O red performs: given the same item and the
// same red responses, it always returns the same result (spec §4.4).
//
// The structural cases - Noop, Seq, Conc, Repeat, Timeout, and an
// Aggregate's own sub-queue - are handled here identically for every chain
// family. The leaf cases - Fetch, Wait, Effect, Event, Command, and an
// Aggregate's completion once its pool is satisfied - are delegated to
// red.
//
// Reduce only ever resolves an Aggregate using Data produced by its own
// Queue. Data produced elsewhere on the same chain and routed to this
// aggregate by the engine (spec §3 "routed to the first aggregate on the
// same chain awaiting its type") is appended to its Data pool by the
// caller before the next call to Reduce, not by Reduce itself - that
// routing needs visibility across the whole chain queue, which a single
// item's reduction does not have.
func Reduce(ctx context.Context, item Item, resolve Resolver) (Item, []Data, error) {
	switch it := item.(type) {
	case Noop:
		return it, nil, nil

	case Fetch:
		red, ok := resolve.Lookup(it.ChainID)
		if !ok {
			return it, nil, queueerr.NewFatalError(errUnresolvedChain{it.ChainID})
		}
		next, data, err := red.DoFetch(ctx, it)
		if err != nil {
			return it, nil, err
		}
		return next, data, nil

	case Wait:
		red, ok := resolve.Lookup(it.ChainID)
		if !ok {
			return it, nil, queueerr.NewFatalError(errUnresolvedChain{it.ChainID})
		}
		next, err := red.DoWait(ctx, it)
		if err != nil {
			return it, nil, err
		}
		return next, nil, nil

	case Event:
		red, ok := resolve.Lookup(it.ChainID)
		if !ok {
			return it, nil, queueerr.NewFatalError(errUnresolvedChain{it.ChainID})
		}
		next, err := red.LowerEvent(ctx, it)
		if err != nil {
			return it, nil, err
		}
		return next, nil, nil

	case Command:
		red, ok := resolve.Lookup(it.ChainID)
		if !ok {
			return it, nil, queueerr.NewFatalError(errUnresolvedChain{it.ChainID})
		}
		next, err := red.LowerCommand(ctx, it)
		if err != nil {
			return it, nil, err
		}
		return next, nil, nil

	case Effect:
		red, ok := resolve.Lookup(it.ChainID)
		if !ok {
			return it, nil, queueerr.NewFatalError(errUnresolvedChain{it.ChainID})
		}
		next, data, err := red.DoEffect(ctx, it)
		if queueerr.IsSubmissionConflict(err) {
			return Noop{}, data, nil
		}
		if err != nil {
			return it, nil, err
		}
		return next, data, nil

	case Aggregate:
		return reduceAggregate(ctx, it, resolve)

	case Seq:
		return reduceSeq(ctx, it, resolve)

	case Conc:
		return reduceConc(ctx, it, resolve)

	case Repeat:
		return reduceRepeat(ctx, it, resolve)

	case Timeout:
		return reduceTimeout(ctx, it, resolve)

	default:
		return it, nil, queueerr.NewFatalError(errUnknownItem{item})
	}
}

type errUnknownItem struct{ item Item }

func (e errUnknownItem) Error() string { return "queue: unknown item type in Reduce" }

type errUnresolvedChain struct{ id chain.ID }

func (e errUnresolvedChain) Error() string {
	return fmt.Sprintf("queue: no reducer registered for chain %q", e.id)
}

// reduceAggregate advances an Aggregate's own sub-queue one step (Conc
// semantics: every sub-item gets a turn), folds any Data it yields into
// the pool, and attempts a match once the sub-queue is fully drained.
func reduceAggregate(ctx context.Context, it Aggregate, resolve Resolver) (Item, []Data, error) {
	if len(it.Queue) > 0 {
		nextQueue, produced, err := reduceItemSlice(ctx, it.Queue, resolve)
		if err != nil {
			return it, nil, err
		}
		it.Queue = nextQueue
		it.Data = append(it.Data, produced...)
		if len(it.Queue) > 0 {
			return it, nil, nil
		}
	}

	expected := it.Receiver.Expected()
	matched, remaining, ok := aggregate.Match(expected, it.Data, Data.Kind)
	if !ok {
		// Sub-queue drained but pool still short: wait for Data routed in
		// from elsewhere on the same chain (spec §3). Not an error by
		// itself; the engine enforces the aggregate-unsatisfiable grace
		// period that turns this into a Fatal error after a deadline.
		return it, nil, nil
	}

	red, ok := resolve.Lookup(it.Receiver.DispatchChainID())
	if !ok {
		return it, nil, queueerr.NewFatalError(errUnresolvedChain{it.Receiver.DispatchChainID()})
	}
	next, err := red.DoAggregate(ctx, it.Receiver, matched)
	if err != nil {
		return it, nil, err
	}
	if len(remaining) == 0 {
		return next, nil, nil
	}
	// Residual unmatched Data is handed back as produced Data, so an
	// enclosing Aggregate folds it into its pool and the engine offers it
	// to other aggregates on the chain, rather than it being dropped.
	return next, remaining, nil
}

// reduceSeq reduces the head of items in place, skipping over any prefix
// that has already resolved to Noop, and returns Noop once the whole
// sequence has drained.
func reduceSeq(ctx context.Context, it Seq, resolve Resolver) (Item, []Data, error) {
	items := it.Items
	var allProduced []Data

	for len(items) > 0 {
		head, produced, err := Reduce(ctx, items[0], resolve)
		allProduced = append(allProduced, produced...)
		if err != nil {
			return Seq{Items: items}, allProduced, err
		}
		if IsNoop(head) {
			items = items[1:]
			continue
		}
		rest := append([]Item{head}, items[1:]...)
		return Seq{Items: rest}, allProduced, nil
	}

	return Noop{}, allProduced, nil
}

// reduceConc gives every sub-item one reduction step, independent of the
// others' outcomes, and resolves to Noop only once all have.
func reduceConc(ctx context.Context, it Conc, resolve Resolver) (Item, []Data, error) {
	next, produced, err := reduceItemSlice(ctx, it.Items, resolve)
	if err != nil {
		return it, produced, err
	}
	if len(next) == 0 {
		return Noop{}, produced, nil
	}
	return Conc{Items: next}, produced, nil
}

// reduceItemSlice reduces every item in items one step, independent of one
// another's outcome (Conc semantics: termination of the whole slice
// requires termination of every element, so one sibling erroring must not
// stop the rest from getting their turn), dropping those that resolve to
// Noop. Errors from multiple siblings in the same step are collected
// rather than only the first reported, since under Conc they are
// logically independent failures, not a single failure masking others.
func reduceItemSlice(ctx context.Context, items []Item, resolve Resolver) ([]Item, []Data, error) {
	next := make([]Item, 0, len(items))
	var allProduced []Data
	var errs *multierror.Error

	for _, item := range items {
		reduced, produced, err := Reduce(ctx, item, resolve)
		allProduced = append(allProduced, produced...)
		if err != nil {
			errs = multierror.Append(errs, err)
			next = append(next, reduced)
			continue
		}
		if !IsNoop(reduced) {
			next = append(next, reduced)
		}
	}

	return next, allProduced, errs.ErrorOrNil()
}

// reduceRepeat reduces Current one step; once it resolves to Noop, a fresh
// copy of Template (the original, immutable term) replaces it rather than
// the whole Repeat resolving.
func reduceRepeat(ctx context.Context, it Repeat, resolve Resolver) (Item, []Data, error) {
	next, produced, err := Reduce(ctx, it.Current, resolve)
	if err != nil {
		return Repeat{Template: it.Template, Current: next}, produced, err
	}
	if IsNoop(next) {
		return Repeat{Template: it.Template, Current: it.Template}, produced, nil
	}
	return Repeat{Template: it.Template, Current: next}, produced, nil
}

// reduceTimeout checks Deadline before reducing Inner: once wall-clock
// passes it, Inner is abandoned and a Fatal, dead-letter-bound error is
// returned (spec §5, §7 "Timeout-triggered").
func reduceTimeout(ctx context.Context, it Timeout, resolve Resolver) (Item, []Data, error) {
	if !it.Deadline.IsZero() && time.Now().After(it.Deadline) {
		return it, nil, queueerr.NewFatalError(errTimedOut{})
	}

	next, produced, err := Reduce(ctx, it.Inner, resolve)
	if err != nil {
		return Timeout{Deadline: it.Deadline, Inner: next}, produced, err
	}
	if IsNoop(next) {
		return Noop{}, produced, nil
	}
	return Timeout{Deadline: it.Deadline, Inner: next}, produced, nil
}

type errTimedOut struct{}

func (errTimedOut) Error() string { return "queue: item timed out before completing" }
