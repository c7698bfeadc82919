// Package engine drives the queue: it owns the ready/parked ticket sets per
// chain, steps items through queue.Reduce, persists the result, and routes
// Data produced on one ticket to any sibling ticket on the same chain still
// awaiting it (spec §4.8, §3).
package engine

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/metrics"
	"github.com/ibc-relay/voyager/persistence"
	"github.com/ibc-relay/voyager/queue"
	"github.com/ibc-relay/voyager/queueerr"
	"github.com/ibc-relay/voyager/reducer"
)

// Config bounds the driver's resource usage; it corresponds to the
// "voyager" block of spec §6's configuration record.
type Config struct {
	// NumWorkers caps how many chains may be stepped concurrently. Each
	// chain-id is still only ever driven by a single goroutine at a time
	// (spec §5 "cooperative, single-writer per chain"); NumWorkers bounds
	// how many such per-chain loops may be mid-step across the whole
	// process at once.
	NumWorkers uint16

	// IdlePoll is how long a chain loop sleeps after a pass that reduced
	// nothing before trying again - every ticket on the chain was either
	// parked on a Wait, backed off after a transient error, or awaiting
	// Data routed from a sibling ticket.
	IdlePoll time.Duration

	// AggregateGrace is how long a ticket may sit with no observable
	// progress before it is dead-lettered as aggregate-unsatisfiable
	// (spec §7).
	AggregateGrace time.Duration
}

// DefaultConfig returns conservative defaults suitable for a single-process
// deployment talking to a handful of chains.
func DefaultConfig() Config {
	return Config{
		NumWorkers:     8,
		IdlePoll:       2 * time.Second,
		AggregateGrace: 10 * time.Minute,
	}
}

// ticketState is the driver's working copy of a queue.Ticket: the
// persisted Item plus the bookkeeping needed to implement retry backoff
// and the aggregate-unsatisfiable grace period, neither of which is part
// of the durable record itself.
type ticketState struct {
	ticket      queue.Ticket
	backoff     backoff.BackOff
	nextAttempt time.Time
	lastProgress time.Time
}

// Driver is the engine described by spec §4.8. Construct with New, call
// Start once tickets have been submitted (or reloaded from a prior run),
// and Close to drain and halt.
type Driver struct {
	registry *reducer.Registry
	store    persistence.Backend
	metrics  *metrics.Metrics
	config   Config

	sem chan struct{}

	mu           sync.Mutex
	chainTickets map[chain.ID]map[uuid.UUID]*ticketState
	seqCounters  map[chain.ID]uint64
	wake         map[chain.ID]chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New constructs a Driver. registry resolves the queue.Reducer for each
// chain-id; store is where tickets are checkpointed after every step;
// m may be nil to disable metrics.
func New(registry *reducer.Registry, store persistence.Backend, m *metrics.Metrics, cfg Config) *Driver {
	if m == nil {
		m = metrics.New()
	}
	return &Driver{
		registry:     registry,
		store:        store,
		metrics:      m,
		config:       cfg,
		sem:          make(chan struct{}, cfg.NumWorkers),
		chainTickets: make(map[chain.ID]map[uuid.UUID]*ticketState),
		seqCounters:  make(map[chain.ID]uint64),
		wake:         make(map[chain.ID]chan struct{}),
	}
}

// Start reloads every non-terminal ticket from store and spawns one loop
// goroutine per chain-id with tickets to drive. ctx governs the lifetime
// of every spawned loop; cancelling it is the same as calling Close.
func (d *Driver) Start(ctx context.Context) error {
	tickets, err := d.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "engine: loading persisted tickets")
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, runCtx := errgroup.WithContext(runCtx)

	d.mu.Lock()
	d.ctx, d.cancel, d.group = runCtx, cancel, group
	// Chains that received a Submit before Start have no loop yet.
	for cid := range d.chainTickets {
		cid := cid
		d.group.Go(func() error {
			d.chainLoop(d.ctx, cid)
			return nil
		})
	}
	for _, t := range tickets {
		cid := chain.ID(t.ChainID)
		d.ensureChainLocked(cid)
		d.chainTickets[cid][t.ID] = &ticketState{ticket: t, backoff: d.newBackoff()}
		if t.Seq >= d.seqCounters[cid] {
			d.seqCounters[cid] = t.Seq + 1
		}
	}
	d.mu.Unlock()

	log.Info("engine: started", "chains", len(d.chainTickets), "tickets", len(tickets))
	return nil
}

// Close cancels every chain loop and waits for them to return.
func (d *Driver) Close() error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()
	return d.group.Wait()
}

// Submit enqueues item against chainID, assigning it the next sequence
// number for that chain, persists it, and wakes (or spawns) that chain's
// loop.
func (d *Driver) Submit(ctx context.Context, chainID chain.ID, item queue.Item) (queue.Ticket, error) {
	d.mu.Lock()
	seq := d.seqCounters[chainID]
	d.seqCounters[chainID] = seq + 1
	t := queue.NewTicket(string(chainID), seq, item)
	d.ensureChainLocked(chainID)
	d.chainTickets[chainID][t.ID] = &ticketState{ticket: t, backoff: d.newBackoff()}
	d.mu.Unlock()

	if err := d.store.Save(ctx, t); err != nil {
		return queue.Ticket{}, errors.Wrap(err, "engine: persisting submitted ticket")
	}
	d.wakeChain(chainID)
	return t, nil
}

// ensureChainLocked registers chainID's bookkeeping maps and, if a Driver
// run is active, spawns its loop goroutine. Callers must hold d.mu.
func (d *Driver) ensureChainLocked(chainID chain.ID) {
	if _, ok := d.chainTickets[chainID]; ok {
		return
	}
	d.chainTickets[chainID] = make(map[uuid.UUID]*ticketState)
	d.wake[chainID] = make(chan struct{}, 1)

	if d.group != nil {
		cid := chainID
		d.group.Go(func() error {
			d.chainLoop(d.ctx, cid)
			return nil
		})
	}
}

func (d *Driver) wakeChain(chainID chain.ID) {
	d.mu.Lock()
	ch, ok := d.wake[chainID]
	d.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (d *Driver) newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = 2 * time.Minute
	b.MaxElapsedTime = 0 // retried indefinitely; only Fatal errors stop a ticket
	return b
}

// chainLoop is the single writer for chainID: it wakes on a Submit/wake
// signal, on routed Data, or on its idle poll timer, steps every ready
// ticket on the chain once, and loops. Exactly one chainLoop runs per
// chain-id at a time, satisfying spec §5's per-chain serialization.
func (d *Driver) chainLoop(ctx context.Context, id chain.ID) {
	ticker := time.NewTicker(d.config.IdlePoll)
	defer ticker.Stop()

	d.mu.Lock()
	wake := d.wake[id]
	d.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-wake:
		case <-ticker.C:
		}

		select {
		case d.sem <- struct{}{}:
		case <-ctx.Done():
			return
		}
		progressed := d.stepChain(ctx, id)
		<-d.sem

		if ctx.Err() != nil {
			return
		}
		if progressed {
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}

// stepChain reduces every ticket currently on id one step (Conc semantics
// across siblings: each gets a turn regardless of the others' outcome),
// persisting, routing, finishing, or dead-lettering as appropriate, and
// reports whether anything changed.
func (d *Driver) stepChain(ctx context.Context, id chain.ID) bool {
	if _, ok := d.registry.Lookup(id); !ok {
		log.Error("engine: no reducer registered for chain", "chain", id)
		return false
	}

	d.mu.Lock()
	ids := make([]uuid.UUID, 0, len(d.chainTickets[id]))
	for tid := range d.chainTickets[id] {
		ids = append(ids, tid)
	}
	d.mu.Unlock()

	progressed := false
	d.metrics.QueueDepth.WithLabelValues(string(id)).Set(float64(len(ids)))

	for _, tid := range ids {
		d.mu.Lock()
		st, ok := d.chainTickets[id][tid]
		d.mu.Unlock()
		if !ok || time.Now().Before(st.nextAttempt) {
			continue
		}

		before := st.ticket.Item
		start := time.Now()
		next, produced, err := queue.Reduce(ctx, before, d.registry)

		if err != nil {
			progressed = d.handleReduceError(ctx, id, st, err) || progressed
			continue
		}

		st.backoff.Reset()
		st.nextAttempt = time.Time{}
		d.metrics.ReductionsTotal.WithLabelValues(string(id), "ok").Inc()
		log.Debug("engine: reduced ticket", "chain", id, "ticket", tid, "item", before, "outcome", "ok", "duration", time.Since(start))

		changed := len(produced) > 0 || !reflect.DeepEqual(before, next)
		if changed {
			progressed = true
			st.lastProgress = time.Now()
		}
		st.ticket.Item = next

		for _, data := range produced {
			d.routeData(ctx, id, tid, data)
		}

		if queue.IsNoop(next) {
			d.finish(ctx, id, tid)
			continue
		}

		if st.lastProgress.IsZero() {
			st.lastProgress = time.Now()
		}
		if time.Since(st.lastProgress) > d.config.AggregateGrace {
			d.deadLetter(ctx, id, tid, st, errAggregateUnsatisfiable{ticket: tid})
			continue
		}

		if err := d.store.Save(ctx, st.ticket); err != nil {
			log.Error("engine: persisting ticket", "chain", id, "ticket", tid, "err", err)
		}
	}

	return progressed
}

// handleReduceError classifies a reduction error per spec §7: transient
// errors back the ticket off and retry in place; everything else dead-
// letters it. Returns whether the ticket's retry schedule changed (so the
// caller's idle-detection doesn't spin on an unchanging backoff).
func (d *Driver) handleReduceError(ctx context.Context, id chain.ID, st *ticketState, err error) bool {
	if queueerr.IsTemporary(err) {
		delay := st.backoff.NextBackOff()
		st.nextAttempt = time.Now().Add(delay)
		d.metrics.RetriesTotal.WithLabelValues(string(id)).Inc()
		d.metrics.ReductionsTotal.WithLabelValues(string(id), "retry").Inc()
		log.Warn("engine: transient error, backing off", "chain", id, "ticket", st.ticket.ID, "delay", delay, "err", err)
		return true
	}

	d.metrics.ReductionsTotal.WithLabelValues(string(id), "fatal").Inc()
	d.deadLetter(ctx, id, st.ticket.ID, st, err)
	return true
}

// routeData offers data to every other ticket on id (spec §3 "routed to
// the first aggregate on the same chain awaiting its type") in submission
// (Seq) order, stopping at the first one that accepts it.
func (d *Driver) routeData(ctx context.Context, id chain.ID, source uuid.UUID, data queue.Data) {
	d.mu.Lock()
	siblings := make([]uuid.UUID, 0, len(d.chainTickets[id]))
	for tid := range d.chainTickets[id] {
		if tid != source {
			siblings = append(siblings, tid)
		}
	}
	sort.Slice(siblings, func(i, j int) bool {
		return d.chainTickets[id][siblings[i]].ticket.Seq < d.chainTickets[id][siblings[j]].ticket.Seq
	})
	d.mu.Unlock()

	for _, tid := range siblings {
		d.mu.Lock()
		st, ok := d.chainTickets[id][tid]
		d.mu.Unlock()
		if !ok {
			continue
		}

		next, routed := routeInto(st.ticket.Item, data)
		if !routed {
			continue
		}
		st.ticket.Item = next
		st.lastProgress = time.Now()
		if err := d.store.Save(ctx, st.ticket); err != nil {
			log.Error("engine: persisting ticket after routing", "chain", id, "ticket", tid, "err", err)
		}
		d.wakeChain(id)
		return
	}
}

// finish removes a ticket that has reduced to Noop.
func (d *Driver) finish(ctx context.Context, id chain.ID, tid uuid.UUID) {
	d.mu.Lock()
	delete(d.chainTickets[id], tid)
	d.mu.Unlock()

	if err := d.store.Delete(ctx, tid); err != nil {
		log.Error("engine: deleting completed ticket", "chain", id, "ticket", tid, "err", err)
	}
}

// deadLetter removes st and records why. The item's last state (including
// any partial Aggregate.Data) is logged but not separately persisted: spec
// §7 requires the partial data be attached to the dead-letter record, which
// here is the log line itself.
func (d *Driver) deadLetter(ctx context.Context, id chain.ID, tid uuid.UUID, st *ticketState, cause error) {
	reason := "fatal"
	switch {
	case queueerr.IsReset(cause):
		reason = "reset"
	case isAggregateUnsatisfiable(cause):
		reason = "aggregate_unsatisfiable"
	}

	log.Error("engine: dead-lettering ticket", "chain", id, "ticket", tid, "reason", reason, "item", st.ticket.Item, "err", cause)
	d.metrics.DeadLettersTotal.WithLabelValues(string(id), reason).Inc()

	d.mu.Lock()
	delete(d.chainTickets[id], tid)
	d.mu.Unlock()

	if err := d.store.Delete(ctx, tid); err != nil {
		log.Error("engine: deleting dead-lettered ticket", "chain", id, "ticket", tid, "err", err)
	}
}

type errAggregateUnsatisfiable struct{ ticket uuid.UUID }

func (e errAggregateUnsatisfiable) Error() string {
	return "engine: aggregate made no progress within the grace period"
}

func isAggregateUnsatisfiable(err error) bool {
	_, ok := errors.Cause(err).(errAggregateUnsatisfiable)
	if ok {
		return true
	}
	_, ok = err.(errAggregateUnsatisfiable)
	return ok
}
