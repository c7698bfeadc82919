// Command voyager runs the relayer engine described by spec.md: it reads
// a TOML config naming the chains to relay between, wires up a
// queue.Reducer and chain.ChainRead per chain, and drives the durable
// queue until told to stop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/chainfamily/cometbls"
	"github.com/ibc-relay/voyager/chainfamily/rollup"
	"github.com/ibc-relay/voyager/chainrpc"
	"github.com/ibc-relay/voyager/config"
	"github.com/ibc-relay/voyager/engine"
	"github.com/ibc-relay/voyager/metrics"
	"github.com/ibc-relay/voyager/persistence"
	"github.com/ibc-relay/voyager/persistence/dbqueue"
	"github.com/ibc-relay/voyager/persistence/leveldbqueue"
	"github.com/ibc-relay/voyager/persistence/memqueue"
	"github.com/ibc-relay/voyager/queue"
	"github.com/ibc-relay/voyager/reducer"
)

// Exit codes per spec §6.
const (
	exitOK           = 0
	exitConfigError  = 1
	exitRuntimeError = 2
	exitInterrupted  = 130
)

// eventPollInterval is how often each chain's EventsInRange window is
// advanced. Not a spec-named knob; a fixed, conservative default.
const eventPollInterval = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: voyager <config.toml>")
		return exitConfigError
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Error("opening config", "err", err)
		return exitConfigError
	}
	cfg, err := config.Decode(f)
	f.Close()
	if err != nil {
		log.Error("loading config", "err", err)
		return exitConfigError
	}

	registry := reducer.NewRegistry()
	reads := make(map[chain.ID]chain.ChainRead)

	for name, cc := range cfg.Chain {
		if !cc.Enabled {
			continue
		}
		id := chain.ID(name)
		read := chainrpc.New(id, cc.RPCAddr)
		reads[id] = read

		counterparty := chain.ID(cc.Counterparty)

		switch cc.Family {
		case config.FamilyRollup:
			cacheSize := cc.CacheSize
			if cacheSize == 0 {
				cacheSize = 256
			}
			red, err := rollup.New(read, counterparty, cacheSize)
			if err != nil {
				log.Error("constructing rollup reducer", "chain", name, "err", err)
				return exitConfigError
			}
			registry.Register(id, red)
		case config.FamilyCometBLS:
			maxFetches := cc.MaxFetchesPerSecond
			if maxFetches == 0 {
				maxFetches = 20
			}
			registry.Register(id, cometbls.New(read, counterparty, maxFetches))
		default:
			log.Error("unknown chain family", "chain", name, "ty", cc.Family)
			return exitConfigError
		}
	}

	store, err := buildBackend(cfg.Voyager.Queue)
	if err != nil {
		log.Error("constructing persistence backend", "err", err)
		return exitConfigError
	}

	m := metrics.New()
	m.MustRegister(prometheus.DefaultRegisterer)

	engineCfg := engine.DefaultConfig()
	engineCfg.NumWorkers = cfg.Voyager.NumWorkers

	driver := engine.New(registry, store, m, engineCfg)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	if err := driver.Start(ctx); err != nil {
		log.Error("starting engine", "err", err)
		cancel()
		return exitRuntimeError
	}

	for id, read := range reads {
		go pollEvents(ctx, driver, id, read)
	}

	sig := <-sigCh
	log.Info("voyager: shutting down", "signal", sig)
	cancel()
	if err := driver.Close(); err != nil {
		log.Error("shutting down engine", "err", err)
		return exitRuntimeError
	}

	if sig == os.Interrupt {
		return exitInterrupted
	}
	return exitOK
}

func buildBackend(qc config.QueueConfig) (persistence.Backend, error) {
	switch qc.Backend {
	case config.QueueMemory:
		return memqueue.New(), nil
	case config.QueueLevelDB:
		return leveldbqueue.Open(qc.Path)
	case config.QueuePostgres:
		return dbqueue.Open(qc.DSN)
	default:
		return nil, fmt.Errorf("voyager: unknown queue backend %q", qc.Backend)
	}
}

// pollEvents advances chain id's event window every eventPollInterval,
// submitting each observed event as its own ticket (spec §4.5 "Event-to-
// Queue Lowering" then runs inside the engine via queue.Reduce's Event
// case once the ticket is stepped).
func pollEvents(ctx context.Context, driver *engine.Driver, id chain.ID, read chain.ChainRead) {
	from, err := read.LatestHeight(ctx)
	if err != nil {
		log.Error("polling initial height", "chain", id, "err", err)
		return
	}

	ticker := time.NewTicker(eventPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		to, err := read.LatestHeight(ctx)
		if err != nil {
			log.Warn("polling latest height", "chain", id, "err", err)
			continue
		}
		if !from.Less(to) {
			continue
		}

		events, err := read.EventsInRange(ctx, from, to)
		if err != nil {
			log.Warn("polling events", "chain", id, "from", from, "to", to, "err", err)
			continue
		}

		for _, ev := range events {
			if _, err := driver.Submit(ctx, id, queue.EventItem(id, ev)); err != nil {
				log.Error("submitting event ticket", "chain", id, "event", ev.Kind, "err", err)
			}
		}
		from = to
	}
}
