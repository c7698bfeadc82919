// Package config defines the in-memory configuration record of spec §6: a
// chain map keyed by name plus the "voyager" process-level block. Decode
// strictly rejects unknown fields; parsing a value from a file path and
// binding it to CLI flags are both out of scope (spec §1) — callers own
// getting bytes to Decode.
package config

import (
	"io"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ChainFamily names which chainfamily.Reducer a ChainConfig's entry is
// handled by.
type ChainFamily string

const (
	FamilyRollup   ChainFamily = "rollup"
	FamilyCometBLS ChainFamily = "cometbls"
)

// ChainConfig is one entry of spec §6's `chain: map[name -> {enabled, ty}]`.
// Ty is split here into Family (which reducer) plus the family-specific
// knobs every chainfamily.Reducer constructor actually takes.
type ChainConfig struct {
	Enabled bool        `toml:"enabled"`
	Family  ChainFamily `toml:"ty"`

	// RPCAddr is the chain family's ChainRead endpoint.
	RPCAddr string `toml:"rpc_addr"`

	// CacheSize bounds chainfamily/rollup's LRU state-proof cache.
	// Zero selects the default of 256 entries, applied by cmd/voyager.
	CacheSize int `toml:"cache_size"`

	// MaxFetchesPerSecond bounds chainfamily/cometbls's Fetch rate (spec
	// §5 "Fetch against a chain may run concurrently up to a configured
	// cap"). Zero selects the default of 20 per second, applied by
	// cmd/voyager.
	MaxFetchesPerSecond int `toml:"max_fetches_per_second"`

	// Counterparty names the other entry of Config.Chain this chain
	// relays against (spec §4.5's Tr): handshake and packet continuations
	// resolve their client-update Wait/Fetch and their final Effect
	// submission against this chain, not back against the one the event
	// came from.
	Counterparty string `toml:"counterparty"`
}

// QueueBackendKind selects a persistence.Backend implementation.
type QueueBackendKind string

const (
	QueueMemory   QueueBackendKind = "memory"
	QueueLevelDB  QueueBackendKind = "leveldb"
	QueuePostgres QueueBackendKind = "postgres"
)

// QueueConfig is spec §6's `voyager.queue: <backend-config>`.
type QueueConfig struct {
	Backend QueueBackendKind `toml:"backend"`

	// Path is the LevelDB directory, used when Backend is QueueLevelDB.
	Path string `toml:"path"`

	// DSN is the Postgres connection string, used when Backend is
	// QueuePostgres.
	DSN string `toml:"dsn"`
}

// BatchPolicy is spec §6's `voyager.tx_batch: <batching-policy>` (spec §4.9
// "Batching (optional)"). Batching adjacent same-chain Effects into one
// transaction is a chain-family concern left to each reducer's DoEffect;
// this struct only carries the user-facing knobs.
type BatchPolicy struct {
	Enabled              bool   `toml:"enabled"`
	MaxItems             int    `toml:"max_items"`
	MaxDelayMilliseconds uint64 `toml:"max_delay_milliseconds"`
}

// VoyagerConfig is spec §6's `voyager: {...}` block.
type VoyagerConfig struct {
	NumWorkers                 uint16      `toml:"num_workers"`
	LAddr                      string      `toml:"laddr"`
	Queue                      QueueConfig `toml:"queue"`
	TxBatch                    BatchPolicy `toml:"tx_batch"`
	OptimizerDelayMilliseconds uint64      `toml:"optimizer_delay_milliseconds"`
}

// Config is the full record spec §6 describes.
type Config struct {
	Chain   map[string]ChainConfig `toml:"chain"`
	Voyager VoyagerConfig          `toml:"voyager"`
}

// Decode reads a TOML document from r into a Config, rejecting any field
// not named above (spec §6 "Unknown fields are rejected"), and validates
// the result.
func Decode(r io.Reader) (Config, error) {
	var cfg Config
	meta, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: decoding toml")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("config: unknown field(s): %v", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the record for internal consistency beyond what TOML
// decoding alone can catch, collecting every problem found rather than
// stopping at the first.
func (c Config) Validate() error {
	var errs *multierror.Error

	if c.Voyager.NumWorkers == 0 {
		errs = multierror.Append(errs, errors.New("config: voyager.num_workers must be nonzero"))
	}

	switch c.Voyager.Queue.Backend {
	case QueueMemory:
	case QueueLevelDB:
		if c.Voyager.Queue.Path == "" {
			errs = multierror.Append(errs, errors.New("config: voyager.queue.path required for backend \"leveldb\""))
		}
	case QueuePostgres:
		if c.Voyager.Queue.DSN == "" {
			errs = multierror.Append(errs, errors.New("config: voyager.queue.dsn required for backend \"postgres\""))
		}
	default:
		errs = multierror.Append(errs, errors.Errorf("config: voyager.queue.backend: unknown backend %q", c.Voyager.Queue.Backend))
	}

	for name, cc := range c.Chain {
		if !cc.Enabled {
			continue
		}
		switch cc.Family {
		case FamilyRollup, FamilyCometBLS:
		default:
			errs = multierror.Append(errs, errors.Errorf("config: chain %q: unknown ty %q", name, cc.Family))
		}
		if cc.RPCAddr == "" {
			errs = multierror.Append(errs, errors.Errorf("config: chain %q: rpc_addr required", name))
		}
		if cc.Counterparty == "" {
			errs = multierror.Append(errs, errors.Errorf("config: chain %q: counterparty required", name))
			continue
		}
		cp, ok := c.Chain[cc.Counterparty]
		if !ok {
			errs = multierror.Append(errs, errors.Errorf("config: chain %q: counterparty %q is not a configured chain", name, cc.Counterparty))
		} else if !cp.Enabled {
			errs = multierror.Append(errs, errors.Errorf("config: chain %q: counterparty %q is not enabled", name, cc.Counterparty))
		}
	}

	return errs.ErrorOrNil()
}
