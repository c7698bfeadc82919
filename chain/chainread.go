package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// StatePathKind discriminates the kind of state a Fetch reducer is asking a
// chain to read at a given height, per spec §4.3.
type StatePathKind string

const (
	PathClientState    StatePathKind = "client_state"
	PathConsensusState  StatePathKind = "consensus_state"
	PathConnection       StatePathKind = "connection"
	PathChannelEnd       StatePathKind = "channel_end"
)

// StatePath names a piece of committed state to read on a chain, together
// with whatever coordinates it needs (client/connection/channel id, or the
// height a ConsensusState is associated with).
type StatePath struct {
	Kind        StatePathKind
	ClientID    string
	PortID      string
	ChannelID   string
	ConnectionID string
	// At is only meaningful for PathConsensusState, which is itself indexed
	// by a counterparty height.
	At Height
}

// StateProof is an untyped state read together with its inclusion proof, as
// returned by ChainRead.QueryState. Decoding the Value into a domain type is
// the caller's job (see package lightclient). Full IBC wire-format decoding
// (protobuf channel/connection ends, etc.) is outside this module's scope
// (spec §1); for PathChannelEnd in particular, Value is taken by convention
// to be the connection id the channel is anchored to, which is all a chain
// family's DoAggregate needs to continue a handshake.
type StateProof struct {
	Value       []byte
	Proof       []byte
	ProofHeight Height
}

// Event is a chain-emitted occurrence, as returned by events in a height
// range. The Kind/Data split mirrors the IBC event names in spec §4.5; Data
// carries the event-specific payload (e.g. a decoded ConnectionOpenInit).
type Event struct {
	Kind   string
	Height Height
	TxHash common.Hash
	Data   any
}

// ChainRead is the capability set the engine depends on to observe a chain.
// Implementations are provided per chain family (rollups, Tendermint-based,
// beacon-chain-based); see package chainfamily/*. All methods must be
// side-effect-free with respect to the chain, and QueryState must be
// idempotent for a given (path, height) per spec §4.3.
type ChainRead interface {
	ChainID() ID

	// LatestHeight returns the chain's current head. May block briefly; the
	// caller is responsible for any retry policy.
	LatestHeight(ctx context.Context) (Height, error)

	// QueryState reads committed state at a height together with its
	// inclusion proof.
	QueryState(ctx context.Context, path StatePath, at Height) (StateProof, error)

	// EventsInRange returns events in [from, to), inclusive on from and
	// exclusive on to, preserving chain order. Deduplication across
	// overlapping windows is the caller's responsibility.
	EventsInRange(ctx context.Context, from, to Height) ([]Event, error)
}
