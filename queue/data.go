package queue

import (
	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/lightclient"
)

// DataKind discriminates the Data tagged union (spec §3). The aggregation
// join engine (package aggregate) matches on this value alone.
type DataKind string

const (
	KindClientState          DataKind = "client_state"
	KindConsensusState       DataKind = "consensus_state"
	KindConnectionEnd        DataKind = "connection_end"
	KindChannelEnd           DataKind = "channel_end"
	KindChainEvent           DataKind = "chain_event"
	KindTrustedSyncCommittee DataKind = "trusted_sync_committee"
	KindAccountUpdate        DataKind = "account_update"
)

// Data is a typed payload produced by a Fetch, an Effect, or a reducer, and
// consumed by an Aggregate (spec §3). Every variant carries the chain it
// belongs to: Data produced on one chain is only ever routed to aggregates
// parked on that same chain (spec §3 lifecycle).
type Data interface {
	ChainID() chain.ID
	Kind() DataKind
}

type baseData struct {
	Chain chain.ID
}

func (b baseData) ChainID() chain.ID { return b.Chain }

// ClientStateData carries a decoded light-client client state.
type ClientStateData struct {
	baseData
	ClientID string
	State    lightclient.ClientState
}

func (ClientStateData) Kind() DataKind { return KindClientState }

// NewClientStateData constructs a ClientStateData.
func NewClientStateData(c chain.ID, clientID string, state lightclient.ClientState) ClientStateData {
	return ClientStateData{baseData: baseData{c}, ClientID: clientID, State: state}
}

// ConsensusStateData carries a decoded light-client consensus state.
type ConsensusStateData struct {
	baseData
	ClientID string
	At       chain.Height
	State    lightclient.ConsensusState
}

func (ConsensusStateData) Kind() DataKind { return KindConsensusState }

func NewConsensusStateData(c chain.ID, clientID string, at chain.Height, state lightclient.ConsensusState) ConsensusStateData {
	return ConsensusStateData{baseData: baseData{c}, ClientID: clientID, At: at, State: state}
}

// ConnectionEndData carries an IBC connection end read from a chain.
type ConnectionEndData struct {
	baseData
	ConnectionID         string
	ClientID             string
	CounterpartyClientID string
	CounterpartyConn     string
	State                string
	Proof                lightclient.MerkleProof
	ProofHeight          chain.Height
}

func (ConnectionEndData) Kind() DataKind { return KindConnectionEnd }

// NewConnectionEndData constructs a ConnectionEndData for c.
func NewConnectionEndData(c chain.ID, connectionID string, proof lightclient.MerkleProof, proofHeight chain.Height) ConnectionEndData {
	return ConnectionEndData{baseData: baseData{c}, ConnectionID: connectionID, Proof: proof, ProofHeight: proofHeight}
}

// ChannelEndData carries an IBC channel end read from a chain.
type ChannelEndData struct {
	baseData
	PortID       string
	ChannelID    string
	ConnectionID string
	State        string
	Proof        lightclient.MerkleProof
	ProofHeight  chain.Height
}

func (ChannelEndData) Kind() DataKind { return KindChannelEnd }

// NewChannelEndData constructs a ChannelEndData for c.
func NewChannelEndData(c chain.ID, portID, channelID, connectionID string, proof lightclient.MerkleProof, proofHeight chain.Height) ChannelEndData {
	return ChannelEndData{baseData: baseData{c}, PortID: portID, ChannelID: channelID, ConnectionID: connectionID, Proof: proof, ProofHeight: proofHeight}
}

// ChainEventData wraps a chain-emitted event together with the proof
// metadata needed to act on it (e.g. the height it was observed at, so a
// subsequent Fetch can request a proof at that exact height).
type ChainEventData struct {
	baseData
	Event chain.Event
}

func (ChainEventData) Kind() DataKind { return KindChainEvent }

// TrustedSyncCommitteeData wraps a beacon-chain-based light client's trust
// anchor as fetched from the source chain for inclusion in an update.
type TrustedSyncCommitteeData struct {
	baseData
	Committee lightclient.TrustedSyncCommittee
}

func (TrustedSyncCommitteeData) Kind() DataKind { return KindTrustedSyncCommittee }

// AccountUpdateData wraps a beacon-chain-based light client's execution
// layer account proof.
type AccountUpdateData struct {
	baseData
	Update lightclient.AccountUpdate
}

func (AccountUpdateData) Kind() DataKind { return KindAccountUpdate }
