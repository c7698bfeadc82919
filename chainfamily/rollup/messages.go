// Package rollup implements the optimistic-rollup chain family (spec §4.1,
// §4.7 "chain family dispatch"; SPEC_FULL.md §7): a queue.Reducer backed
// by a chain.ChainRead, the rollup-specific Fetch leaves recovered from
// original_source/lib/block-message/src/chain_impls/scroll.rs, and the
// Effect message payloads its DoAggregate constructs once a handshake
// aggregate is satisfied.
package rollup

import (
	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/lightclient"
)

// MsgUpdateClient submits a new header for clientID.
type MsgUpdateClient struct {
	ClientID string
	Header   lightclient.Header
}

// MsgConnectionOpenTry submits the counterparty's ConnectionOpenInit
// event, proven against its updated client state.
type MsgConnectionOpenTry struct {
	CounterpartyConnectionID string
	CounterpartyClientID     string
	ClientID                 string
	ProvenAt                 chain.Height
	Proof                    lightclient.MerkleProof
}

// MsgConnectionOpenAck submits the counterparty's ConnectionOpenTry event.
type MsgConnectionOpenAck struct {
	ConnectionID string
	ProvenAt     chain.Height
	Proof        lightclient.MerkleProof
}

// MsgConnectionOpenConfirm submits the counterparty's ConnectionOpenAck
// event.
type MsgConnectionOpenConfirm struct {
	ConnectionID string
	ProvenAt     chain.Height
	Proof        lightclient.MerkleProof
}

// MsgChannelOpenTry/Ack/Confirm submit the corresponding channel handshake
// message, proven against the resolved connection end.
type MsgChannelOpenTry struct {
	PortID       string
	ChannelID    string
	ConnectionID string
	ProvenAt     chain.Height
	Proof        lightclient.MerkleProof
}

type MsgChannelOpenAck struct {
	PortID    string
	ChannelID string
	ProvenAt  chain.Height
	Proof     lightclient.MerkleProof
}

type MsgChannelOpenConfirm struct {
	PortID    string
	ChannelID string
	ProvenAt  chain.Height
	Proof     lightclient.MerkleProof
}

// MsgRecvPacket/MsgAcknowledgePacket submit the packet, proven against the
// resolved connection end at the height the counterparty client was
// updated to.
type MsgRecvPacket struct {
	Packet   lightclient.Packet
	ProvenAt chain.Height
	Proof    lightclient.MerkleProof
}

type MsgAcknowledgePacket struct {
	Packet          lightclient.Packet
	Acknowledgement []byte
	ProvenAt        chain.Height
	Proof           lightclient.MerkleProof
}

// FetchChannel and FetchConnection are the two rollup Fetch leaves
// original_source/lib/block-message/src/chain_impls/scroll.rs leaves as
// todo!() - spec §9's Open Question, carried forward unimplemented here:
// DoFetch returns a Fatal queueerr for both (see reducer.go).
type FetchChannel struct {
	PortID    string
	ChannelID string
	At        chain.Height
}

type FetchConnection struct {
	ConnectionID string
	At           chain.Height
}
