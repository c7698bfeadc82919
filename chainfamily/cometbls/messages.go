// Package cometbls implements the Tendermint-family chain family
// (SPEC_FULL.md §7): a queue.Reducer over chain.ChainRead using
// ConsensusState-anchored proofs rather than rollup.FetchChannel-style
// wire-specific fetches. It exists so an end-to-end scenario can exercise
// two distinct chain families relaying to each other, the way spec §8's
// acceptance scenarios require.
package cometbls

import (
	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/lightclient"
)

type MsgUpdateClient struct {
	ClientID string
	Header   lightclient.Header
}

type MsgConnectionOpenTry struct {
	CounterpartyConnectionID string
	CounterpartyClientID     string
	ClientID                 string
	ProvenAt                 chain.Height
}

type MsgConnectionOpenAck struct {
	ConnectionID string
	ProvenAt     chain.Height
}

type MsgConnectionOpenConfirm struct {
	ConnectionID string
	ProvenAt     chain.Height
}

type MsgChannelOpenTry struct {
	PortID       string
	ChannelID    string
	ConnectionID string
	ProvenAt     chain.Height
}

type MsgChannelOpenAck struct {
	PortID    string
	ChannelID string
	ProvenAt  chain.Height
}

type MsgChannelOpenConfirm struct {
	PortID    string
	ChannelID string
	ProvenAt  chain.Height
}

type MsgRecvPacket struct {
	Packet   lightclient.Packet
	ProvenAt chain.Height
}

type MsgAcknowledgePacket struct {
	Packet          lightclient.Packet
	Acknowledgement []byte
	ProvenAt        chain.Height
}
