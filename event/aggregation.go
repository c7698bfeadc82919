package event

import (
	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/lightclient"
	"github.com/ibc-relay/voyager/queue"
)

// ChannelHandshakeEventKind discriminates which phase of the channel
// handshake a ChannelHandshakeUpdateClient is continuing.
type ChannelHandshakeEventKind int

const (
	ChannelHandshakeInit ChannelHandshakeEventKind = iota
	ChannelHandshakeTry
	ChannelHandshakeAck
)

// UpdateClientFromClientID is satisfied once the counterparty's latest
// client state has been fetched; its DoAggregate submits the resulting
// update-client effect on EffectChainID, the chain ClientID actually lives
// on (not the chain the Fetch ran against, which is the counterparty being
// tracked). Grounded on event.rs's AggregateUpdateClientFromClientId (the
// terminal receiver for Command::UpdateClient).
type UpdateClientFromClientID struct {
	ClientID             string
	CounterpartyClientID string
	EffectChainID        chain.ID
}

func (UpdateClientFromClientID) Expected() []queue.DataKind {
	return []queue.DataKind{queue.KindClientState}
}

func (r UpdateClientFromClientID) DispatchChainID() chain.ID { return r.EffectChainID }

// ConnectionOpenTry is satisfied once the counterparty client has been
// updated past the ConnectionOpenInit event's height; its DoAggregate
// submits the ConnectionOpenTry message on EffectChainID, the counterparty
// chain (spec §1 "submits handshake ... messages on the counterparty").
type ConnectionOpenTry struct {
	EventHeight   chain.Height
	Event         lightclient.ConnectionOpenInit
	EffectChainID chain.ID
}

func (ConnectionOpenTry) Expected() []queue.DataKind { return []queue.DataKind{queue.KindClientState} }

func (r ConnectionOpenTry) DispatchChainID() chain.ID { return r.EffectChainID }

// ConnectionOpenAck is satisfied once the counterparty client has been
// updated past the ConnectionOpenTry event's height; its DoAggregate
// submits the ConnectionOpenAck message on EffectChainID, the counterparty
// chain.
type ConnectionOpenAck struct {
	EventHeight   chain.Height
	Event         lightclient.ConnectionOpenTry
	EffectChainID chain.ID
}

func (ConnectionOpenAck) Expected() []queue.DataKind { return []queue.DataKind{queue.KindClientState} }

func (r ConnectionOpenAck) DispatchChainID() chain.ID { return r.EffectChainID }

// ConnectionOpenConfirm is satisfied once the counterparty client has been
// updated past the ConnectionOpenAck event's height; its DoAggregate
// submits the ConnectionOpenConfirm message on EffectChainID, the
// counterparty chain.
type ConnectionOpenConfirm struct {
	EventHeight   chain.Height
	Event         lightclient.ConnectionOpenAck
	EffectChainID chain.ID
}

func (ConnectionOpenConfirm) Expected() []queue.DataKind {
	return []queue.DataKind{queue.KindClientState}
}

func (r ConnectionOpenConfirm) DispatchChainID() chain.ID { return r.EffectChainID }

// ConnectionFetchFromChannelEnd is satisfied once the channel end named by
// a channel handshake event has been fetched; its DoAggregate reads the
// connection id out of the fetched channel end and issues a follow-up
// fetch for that connection, wrapped in another aggregate (see
// ChannelHandshakeUpdateClient). EffectChainID is carried through
// unexamined to that next receiver - the channel/connection end reads
// happen on the event-emitting chain regardless of where the resulting
// message is ultimately submitted. Grounded on event.rs's
// AggregateConnectionFetchFromChannelEnd.
type ConnectionFetchFromChannelEnd struct {
	At            chain.Height
	EffectChainID chain.ID
}

func (ConnectionFetchFromChannelEnd) Expected() []queue.DataKind {
	return []queue.DataKind{queue.KindChannelEnd}
}

func (r ConnectionFetchFromChannelEnd) DispatchChainID() chain.ID { return r.EffectChainID }

// ChannelHandshakeUpdateClient is satisfied once the connection end
// resolved via ConnectionFetchFromChannelEnd has been fetched, at which
// point DoAggregate submits the channel handshake message appropriate to
// Kind on EffectChainID, the counterparty chain. Grounded on event.rs's
// AggregateChannelHandshakeUpdateClient.
type ChannelHandshakeUpdateClient struct {
	UpdateTo      chain.Height
	EventHeight   chain.Height
	Kind          ChannelHandshakeEventKind
	PortID        string
	ChannelID     string
	EffectChainID chain.ID
}

func (ChannelHandshakeUpdateClient) Expected() []queue.DataKind {
	return []queue.DataKind{queue.KindConnectionEnd}
}

func (r ChannelHandshakeUpdateClient) DispatchChainID() chain.ID { return r.EffectChainID }

// PacketUpdateClient is satisfied once the connection end named by a
// packet event's channel has been fetched; its DoAggregate submits the
// RecvPacket/AcknowledgePacket message on EffectChainID, the counterparty
// chain, with the proof height pinned to the resolved connection.
// Grounded on event.rs's AggregatePacketUpdateClient.
type PacketKind int

const (
	PacketSend PacketKind = iota
	PacketRecv
)

type PacketUpdateClient struct {
	UpdateTo      chain.Height
	EventHeight   chain.Height
	TxHash        [32]byte
	Kind          PacketKind
	Packet        lightclient.Packet
	EffectChainID chain.ID
}

func (PacketUpdateClient) Expected() []queue.DataKind {
	return []queue.DataKind{queue.KindConnectionEnd}
}

func (r PacketUpdateClient) DispatchChainID() chain.ID { return r.EffectChainID }
