package lightclient

import "github.com/ibc-relay/voyager/chain"

// The IBC handshake and packet events named in spec §2/§4.5. These are
// plain data: the engine never interprets their fields beyond what the
// event-to-queue lowering rules need (client/channel/connection/port ids,
// and for packets, the source connection).

type ConnectionOpenInit struct {
	ConnectionID            string
	ClientID                string
	CounterpartyClientID    string
	CounterpartyConnection  string
}

type ConnectionOpenTry struct {
	ConnectionID           string
	ClientID               string
	CounterpartyClientID   string
	CounterpartyConnection string
}

type ConnectionOpenAck struct {
	ConnectionID           string
	ClientID               string
	CounterpartyClientID   string
	CounterpartyConnection string
}

type ConnectionOpenConfirm struct {
	ConnectionID string
}

type ChannelOpenInit struct {
	PortID              string
	ChannelID           string
	ConnectionID        string
	CounterpartyPortID  string
}

type ChannelOpenTry struct {
	PortID             string
	ChannelID          string
	ConnectionID       string
	CounterpartyPortID string
	CounterpartyChannel string
}

type ChannelOpenAck struct {
	PortID              string
	ChannelID           string
	CounterpartyChannel string
}

type ChannelOpenConfirm struct {
	PortID    string
	ChannelID string
}

type Packet struct {
	Sequence           uint64
	SourcePort         string
	SourceChannel      string
	DestPort           string
	DestChannel        string
	ConnectionID       string
	Data               []byte
	TimeoutHeight      chain.Height
	TimeoutTimestamp   uint64
}

type SendPacket struct{ Packet Packet }
type RecvPacket struct{ Packet Packet }
type AcknowledgePacket struct{ Packet Packet }
type TimeoutPacket struct{ Packet Packet }
type WriteAcknowledgement struct {
	Packet          Packet
	Acknowledgement []byte
}

type CreateClient struct{ ClientID string }
type UpdateClient struct {
	ClientID         string
	ConsensusHeights []chain.Height
}
