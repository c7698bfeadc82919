package lightclient

import "encoding/gob"

// Registers every chain-emitted event type for gob-based ticket
// persistence (see queue/wire.go): these appear inside chain.Event.Data,
// itself inside a queue.Event's Payload.
func init() {
	gob.Register(ConnectionOpenInit{})
	gob.Register(ConnectionOpenTry{})
	gob.Register(ConnectionOpenAck{})
	gob.Register(ConnectionOpenConfirm{})
	gob.Register(ChannelOpenInit{})
	gob.Register(ChannelOpenTry{})
	gob.Register(ChannelOpenAck{})
	gob.Register(ChannelOpenConfirm{})
	gob.Register(SendPacket{})
	gob.Register(RecvPacket{})
	gob.Register(AcknowledgePacket{})
	gob.Register(TimeoutPacket{})
	gob.Register(WriteAcknowledgement{})
	gob.Register(CreateClient{})
	gob.Register(UpdateClient{})
}
