package event

import "encoding/gob"

// Registers every concrete Fetch/Wait/Aggregation payload type this
// package defines so package queue's gob-based ticket persistence (see
// queue/wire.go) can decode them back out of an `any` field.
func init() {
	gob.Register(FetchState{})
	gob.Register(FetchLatestClientState{})
	gob.Register(FetchConnectionEnd{})
	gob.Register(FetchChannelEnd{})
	gob.Register(WaitForBlock{})
	gob.Register(WaitForClientUpdate{})
	gob.Register(UpdateClientFromClientID{})
	gob.Register(ConnectionOpenTry{})
	gob.Register(ConnectionOpenAck{})
	gob.Register(ConnectionOpenConfirm{})
	gob.Register(ConnectionFetchFromChannelEnd{})
	gob.Register(ChannelHandshakeUpdateClient{})
	gob.Register(PacketUpdateClient{})
	gob.Register(UpdateClientCommand{})
}
