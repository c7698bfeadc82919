package rollup

import "encoding/gob"

// Registers this family's Effect/Fetch payload types for gob-based ticket
// persistence (see queue/wire.go).
func init() {
	gob.Register(MsgUpdateClient{})
	gob.Register(MsgConnectionOpenTry{})
	gob.Register(MsgConnectionOpenAck{})
	gob.Register(MsgConnectionOpenConfirm{})
	gob.Register(MsgChannelOpenTry{})
	gob.Register(MsgChannelOpenAck{})
	gob.Register(MsgChannelOpenConfirm{})
	gob.Register(MsgRecvPacket{})
	gob.Register(MsgAcknowledgePacket{})
	gob.Register(FetchChannel{})
	gob.Register(FetchConnection{})
}
