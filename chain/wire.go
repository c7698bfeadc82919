package chain

import "encoding/gob"

// Registers Event for gob-based ticket persistence (see
// queue/wire.go): a chain.Event is the Payload of every queue.Event item.
func init() {
	gob.Register(Event{})
}
