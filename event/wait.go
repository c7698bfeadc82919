package event

import "github.com/ibc-relay/voyager/chain"

// WaitForBlock blocks until the chain it's issued against has produced a
// block at or past Height.
type WaitForBlock struct {
	Height chain.Height
}
