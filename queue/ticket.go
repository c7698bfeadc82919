package queue

import "github.com/google/uuid"

// Ticket identifies one top-level queue entry: a (ChainID, Item) pair
// submitted to the engine, tracked from submission through to Noop or
// dead-letter (spec §6 "Items carry a monotonically increasing sequence
// used for stable ordering within a chain"). The ticket id itself is a
// UUID so that persistence backends (package persistence) can use it as an
// opaque primary key; ordering is carried separately by Seq, the
// within-chain sequence number assigned at submission time.
type Ticket struct {
	ID       uuid.UUID
	ChainID  string
	Seq      uint64
	Item     Item
}

// NewTicket allocates a fresh ticket id for item submitted against chainID
// at sequence number seq.
func NewTicket(chainID string, seq uint64, item Item) Ticket {
	return Ticket{ID: uuid.New(), ChainID: chainID, Seq: seq, Item: item}
}
