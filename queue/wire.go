package queue

import (
	"bytes"
	"encoding/gob"

	"github.com/google/uuid"
)

// Wire (de)serialization of a Ticket for the persistence backends
// (package persistence). Item and Data are Go interfaces holding
// per-chain-family concrete payload types this package has no visibility
// into (package event's Fetch/Wait payloads, chainfamily/rollup's and
// chainfamily/cometbls's Msg* Effect payloads); gob.Register keyed by the
// concrete Go type name is the registry that lets gob.Decode reconstruct
// them without this package naming every chain family. Chain families
// register their own payload types from their own init() (see
// chainfamily/rollup/wire.go, chainfamily/cometbls/wire.go,
// event/wire.go).
//
// No pack library offers this out of the box: BurntSushi/toml is
// config-only and doesn't round-trip interfaces; encoding/json needs the
// same kind of type registry gob gives for free plus a lot more
// boilerplate per type; a protobuf schema would need a .proto message per
// payload type, which is disproportionate for an internal checkpoint
// format nothing outside this process ever reads. gob's self-describing,
// registry-based interface encoding is the stdlib's answer to exactly
// this problem, which is why it's used here instead of a third-party
// serializer.
func init() {
	gob.Register(Noop{})
	gob.Register(Fetch{})
	gob.Register(Wait{})
	gob.Register(Event{})
	gob.Register(Command{})
	gob.Register(Effect{})
	gob.Register(Aggregate{})
	gob.Register(Seq{})
	gob.Register(Conc{})
	gob.Register(Repeat{})
	gob.Register(Timeout{})

	gob.Register(ClientStateData{})
	gob.Register(ConsensusStateData{})
	gob.Register(ConnectionEndData{})
	gob.Register(ChannelEndData{})
	gob.Register(ChainEventData{})
	gob.Register(TrustedSyncCommitteeData{})
	gob.Register(AccountUpdateData{})
}

// MarshalTicket encodes t for durable storage.
func MarshalTicket(t Ticket) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wireTicket{
		ID:      t.ID,
		ChainID: t.ChainID,
		Seq:     t.Seq,
		Item:    t.Item,
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTicket decodes a Ticket previously written by MarshalTicket.
// The Reducer implementations whose payload/Aggregation concrete types
// appear in t.Item must have been imported (and so had their init()
// gob.Register calls run) before this is called.
func UnmarshalTicket(bz []byte) (Ticket, error) {
	var wt wireTicket
	if err := gob.NewDecoder(bytes.NewReader(bz)).Decode(&wt); err != nil {
		return Ticket{}, err
	}
	return Ticket{ID: wt.ID, ChainID: wt.ChainID, Seq: wt.Seq, Item: wt.Item}, nil
}

type wireTicket struct {
	ID      uuid.UUID
	ChainID string
	Seq     uint64
	Item    Item
}
