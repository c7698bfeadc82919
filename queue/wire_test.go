package queue

import (
	"encoding/gob"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ibc-relay/voyager/chain"
)

// wireTestReceiver is a minimal Aggregation registered just for this test
// file, standing in for the concrete receivers chainfamily/rollup and
// chainfamily/cometbls register from their own init().
type wireTestReceiver struct {
	Expects []DataKind
}

func (r wireTestReceiver) Expected() []DataKind { return r.Expects }

func (r wireTestReceiver) DispatchChainID() chain.ID { return testChain }

func init() {
	gob.Register(wireTestReceiver{})
}

func TestMarshalUnmarshalTicketRoundTrip(t *testing.T) {
	want := Ticket{
		ID:      uuid.New(),
		ChainID: "chain-a",
		Seq:     7,
		Item:    EventItem(testChain, "payload"),
	}

	bz, err := MarshalTicket(want)
	require.NoError(t, err)

	got, err := UnmarshalTicket(bz)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMarshalUnmarshalTicketNestedStructural(t *testing.T) {
	want := Ticket{
		ID:      uuid.New(),
		ChainID: "chain-a",
		Seq:     1,
		Item: SeqItem(
			ConcItem(
				EventItem(testChain, "a"),
				EventItem(testChain, "b"),
			),
			TimeoutItem(
				time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
				WaitItem(testChain, "pending"),
			),
			RepeatItem(CommandItem(testChain, "tick")),
		),
	}

	bz, err := MarshalTicket(want)
	require.NoError(t, err)

	got, err := UnmarshalTicket(bz)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMarshalUnmarshalTicketAggregateWithData(t *testing.T) {
	want := Ticket{
		ID:      uuid.New(),
		ChainID: "chain-b",
		Seq:     42,
		Item: AggregateItem(
			[]Item{FetchItem(testChain, "x")},
			[]Data{NewClientStateData(testChain, "07-tendermint-0", nil)},
			wireTestReceiver{Expects: []DataKind{KindClientState}},
		),
	}

	bz, err := MarshalTicket(want)
	require.NoError(t, err)

	got, err := UnmarshalTicket(bz)
	require.NoError(t, err)
	require.Equal(t, want, got)

	agg, ok := got.Item.(Aggregate)
	require.True(t, ok)
	require.Equal(t, wireTestReceiver{Expects: []DataKind{KindClientState}}, agg.Receiver)
}

func TestUnmarshalTicketRejectsGarbage(t *testing.T) {
	_, err := UnmarshalTicket([]byte("not a gob stream"))
	require.Error(t, err)
}
