package cometbls

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/event"
	"github.com/ibc-relay/voyager/lightclient"
	"github.com/ibc-relay/voyager/queue"
	"github.com/ibc-relay/voyager/queueerr"
)

// fakeChain is a canned chain.ChainRead used to drive the Reducer without a
// live RPC endpoint.
type fakeChain struct {
	id        chain.ID
	height    chain.Height
	heightErr error
	proof     chain.StateProof
	proofErr  error
}

func (f *fakeChain) ChainID() chain.ID { return f.id }

func (f *fakeChain) LatestHeight(ctx context.Context) (chain.Height, error) {
	return f.height, f.heightErr
}

func (f *fakeChain) QueryState(ctx context.Context, path chain.StatePath, at chain.Height) (chain.StateProof, error) {
	return f.proof, f.proofErr
}

func (f *fakeChain) EventsInRange(ctx context.Context, from, to chain.Height) ([]chain.Event, error) {
	return nil, nil
}

func h(n uint64) chain.Height { return chain.Height{RevisionHeight: n} }

const (
	chainA chain.ID = "chain-a"
	chainB chain.ID = "chain-b"
)

func TestDoFetchLatestClientStateProducesClientStateData(t *testing.T) {
	c := &fakeChain{id: chainA, height: h(10), proof: chain.StateProof{Value: []byte("raw"), ProofHeight: h(10)}}
	r := New(c, chainB, 100)

	next, data, err := r.DoFetch(context.Background(), queue.Fetch{
		ChainID: chainA,
		Payload: event.FetchLatestClientState{ClientID: "07-tendermint-0"},
	})
	require.NoError(t, err)
	require.True(t, queue.IsNoop(next))
	require.Len(t, data, 1)

	cs := data[0].(queue.ClientStateData)
	require.Equal(t, "07-tendermint-0", cs.ClientID)
	require.Equal(t, h(10), cs.State.LatestHeight)
	require.Equal(t, []byte("raw"), cs.State.Raw)
}

func TestDoFetchPropagatesQueryErrorAsTemporary(t *testing.T) {
	c := &fakeChain{id: chainA, height: h(10), proofErr: errSentinel("boom")}
	r := New(c, chainB, 100)

	_, _, err := r.DoFetch(context.Background(), queue.Fetch{
		ChainID: chainA,
		Payload: event.FetchLatestClientState{ClientID: "07-tendermint-0"},
	})
	require.Error(t, err)
	require.True(t, queueerr.IsTemporary(err))
}

func TestDoFetchUnknownPayloadIsFatal(t *testing.T) {
	c := &fakeChain{id: chainA}
	r := New(c, chainB, 100)

	_, _, err := r.DoFetch(context.Background(), queue.Fetch{ChainID: chainA, Payload: "nonsense"})
	require.Error(t, err)
	require.True(t, queueerr.IsFatal(err))
}

func TestDoWaitForBlockBlocksUntilHeightReached(t *testing.T) {
	c := &fakeChain{id: chainA, height: h(5)}
	r := New(c, chainB, 100)

	item := queue.Wait{ChainID: chainA, Payload: event.WaitForBlock{Height: h(10)}}
	next, err := r.DoWait(context.Background(), item)
	require.Error(t, err)
	require.True(t, queueerr.IsTemporary(err))
	require.Equal(t, item, next)

	c.height = h(10)
	next, err = r.DoWait(context.Background(), item)
	require.NoError(t, err)
	require.True(t, queue.IsNoop(next))
}

func TestDoWaitForClientUpdateChecksProofHeight(t *testing.T) {
	c := &fakeChain{id: chainA, proof: chain.StateProof{ProofHeight: h(3)}}
	r := New(c, chainB, 100)

	item := queue.Wait{ChainID: chainA, Payload: event.WaitForClientUpdate{
		ClientID: "07-tendermint-0", EventHeight: h(10),
	}}
	_, err := r.DoWait(context.Background(), item)
	require.Error(t, err)
	require.True(t, queueerr.IsTemporary(err))

	c.proof.ProofHeight = h(10)
	next, err := r.DoWait(context.Background(), item)
	require.NoError(t, err)
	require.True(t, queue.IsNoop(next))
}

func TestDoAggregateUpdateClientFromClientIDBuildsEffectOnEffectChainID(t *testing.T) {
	r := New(&fakeChain{id: chainA}, chainB, 100)

	state := queue.NewClientStateData(chainB, "07-tendermint-0", lightclient.ClientState{
		ChainFamily: "cometbls", LatestHeight: h(7), Raw: []byte("raw"),
	})
	next, err := r.DoAggregate(context.Background(),
		event.UpdateClientFromClientID{ClientID: "07-tendermint-0", CounterpartyClientID: "07-tendermint-1", EffectChainID: chainA},
		[]queue.Data{state},
	)
	require.NoError(t, err)
	eff, ok := next.(queue.Effect)
	require.True(t, ok)
	require.Equal(t, chainA, eff.ChainID)
	msg, ok := eff.Payload.(MsgUpdateClient)
	require.True(t, ok)
	require.Equal(t, "07-tendermint-0", msg.ClientID)
	require.Equal(t, h(7), msg.Header.Height)
}

func TestDoAggregateConnectionOpenAckEffectTargetsCounterparty(t *testing.T) {
	r := New(&fakeChain{id: chainA}, chainB, 100)

	state := queue.NewClientStateData(chainB, "07-tendermint-0", lightclient.ClientState{LatestHeight: h(12)})
	next, err := r.DoAggregate(context.Background(), event.ConnectionOpenAck{
		EventHeight:   h(12),
		Event:         lightclient.ConnectionOpenTry{ConnectionID: "connection-0"},
		EffectChainID: chainB,
	}, []queue.Data{state})
	require.NoError(t, err)

	eff, ok := next.(queue.Effect)
	require.True(t, ok)
	require.Equal(t, chainB, eff.ChainID)
	_, ok = eff.Payload.(MsgConnectionOpenAck)
	require.True(t, ok)
}

func TestDoAggregateUnknownReceiverIsFatal(t *testing.T) {
	r := New(&fakeChain{id: chainA}, chainB, 100)
	_, err := r.DoAggregate(context.Background(), fakeUnknownReceiver{}, nil)
	require.Error(t, err)
	require.True(t, queueerr.IsFatal(err))
}

type fakeUnknownReceiver struct{}

func (fakeUnknownReceiver) Expected() []queue.DataKind { return nil }

func (fakeUnknownReceiver) DispatchChainID() chain.ID { return chainA }

type errSentinel string

func (e errSentinel) Error() string { return string(e) }
