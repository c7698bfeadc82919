package rollup

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

type fakeChain struct {
	id        chain.ID
	height    chain.Height
	heightErr error
	proof     chain.StateProof
	proofErr  error
	queries   int
}

func (f *fakeChain) ChainID() chain.ID { return f.id }

func (f *fakeChain) LatestHeight(ctx context.Context) (chain.Height, error) {
	return f.height, f.heightErr
}

func (f *fakeChain) QueryState(ctx context.Context, path chain.StatePath, at chain.Height) (chain.StateProof, error) {
	f.queries++
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

func TestDoFetchCachesRepeatedQueries(t *testing.T) {
	c := &fakeChain{id: chainA, proof: chain.StateProof{Value: []byte("raw")}}
	r, err := New(c, chainB, 16)
	require.NoError(t, err)

	payload := event.FetchConnectionEnd{ConnectionID: "connection-0", At: h(5)}
	_, _, err = r.DoFetch(context.Background(), queue.Fetch{ChainID: chainA, Payload: payload})
	require.NoError(t, err)
	_, _, err = r.DoFetch(context.Background(), queue.Fetch{ChainID: chainA, Payload: payload})
	require.NoError(t, err)

	require.Equal(t, 1, c.queries)
}

func TestDoFetchQueryErrorIsTemporary(t *testing.T) {
	c := &fakeChain{id: chainA, proofErr: errSentinel("boom")}
	r, err := New(c, chainB, 16)
	require.NoError(t, err)

	_, _, err = r.DoFetch(context.Background(), queue.Fetch{
		ChainID: chainA,
		Payload: event.FetchConnectionEnd{ConnectionID: "connection-0", At: h(5)},
	})
	require.Error(t, err)
	require.True(t, queueerr.IsTemporary(err))
}

func TestDoFetchUnimplementedFetchLeavesAreFatal(t *testing.T) {
	c := &fakeChain{id: chainA}
	r, err := New(c, chainB, 16)
	require.NoError(t, err)

	for _, payload := range []any{FetchChannel{}, FetchConnection{}} {
		_, _, err := r.DoFetch(context.Background(), queue.Fetch{ChainID: chainA, Payload: payload})
		require.Error(t, err)
		require.True(t, queueerr.IsFatal(err))
	}
}

func TestDoWaitForBlockRetriesUntilCaughtUp(t *testing.T) {
	c := &fakeChain{id: chainA, height: h(1)}
	r, err := New(c, chainB, 16)
	require.NoError(t, err)

	item := queue.Wait{ChainID: chainA, Payload: event.WaitForBlock{Height: h(10)}}
	_, err = r.DoWait(context.Background(), item)
	require.Error(t, err)
	require.True(t, queueerr.IsTemporary(err))

	c.height = h(10)
	next, err := r.DoWait(context.Background(), item)
	require.NoError(t, err)
	require.True(t, queue.IsNoop(next))
}

func TestDoAggregateConnectionFetchFromChannelEndChainsAnotherFetch(t *testing.T) {
	r, err := New(&fakeChain{id: chainA}, chainB, 16)
	require.NoError(t, err)

	channelEnd := queue.NewChannelEndData(chainA, "transfer", "channel-0", "connection-0", lightclient.MerkleProof{}, h(5))
	next, err := r.DoAggregate(context.Background(), event.ConnectionFetchFromChannelEnd{At: h(5), EffectChainID: chainB}, []queue.Data{channelEnd})
	require.NoError(t, err)

	agg, ok := next.(queue.Aggregate)
	require.True(t, ok)
	fetch, ok := agg.Queue[0].(queue.Fetch)
	require.True(t, ok)
	require.Equal(t, chainA, fetch.ChainID)
	require.Equal(t, event.FetchConnectionEnd{ConnectionID: "connection-0", At: h(5)}, fetch.Payload)
	require.Equal(t, chainB, agg.Receiver.(event.ChannelHandshakeUpdateClient).EffectChainID)
}

func TestDoAggregatePacketUpdateClientPicksMessageByKind(t *testing.T) {
	r, err := New(&fakeChain{id: chainA}, chainB, 16)
	require.NoError(t, err)

	conn := queue.NewConnectionEndData(chainA, "connection-0", lightclient.MerkleProof{}, h(5))
	packet := lightclient.Packet{Sequence: 1}

	sendNext, err := r.DoAggregate(context.Background(),
		event.PacketUpdateClient{Kind: event.PacketSend, Packet: packet, EffectChainID: chainB}, []queue.Data{conn})
	require.NoError(t, err)
	sendEffect := sendNext.(queue.Effect)
	require.Equal(t, chainB, sendEffect.ChainID)
	_, ok := sendEffect.Payload.(MsgRecvPacket)
	require.True(t, ok)

	recvNext, err := r.DoAggregate(context.Background(),
		event.PacketUpdateClient{Kind: event.PacketRecv, Packet: packet, EffectChainID: chainB}, []queue.Data{conn})
	require.NoError(t, err)
	recvEffect := recvNext.(queue.Effect)
	require.Equal(t, chainB, recvEffect.ChainID)
	_, ok = recvEffect.Payload.(MsgAcknowledgePacket)
	require.True(t, ok)
}

func TestDoAggregateConnectionOpenTryEffectTargetsCounterparty(t *testing.T) {
	r, err := New(&fakeChain{id: chainA}, chainB, 16)
	require.NoError(t, err)

	state := queue.NewClientStateData(chainB, "07-tendermint-0", lightclient.ClientState{LatestHeight: h(9)})
	next, err := r.DoAggregate(context.Background(), event.ConnectionOpenTry{
		EventHeight:   h(9),
		Event:         lightclient.ConnectionOpenInit{ConnectionID: "connection-0", ClientID: "c-0", CounterpartyClientID: "c-1"},
		EffectChainID: chainB,
	}, []queue.Data{state})
	require.NoError(t, err)

	effect, ok := next.(queue.Effect)
	require.True(t, ok)
	require.Equal(t, chainB, effect.ChainID)
	_, ok = effect.Payload.(MsgConnectionOpenTry)
	require.True(t, ok)
}

type errSentinel string

func (e errSentinel) Error() string { return string(e) }
