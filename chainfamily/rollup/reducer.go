package rollup

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/event"
	"github.com/ibc-relay/voyager/lightclient"
	"github.com/ibc-relay/voyager/queue"
	"github.com/ibc-relay/voyager/queueerr"
)

// Reducer implements queue.Reducer for the optimistic-rollup chain
// family, backed by a chain.ChainRead. It caches recent client/connection/
// channel reads with an LRU, the same pattern op-service/sources'
// L1Client wraps its RPC calls in (caching.LRUCache), generalized to a
// generic cache key here since the rollup family reads several distinct
// proof shapes.
type Reducer struct {
	Chain        chain.ChainRead
	Counterparty chain.ID
	cache        *lru.Cache[string, chain.StateProof]
}

// New builds a Reducer over c with a bounded read cache. counterparty is
// the chain id this chain relays against (spec §4.5's Tr): handshake and
// packet continuations submit their Effect there, not back on c.
func New(c chain.ChainRead, counterparty chain.ID, cacheSize int) (*Reducer, error) {
	cache, err := lru.New[string, chain.StateProof](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "rollup: building read cache")
	}
	return &Reducer{Chain: c, Counterparty: counterparty, cache: cache}, nil
}

func (r *Reducer) ChainFamily() string { return "rollup" }

func (r *Reducer) queryCached(ctx context.Context, path chain.StatePath, at chain.Height) (chain.StateProof, error) {
	key := fmt.Sprintf("%s|%s|%s", path.Kind, path.ClientID+path.ConnectionID+path.PortID+path.ChannelID, at)
	if v, ok := r.cache.Get(key); ok {
		return v, nil
	}
	proof, err := r.Chain.QueryState(ctx, path, at)
	if err != nil {
		return chain.StateProof{}, queueerr.NewTemporaryError(errors.Wrap(err, "rollup: query_state"))
	}
	r.cache.Add(key, proof)
	return proof, nil
}

func (r *Reducer) DoFetch(ctx context.Context, item queue.Fetch) (queue.Item, []queue.Data, error) {
	switch p := item.Payload.(type) {
	case event.FetchState:
		proof, err := r.queryCached(ctx, p.Path, p.At)
		if err != nil {
			return item, nil, err
		}
		return queue.NoopItem(), []queue.Data{queue.NewClientStateData(
			item.ChainID, p.Path.ClientID,
			lightclient.ClientState{ChainFamily: r.ChainFamily(), LatestHeight: p.At, Raw: proof.Value},
		)}, nil

	case event.FetchLatestClientState:
		height, err := r.Chain.LatestHeight(ctx)
		if err != nil {
			return item, nil, queueerr.NewTemporaryError(errors.Wrap(err, "rollup: latest_height"))
		}
		proof, err := r.queryCached(ctx, chain.StatePath{Kind: chain.PathClientState, ClientID: p.ClientID}, height)
		if err != nil {
			return item, nil, err
		}
		return queue.NoopItem(), []queue.Data{queue.NewClientStateData(
			item.ChainID, p.ClientID,
			lightclient.ClientState{ChainFamily: r.ChainFamily(), LatestHeight: height, Raw: proof.Value},
		)}, nil

	case event.FetchConnectionEnd:
		proof, err := r.queryCached(ctx, chain.StatePath{Kind: chain.PathConnection, ConnectionID: p.ConnectionID}, p.At)
		if err != nil {
			return item, nil, err
		}
		return queue.NoopItem(), []queue.Data{queue.NewConnectionEndData(
			item.ChainID, p.ConnectionID, lightclient.MerkleProof{Raw: proof.Proof}, p.At,
		)}, nil

	case event.FetchChannelEnd:
		proof, err := r.queryCached(ctx, chain.StatePath{Kind: chain.PathChannelEnd, PortID: p.PortID, ChannelID: p.ChannelID}, p.At)
		if err != nil {
			return item, nil, err
		}
		// QueryState's Value for PathChannelEnd is, by this module's
		// ChainRead contract (see chain.StatePath), the connection id the
		// channel is anchored to; full IBC channel-end protobuf decoding is
		// out of this module's scope (see chain/chainread.go).
		return queue.NoopItem(), []queue.Data{queue.NewChannelEndData(
			item.ChainID, p.PortID, p.ChannelID, string(proof.Value), lightclient.MerkleProof{Raw: proof.Proof}, p.At,
		)}, nil

	case FetchChannel, FetchConnection:
		// Recovered from scroll.rs's literal todo!() for these two fetch
		// leaves - spec §9's Open Question, left unimplemented rather than
		// guessed at.
		return item, nil, queueerr.NewFatalError(fmt.Errorf("rollup: %T fetch is not implemented upstream", p))

	default:
		return item, nil, queueerr.NewFatalError(fmt.Errorf("rollup: unknown fetch payload %T", p))
	}
}

func (r *Reducer) DoWait(ctx context.Context, item queue.Wait) (queue.Item, error) {
	switch p := item.Payload.(type) {
	case event.WaitForBlock:
		height, err := r.Chain.LatestHeight(ctx)
		if err != nil {
			return item, queueerr.NewTemporaryError(errors.Wrap(err, "rollup: latest_height"))
		}
		if height.Less(p.Height) {
			return item, queueerr.NewTemporaryError(fmt.Errorf("rollup: waiting for block %s, at %s", p.Height, height))
		}
		return queue.NoopItem(), nil

	case event.WaitForClientUpdate:
		// Read uncached: the client's tracked height is what is being
		// polled for, so a cached answer would never change.
		proof, err := r.Chain.QueryState(ctx, chain.StatePath{Kind: chain.PathClientState, ClientID: p.ClientID}, chain.ZeroHeight)
		if err != nil {
			return item, queueerr.NewTemporaryError(errors.Wrap(err, "rollup: query_state"))
		}
		tracked := lightclient.ClientState{Raw: proof.Value, LatestHeight: proof.ProofHeight}
		if tracked.LatestHeight.Less(p.EventHeight) {
			return item, queueerr.NewTemporaryError(fmt.Errorf(
				"rollup: client %s not yet updated past %s", p.ClientID, p.EventHeight))
		}
		return queue.NoopItem(), nil

	default:
		return item, queueerr.NewFatalError(fmt.Errorf("rollup: unknown wait payload %T", p))
	}
}

func (r *Reducer) DoEffect(ctx context.Context, item queue.Effect) (queue.Item, []queue.Data, error) {
	log.Info("rollup: submitting effect", "chain", item.ChainID, "payload", fmt.Sprintf("%T", item.Payload))
	// The actual transaction broadcast (signing, gas estimation, submission
	// and receipt polling) is out of this module's scope (spec §1 "this
	// module sequences messages, it does not sign or broadcast them" /
	// Non-goals); a real deployment plugs a chain-specific tx sender in
	// here. Submission-conflict detection (spec §7) happens at that layer
	// and is surfaced to Reduce via queueerr.SubmissionConflict.
	return queue.NoopItem(), nil, nil
}

func (r *Reducer) DoAggregate(ctx context.Context, receiver queue.Aggregation, matched []queue.Data) (queue.Item, error) {
	switch rec := receiver.(type) {
	case event.UpdateClientFromClientID:
		state := matched[0].(queue.ClientStateData)
		return queue.EffectItem(rec.EffectChainID, MsgUpdateClient{
			ClientID: rec.ClientID,
			Header:   lightclient.Header{ChainFamily: r.ChainFamily(), Height: state.State.LatestHeight, Raw: state.State.Raw},
		}), nil

	case event.ConnectionOpenTry:
		state := matched[0].(queue.ClientStateData)
		return queue.EffectItem(rec.EffectChainID, MsgConnectionOpenTry{
			CounterpartyConnectionID: rec.Event.ConnectionID,
			CounterpartyClientID:     rec.Event.CounterpartyClientID,
			ClientID:                 rec.Event.ClientID,
			ProvenAt:                 state.State.LatestHeight,
		}), nil

	case event.ConnectionOpenAck:
		state := matched[0].(queue.ClientStateData)
		return queue.EffectItem(rec.EffectChainID, MsgConnectionOpenAck{
			ConnectionID: rec.Event.ConnectionID,
			ProvenAt:     state.State.LatestHeight,
		}), nil

	case event.ConnectionOpenConfirm:
		state := matched[0].(queue.ClientStateData)
		return queue.EffectItem(rec.EffectChainID, MsgConnectionOpenConfirm{
			ConnectionID: rec.Event.ConnectionID,
			ProvenAt:     state.State.LatestHeight,
		}), nil

	case event.ConnectionFetchFromChannelEnd:
		channelEnd := matched[0].(queue.ChannelEndData)
		return queue.AggregateItem(
			[]queue.Item{queue.FetchItem(channelEnd.ChainID(), event.FetchConnectionEnd{
				ConnectionID: channelEnd.ConnectionID,
				At:           rec.At,
			})},
			nil,
			event.ChannelHandshakeUpdateClient{
				UpdateTo:      rec.At,
				EventHeight:   rec.At,
				PortID:        channelEnd.PortID,
				ChannelID:     channelEnd.ChannelID,
				EffectChainID: rec.EffectChainID,
			},
		), nil

	case event.ChannelHandshakeUpdateClient:
		conn := matched[0].(queue.ConnectionEndData)
		switch rec.Kind {
		case event.ChannelHandshakeInit:
			return queue.EffectItem(rec.EffectChainID, MsgChannelOpenTry{
				PortID: rec.PortID, ChannelID: rec.ChannelID, ConnectionID: conn.ConnectionID, ProvenAt: conn.ProofHeight,
			}), nil
		case event.ChannelHandshakeTry:
			return queue.EffectItem(rec.EffectChainID, MsgChannelOpenAck{
				PortID: rec.PortID, ChannelID: rec.ChannelID, ProvenAt: conn.ProofHeight,
			}), nil
		default:
			return queue.EffectItem(rec.EffectChainID, MsgChannelOpenConfirm{
				PortID: rec.PortID, ChannelID: rec.ChannelID, ProvenAt: conn.ProofHeight,
			}), nil
		}

	case event.PacketUpdateClient:
		conn := matched[0].(queue.ConnectionEndData)
		if rec.Kind == event.PacketSend {
			return queue.EffectItem(rec.EffectChainID, MsgRecvPacket{
				Packet: rec.Packet, ProvenAt: conn.ProofHeight,
			}), nil
		}
		return queue.EffectItem(rec.EffectChainID, MsgAcknowledgePacket{
			Packet: rec.Packet, ProvenAt: conn.ProofHeight,
		}), nil

	default:
		return nil, queueerr.NewFatalError(fmt.Errorf("rollup: unknown aggregation receiver %T", rec))
	}
}

func (r *Reducer) LowerEvent(ctx context.Context, item queue.Event) (queue.Item, error) {
	ev, ok := item.Payload.(chain.Event)
	if !ok {
		return item, queueerr.NewFatalError(fmt.Errorf("rollup: event payload is %T, not chain.Event", item.Payload))
	}
	next, err := event.LowerChainEvent(item.ChainID, r.Counterparty, ev.Height, [32]byte(ev.TxHash), ev.Data)
	if err != nil {
		return item, queueerr.NewFatalError(err)
	}
	return next, nil
}

func (r *Reducer) LowerCommand(ctx context.Context, item queue.Command) (queue.Item, error) {
	next, err := event.LowerCommand(item.ChainID, r.Counterparty, item.Payload)
	if err != nil {
		return item, queueerr.NewFatalError(err)
	}
	return next, nil
}
