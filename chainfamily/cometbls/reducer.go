package cometbls

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/event"
	"github.com/ibc-relay/voyager/lightclient"
	"github.com/ibc-relay/voyager/queue"
	"github.com/ibc-relay/voyager/queueerr"
)

// Reducer implements queue.Reducer for Tendermint-family chains. Fetch
// rate is capped per chain with a token bucket (spec §5 "Fetch
// concurrency capped per chain"; here bounded as a request rate rather
// than an in-flight count), the same limiting primitive op-service uses
// to throttle outbound RPC calls (golang.org/x/time/rate).
type Reducer struct {
	Chain        chain.ChainRead
	Counterparty chain.ID
	limiter      *rate.Limiter
}

// New builds a Reducer over c, limiting fetches to maxFetchesPerSecond
// sustained, bursting up to the same figure. counterparty is the chain id
// this chain relays against (spec §4.5's Tr): handshake and packet
// continuations submit their Effect there, not back on c.
func New(c chain.ChainRead, counterparty chain.ID, maxFetchesPerSecond int) *Reducer {
	return &Reducer{
		Chain:        c,
		Counterparty: counterparty,
		limiter:      rate.NewLimiter(rate.Limit(maxFetchesPerSecond), maxFetchesPerSecond),
	}
}

func (r *Reducer) ChainFamily() string { return "cometbls" }

func (r *Reducer) withFetchSlot(ctx context.Context, fn func() (queue.Item, []queue.Data, error)) (queue.Item, []queue.Data, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return queue.NoopItem(), nil, queueerr.NewTemporaryError(err)
	}
	return fn()
}

func (r *Reducer) DoFetch(ctx context.Context, item queue.Fetch) (queue.Item, []queue.Data, error) {
	return r.withFetchSlot(ctx, func() (queue.Item, []queue.Data, error) {
		switch p := item.Payload.(type) {
		case event.FetchState:
			proof, err := r.Chain.QueryState(ctx, p.Path, p.At)
			if err != nil {
				return item, nil, queueerr.NewTemporaryError(errors.Wrap(err, "cometbls: query_state"))
			}
			return queue.NoopItem(), []queue.Data{queue.NewClientStateData(
				item.ChainID, p.Path.ClientID,
				lightclient.ClientState{ChainFamily: r.ChainFamily(), LatestHeight: p.At, Raw: proof.Value},
			)}, nil

		case event.FetchLatestClientState:
			height, err := r.Chain.LatestHeight(ctx)
			if err != nil {
				return item, nil, queueerr.NewTemporaryError(errors.Wrap(err, "cometbls: latest_height"))
			}
			proof, err := r.Chain.QueryState(ctx, chain.StatePath{Kind: chain.PathClientState, ClientID: p.ClientID}, height)
			if err != nil {
				return item, nil, queueerr.NewTemporaryError(errors.Wrap(err, "cometbls: query_state"))
			}
			return queue.NoopItem(), []queue.Data{queue.NewClientStateData(
				item.ChainID, p.ClientID,
				lightclient.ClientState{ChainFamily: r.ChainFamily(), LatestHeight: height, Raw: proof.Value},
			)}, nil

		case event.FetchConnectionEnd:
			proof, err := r.Chain.QueryState(ctx, chain.StatePath{Kind: chain.PathConnection, ConnectionID: p.ConnectionID}, p.At)
			if err != nil {
				return item, nil, queueerr.NewTemporaryError(errors.Wrap(err, "cometbls: query_state"))
			}
			return queue.NoopItem(), []queue.Data{queue.NewConnectionEndData(
				item.ChainID, p.ConnectionID, lightclient.MerkleProof{Raw: proof.Proof}, p.At,
			)}, nil

		case event.FetchChannelEnd:
			proof, err := r.Chain.QueryState(ctx, chain.StatePath{Kind: chain.PathChannelEnd, PortID: p.PortID, ChannelID: p.ChannelID}, p.At)
			if err != nil {
				return item, nil, queueerr.NewTemporaryError(errors.Wrap(err, "cometbls: query_state"))
			}
			return queue.NoopItem(), []queue.Data{queue.NewChannelEndData(
				item.ChainID, p.PortID, p.ChannelID, string(proof.Value), lightclient.MerkleProof{Raw: proof.Proof}, p.At,
			)}, nil

		default:
			return item, nil, queueerr.NewFatalError(fmt.Errorf("cometbls: unknown fetch payload %T", p))
		}
	})
}

func (r *Reducer) DoWait(ctx context.Context, item queue.Wait) (queue.Item, error) {
	switch p := item.Payload.(type) {
	case event.WaitForBlock:
		height, err := r.Chain.LatestHeight(ctx)
		if err != nil {
			return item, queueerr.NewTemporaryError(errors.Wrap(err, "cometbls: latest_height"))
		}
		if height.Less(p.Height) {
			return item, queueerr.NewTemporaryError(fmt.Errorf("cometbls: waiting for block %s, at %s", p.Height, height))
		}
		return queue.NoopItem(), nil

	case event.WaitForClientUpdate:
		proof, err := r.Chain.QueryState(ctx, chain.StatePath{Kind: chain.PathClientState, ClientID: p.ClientID}, chain.ZeroHeight)
		if err != nil {
			return item, queueerr.NewTemporaryError(errors.Wrap(err, "cometbls: query_state"))
		}
		if proof.ProofHeight.Less(p.EventHeight) {
			return item, queueerr.NewTemporaryError(fmt.Errorf(
				"cometbls: client %s not yet updated past %s", p.ClientID, p.EventHeight))
		}
		return queue.NoopItem(), nil

	default:
		return item, queueerr.NewFatalError(fmt.Errorf("cometbls: unknown wait payload %T", p))
	}
}

func (r *Reducer) DoEffect(ctx context.Context, item queue.Effect) (queue.Item, []queue.Data, error) {
	log.Info("cometbls: submitting effect", "chain", item.ChainID, "payload", fmt.Sprintf("%T", item.Payload))
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
			return queue.EffectItem(rec.EffectChainID, MsgRecvPacket{Packet: rec.Packet, ProvenAt: conn.ProofHeight}), nil
		}
		return queue.EffectItem(rec.EffectChainID, MsgAcknowledgePacket{Packet: rec.Packet, ProvenAt: conn.ProofHeight}), nil

	default:
		return nil, queueerr.NewFatalError(fmt.Errorf("cometbls: unknown aggregation receiver %T", rec))
	}
}

func (r *Reducer) LowerEvent(ctx context.Context, item queue.Event) (queue.Item, error) {
	ev, ok := item.Payload.(chain.Event)
	if !ok {
		return item, queueerr.NewFatalError(fmt.Errorf("cometbls: event payload is %T, not chain.Event", item.Payload))
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
