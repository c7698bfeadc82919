package event

import (
	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/lightclient"
	"github.com/ibc-relay/voyager/queue"
)

// WaitForClientUpdate is the Wait payload a chain family's DoWait polls
// on: it blocks (returning a Temporary error to be retried with backoff)
// until ClientID's tracked height on ChainID reaches EventHeight.
type WaitForClientUpdate struct {
	ChainID              chain.ID
	ClientID             string
	CounterpartyClientID string
	EventHeight          chain.Height
}

// waitForUpdate builds the aggregate every handshake-continuation case
// waits on before it can act on the counterparty client at height: block
// until the client tracking the emitting chain - which lives on the
// counterparty, counterpartyChainID - is updated past height, then fetch
// its resulting state as the Data the aggregate's receiver consumes. Per
// spec §4.5's wait_for_trusted_update(Hc, client, cp_client, h), both the
// Wait and the Fetch run on Tr (counterpartyChainID), not Hc.
func waitForUpdate(counterpartyChainID chain.ID, trackingClientID, trackedClientID string, height chain.Height, receiver queue.Aggregation) queue.Item {
	return queue.AggregateItem(
		[]queue.Item{queue.SeqItem(
			queue.WaitItem(counterpartyChainID, WaitForClientUpdate{
				ChainID:              counterpartyChainID,
				ClientID:             trackingClientID,
				CounterpartyClientID: trackedClientID,
				EventHeight:          height,
			}),
			queue.FetchItem(counterpartyChainID, FetchLatestClientState{ClientID: trackingClientID}),
		)},
		nil,
		receiver,
	)
}

// LowerConnectionOpenInit implements event.rs's ConnectionOpenInit arm:
// wait for the emitting chain to produce the event's block, then wait for
// the counterparty client to be updated past it, then submit
// ConnectionOpenTry on the counterparty.
func LowerConnectionOpenInit(chainID, counterpartyChainID chain.ID, height chain.Height, init lightclient.ConnectionOpenInit) queue.Item {
	return queue.SeqItem(
		queue.WaitItem(chainID, WaitForBlock{Height: height}),
		waitForUpdate(counterpartyChainID, init.CounterpartyClientID, init.ClientID, height,
			ConnectionOpenTry{EventHeight: height, Event: init, EffectChainID: counterpartyChainID}),
	)
}

// LowerConnectionOpenTry implements the ConnectionOpenTry arm: wait for
// the counterparty client update, then submit ConnectionOpenAck on the
// counterparty.
func LowerConnectionOpenTry(chainID, counterpartyChainID chain.ID, height chain.Height, try lightclient.ConnectionOpenTry) queue.Item {
	return queue.SeqItem(
		waitForUpdate(counterpartyChainID, try.CounterpartyClientID, try.ClientID, height,
			ConnectionOpenAck{EventHeight: height, Event: try, EffectChainID: counterpartyChainID}),
	)
}

// LowerConnectionOpenAck implements the ConnectionOpenAck arm: wait for
// the counterparty client update, then submit ConnectionOpenConfirm on the
// counterparty.
func LowerConnectionOpenAck(chainID, counterpartyChainID chain.ID, height chain.Height, ack lightclient.ConnectionOpenAck) queue.Item {
	return waitForUpdate(counterpartyChainID, ack.CounterpartyClientID, ack.ClientID, height,
		ConnectionOpenConfirm{EventHeight: height, Event: ack, EffectChainID: counterpartyChainID})
}

// channelHandshake builds the shared two-level aggregate every channel
// handshake continuation case uses: fetch the channel end, use it to fetch
// the connection end - both read on the event-emitting chain, where the
// channel/connection actually live - then submit the next handshake
// message on counterpartyChainID.
func channelHandshake(chainID, counterpartyChainID chain.ID, height chain.Height, portID, channelID string, kind ChannelHandshakeEventKind) queue.Item {
	return queue.AggregateItem(
		[]queue.Item{queue.AggregateItem(
			[]queue.Item{queue.FetchItem(chainID, FetchChannelEnd{
				PortID:    portID,
				ChannelID: channelID,
				At:        height,
			})},
			nil,
			ConnectionFetchFromChannelEnd{At: height, EffectChainID: counterpartyChainID},
		)},
		nil,
		ChannelHandshakeUpdateClient{
			UpdateTo:      height,
			EventHeight:   height,
			Kind:          kind,
			PortID:        portID,
			ChannelID:     channelID,
			EffectChainID: counterpartyChainID,
		},
	)
}

// LowerChannelOpenInit implements the ChannelOpenInit arm.
func LowerChannelOpenInit(chainID, counterpartyChainID chain.ID, height chain.Height, init lightclient.ChannelOpenInit) queue.Item {
	return channelHandshake(chainID, counterpartyChainID, height, init.PortID, init.ChannelID, ChannelHandshakeInit)
}

// LowerChannelOpenTry implements the ChannelOpenTry arm.
func LowerChannelOpenTry(chainID, counterpartyChainID chain.ID, height chain.Height, try lightclient.ChannelOpenTry) queue.Item {
	return channelHandshake(chainID, counterpartyChainID, height, try.PortID, try.ChannelID, ChannelHandshakeTry)
}

// LowerChannelOpenAck implements the ChannelOpenAck arm.
func LowerChannelOpenAck(chainID, counterpartyChainID chain.ID, height chain.Height, ack lightclient.ChannelOpenAck) queue.Item {
	return channelHandshake(chainID, counterpartyChainID, height, ack.PortID, ack.ChannelID, ChannelHandshakeAck)
}

// LowerRecvPacket implements the RecvPacket arm: fetch the source
// connection end, then submit AcknowledgePacket on the counterparty (the
// event named RecvPacket in event.rs is the counterparty's observation of
// a delivered packet, continued by submitting the acknowledgement on the
// sending chain).
func LowerRecvPacket(chainID, counterpartyChainID chain.ID, height chain.Height, txHash [32]byte, packet lightclient.Packet) queue.Item {
	return queue.AggregateItem(
		[]queue.Item{queue.FetchItem(chainID, FetchConnectionEnd{
			ConnectionID: packet.ConnectionID,
			At:           height,
		})},
		nil,
		PacketUpdateClient{
			UpdateTo:      height,
			EventHeight:   height,
			TxHash:        txHash,
			Kind:          PacketRecv,
			Packet:        packet,
			EffectChainID: counterpartyChainID,
		},
	)
}

// LowerSendPacket implements the SendPacket arm: fetch the source
// connection end, then submit RecvPacket on the destination (counterparty)
// chain.
func LowerSendPacket(chainID, counterpartyChainID chain.ID, height chain.Height, txHash [32]byte, packet lightclient.Packet) queue.Item {
	return queue.AggregateItem(
		[]queue.Item{queue.FetchItem(chainID, FetchConnectionEnd{
			ConnectionID: packet.ConnectionID,
			At:           height,
		})},
		nil,
		PacketUpdateClient{
			UpdateTo:      height,
			EventHeight:   height,
			TxHash:        txHash,
			Kind:          PacketSend,
			Packet:        packet,
			EffectChainID: counterpartyChainID,
		},
	)
}

// LowerCommandUpdateClient implements Command::UpdateClient: fetch the
// counterparty's latest client state, then submit the update-client effect
// back on chainID, the chain clientID actually lives on. Grounded on
// event.rs's Command::UpdateClient arm - the one recovered feature
// SPEC_FULL.md §6 adds back into the queue algebra.
func LowerCommandUpdateClient(chainID, counterpartyChainID chain.ID, clientID, counterpartyClientID string) queue.Item {
	return queue.AggregateItem(
		[]queue.Item{queue.FetchItem(counterpartyChainID, FetchLatestClientState{ClientID: counterpartyClientID})},
		nil,
		UpdateClientFromClientID{ClientID: clientID, CounterpartyClientID: counterpartyClientID, EffectChainID: chainID},
	)
}
