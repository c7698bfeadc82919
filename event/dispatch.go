package event

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/lightclient"
	"github.com/ibc-relay/voyager/queue"
)

// LowerChainEvent dispatches a chain-emitted event to the lowering
// function for its concrete type, mirroring event.rs's Event::handle
// match on IbcEvent. counterpartyChainID is the chain paired with chainID
// for this relay (spec §4.5's Tr), resolved by the caller from config.
// Events with no continuation (ConnectionOpenConfirm, ChannelOpenConfirm,
// AcknowledgePacket, TimeoutPacket, WriteAcknowledgement, CreateClient,
// UpdateClient) are logged and resolve to Noop, exactly as the original
// does.
func LowerChainEvent(chainID, counterpartyChainID chain.ID, height chain.Height, txHash [32]byte, payload any) (queue.Item, error) {
	switch e := payload.(type) {
	case lightclient.ConnectionOpenInit:
		return LowerConnectionOpenInit(chainID, counterpartyChainID, height, e), nil
	case lightclient.ConnectionOpenTry:
		return LowerConnectionOpenTry(chainID, counterpartyChainID, height, e), nil
	case lightclient.ConnectionOpenAck:
		return LowerConnectionOpenAck(chainID, counterpartyChainID, height, e), nil
	case lightclient.ConnectionOpenConfirm:
		log.Info("connection opened", "chain", chainID, "connection_id", e.ConnectionID)
		return queue.NoopItem(), nil

	case lightclient.ChannelOpenInit:
		return LowerChannelOpenInit(chainID, counterpartyChainID, height, e), nil
	case lightclient.ChannelOpenTry:
		return LowerChannelOpenTry(chainID, counterpartyChainID, height, e), nil
	case lightclient.ChannelOpenAck:
		return LowerChannelOpenAck(chainID, counterpartyChainID, height, e), nil
	case lightclient.ChannelOpenConfirm:
		log.Info("channel opened", "chain", chainID, "port_id", e.PortID, "channel_id", e.ChannelID)
		return queue.NoopItem(), nil

	case lightclient.SendPacket:
		return LowerSendPacket(chainID, counterpartyChainID, height, txHash, e.Packet), nil
	case lightclient.RecvPacket:
		return LowerRecvPacket(chainID, counterpartyChainID, height, txHash, e.Packet), nil
	case lightclient.AcknowledgePacket:
		log.Info("packet acknowledged", "chain", chainID, "sequence", e.Packet.Sequence)
		return queue.NoopItem(), nil
	case lightclient.TimeoutPacket:
		log.Error("packet timed out", "chain", chainID, "sequence", e.Packet.Sequence)
		return queue.NoopItem(), nil
	case lightclient.WriteAcknowledgement:
		log.Info("packet acknowledgement written", "chain", chainID, "sequence", e.Packet.Sequence)
		return queue.NoopItem(), nil

	case lightclient.CreateClient:
		log.Info("client created", "chain", chainID, "client_id", e.ClientID)
		return queue.NoopItem(), nil
	case lightclient.UpdateClient:
		log.Info("client updated", "chain", chainID, "client_id", e.ClientID, "consensus_heights", e.ConsensusHeights)
		return queue.NoopItem(), nil

	default:
		return nil, fmt.Errorf("event: unhandled chain event payload type %T", payload)
	}
}

// UpdateClientCommand is the operator-issued request to update a client,
// independent of any chain-emitted event - the one Command variant
// recovered from original_source (event.rs's Command::UpdateClient).
type UpdateClientCommand struct {
	ClientID             string
	CounterpartyClientID string
}

// LowerCommand dispatches an operator-issued command, mirroring event.rs's
// Event::Command arm.
func LowerCommand(chainID, counterpartyChainID chain.ID, payload any) (queue.Item, error) {
	switch c := payload.(type) {
	case UpdateClientCommand:
		return LowerCommandUpdateClient(chainID, counterpartyChainID, c.ClientID, c.CounterpartyClientID), nil
	default:
		return nil, fmt.Errorf("event: unhandled command payload type %T", payload)
	}
}
