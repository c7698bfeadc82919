// Package event converts chain-emitted IBC events and operator commands
// into their one-shot replacement queue terms (spec §4.5), and holds the
// Fetch-payload and Aggregation-receiver types that are the same across
// chain families - only the leaves (DoFetch/DoEffect/DoAggregate's final
// message construction) differ per family, which is why those live under
// chainfamily/rollup and chainfamily/cometbls instead.
//
// Grounded on original_source/lib/relay-message/src/event.rs's
// Event::handle, which builds exactly these Seq/Aggregate nestings.
package event

import "github.com/ibc-relay/voyager/chain"

// FetchState requests a proven value at a path and height - the payload
// for most Fetch items the lowering functions in this package build.
type FetchState struct {
	Path chain.StatePath
	At   chain.Height
}

// FetchLatestClientState requests the latest known client state for
// clientID tracked on the chain the Fetch is issued against.
type FetchLatestClientState struct {
	ClientID string
}

// FetchConnectionEnd requests a connection end at a height, issued once
// its id is known (e.g. having been read out of a channel end).
type FetchConnectionEnd struct {
	ConnectionID string
	At           chain.Height
}

// FetchChannelEnd requests a channel end at a height.
type FetchChannelEnd struct {
	PortID    string
	ChannelID string
	At        chain.Height
}
