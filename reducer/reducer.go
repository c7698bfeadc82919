// Package reducer holds the per-chain-id lookup of queue.Reducer
// implementations. Concrete reducers live under chainfamily/rollup and
// chainfamily/cometbls; package engine consults a Registry built from
// config (spec §6) at startup to pick the right one for each chain.
package reducer

import (
	"github.com/ibc-relay/voyager/chain"
	"github.com/ibc-relay/voyager/queue"
)

// Registry looks up the queue.Reducer responsible for a chain-id.
type Registry struct {
	byChain map[chain.ID]queue.Reducer
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byChain: make(map[chain.ID]queue.Reducer)}
}

// Register associates id with red. Registering the same id twice replaces
// the previous association.
func (r *Registry) Register(id chain.ID, red queue.Reducer) {
	r.byChain[id] = red
}

// Lookup returns the queue.Reducer registered for id, or false if none is.
func (r *Registry) Lookup(id chain.ID) (queue.Reducer, bool) {
	red, ok := r.byChain[id]
	return red, ok
}
