// Package persistence defines the durable queue contract the engine
// checkpoints tickets against (spec §6 "the queue must be durable across
// restarts"), and three implementations of it: an in-memory backend for
// tests, a single-node embedded-KV backend (go-datastore/go-ds-leveldb),
// and a Postgres-backed backend (gorm) for multi-instance deployments.
package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/ibc-relay/voyager/queue"
)

// Backend is the durable store the engine checkpoints tickets against.
// Save is called after every reduction step so a crash never loses more
// than the in-flight step; Load replays every non-terminal ticket at
// startup.
type Backend interface {
	// Load returns every ticket that has not yet resolved to Noop or been
	// dead-lettered, in submission order per chain.
	Load(ctx context.Context) ([]queue.Ticket, error)

	// Save upserts t, keyed by t.ID.
	Save(ctx context.Context, t queue.Ticket) error

	// Delete removes the ticket id permanently - called once a ticket
	// resolves to Noop or is dead-lettered.
	Delete(ctx context.Context, id uuid.UUID) error
}
