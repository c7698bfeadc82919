// Package memqueue is an in-memory persistence.Backend, used by tests and
// by single-process deployments that accept losing in-flight tickets on
// crash.
package memqueue

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ibc-relay/voyager/persistence"
	"github.com/ibc-relay/voyager/queue"
)

// Backend is a mutex-guarded map-backed persistence.Backend.
type Backend struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]queue.Ticket
}

// New builds an empty Backend.
func New() *Backend {
	return &Backend{tickets: make(map[uuid.UUID]queue.Ticket)}
}

var _ persistence.Backend = (*Backend)(nil)

func (b *Backend) Load(ctx context.Context) ([]queue.Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]queue.Ticket, 0, len(b.tickets))
	for _, t := range b.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChainID != out[j].ChainID {
			return out[i].ChainID < out[j].ChainID
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (b *Backend) Save(ctx context.Context, t queue.Ticket) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tickets[t.ID] = t
	return nil
}

func (b *Backend) Delete(ctx context.Context, id uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.tickets, id)
	return nil
}
