// Package leveldbqueue is a persistence.Backend backed by an embedded
// LevelDB instance via go-datastore/go-ds-leveldb, for single-node
// deployments that want crash durability without running a separate
// database process.
package leveldbqueue

import (
	"context"
	"sort"

	"github.com/google/uuid"
	ds "github.com/ipfs/go-datastore"
	dsq "github.com/ipfs/go-datastore/query"
	leveldb "github.com/ipfs/go-ds-leveldb"
	"github.com/pkg/errors"

	"github.com/ibc-relay/voyager/persistence"
	"github.com/ibc-relay/voyager/queue"
)

// Backend wraps a go-datastore Datastore, keying every ticket by
// /tickets/<uuid>.
type Backend struct {
	store ds.Datastore
}

var _ persistence.Backend = (*Backend)(nil)

// Open opens (creating if absent) a LevelDB datastore rooted at path.
func Open(path string) (*Backend, error) {
	store, err := leveldb.NewDatastore(path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "leveldbqueue: opening datastore")
	}
	return &Backend{store: store}, nil
}

func keyFor(id uuid.UUID) ds.Key {
	return ds.NewKey("/tickets/" + id.String())
}

func (b *Backend) Load(ctx context.Context) ([]queue.Ticket, error) {
	results, err := b.store.Query(ctx, dsq.Query{Prefix: "/tickets"})
	if err != nil {
		return nil, errors.Wrap(err, "leveldbqueue: querying tickets")
	}
	defer results.Close()

	var out []queue.Ticket
	for entry := range results.Next() {
		if entry.Error != nil {
			return nil, errors.Wrap(entry.Error, "leveldbqueue: reading ticket")
		}
		t, err := queue.UnmarshalTicket(entry.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "leveldbqueue: decoding ticket %s", entry.Key)
		}
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
	bz, err := queue.MarshalTicket(t)
	if err != nil {
		return errors.Wrap(err, "leveldbqueue: encoding ticket")
	}
	return errors.Wrap(b.store.Put(ctx, keyFor(t.ID), bz), "leveldbqueue: writing ticket")
}

func (b *Backend) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.Wrap(b.store.Delete(ctx, keyFor(id)), "leveldbqueue: deleting ticket")
}

// Close releases the underlying LevelDB handle.
func (b *Backend) Close() error {
	return b.store.(interface{ Close() error }).Close()
}
