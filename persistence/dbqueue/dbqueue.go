// Package dbqueue is a persistence.Backend backed by Postgres via gorm,
// for multi-instance deployments where several engine processes need to
// observe the same durable queue (e.g. for operator tooling to inspect
// in-flight tickets without going through the engine's own admin
// surface).
package dbqueue

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ibc-relay/voyager/persistence"
	"github.com/ibc-relay/voyager/queue"
)

// ticketRow is the gorm model backing the tickets table.
type ticketRow struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChainID string    `gorm:"index"`
	Seq     uint64
	Wire    []byte
}

func (ticketRow) TableName() string { return "tickets" }

// Backend wraps a *gorm.DB.
type Backend struct {
	db *gorm.DB
}

var _ persistence.Backend = (*Backend)(nil)

// Open connects to dsn and migrates the tickets table.
func Open(dsn string) (*Backend, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "dbqueue: connecting")
	}
	if err := db.AutoMigrate(&ticketRow{}); err != nil {
		return nil, errors.Wrap(err, "dbqueue: migrating")
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Load(ctx context.Context) ([]queue.Ticket, error) {
	var rows []ticketRow
	if err := b.db.WithContext(ctx).Order("seq asc").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "dbqueue: loading tickets")
	}

	out := make([]queue.Ticket, 0, len(rows))
	for _, row := range rows {
		t, err := queue.UnmarshalTicket(row.Wire)
		if err != nil {
			return nil, errors.Wrapf(err, "dbqueue: decoding ticket %s", row.ID)
		}
		out = append(out, t)
	}
	return out, nil
}

func (b *Backend) Save(ctx context.Context, t queue.Ticket) error {
	wire, err := queue.MarshalTicket(t)
	if err != nil {
		return errors.Wrap(err, "dbqueue: encoding ticket")
	}
	row := ticketRow{ID: t.ID, ChainID: t.ChainID, Seq: t.Seq, Wire: wire}
	return errors.Wrap(
		b.db.WithContext(ctx).Save(&row).Error,
		"dbqueue: writing ticket",
	)
}

func (b *Backend) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.Wrap(
		b.db.WithContext(ctx).Delete(&ticketRow{}, "id = ?", id).Error,
		"dbqueue: deleting ticket",
	)
}
