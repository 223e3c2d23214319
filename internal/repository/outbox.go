package repository

import (
	"context"

	"github.com/jmehdipour/customer-service/internal/model"
	"gorm.io/gorm"
)

// OutboxRepository defines persistence methods for the outbox table.
type OutboxRepository interface {
	// Insert writes a single outbox event. If tx is nil, it will open/commit
	// an internal transaction; otherwise it uses the given tx.
	Insert(ctx context.Context, tx *gorm.DB, aggregate, aggregateID, topic string, payload []byte) error
}

// OutboxRepositoryImpl is a gorm-backed implementation.
type OutboxRepositoryImpl struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepositoryImpl {
	return &OutboxRepositoryImpl{db: db}
}

var _ OutboxRepository = (*OutboxRepositoryImpl)(nil)

// withTx runs fn in the provided tx, or starts a new transaction when tx is nil.
func (r *OutboxRepositoryImpl) withTx(ctx context.Context, tx *gorm.DB, fn func(*gorm.DB) error) error {
	if tx != nil {
		return fn(tx.WithContext(ctx))
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

// Insert adds an event row to outbox. Debezium Outbox SMT picks it up and
// publishes to Kafka based on the `topic` column.
func (r *OutboxRepositoryImpl) Insert(ctx context.Context, tx *gorm.DB, aggregate, aggregateID, topic string, payload []byte) error {
	ev := &model.OutboxEvent{
		Aggregate:   aggregate,
		AggregateID: aggregateID,
		Topic:       topic,
		Payload:     string(payload),
	}
	return r.withTx(ctx, tx, func(tx *gorm.DB) error {
		return wrapError("insert outbox", tx.Create(ev).Error)
	})
}
