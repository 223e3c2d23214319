package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmehdipour/customer-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// CustomerEventsRepository stores and lists projected customer events in ClickHouse.
type CustomerEventsRepository interface {
	InsertBatch(ctx context.Context, events []model.CustomerEvent) error
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]model.CustomerEvent, error)
}

type chCustomerEventsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHCustomerEventsRepository(ch *sqlx.DB) CustomerEventsRepository {
	return &chCustomerEventsRepository{ch: ch}
}

type customerEventRow struct {
	EventID    string    `db:"event_id"`
	Type       string    `db:"type"`
	CustomerID int64     `db:"customer_id"`
	Payload    string    `db:"payload"`
	OccurredAt time.Time `db:"occurred_at"`
}

// InsertBatch writes events in one ClickHouse block. Rows are deduplicated by
// event_id (ReplacingMergeTree), so replaying a batch is harmless.
func (r *chCustomerEventsRepository) InsertBatch(ctx context.Context, events []model.CustomerEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.ch.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO customer_events (event_id, type, customer_id, payload, occurred_at)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		payload, err := json.Marshal(ev.Customer)
		if err != nil {
			return fmt.Errorf("marshal customer snapshot %s: %w", ev.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, ev.ID, ev.Type.String(), ev.CustomerID, string(payload), ev.OccurredAt); err != nil {
			return fmt.Errorf("append event %s: %w", ev.ID, err)
		}
	}

	return tx.Commit()
}

func (r *chCustomerEventsRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]model.CustomerEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const q = `
		SELECT event_id, type, customer_id, payload, occurred_at
		FROM customer_events FINAL
		WHERE customer_id = ?
		ORDER BY occurred_at DESC, event_id DESC
		LIMIT ? OFFSET ?
	`
	var rows []customerEventRow
	if err := r.ch.SelectContext(ctx, &rows, q, customerID, limit, offset); err != nil {
		return nil, err
	}

	out := make([]model.CustomerEvent, 0, len(rows))
	for _, row := range rows {
		ev := model.CustomerEvent{
			ID:         row.EventID,
			Type:       model.CustomerEventType(row.Type),
			CustomerID: row.CustomerID,
			OccurredAt: row.OccurredAt,
		}
		if err := json.Unmarshal([]byte(row.Payload), &ev.Customer); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", row.EventID, err)
		}
		out = append(out, ev)
	}
	return out, nil
}
