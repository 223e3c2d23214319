package model

import "time"

type CustomerEventType string

const (
	CustomerCreated CustomerEventType = "customer.created"
	CustomerUpdated CustomerEventType = "customer.updated"
)

func (t CustomerEventType) String() string { return string(t) }

func (t CustomerEventType) Valid() bool {
	return t == CustomerCreated || t == CustomerUpdated
}

// CustomerEvent is the payload written to the outbox and published to Kafka
// (via Debezium outbox SMT). It carries a full snapshot of the record.
type CustomerEvent struct {
	ID         string            `json:"id"` // ULID
	Type       CustomerEventType `json:"type"`
	CustomerID int64             `json:"customer_id"`
	Customer   Customer          `json:"customer"`
	OccurredAt time.Time         `json:"occurred_at"`
}
