package model

import "time"

type OutboxEvent struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Aggregate   string    `gorm:"column:aggregate;size:64;not null"` // e.g. "customer"
	AggregateID string    `gorm:"column:aggregate_id;size:64;not null"`
	Topic       string    `gorm:"column:topic;size:128;not null"`
	Payload     string    `gorm:"column:payload;type:json;not null"` // sent as text: MySQL rejects binary JSON
	Attempts    int       `gorm:"column:attempts;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OutboxEvent) TableName() string { return "outbox" }
