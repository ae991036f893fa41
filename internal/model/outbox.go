package model

import "time"

// Outbox event types.
const (
	EventAccountSnapshot     = "AccountSnapshot"
	EventTransactionRejected = "TransactionRejected"
)

type OutboxEvent struct {
	ID          uint64    `gorm:"primaryKey"`
	RunID       string    `gorm:"size:36;not null;index"`
	Aggregate   string    `gorm:"size:64;not null"`
	AggregateID uint64    `gorm:"not null"`
	EventType   string    `gorm:"size:64;not null"`
	Payload     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	Processed   bool      `gorm:"not null;default:false"`
	ProcessedAt *time.Time
}

func (OutboxEvent) TableName() string { return "event_outbox" }
