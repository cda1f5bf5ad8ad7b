package domain

import "time"

// OutboxMessage is a durably recorded domain event awaiting delivery to the
// external publisher. It is inserted in the same database transaction as the
// business mutation that produced the event, and later drained by the outbox
// processor (at-least-once delivery; consumers must be idempotent).
type OutboxMessage struct {
	MessageID   string     `json:"messageID"`
	EventType   string     `json:"eventType"`
	Content     string     `json:"content"` // JSON-serialized event payload
	OccurredAt  time.Time  `json:"occurredAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	Attempts    int        `json:"attempts"`
	LastError   *string    `json:"lastError,omitempty"`
}
