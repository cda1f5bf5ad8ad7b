package models

import "time"

// OutboxMessage is the persistence representation of an outbox row.
type OutboxMessage struct {
	MessageID   string
	EventType   string
	Content     string
	OccurredAt  time.Time
	ProcessedAt *time.Time
	Attempts    int
	LastError   *string
}
