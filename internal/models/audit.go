package models

import "time"

// AuditLog is the persistence representation of an audit trail row.
// Insert-only; never updated or deleted.
type AuditLog struct {
	AuditID    string
	UserID     string
	Action     string
	EntityName string
	EntityID   string
	Changes    string
	OccurredAt time.Time
}
