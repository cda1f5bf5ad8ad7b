package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction classifies what happened to an entity within a unit of work.
type AuditAction string

const (
	AuditCreated  AuditAction = "CREATED"
	AuditModified AuditAction = "MODIFIED"
	AuditDeleted  AuditAction = "DELETED"
)

// AuditLog is an immutable fact record of a single entity mutation. Rows are
// written by the unit of work in the same transaction as the mutation they
// describe and are never updated or deleted.
type AuditLog struct {
	AuditID    string      `json:"auditID"`
	UserID     string      `json:"userID"` // acting user, empty for anonymous
	Action     AuditAction `json:"action"`
	EntityName string      `json:"entityName"`
	EntityID   string      `json:"entityID"`
	Changes    string      `json:"changes"` // JSON snapshot of the entity after the change
	OccurredAt time.Time   `json:"occurredAt"`
}

// NewAuditLog builds an audit record for one changed entity.
func NewAuditLog(userID string, action AuditAction, entityName, entityID, changes string, now time.Time) AuditLog {
	return AuditLog{
		AuditID:    uuid.NewString(),
		UserID:     userID,
		Action:     action,
		EntityName: entityName,
		EntityID:   entityID,
		Changes:    changes,
		OccurredAt: now,
	}
}
