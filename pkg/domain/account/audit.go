package account

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction is a session event kind, independent of money movement.
type AuditAction string

const (
	ActionLogin  AuditAction = "login"
	ActionLogout AuditAction = "logout"
)

// AuditEvent records a login or logout. Append-only.
type AuditEvent struct {
	ID        int64 // assigned by the store on append
	AccountID uuid.UUID
	Action    AuditAction
	CreatedAt time.Time
}

// NewAuditEvent creates an unpersisted audit event.
func NewAuditEvent(accountID uuid.UUID, action AuditAction) *AuditEvent {
	return &AuditEvent{
		AccountID: accountID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
}
