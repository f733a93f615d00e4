package domain

import "time"

// AuditAction identifies the kind of identity mutation being recorded.
type AuditAction string

const (
	AuditRegistered      AuditAction = "registered"
	AuditEmailChanged    AuditAction = "email_changed"
	AuditPasswordChanged AuditAction = "password_changed"
	AuditProfileUpdated  AuditAction = "profile_updated"
)

// AuditEvent is one entry in the identity audit trail. Events are recorded
// asynchronously and best-effort; they carry no credential material.
type AuditEvent struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Action    AuditAction `json:"action"`
	Timestamp time.Time   `json:"timestamp"`
}
