package ports

import (
	"context"

	"github.com/ecom/user-service/internal/core/domain"
)

// AuditRepository persists identity audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService processes a single audit event end-to-end.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts events for asynchronous recording. Implementations must
// never block the caller beyond a bounded buffer and must preserve ordering
// of events for the same user.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
