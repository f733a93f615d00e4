package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ecom/user-service/internal/core/domain"
	"github.com/ecom/user-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists identity events to
// the audit trail.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event. Events carry no credential
// material, so a failure here is reported but is never propagated back to
// the request that produced the event.
func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if event.UserID == "" || event.Action == "" {
		return fmt.Errorf("audit: incomplete event for %q", event.Email)
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}

	s.log.Debug().
		Str("user_id", event.UserID).
		Str("action", string(event.Action)).
		Msg("audit event recorded")

	return nil
}
