package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/events"
)

// AuditService records committed mutations as audit log rows. It is
// wired to the event bus, so writes happen off the request path; a sink
// failure is logged and the entry is dropped.
type AuditService struct {
	auditRepo *repositories.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo *repositories.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// HandleEvent consumes a post-commit event. Registered on the bus.
func (s *AuditService) HandleEvent(e events.Event) {
	details := ""
	if e.Details != nil {
		if b, err := json.Marshal(e.Details); err == nil {
			details = string(b)
		}
	}

	entry := &models.AuditLog{
		UserID:     e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    details,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to write audit log entry (%s %s): %v", e.Action, e.EntityType, err)
	}
}

// GetLogs lists audit log entries. SuperAdmin only.
func (s *AuditService) GetLogs(ctx context.Context, filter *repositories.AuditFilter, actor domain.Principal) ([]*models.AuditLog, error) {
	if !domain.Authorize(actor, domain.ActionViewAuditLogs, nil) {
		return nil, domain.ErrForbidden
	}
	return s.auditRepo.List(ctx, filter)
}
