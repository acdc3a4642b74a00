package services

import (
	"context"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
)

// SubscriptionService handles plan entitlements
type SubscriptionService struct {
	subRepo *repositories.SubscriptionRepository
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subRepo *repositories.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo}
}

// ListByUser lists a user's subscriptions
func (s *SubscriptionService) ListByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	return s.subRepo.ListByUser(ctx, userID)
}

// ListBySacco lists a SACCO's subscriptions. SuperAdmin only.
func (s *SubscriptionService) ListBySacco(ctx context.Context, saccoID string, actor domain.Principal) ([]*models.Subscription, error) {
	if !domain.Authorize(actor, domain.ActionManageUsers, nil) {
		return nil, domain.ErrForbidden
	}
	return s.subRepo.ListBySacco(ctx, saccoID)
}

// ExpireOverdue sweeps active subscriptions past their end date.
// Called from the scheduler.
func (s *SubscriptionService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.subRepo.ExpireOverdue(ctx, time.Now())
}
