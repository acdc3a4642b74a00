package repositories

import (
	"context"
	"time"

	"saccohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SubscriptionRepository handles subscription data access
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create creates a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// ListByUser lists a user's subscriptions newest-first
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Sacco").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

// ListBySacco lists a SACCO's subscriptions with their users
func (r *SubscriptionRepository) ListBySacco(ctx context.Context, saccoID string) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("sacco_id = ?", saccoID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

// ExpireOverdue marks active subscriptions past their end date as expired
// and returns the number of rows affected.
func (r *SubscriptionRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", models.SubscriptionActive, now).
		Update("status", models.SubscriptionExpired)
	return res.RowsAffected, res.Error
}
