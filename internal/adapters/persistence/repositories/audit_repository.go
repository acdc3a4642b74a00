package repositories

import (
	"context"
	"time"

	"saccohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// AuditFilter narrows audit log queries
type AuditFilter struct {
	UserID     string
	EntityType string
	Action     string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
}

// AuditRepository handles audit log data access
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an audit log row
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List lists audit logs newest-first with optional filters
func (r *AuditRepository) List(ctx context.Context, filter *AuditFilter) ([]*models.AuditLog, error) {
	var logs []*models.AuditLog

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	q := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit)

	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}

	err := q.Find(&logs).Error
	return logs, err
}
