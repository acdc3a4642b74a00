package repositories

import (
	"context"

	"saccohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// MemberRepository handles member data access
type MemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create creates a new member
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member by ID with user and SACCO
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Sacco").
		First(&member, "id = ?", id).Error
	return &member, err
}

// GetByUserAndSacco gets a member by its unique (userId, saccoId) pair
func (r *MemberRepository) GetByUserAndSacco(ctx context.Context, userID, saccoID string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		First(&member, "user_id = ? AND sacco_id = ?", userID, saccoID).Error
	return &member, err
}

// ExistsByUserAndSacco checks for an existing (userId, saccoId) pair
func (r *MemberRepository) ExistsByUserAndSacco(ctx context.Context, userID, saccoID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("user_id = ? AND sacco_id = ?", userID, saccoID).Count(&count).Error
	return count > 0, err
}

// List lists members newest-first, optionally filtered by SACCO
func (r *MemberRepository) List(ctx context.Context, saccoID string) ([]*models.Member, error) {
	var members []*models.Member
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Sacco").
		Order("created_at DESC")
	if saccoID != "" {
		q = q.Where("sacco_id = ?", saccoID)
	}
	err := q.Find(&members).Error
	return members, err
}

// Update updates a member
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}
