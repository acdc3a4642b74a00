package repositories

import (
	"context"

	"saccohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SaccoRepository handles SACCO data access
type SaccoRepository struct {
	db *gorm.DB
}

// NewSaccoRepository creates a new SACCO repository
func NewSaccoRepository(db *gorm.DB) *SaccoRepository {
	return &SaccoRepository{db: db}
}

// Create creates a new SACCO
func (r *SaccoRepository) Create(ctx context.Context, sacco *models.Sacco) error {
	return r.db.WithContext(ctx).Create(sacco).Error
}

// GetByID gets a SACCO by ID with chairperson and members
func (r *SaccoRepository) GetByID(ctx context.Context, id string) (*models.Sacco, error) {
	var sacco models.Sacco
	err := r.db.WithContext(ctx).
		Preload("Chairperson").
		Preload("Members").
		Preload("Members.User").
		First(&sacco, "id = ?", id).Error
	return &sacco, err
}

// GetByRegistrationNumber gets a SACCO by registration number
func (r *SaccoRepository) GetByRegistrationNumber(ctx context.Context, regNo string) (*models.Sacco, error) {
	var sacco models.Sacco
	err := r.db.WithContext(ctx).First(&sacco, "registration_number = ?", regNo).Error
	return &sacco, err
}

// ExistsByRegistrationNumber checks if a registration number is taken
func (r *SaccoRepository) ExistsByRegistrationNumber(ctx context.Context, regNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Sacco{}).
		Where("registration_number = ?", regNo).Count(&count).Error
	return count > 0, err
}

// List lists all SACCOs newest-first
func (r *SaccoRepository) List(ctx context.Context) ([]*models.Sacco, error) {
	var saccos []*models.Sacco
	err := r.db.WithContext(ctx).
		Preload("Chairperson").
		Order("created_at DESC").
		Find(&saccos).Error
	return saccos, err
}

// Update updates a SACCO
func (r *SaccoRepository) Update(ctx context.Context, sacco *models.Sacco) error {
	return r.db.WithContext(ctx).Save(sacco).Error
}

// UpdateStatus sets the SACCO status unconditionally
func (r *SaccoRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&models.Sacco{}).
		Where("id = ?", id).Update("status", status).Error
}

// Delete permanently removes a SACCO
func (r *SaccoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Sacco{}, "id = ?", id).Error
}

// CountMembers counts members of a SACCO
func (r *SaccoRepository) CountMembers(ctx context.Context, saccoID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("sacco_id = ?", saccoID).Count(&count).Error
	return count, err
}
