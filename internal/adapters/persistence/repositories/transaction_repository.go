package repositories

import (
	"context"
	"time"

	"saccohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// TransactionFilter narrows transaction log queries. The date range is
// inclusive on both ends and applies to created_at.
type TransactionFilter struct {
	Type      string
	MemberID  string
	SaccoID   string
	StartDate *time.Time
	EndDate   *time.Time
}

// TransactionRepository provides the read-only query surface of the
// transaction log. Appends happen only inside the ledger service's
// atomic unit of work.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetByID gets a transaction by ID with member and SACCO
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Preload("Sacco").
		First(&tx, "id = ?", id).Error
	return &tx, err
}

// List lists transactions newest-first with optional filters
func (r *TransactionRepository) List(ctx context.Context, filter *TransactionFilter) ([]*models.Transaction, error) {
	var transactions []*models.Transaction

	q := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Preload("Sacco").
		Order("created_at DESC")

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.MemberID != "" {
		q = q.Where("member_id = ?", filter.MemberID)
	}
	if filter.SaccoID != "" {
		q = q.Where("sacco_id = ?", filter.SaccoID)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}

	err := q.Find(&transactions).Error
	return transactions, err
}

// CountByReference counts transactions referencing an originating record
func (r *TransactionRepository) CountByReference(ctx context.Context, referenceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("reference_id = ?", referenceID).Count(&count).Error
	return count, err
}
