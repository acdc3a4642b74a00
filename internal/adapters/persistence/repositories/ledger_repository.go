package repositories

import (
	"context"
	"time"

	"saccohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// LedgerFilter narrows deposit/withdrawal queries. Zero values mean
// "no filter"; the date range is inclusive on both ends.
type LedgerFilter struct {
	MemberID  string
	SaccoID   string
	StartDate *time.Time
	EndDate   *time.Time
}

// DepositRepository handles deposit data access
type DepositRepository struct {
	db *gorm.DB
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

// GetByID gets a deposit by ID with member and user
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Preload("Member.Sacco").
		First(&deposit, "id = ?", id).Error
	return &deposit, err
}

// List lists deposits newest-first with optional filters
func (r *DepositRepository) List(ctx context.Context, filter *LedgerFilter) ([]*models.Deposit, error) {
	var deposits []*models.Deposit

	q := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Order("deposits.date DESC")

	if filter.MemberID != "" {
		q = q.Where("deposits.member_id = ?", filter.MemberID)
	}
	if filter.SaccoID != "" {
		q = q.Joins("JOIN members ON members.id = deposits.member_id").
			Where("members.sacco_id = ?", filter.SaccoID)
	}
	if filter.StartDate != nil {
		q = q.Where("deposits.date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("deposits.date <= ?", *filter.EndDate)
	}

	err := q.Find(&deposits).Error
	return deposits, err
}

// WithdrawalRepository handles withdrawal data access
type WithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// GetByID gets a withdrawal by ID with member and user
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Preload("Member.Sacco").
		First(&withdrawal, "id = ?", id).Error
	return &withdrawal, err
}

// List lists withdrawals newest-first with optional filters
func (r *WithdrawalRepository) List(ctx context.Context, filter *LedgerFilter) ([]*models.Withdrawal, error) {
	var withdrawals []*models.Withdrawal

	q := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Order("withdrawals.date DESC")

	if filter.MemberID != "" {
		q = q.Where("withdrawals.member_id = ?", filter.MemberID)
	}
	if filter.SaccoID != "" {
		q = q.Joins("JOIN members ON members.id = withdrawals.member_id").
			Where("members.sacco_id = ?", filter.SaccoID)
	}
	if filter.StartDate != nil {
		q = q.Where("withdrawals.date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("withdrawals.date <= ?", *filter.EndDate)
	}

	err := q.Find(&withdrawals).Error
	return withdrawals, err
}
