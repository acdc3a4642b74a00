package repositories

import (
	"context"

	"saccohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// LoanFilter narrows loan queries. Zero values mean "no filter".
type LoanFilter struct {
	MemberID string
	Status   string
	SaccoID  string
}

// LoanRepository handles loan data access
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Create creates a new loan
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with member and user
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Preload("Member.Sacco").
		First(&loan, "id = ?", id).Error
	return &loan, err
}

// List lists loans newest application first with optional filters
func (r *LoanRepository) List(ctx context.Context, filter *LoanFilter) ([]*models.Loan, error) {
	var loans []*models.Loan

	q := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Order("loans.application_date DESC")

	if filter.MemberID != "" {
		q = q.Where("loans.member_id = ?", filter.MemberID)
	}
	if filter.Status != "" {
		q = q.Where("loans.status = ?", filter.Status)
	}
	if filter.SaccoID != "" {
		q = q.Joins("JOIN members ON members.id = loans.member_id").
			Where("members.sacco_id = ?", filter.SaccoID)
	}

	err := q.Find(&loans).Error
	return loans, err
}

// Update updates a loan
func (r *LoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}
