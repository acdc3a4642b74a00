package services

import (
	"context"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardService handles dashboard aggregation queries
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type sumRow struct {
	Total decimal.Decimal
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// Platform statistics
	TotalUsers      int64 `json:"total_users"`
	TotalSaccos     int64 `json:"total_saccos"`
	ActiveSaccos    int64 `json:"active_saccos"`
	PendingSaccos   int64 `json:"pending_saccos"`
	SuspendedSaccos int64 `json:"suspended_saccos"`
	TotalMembers    int64 `json:"total_members"`

	// Loan statistics
	TotalLoans     int64           `json:"total_loans"`
	PendingLoans   int64           `json:"pending_loans"`
	DisbursedLoans int64           `json:"disbursed_loans"`
	TotalLoaned    decimal.Decimal `json:"total_loaned"`

	// Recent activity
	RecentSaccos []SaccoSummary `json:"recent_saccos"`
}

// SaccoSummary represents a SACCO with its member count
type SaccoSummary struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"`
	Status             string    `json:"status"`
	MemberCount        int64     `json:"member_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// GetAdminDashboard returns platform-wide statistics. SuperAdmin only.
func (s *DashboardService) GetAdminDashboard(ctx context.Context, actor domain.Principal) (*AdminDashboardData, error) {
	if !domain.Authorize(actor, domain.ActionManageUsers, nil) {
		return nil, domain.ErrForbidden
	}

	data := &AdminDashboardData{}

	s.db.WithContext(ctx).Model(&models.User{}).Count(&data.TotalUsers)
	s.db.WithContext(ctx).Model(&models.Sacco{}).Count(&data.TotalSaccos)
	s.db.WithContext(ctx).Model(&models.Sacco{}).Where("status = ?", models.SaccoStatusActive).Count(&data.ActiveSaccos)
	s.db.WithContext(ctx).Model(&models.Sacco{}).Where("status = ?", models.SaccoStatusPending).Count(&data.PendingSaccos)
	s.db.WithContext(ctx).Model(&models.Sacco{}).Where("status = ?", models.SaccoStatusSuspended).Count(&data.SuspendedSaccos)
	s.db.WithContext(ctx).Model(&models.Member{}).Count(&data.TotalMembers)
	s.db.WithContext(ctx).Model(&models.Loan{}).Count(&data.TotalLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", models.LoanStatusPending).Count(&data.PendingLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", models.LoanStatusDisbursed).Count(&data.DisbursedLoans)

	var loaned sumRow
	s.db.WithContext(ctx).Model(&models.Loan{}).
		Where("status IN ?", []string{models.LoanStatusDisbursed, models.LoanStatusRepaid}).
		Select("COALESCE(SUM(amount), 0) AS total").Scan(&loaned)
	data.TotalLoaned = loaned.Total

	var recent []SaccoSummary
	err := s.db.WithContext(ctx).Table("saccos").
		Select("saccos.id, saccos.name, saccos.registration_number, saccos.status, saccos.created_at, COUNT(members.id) AS member_count").
		Joins("LEFT JOIN members ON members.sacco_id = saccos.id").
		Group("saccos.id, saccos.name, saccos.registration_number, saccos.status, saccos.created_at").
		Order("saccos.created_at DESC").
		Limit(10).
		Scan(&recent).Error
	if err != nil {
		return nil, err
	}
	data.RecentSaccos = recent

	return data, nil
}

// ============================================================
// SACCO Dashboard
// ============================================================

// SaccoDashboardData represents per-SACCO dashboard data
type SaccoDashboardData struct {
	MemberCount  int64           `json:"member_count"`
	TotalSavings decimal.Decimal `json:"total_savings"`
	TotalShares  decimal.Decimal `json:"total_shares"`
	ActiveLoans  int64           `json:"active_loans"`
	PendingLoans int64           `json:"pending_loans"`
	Transactions int64           `json:"transactions"`
}

// GetSaccoDashboard returns aggregate figures for one SACCO
func (s *DashboardService) GetSaccoDashboard(ctx context.Context, saccoID string) (*SaccoDashboardData, error) {
	data := &SaccoDashboardData{}

	s.db.WithContext(ctx).Model(&models.Member{}).Where("sacco_id = ?", saccoID).Count(&data.MemberCount)

	var savings, shares sumRow
	s.db.WithContext(ctx).Model(&models.Member{}).Where("sacco_id = ?", saccoID).
		Select("COALESCE(SUM(savings_balance), 0) AS total").Scan(&savings)
	s.db.WithContext(ctx).Model(&models.Member{}).Where("sacco_id = ?", saccoID).
		Select("COALESCE(SUM(share_balance), 0) AS total").Scan(&shares)
	data.TotalSavings = savings.Total
	data.TotalShares = shares.Total

	s.db.WithContext(ctx).Model(&models.Loan{}).
		Joins("JOIN members ON members.id = loans.member_id").
		Where("members.sacco_id = ? AND loans.status = ?", saccoID, models.LoanStatusDisbursed).
		Count(&data.ActiveLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).
		Joins("JOIN members ON members.id = loans.member_id").
		Where("members.sacco_id = ? AND loans.status = ?", saccoID, models.LoanStatusPending).
		Count(&data.PendingLoans)
	s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("sacco_id = ?", saccoID).Count(&data.Transactions)

	return data, nil
}
