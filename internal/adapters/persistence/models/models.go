package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Identity
// ============================================================

// Roles
const (
	RoleSuperAdmin  = "SuperAdmin"
	RoleChairperson = "Chairperson"
	RoleMember      = "Member"
	RoleTreasurer   = "Treasurer"
	RoleSecretary   = "Secretary"
)

// User represents users table
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:'Member'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ============================================================
// Organization Registry
// ============================================================

// SACCO status lifecycle
const (
	SaccoStatusPending   = "pending"
	SaccoStatusActive    = "active"
	SaccoStatusSuspended = "suspended"
)

// Sacco represents saccos table
type Sacco struct {
	ID                 string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name               string    `gorm:"size:255;not null" json:"name"`
	RegistrationNumber string    `gorm:"uniqueIndex;size:100;not null" json:"registration_number"`
	Location           string    `gorm:"size:255;not null" json:"location"`
	Status             string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	ChairpersonID      *string   `gorm:"type:char(36);index" json:"chairperson_id"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Chairperson *User    `gorm:"foreignKey:ChairpersonID" json:"chairperson,omitempty"`
	Members     []Member `gorm:"foreignKey:SaccoID" json:"members,omitempty"`
}

func (Sacco) TableName() string {
	return "saccos"
}

func (s *Sacco) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Membership Ledger
// ============================================================

// Member binds a user to a SACCO and holds the two balances.
// The (user_id, sacco_id) pair is unique; balances are mutated only by
// the ledger service or the explicit administrative override.
type Member struct {
	ID             string          `gorm:"type:char(36);primaryKey" json:"id"`
	UserID         string          `gorm:"type:char(36);not null;uniqueIndex:idx_members_user_sacco" json:"user_id"`
	SaccoID        string          `gorm:"type:char(36);not null;uniqueIndex:idx_members_user_sacco" json:"sacco_id"`
	ShareBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"share_balance"`
	SavingsBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"savings_balance"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Sacco *Sacco `gorm:"foreignKey:SaccoID" json:"sacco,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Deposit / Withdrawal events
// ============================================================

// Deposit is an immutable event record. Created once, never mutated.
type Deposit struct {
	ID          string          `gorm:"type:char(36);primaryKey" json:"id"`
	MemberID    string          `gorm:"type:char(36);not null;index" json:"member_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Deposit) TableName() string {
	return "deposits"
}

func (d *Deposit) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Withdrawal is an immutable event record. Created once, never mutated.
type Withdrawal struct {
	ID          string          `gorm:"type:char(36);primaryKey" json:"id"`
	MemberID    string          `gorm:"type:char(36);not null;index" json:"member_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Loan Lifecycle
// ============================================================

// Loan status state machine:
// pending -> {approved, rejected}; approved -> disbursed; disbursed -> repaid.
// rejected and repaid are terminal.
const (
	LoanStatusPending   = "pending"
	LoanStatusApproved  = "approved"
	LoanStatusRejected  = "rejected"
	LoanStatusDisbursed = "disbursed"
	LoanStatusRepaid    = "repaid"
)

// Loan represents loans table
type Loan struct {
	ID                string          `gorm:"type:char(36);primaryKey" json:"id"`
	MemberID          string          `gorm:"type:char(36);not null;index" json:"member_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	InterestRate      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	Status            string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RepaymentSchedule string          `gorm:"type:text" json:"repayment_schedule"`
	ApplicationDate   time.Time       `gorm:"not null" json:"application_date"`
	ApprovalDate      *time.Time      `json:"approval_date"`
	DisbursementDate  *time.Time      `json:"disbursement_date"`
	RepaidAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"repaid_amount"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Transaction Log (append-only)
// ============================================================

// Transaction types
const (
	TxTypeDeposit          = "deposit"
	TxTypeWithdrawal       = "withdrawal"
	TxTypeLoanDisbursement = "loan_disbursement"
	TxTypeLoanRepayment    = "loan_repayment"
	TxTypeTransfer         = "transfer"
)

// Transaction is the audit-grade ledger entry. Rows are appended by the
// ledger service inside the same database transaction as the balance
// mutation and are never updated or deleted.
type Transaction struct {
	ID          string          `gorm:"type:char(36);primaryKey" json:"id"`
	Type        string          `gorm:"size:30;not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	MemberID    *string         `gorm:"type:char(36);index" json:"member_id"`
	SaccoID     string          `gorm:"type:char(36);not null;index" json:"sacco_id"`
	Description string          `gorm:"size:255" json:"description"`
	ReferenceID string          `gorm:"type:char(36)" json:"reference_id"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Sacco  *Sacco  `gorm:"foreignKey:SaccoID" json:"sacco,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Subscription
// ============================================================

// Subscription plans and statuses
const (
	PlanBasic      = "basic"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"

	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionSuspended = "suspended"
)

// Subscription represents per-user-per-SACCO plan entitlement
type Subscription struct {
	ID        string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string     `gorm:"type:char(36);not null;index" json:"user_id"`
	SaccoID   string     `gorm:"type:char(36);not null;index" json:"sacco_id"`
	Plan      string     `gorm:"size:20;not null;default:'basic'" json:"plan"`
	Status    string     `gorm:"size:20;not null;default:'active'" json:"status"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Features  string     `gorm:"type:text" json:"features"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Sacco *Sacco `gorm:"foreignKey:SaccoID" json:"sacco,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Audit Log
// ============================================================

// AuditLog records who did what. Rows are written asynchronously after
// the originating mutation commits; a write failure is logged and dropped.
type AuditLog struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:char(36);index" json:"user_id"`
	Action     string    `gorm:"size:50;not null;index" json:"action"`
	EntityType string    `gorm:"size:50;not null;index" json:"entity_type"`
	EntityID   string    `gorm:"type:char(36)" json:"entity_id"`
	Details    string    `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Sacco{},
		&Member{},
		&Deposit{},
		&Withdrawal{},
		&Loan{},
		&Transaction{},
		&Subscription{},
		&AuditLog{},
	)
}
