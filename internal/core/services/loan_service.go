package services

import (
	"context"
	"errors"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/events"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var interestRateCeiling = decimal.NewFromInt(100)

// LoanService drives the loan lifecycle:
// pending -> {approved, rejected}; approved -> disbursed; disbursed -> repaid.
type LoanService struct {
	db         *gorm.DB
	loanRepo   *repositories.LoanRepository
	memberRepo *repositories.MemberRepository
	events     *events.Bus
}

// NewLoanService creates a new loan service
func NewLoanService(
	db *gorm.DB,
	loanRepo *repositories.LoanRepository,
	memberRepo *repositories.MemberRepository,
	bus *events.Bus,
) *LoanService {
	return &LoanService{
		db:         db,
		loanRepo:   loanRepo,
		memberRepo: memberRepo,
		events:     bus,
	}
}

// ApplyInput represents a loan application
type ApplyInput struct {
	MemberID          string
	Amount            decimal.Decimal
	InterestRate      decimal.Decimal
	RepaymentSchedule string
}

// Apply creates a loan application in pending state
func (s *LoanService) Apply(ctx context.Context, input *ApplyInput, actor domain.Principal) (*models.Loan, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.InterestRate.IsNegative() || input.InterestRate.GreaterThan(interestRateCeiling) {
		return nil, domain.ErrInvalidInterestRate
	}

	if _, err := s.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	loan := &models.Loan{
		MemberID:          input.MemberID,
		Amount:            input.Amount,
		InterestRate:      input.InterestRate,
		Status:            models.LoanStatusPending,
		RepaymentSchedule: input.RepaymentSchedule,
		ApplicationDate:   time.Now(),
		RepaidAmount:      decimal.Zero,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "CREATE",
		EntityType: "Loan",
		EntityID:   loan.ID,
		Details:    map[string]interface{}{"member_id": input.MemberID, "amount": input.Amount.String()},
	})

	return s.loanRepo.GetByID(ctx, loan.ID)
}

// DecideInput represents the approval/rejection decision
type DecideInput struct {
	Status           string
	ApprovalDate     *time.Time
	DisbursementDate *time.Time
}

// Decide approves or rejects a pending loan. A disbursement date may be
// recorded at approval time but does not itself transition the loan to
// disbursed; that takes an explicit Disburse call.
func (s *LoanService) Decide(ctx context.Context, id string, input *DecideInput, actor domain.Principal) (*models.Loan, error) {
	if input.Status != models.LoanStatusApproved && input.Status != models.LoanStatusRejected {
		return nil, domain.ErrInvalidLoanStatus
	}

	if err := s.authorizeLoanAction(ctx, id, domain.ActionDecideLoan, actor); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := lockForUpdate(tx).First(&loan, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.Status != models.LoanStatusPending {
			return domain.ErrLoanAlreadyProcessed
		}

		approvalDate := time.Now()
		if input.ApprovalDate != nil {
			approvalDate = *input.ApprovalDate
		}

		loan.Status = input.Status
		loan.ApprovalDate = &approvalDate
		if input.Status == models.LoanStatusApproved && input.DisbursementDate != nil {
			loan.DisbursementDate = input.DisbursementDate
		}

		return tx.Save(&loan).Error
	})
	if err != nil {
		return nil, err
	}

	action := "APPROVE"
	if input.Status == models.LoanStatusRejected {
		action = "REJECT"
	}
	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     action,
		EntityType: "Loan",
		EntityID:   id,
	})

	return s.loanRepo.GetByID(ctx, id)
}

// Disburse transitions an approved loan to disbursed and appends one
// loan_disbursement transaction for the loan's member and SACCO.
func (s *LoanService) Disburse(ctx context.Context, id string, actor domain.Principal) (*models.Loan, error) {
	if err := s.authorizeLoanAction(ctx, id, domain.ActionDisburseLoan, actor); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := lockForUpdate(tx).First(&loan, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.Status != models.LoanStatusApproved {
			return domain.ErrLoanNotApproved
		}

		var member models.Member
		if err := tx.First(&member, "id = ?", loan.MemberID).Error; err != nil {
			return err
		}

		loan.Status = models.LoanStatusDisbursed
		if loan.DisbursementDate == nil {
			now := time.Now()
			loan.DisbursementDate = &now
		}

		if err := tx.Save(&loan).Error; err != nil {
			return err
		}

		record := &models.Transaction{
			Type:        models.TxTypeLoanDisbursement,
			Amount:      loan.Amount,
			MemberID:    &member.ID,
			SaccoID:     member.SaccoID,
			Description: "Loan disbursement",
			ReferenceID: loan.ID,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "DISBURSE",
		EntityType: "Loan",
		EntityID:   id,
	})

	return s.loanRepo.GetByID(ctx, id)
}

// Repay adds a repayment to a disbursed loan. The repaid amount only
// ever grows; once it reaches the borrowed amount the loan becomes
// repaid. One loan_repayment transaction is appended in the same unit
// of work as the loan update.
func (s *LoanService) Repay(ctx context.Context, id string, amount decimal.Decimal, actor domain.Principal) (*models.Loan, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := lockForUpdate(tx).First(&loan, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.Status != models.LoanStatusDisbursed {
			return domain.ErrLoanNotDisbursed
		}

		var member models.Member
		if err := tx.First(&member, "id = ?", loan.MemberID).Error; err != nil {
			return err
		}

		loan.RepaidAmount = loan.RepaidAmount.Add(amount)
		if loan.RepaidAmount.GreaterThanOrEqual(loan.Amount) {
			loan.Status = models.LoanStatusRepaid
		}

		if err := tx.Save(&loan).Error; err != nil {
			return err
		}

		record := &models.Transaction{
			Type:        models.TxTypeLoanRepayment,
			Amount:      amount,
			MemberID:    &member.ID,
			SaccoID:     member.SaccoID,
			Description: "Loan repayment",
			ReferenceID: loan.ID,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "REPAY",
		EntityType: "Loan",
		EntityID:   id,
		Details:    map[string]interface{}{"amount": amount.String()},
	})

	return s.loanRepo.GetByID(ctx, id)
}

// authorizeLoanAction checks the capability policy against the loan's
// SACCO: SuperAdmin always passes, a Chairperson only for their own SACCO.
func (s *LoanService) authorizeLoanAction(ctx context.Context, loanID, action string, actor domain.Principal) error {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLoanNotFound
		}
		return err
	}

	resource := &domain.SaccoResource{}
	if loan.Member != nil {
		resource.ID = loan.Member.SaccoID
		if loan.Member.Sacco != nil {
			resource.ChairpersonID = loan.Member.Sacco.ChairpersonID
		}
	}
	if !domain.Authorize(actor, action, resource) {
		return domain.ErrForbidden
	}
	return nil
}

// GetByID gets a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// List lists loans with optional filters
func (s *LoanService) List(ctx context.Context, filter *repositories.LoanFilter) ([]*models.Loan, error) {
	return s.loanRepo.List(ctx, filter)
}
