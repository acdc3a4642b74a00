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
	"gorm.io/gorm/clause"
)

// LedgerService is the balance mutation engine. Every balance-affecting
// operation goes through here: the member row is locked, the balance is
// updated and exactly one transaction row is appended, all inside a
// single database transaction.
type LedgerService struct {
	db             *gorm.DB
	depositRepo    *repositories.DepositRepository
	withdrawalRepo *repositories.WithdrawalRepository
	memberRepo     *repositories.MemberRepository
	events         *events.Bus
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	db *gorm.DB,
	depositRepo *repositories.DepositRepository,
	withdrawalRepo *repositories.WithdrawalRepository,
	memberRepo *repositories.MemberRepository,
	bus *events.Bus,
) *LedgerService {
	return &LedgerService{
		db:             db,
		depositRepo:    depositRepo,
		withdrawalRepo: withdrawalRepo,
		memberRepo:     memberRepo,
		events:         bus,
	}
}

// lockForUpdate adds a row-level write lock where the dialect supports
// it. SQLite (used by the test suite) serializes writers at the database
// level, so the clause is unnecessary there and not valid syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// DepositInput represents a deposit request
type DepositInput struct {
	MemberID    string
	Amount      decimal.Decimal
	Date        *time.Time
	Description string
}

// Deposit credits the member's savings balance, records the immutable
// deposit event and appends one deposit transaction, atomically.
func (s *LedgerService) Deposit(ctx context.Context, input *DepositInput, actor domain.Principal) (*models.Deposit, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	description := input.Description
	if description == "" {
		description = "Deposit"
	}

	deposit := &models.Deposit{
		MemberID:    input.MemberID,
		Amount:      input.Amount,
		Date:        date,
		Description: description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := lockForUpdate(tx).First(&member, "id = ?", input.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrMemberNotFound
			}
			return err
		}

		if err := tx.Create(deposit).Error; err != nil {
			return err
		}

		newBalance := member.SavingsBalance.Add(input.Amount)
		if err := tx.Model(&models.Member{}).Where("id = ?", member.ID).
			Update("savings_balance", newBalance).Error; err != nil {
			return err
		}

		record := &models.Transaction{
			Type:        models.TxTypeDeposit,
			Amount:      input.Amount,
			MemberID:    &member.ID,
			SaccoID:     member.SaccoID,
			Description: description,
			ReferenceID: deposit.ID,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "CREATE",
		EntityType: "Deposit",
		EntityID:   deposit.ID,
		Details:    map[string]interface{}{"member_id": input.MemberID, "amount": input.Amount.String()},
	})

	return s.depositRepo.GetByID(ctx, deposit.ID)
}

// WithdrawalInput represents a withdrawal request
type WithdrawalInput struct {
	MemberID    string
	Amount      decimal.Decimal
	Date        *time.Time
	Description string
}

// Withdraw debits the member's savings balance after the authorization
// and sufficient-balance checks, records the immutable withdrawal event
// and appends one withdrawal transaction, atomically.
//
// Only a SuperAdmin or the chairperson of the member's own SACCO may
// process withdrawals; the balance check runs against the locked row so
// concurrent withdrawals cannot both pass it.
func (s *LedgerService) Withdraw(ctx context.Context, input *WithdrawalInput, actor domain.Principal) (*models.Withdrawal, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	member, err := s.memberRepo.GetByID(ctx, input.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	resource := &domain.SaccoResource{ID: member.SaccoID}
	if member.Sacco != nil {
		resource.ChairpersonID = member.Sacco.ChairpersonID
	}
	if !domain.Authorize(actor, domain.ActionProcessWithdrawal, resource) {
		return nil, domain.ErrForbidden
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	description := input.Description
	if description == "" {
		description = "Withdrawal"
	}

	withdrawal := &models.Withdrawal{
		MemberID:    input.MemberID,
		Amount:      input.Amount,
		Date:        date,
		Description: description,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.Member
		if err := lockForUpdate(tx).First(&locked, "id = ?", input.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrMemberNotFound
			}
			return err
		}

		if locked.SavingsBalance.LessThan(input.Amount) {
			return domain.ErrInsufficientSavings
		}

		if err := tx.Create(withdrawal).Error; err != nil {
			return err
		}

		newBalance := locked.SavingsBalance.Sub(input.Amount)
		if err := tx.Model(&models.Member{}).Where("id = ?", locked.ID).
			Update("savings_balance", newBalance).Error; err != nil {
			return err
		}

		record := &models.Transaction{
			Type:        models.TxTypeWithdrawal,
			Amount:      input.Amount,
			MemberID:    &locked.ID,
			SaccoID:     locked.SaccoID,
			Description: description,
			ReferenceID: withdrawal.ID,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "CREATE",
		EntityType: "Withdrawal",
		EntityID:   withdrawal.ID,
		Details:    map[string]interface{}{"member_id": input.MemberID, "amount": input.Amount.String()},
	})

	return s.withdrawalRepo.GetByID(ctx, withdrawal.ID)
}

// GetDeposit gets a deposit by ID
func (s *LedgerService) GetDeposit(ctx context.Context, id string) (*models.Deposit, error) {
	deposit, err := s.depositRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepositNotFound
		}
		return nil, err
	}
	return deposit, nil
}

// ListDeposits lists deposits with optional filters
func (s *LedgerService) ListDeposits(ctx context.Context, filter *repositories.LedgerFilter) ([]*models.Deposit, error) {
	return s.depositRepo.List(ctx, filter)
}

// GetWithdrawal gets a withdrawal by ID
func (s *LedgerService) GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWithdrawalNotFound
		}
		return nil, err
	}
	return withdrawal, nil
}

// ListWithdrawals lists withdrawals with optional filters
func (s *LedgerService) ListWithdrawals(ctx context.Context, filter *repositories.LedgerFilter) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.List(ctx, filter)
}
