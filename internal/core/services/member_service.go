package services

import (
	"context"
	"errors"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/events"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MemberService handles membership use cases
type MemberService struct {
	memberRepo *repositories.MemberRepository
	userRepo   *repositories.UserRepository
	saccoRepo  *repositories.SaccoRepository
	events     *events.Bus
}

// NewMemberService creates a new member service
func NewMemberService(
	memberRepo *repositories.MemberRepository,
	userRepo *repositories.UserRepository,
	saccoRepo *repositories.SaccoRepository,
	bus *events.Bus,
) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		userRepo:   userRepo,
		saccoRepo:  saccoRepo,
		events:     bus,
	}
}

// EnrollInput represents a membership enrollment. Nil balances
// default to zero.
type EnrollInput struct {
	UserID         string
	SaccoID        string
	ShareBalance   *decimal.Decimal
	SavingsBalance *decimal.Decimal
}

// Enroll creates a membership binding a user to a SACCO. Opening
// balances may be supplied and must not be negative; a user can hold
// at most one membership per SACCO.
func (s *MemberService) Enroll(ctx context.Context, input *EnrollInput, actor domain.Principal) (*models.Member, error) {
	shareBalance := decimal.Zero
	if input.ShareBalance != nil {
		if input.ShareBalance.IsNegative() {
			return nil, domain.ErrNegativeBalance
		}
		shareBalance = *input.ShareBalance
	}
	savingsBalance := decimal.Zero
	if input.SavingsBalance != nil {
		if input.SavingsBalance.IsNegative() {
			return nil, domain.ErrNegativeBalance
		}
		savingsBalance = *input.SavingsBalance
	}

	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.saccoRepo.GetByID(ctx, input.SaccoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSaccoNotFound
		}
		return nil, err
	}

	exists, err := s.memberRepo.ExistsByUserAndSacco(ctx, input.UserID, input.SaccoID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrMemberAlreadyExists
	}

	member := &models.Member{
		UserID:         input.UserID,
		SaccoID:        input.SaccoID,
		ShareBalance:   shareBalance,
		SavingsBalance: savingsBalance,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "CREATE",
		EntityType: "Member",
		EntityID:   member.ID,
		Details:    map[string]interface{}{"user_id": input.UserID, "sacco_id": input.SaccoID},
	})

	return s.memberRepo.GetByID(ctx, member.ID)
}

// GetByID gets a member by ID
func (s *MemberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// List lists members, optionally filtered by SACCO
func (s *MemberService) List(ctx context.Context, saccoID string) ([]*models.Member, error) {
	return s.memberRepo.List(ctx, saccoID)
}

// AdjustBalancesInput represents an administrative balance override.
// Nil fields are left unchanged.
type AdjustBalancesInput struct {
	ShareBalance   *decimal.Decimal
	SavingsBalance *decimal.Decimal
}

// AdjustBalances sets member balances directly, bypassing the ledger.
// This is the administrative correction path; routine mutations go
// through deposits and withdrawals. Negative balances are rejected.
func (s *MemberService) AdjustBalances(ctx context.Context, id string, input *AdjustBalancesInput, actor domain.Principal) (*models.Member, error) {
	if !domain.Authorize(actor, domain.ActionManageUsers, nil) {
		return nil, domain.ErrForbidden
	}

	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	if input.ShareBalance != nil {
		if input.ShareBalance.IsNegative() {
			return nil, domain.ErrNegativeBalance
		}
		member.ShareBalance = *input.ShareBalance
	}
	if input.SavingsBalance != nil {
		if input.SavingsBalance.IsNegative() {
			return nil, domain.ErrNegativeBalance
		}
		member.SavingsBalance = *input.SavingsBalance
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "ADJUST_BALANCES",
		EntityType: "Member",
		EntityID:   member.ID,
	})

	return s.memberRepo.GetByID(ctx, member.ID)
}
