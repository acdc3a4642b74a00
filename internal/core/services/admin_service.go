package services

import (
	"context"
	"errors"
	"log"
	"time"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/events"
	"saccohub/internal/pkg/password"

	"gorm.io/gorm"
)

// AdminService covers the SuperAdmin onboarding flows: registering a
// SACCO together with its chairperson account in one step, and
// resetting chairperson passwords.
type AdminService struct {
	db        *gorm.DB
	userRepo  *repositories.UserRepository
	saccoRepo *repositories.SaccoRepository
	subRepo   *repositories.SubscriptionRepository
	email     *EmailService
	events    *events.Bus
}

// NewAdminService creates a new admin service
func NewAdminService(
	db *gorm.DB,
	userRepo *repositories.UserRepository,
	saccoRepo *repositories.SaccoRepository,
	subRepo *repositories.SubscriptionRepository,
	email *EmailService,
	bus *events.Bus,
) *AdminService {
	return &AdminService{
		db:        db,
		userRepo:  userRepo,
		saccoRepo: saccoRepo,
		subRepo:   subRepo,
		email:     email,
		events:    bus,
	}
}

// RegisterSaccoInput represents the one-step SACCO + chairperson onboarding
type RegisterSaccoInput struct {
	SaccoName          string
	RegistrationNumber string
	Location           string
	ChairpersonName    string
	ChairpersonEmail   string
}

// RegisterSaccoResult carries everything the onboarding created
type RegisterSaccoResult struct {
	Sacco       *models.Sacco
	Chairperson *models.User
	EmailSent   bool
}

// RegisterSaccoWithChairperson creates a chairperson account with a
// generated password, the SACCO owned by that chairperson, and a
// one-year premium subscription, in a single database transaction. The
// credentials email goes out after commit; a delivery failure is logged
// but does not undo the registration.
func (s *AdminService) RegisterSaccoWithChairperson(ctx context.Context, input *RegisterSaccoInput, actor domain.Principal) (*RegisterSaccoResult, error) {
	if !domain.Authorize(actor, domain.ActionManageUsers, nil) {
		return nil, domain.ErrForbidden
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.ChairpersonEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	taken, err := s.saccoRepo.ExistsByRegistrationNumber(ctx, input.RegistrationNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrRegistrationNumberTaken
	}

	plain, err := password.Generate()
	if err != nil {
		return nil, err
	}
	hashed, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	chair := &models.User{
		Name:     input.ChairpersonName,
		Email:    input.ChairpersonEmail,
		Password: hashed,
		Role:     models.RoleChairperson,
	}
	sacco := &models.Sacco{
		Name:               input.SaccoName,
		RegistrationNumber: input.RegistrationNumber,
		Location:           input.Location,
		Status:             models.SaccoStatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chair).Error; err != nil {
			return err
		}

		sacco.ChairpersonID = &chair.ID
		if err := tx.Create(sacco).Error; err != nil {
			return err
		}

		endDate := time.Now().AddDate(1, 0, 0)
		sub := &models.Subscription{
			UserID:    chair.ID,
			SaccoID:   sacco.ID,
			Plan:      models.PlanPremium,
			Status:    models.SubscriptionActive,
			StartDate: time.Now(),
			EndDate:   &endDate,
			Features:  `["member_management","loan_management","reports"]`,
		}
		return tx.Create(sub).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "REGISTER_SACCO",
		EntityType: "Sacco",
		EntityID:   sacco.ID,
		Details:    map[string]interface{}{"chairperson_id": chair.ID},
	})

	// Fire-and-forget: the registration stands whether or not the email lands.
	emailSent := true
	if err := s.email.SendChairpersonCredentials(chair.Name, chair.Email, sacco.Name, plain); err != nil {
		log.Printf("❌ Failed to send credentials email to %s: %v", chair.Email, err)
		emailSent = false
	}

	full, err := s.saccoRepo.GetByID(ctx, sacco.ID)
	if err != nil {
		return nil, err
	}

	return &RegisterSaccoResult{
		Sacco:       full,
		Chairperson: chair,
		EmailSent:   emailSent,
	}, nil
}

// ResetChairpersonPassword regenerates a chairperson's password and
// emails the new one.
func (s *AdminService) ResetChairpersonPassword(ctx context.Context, userID string, actor domain.Principal) error {
	if !domain.Authorize(actor, domain.ActionManageUsers, nil) {
		return domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if user.Role != models.RoleChairperson {
		return domain.ErrNotAChairperson
	}

	plain, err := password.Generate()
	if err != nil {
		return err
	}
	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "RESET_PASSWORD",
		EntityType: "User",
		EntityID:   user.ID,
	})

	if err := s.email.SendPasswordReset(user.Name, user.Email, plain); err != nil {
		log.Printf("❌ Failed to send reset email to %s: %v", user.Email, err)
	}

	return nil
}
