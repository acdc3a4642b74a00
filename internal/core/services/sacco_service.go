package services

import (
	"context"
	"errors"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/events"

	"gorm.io/gorm"
)

// SaccoService handles SACCO registry use cases
type SaccoService struct {
	saccoRepo *repositories.SaccoRepository
	userRepo  *repositories.UserRepository
	events    *events.Bus
}

// NewSaccoService creates a new SACCO service
func NewSaccoService(
	saccoRepo *repositories.SaccoRepository,
	userRepo *repositories.UserRepository,
	bus *events.Bus,
) *SaccoService {
	return &SaccoService{
		saccoRepo: saccoRepo,
		userRepo:  userRepo,
		events:    bus,
	}
}

// CreateSaccoInput represents SACCO creation data
type CreateSaccoInput struct {
	Name               string
	RegistrationNumber string
	Location           string
	ChairpersonID      *string
}

// Create registers a new SACCO. It starts in pending status; the
// registration number must be unique across all SACCOs. When no
// chairperson is supplied the acting principal becomes the chairperson.
func (s *SaccoService) Create(ctx context.Context, input *CreateSaccoInput, actor domain.Principal) (*models.Sacco, error) {
	taken, err := s.saccoRepo.ExistsByRegistrationNumber(ctx, input.RegistrationNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrRegistrationNumberTaken
	}

	chairpersonID := input.ChairpersonID
	if chairpersonID == nil && actor.ID != "" {
		chairpersonID = &actor.ID
	}
	if input.ChairpersonID != nil {
		if _, err := s.userRepo.GetByID(ctx, *input.ChairpersonID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
	}

	sacco := &models.Sacco{
		Name:               input.Name,
		RegistrationNumber: input.RegistrationNumber,
		Location:           input.Location,
		Status:             models.SaccoStatusPending,
		ChairpersonID:      chairpersonID,
	}

	if err := s.saccoRepo.Create(ctx, sacco); err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "CREATE",
		EntityType: "Sacco",
		EntityID:   sacco.ID,
		Details:    map[string]interface{}{"name": input.Name, "registration_number": input.RegistrationNumber},
	})

	return s.saccoRepo.GetByID(ctx, sacco.ID)
}

// GetByID gets a SACCO by ID
func (s *SaccoService) GetByID(ctx context.Context, id string) (*models.Sacco, error) {
	sacco, err := s.saccoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSaccoNotFound
		}
		return nil, err
	}
	return sacco, nil
}

// List lists all SACCOs
func (s *SaccoService) List(ctx context.Context) ([]*models.Sacco, error) {
	return s.saccoRepo.List(ctx)
}

// UpdateSaccoInput represents a partial SACCO update. Nil fields are
// left unchanged.
type UpdateSaccoInput struct {
	Name               *string
	RegistrationNumber *string
	Location           *string
	ChairpersonID      *string
}

// Update applies a partial update to a SACCO. Changing the registration
// number to one held by another SACCO is a conflict.
func (s *SaccoService) Update(ctx context.Context, id string, input *UpdateSaccoInput, actor domain.Principal) (*models.Sacco, error) {
	sacco, err := s.saccoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSaccoNotFound
		}
		return nil, err
	}

	if input.RegistrationNumber != nil && *input.RegistrationNumber != sacco.RegistrationNumber {
		taken, err := s.saccoRepo.ExistsByRegistrationNumber(ctx, *input.RegistrationNumber)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrRegistrationNumberTaken
		}
		sacco.RegistrationNumber = *input.RegistrationNumber
	}
	if input.Name != nil {
		sacco.Name = *input.Name
	}
	if input.Location != nil {
		sacco.Location = *input.Location
	}
	if input.ChairpersonID != nil {
		if _, err := s.userRepo.GetByID(ctx, *input.ChairpersonID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
		sacco.ChairpersonID = input.ChairpersonID
	}

	if err := s.saccoRepo.Update(ctx, sacco); err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "UPDATE",
		EntityType: "Sacco",
		EntityID:   sacco.ID,
	})

	return s.saccoRepo.GetByID(ctx, sacco.ID)
}

// Approve sets the SACCO status to active. The transition is
// unconditional: approving an already active or suspended SACCO simply
// sets the status again.
func (s *SaccoService) Approve(ctx context.Context, id string, actor domain.Principal) (*models.Sacco, error) {
	return s.setStatus(ctx, id, models.SaccoStatusActive, "APPROVE", domain.ActionApproveSacco, actor)
}

// Suspend sets the SACCO status to suspended, from any current status.
func (s *SaccoService) Suspend(ctx context.Context, id string, actor domain.Principal) (*models.Sacco, error) {
	return s.setStatus(ctx, id, models.SaccoStatusSuspended, "SUSPEND", domain.ActionSuspendSacco, actor)
}

// Reactivate sets the SACCO status back to active, from any current status.
func (s *SaccoService) Reactivate(ctx context.Context, id string, actor domain.Principal) (*models.Sacco, error) {
	return s.setStatus(ctx, id, models.SaccoStatusActive, "REACTIVATE", domain.ActionApproveSacco, actor)
}

func (s *SaccoService) setStatus(ctx context.Context, id, status, auditAction, policyAction string, actor domain.Principal) (*models.Sacco, error) {
	if !domain.Authorize(actor, policyAction, nil) {
		return nil, domain.ErrForbidden
	}

	if _, err := s.saccoRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSaccoNotFound
		}
		return nil, err
	}

	if err := s.saccoRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     auditAction,
		EntityType: "Sacco",
		EntityID:   id,
		Details:    map[string]interface{}{"status": status},
	})

	return s.saccoRepo.GetByID(ctx, id)
}

// Delete permanently removes a SACCO. A SACCO with members cannot be
// deleted; the members (and their balances) must go first.
func (s *SaccoService) Delete(ctx context.Context, id string, actor domain.Principal) error {
	if !domain.Authorize(actor, domain.ActionDeleteSacco, nil) {
		return domain.ErrForbidden
	}

	if _, err := s.saccoRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSaccoNotFound
		}
		return err
	}

	count, err := s.saccoRepo.CountMembers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrSaccoHasMembers
	}

	if err := s.saccoRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Publish(events.Event{
		ActorID:    actor.ID,
		Action:     "DELETE",
		EntityType: "Sacco",
		EntityID:   id,
	})

	return nil
}
