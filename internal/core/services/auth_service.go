package services

import (
	"context"
	"errors"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/config"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/events"
	"saccohub/internal/pkg/jwt"
	"saccohub/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo *repositories.UserRepository
	cfg      *config.Config
	events   *events.Bus
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repositories.UserRepository, cfg *config.Config, bus *events.Bus) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		events:   bus,
	}
}

// RegisterInput represents registration data
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

var validRoles = map[string]bool{
	models.RoleSuperAdmin:  true,
	models.RoleChairperson: true,
	models.RoleMember:      true,
	models.RoleTreasurer:   true,
	models.RoleSecretary:   true,
}

// Register creates a new user account. Email is unique; the role
// defaults to Member when omitted.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if !validRoles[role] {
		return nil, domain.ErrInvalidInput
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    user.ID,
		Action:     "REGISTER",
		EntityType: "User",
		EntityID:   user.ID,
		Details:    map[string]interface{}{"email": user.Email, "role": user.Role},
	})

	return user, nil
}

// LoginResult carries the authenticated user and their access token
type LoginResult struct {
	User  *models.User
	Token string
}

// Login verifies credentials and issues an access token. A wrong email
// and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plaintext, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(
		user.ID, user.Name, user.Email, user.Role,
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{
		ActorID:    user.ID,
		Action:     "LOGIN",
		EntityType: "User",
		EntityID:   user.ID,
	})

	return &LoginResult{User: user, Token: token}, nil
}
