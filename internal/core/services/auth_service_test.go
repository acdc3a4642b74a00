package services

import (
	"context"
	"testing"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/config"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/events"
	"saccohub/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
	}
	return NewAuthService(repositories.NewUserRepository(db), cfg, events.NewBus())
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterInput{
		Name:     "Jane Wanjiku",
		Email:    "jane@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, user.Role, "role defaults to Member")
	assert.NotEqual(t, "s3cretpass", user.Password, "password must be stored hashed")

	result, err := svc.Login(ctx, "jane@example.com", "s3cretpass")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := jwt.ValidateAccessToken(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleMember, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{
		Name: "First", Email: "dup@example.com", Password: "password1",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterInput{
		Name: "Second", Email: "dup@example.com", Password: "password2",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestRegisterInvalidRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name: "X", Email: "x@example.com", Password: "password1", Role: "Overlord",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoginBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{
		Name: "Jane", Email: "jane@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	// Wrong password and unknown email fail identically
	_, err = svc.Login(ctx, "jane@example.com", "wrongpass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
