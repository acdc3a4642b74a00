package services

import (
	"context"
	"testing"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/config"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAdminService(db *gorm.DB) *AdminService {
	// No SendGrid key: email degrades to logging, which is what we want here
	return NewAdminService(
		db,
		repositories.NewUserRepository(db),
		repositories.NewSaccoRepository(db),
		repositories.NewSubscriptionRepository(db),
		NewEmailService(config.EmailConfig{}),
		events.NewBus(),
	)
}

func TestRegisterSaccoWithChairperson(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAdminService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}

	result, err := svc.RegisterSaccoWithChairperson(context.Background(), &RegisterSaccoInput{
		SaccoName:          "Harambee SACCO",
		RegistrationNumber: "REG-HRB",
		Location:           "Mombasa",
		ChairpersonName:    "Peter Otieno",
		ChairpersonEmail:   "peter@example.com",
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, models.RoleChairperson, result.Chairperson.Role)
	assert.Equal(t, models.SaccoStatusActive, result.Sacco.Status)
	require.NotNil(t, result.Sacco.ChairpersonID)
	assert.Equal(t, result.Chairperson.ID, *result.Sacco.ChairpersonID)

	// One active premium subscription for the chairperson
	var subs []*models.Subscription
	require.NoError(t, db.Where("user_id = ?", result.Chairperson.ID).Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, models.PlanPremium, subs[0].Plan)
	assert.Equal(t, models.SubscriptionActive, subs[0].Status)
	require.NotNil(t, subs[0].EndDate)
}

func TestRegisterSaccoConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAdminService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	_, err := svc.RegisterSaccoWithChairperson(ctx, &RegisterSaccoInput{
		SaccoName:          "First",
		RegistrationNumber: "REG-1",
		Location:           "Thika",
		ChairpersonName:    "A",
		ChairpersonEmail:   "a@example.com",
	}, actor)
	require.NoError(t, err)

	_, err = svc.RegisterSaccoWithChairperson(ctx, &RegisterSaccoInput{
		SaccoName:          "Second",
		RegistrationNumber: "REG-2",
		Location:           "Thika",
		ChairpersonName:    "B",
		ChairpersonEmail:   "a@example.com",
	}, actor)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, err = svc.RegisterSaccoWithChairperson(ctx, &RegisterSaccoInput{
		SaccoName:          "Third",
		RegistrationNumber: "REG-1",
		Location:           "Thika",
		ChairpersonName:    "C",
		ChairpersonEmail:   "c@example.com",
	}, actor)
	assert.ErrorIs(t, err, domain.ErrRegistrationNumberTaken)
}

func TestRegisterSaccoForbiddenForNonSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAdminService(db)

	chair := createTestUser(t, db, models.RoleChairperson)

	_, err := svc.RegisterSaccoWithChairperson(context.Background(), &RegisterSaccoInput{
		SaccoName:          "Nope",
		RegistrationNumber: "REG-X",
		Location:           "Nowhere",
		ChairpersonName:    "X",
		ChairpersonEmail:   "x@example.com",
	}, domain.Principal{ID: chair.ID, Role: chair.Role})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResetChairpersonPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAdminService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	chair := createTestUser(t, db, models.RoleChairperson)
	member := createTestUser(t, db, models.RoleMember)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	before := chair.Password
	require.NoError(t, svc.ResetChairpersonPassword(ctx, chair.ID, actor))

	var after models.User
	require.NoError(t, db.First(&after, "id = ?", chair.ID).Error)
	assert.NotEqual(t, before, after.Password)

	err := svc.ResetChairpersonPassword(ctx, member.ID, actor)
	assert.ErrorIs(t, err, domain.ErrNotAChairperson)
}
