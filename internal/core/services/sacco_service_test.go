package services

import (
	"context"
	"testing"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestSaccoService(db *gorm.DB) *SaccoService {
	return NewSaccoService(
		repositories.NewSaccoRepository(db),
		repositories.NewUserRepository(db),
		events.NewBus(),
	)
}

func TestCreateSaccoStartsPending(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaccoService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}

	sacco, err := svc.Create(context.Background(), &CreateSaccoInput{
		Name:               "Umoja SACCO",
		RegistrationNumber: "REG-001",
		Location:           "Nakuru",
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.SaccoStatusPending, sacco.Status)
}

func TestCreateSaccoDefaultsChairpersonToActor(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaccoService(db)
	ctx := context.Background()

	founder := createTestUser(t, db, models.RoleMember)
	chair := createTestUser(t, db, models.RoleChairperson)

	// No chairperson supplied: the acting principal takes the seat
	sacco, err := svc.Create(ctx, &CreateSaccoInput{
		Name:               "Harambee SACCO",
		RegistrationNumber: "REG-100",
		Location:           "Mombasa",
	}, domain.Principal{ID: founder.ID, Role: founder.Role})
	require.NoError(t, err)
	require.NotNil(t, sacco.ChairpersonID)
	assert.Equal(t, founder.ID, *sacco.ChairpersonID)

	// An explicit chairperson wins over the default
	sacco, err = svc.Create(ctx, &CreateSaccoInput{
		Name:               "Tumaini SACCO",
		RegistrationNumber: "REG-101",
		Location:           "Thika",
		ChairpersonID:      &chair.ID,
	}, domain.Principal{ID: founder.ID, Role: founder.Role})
	require.NoError(t, err)
	require.NotNil(t, sacco.ChairpersonID)
	assert.Equal(t, chair.ID, *sacco.ChairpersonID)

	// An explicit chairperson must exist
	missing := "no-such-user"
	_, err = svc.Create(ctx, &CreateSaccoInput{
		Name:               "Ghost SACCO",
		RegistrationNumber: "REG-102",
		Location:           "Nyeri",
		ChairpersonID:      &missing,
	}, domain.Principal{ID: founder.ID, Role: founder.Role})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateSaccoDuplicateRegistrationNumber(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaccoService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}

	_, err := svc.Create(context.Background(), &CreateSaccoInput{
		Name:               "First",
		RegistrationNumber: "REG-DUP",
		Location:           "Kisumu",
	}, actor)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &CreateSaccoInput{
		Name:               "Second",
		RegistrationNumber: "REG-DUP",
		Location:           "Eldoret",
	}, actor)
	assert.ErrorIs(t, err, domain.ErrRegistrationNumberTaken)
}

func TestStatusTransitionsAreUnconditional(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaccoService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	sacco := createTestSacco(t, db, nil)

	// Suspend straight from active
	got, err := svc.Suspend(ctx, sacco.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.SaccoStatusSuspended, got.Status)

	// Approve from suspended works too, transitions are not guarded
	got, err = svc.Approve(ctx, sacco.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.SaccoStatusActive, got.Status)

	// Approving an already active SACCO is a no-op success
	got, err = svc.Approve(ctx, sacco.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.SaccoStatusActive, got.Status)

	got, err = svc.Reactivate(ctx, sacco.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.SaccoStatusActive, got.Status)
}

func TestStatusChangeForbiddenForNonSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaccoService(db)

	chair := createTestUser(t, db, models.RoleChairperson)
	sacco := createTestSacco(t, db, &chair.ID)

	_, err := svc.Approve(context.Background(), sacco.ID, domain.Principal{ID: chair.ID, Role: chair.Role})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteSaccoGuardedByMembers(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaccoService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	sacco := createTestSacco(t, db, nil)
	user := createTestUser(t, db, models.RoleMember)
	createTestMember(t, db, user.ID, sacco.ID, decimal.Zero)

	err := svc.Delete(ctx, sacco.ID, actor)
	assert.ErrorIs(t, err, domain.ErrSaccoHasMembers)

	empty := createTestSacco(t, db, nil)
	require.NoError(t, svc.Delete(ctx, empty.ID, actor))

	_, err = svc.GetByID(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrSaccoNotFound)
}

func TestUpdateSaccoRegistrationNumberConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaccoService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	first := createTestSacco(t, db, nil)
	second := createTestSacco(t, db, nil)

	_, err := svc.Update(ctx, second.ID, &UpdateSaccoInput{
		RegistrationNumber: &first.RegistrationNumber,
	}, actor)
	assert.ErrorIs(t, err, domain.ErrRegistrationNumberTaken)

	// Re-submitting the SACCO's own number is not a conflict
	got, err := svc.Update(ctx, second.ID, &UpdateSaccoInput{
		RegistrationNumber: &second.RegistrationNumber,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, second.RegistrationNumber, got.RegistrationNumber)
}
