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

func newTestMemberService(db *gorm.DB) *MemberService {
	return NewMemberService(
		repositories.NewMemberRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewSaccoRepository(db),
		events.NewBus(),
	)
}

func TestEnrollStartsWithZeroBalances(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, nil)

	member, err := svc.Enroll(context.Background(), &EnrollInput{
		UserID:  user.ID,
		SaccoID: sacco.ID,
	}, domain.Principal{ID: admin.ID, Role: admin.Role})
	require.NoError(t, err)

	assert.True(t, member.ShareBalance.IsZero())
	assert.True(t, member.SavingsBalance.IsZero())
}

func TestEnrollWithOpeningBalances(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, nil)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	shares := decimal.NewFromInt(500)
	savings := decimal.NewFromInt(1200)
	member, err := svc.Enroll(ctx, &EnrollInput{
		UserID:         user.ID,
		SaccoID:        sacco.ID,
		ShareBalance:   &shares,
		SavingsBalance: &savings,
	}, actor)
	require.NoError(t, err)

	assert.True(t, member.ShareBalance.Equal(shares))
	assert.True(t, member.SavingsBalance.Equal(savings))

	other := createTestUser(t, db, models.RoleMember)
	negative := decimal.NewFromInt(-1)
	_, err = svc.Enroll(ctx, &EnrollInput{
		UserID:       other.ID,
		SaccoID:      sacco.ID,
		ShareBalance: &negative,
	}, actor)
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)
}

func TestEnrollDuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, nil)
	other := createTestSacco(t, db, nil)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	_, err := svc.Enroll(ctx, &EnrollInput{UserID: user.ID, SaccoID: sacco.ID}, actor)
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, &EnrollInput{UserID: user.ID, SaccoID: sacco.ID}, actor)
	assert.ErrorIs(t, err, domain.ErrMemberAlreadyExists)

	// Same user in a different SACCO is fine
	_, err = svc.Enroll(ctx, &EnrollInput{UserID: user.ID, SaccoID: other.ID}, actor)
	assert.NoError(t, err)
}

func TestEnrollUnknownUserOrSacco(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, nil)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	_, err := svc.Enroll(ctx, &EnrollInput{UserID: "missing", SaccoID: sacco.ID}, actor)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.Enroll(ctx, &EnrollInput{UserID: user.ID, SaccoID: "missing"}, actor)
	assert.ErrorIs(t, err, domain.ErrSaccoNotFound)
}

func TestAdjustBalances(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	chair := createTestUser(t, db, models.RoleChairperson)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, &chair.ID)
	member := createTestMember(t, db, user.ID, sacco.ID, decimal.NewFromInt(500))

	ctx := context.Background()
	superActor := domain.Principal{ID: admin.ID, Role: admin.Role}

	newShares := decimal.NewFromInt(2000)
	got, err := svc.AdjustBalances(ctx, member.ID, &AdjustBalancesInput{ShareBalance: &newShares}, superActor)
	require.NoError(t, err)
	assert.True(t, got.ShareBalance.Equal(newShares))
	assert.True(t, got.SavingsBalance.Equal(decimal.NewFromInt(500)), "untouched balance must not change")

	negative := decimal.NewFromInt(-1)
	_, err = svc.AdjustBalances(ctx, member.ID, &AdjustBalancesInput{SavingsBalance: &negative}, superActor)
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)

	// Chairpersons cannot use the override path
	_, err = svc.AdjustBalances(ctx, member.ID, &AdjustBalancesInput{ShareBalance: &newShares},
		domain.Principal{ID: chair.ID, Role: chair.Role})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
