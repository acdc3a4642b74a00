package services

import (
	"context"
	"testing"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositCreditsBalanceAndAppendsTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestLedgerService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, nil)
	member := createTestMember(t, db, user.ID, sacco.ID, decimal.Zero)

	actor := domain.Principal{ID: admin.ID, Role: admin.Role}

	deposit, err := svc.Deposit(context.Background(), &DepositInput{
		MemberID: member.ID,
		Amount:   decimal.NewFromInt(15000),
	}, actor)
	require.NoError(t, err)

	var updated models.Member
	require.NoError(t, db.First(&updated, "id = ?", member.ID).Error)
	assert.True(t, updated.SavingsBalance.Equal(decimal.NewFromInt(15000)),
		"savings balance = %s, want 15000", updated.SavingsBalance)

	// Exactly one transaction, linked back to the deposit
	assert.EqualValues(t, 1, countTransactions(t, db, deposit.ID))

	var tx models.Transaction
	require.NoError(t, db.First(&tx, "reference_id = ?", deposit.ID).Error)
	assert.Equal(t, models.TxTypeDeposit, tx.Type)
	assert.Equal(t, sacco.ID, tx.SaccoID)
	require.NotNil(t, tx.MemberID)
	assert.Equal(t, member.ID, *tx.MemberID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(15000)))
}

func TestLedgerDescriptionDefaults(t *testing.T) {
	// An omitted description defaults to "Deposit"/"Withdrawal" on the
	// ledger row and its transaction alike.
	db := setupTestDB(t)
	svc := newTestLedgerService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, nil)
	member := createTestMember(t, db, user.ID, sacco.ID, decimal.Zero)

	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	deposit, err := svc.Deposit(ctx, &DepositInput{MemberID: member.ID, Amount: decimal.NewFromInt(500)}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Deposit", deposit.Description)

	var depositTx models.Transaction
	require.NoError(t, db.First(&depositTx, "reference_id = ?", deposit.ID).Error)
	assert.Equal(t, deposit.Description, depositTx.Description)

	withdrawal, err := svc.Withdraw(ctx, &WithdrawalInput{MemberID: member.ID, Amount: decimal.NewFromInt(200)}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Withdrawal", withdrawal.Description)

	var withdrawalTx models.Transaction
	require.NoError(t, db.First(&withdrawalTx, "reference_id = ?", withdrawal.ID).Error)
	assert.Equal(t, withdrawal.Description, withdrawalTx.Description)

	// A supplied description is kept verbatim
	custom, err := svc.Deposit(ctx, &DepositInput{
		MemberID:    member.ID,
		Amount:      decimal.NewFromInt(100),
		Description: "Monthly contribution",
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Monthly contribution", custom.Description)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestLedgerService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := svc.Deposit(context.Background(), &DepositInput{
			MemberID: "irrelevant",
			Amount:   amount,
		}, actor)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
}

func TestDepositUnknownMember(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestLedgerService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	actor := domain.Principal{ID: admin.ID, Role: admin.Role}

	_, err := svc.Deposit(context.Background(), &DepositInput{
		MemberID: "no-such-member",
		Amount:   decimal.NewFromInt(100),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestSavingsLedgerRoundTrip(t *testing.T) {
	// Two deposits of 15000 and 20000 followed by a withdrawal of 10000
	// leave a balance of 25000 and exactly three transactions.
	db := setupTestDB(t)
	svc := newTestLedgerService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, nil)
	member := createTestMember(t, db, user.ID, sacco.ID, decimal.Zero)

	actor := domain.Principal{ID: admin.ID, Role: admin.Role}
	ctx := context.Background()

	_, err := svc.Deposit(ctx, &DepositInput{MemberID: member.ID, Amount: decimal.NewFromInt(15000)}, actor)
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, &DepositInput{MemberID: member.ID, Amount: decimal.NewFromInt(20000)}, actor)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, &WithdrawalInput{MemberID: member.ID, Amount: decimal.NewFromInt(10000)}, actor)
	require.NoError(t, err)

	var updated models.Member
	require.NoError(t, db.First(&updated, "id = ?", member.ID).Error)
	assert.True(t, updated.SavingsBalance.Equal(decimal.NewFromInt(25000)),
		"savings balance = %s, want 25000", updated.SavingsBalance)

	var total int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&total).Error)
	assert.EqualValues(t, 3, total)
}

func TestWithdrawInsufficientBalanceLeavesStateUnchanged(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestLedgerService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, nil)
	member := createTestMember(t, db, user.ID, sacco.ID, decimal.NewFromInt(100))

	actor := domain.Principal{ID: admin.ID, Role: admin.Role}

	_, err := svc.Withdraw(context.Background(), &WithdrawalInput{
		MemberID: member.ID,
		Amount:   decimal.NewFromInt(150),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrInsufficientSavings)

	var updated models.Member
	require.NoError(t, db.First(&updated, "id = ?", member.ID).Error)
	assert.True(t, updated.SavingsBalance.Equal(decimal.NewFromInt(100)))

	var withdrawals, transactions int64
	require.NoError(t, db.Model(&models.Withdrawal{}).Count(&withdrawals).Error)
	require.NoError(t, db.Model(&models.Transaction{}).Count(&transactions).Error)
	assert.Zero(t, withdrawals)
	assert.Zero(t, transactions)
}

func TestWithdrawAuthorization(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestLedgerService(db)

	chair := createTestUser(t, db, models.RoleChairperson)
	otherChair := createTestUser(t, db, models.RoleChairperson)
	admin := createTestUser(t, db, models.RoleSuperAdmin)
	plainMember := createTestUser(t, db, models.RoleMember)

	sacco := createTestSacco(t, db, &chair.ID)
	user := createTestUser(t, db, models.RoleMember)
	member := createTestMember(t, db, user.ID, sacco.ID, decimal.NewFromInt(10000))

	cases := []struct {
		name    string
		actor   domain.Principal
		wantErr error
	}{
		{"super admin", domain.Principal{ID: admin.ID, Role: admin.Role}, nil},
		{"own chairperson", domain.Principal{ID: chair.ID, Role: chair.Role}, nil},
		{"other chairperson", domain.Principal{ID: otherChair.ID, Role: otherChair.Role}, domain.ErrForbidden},
		{"plain member", domain.Principal{ID: plainMember.ID, Role: plainMember.Role}, domain.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Withdraw(context.Background(), &WithdrawalInput{
				MemberID: member.ID,
				Amount:   decimal.NewFromInt(100),
			}, tc.actor)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
