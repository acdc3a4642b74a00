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

func loanFixture(t *testing.T) (*LoanService, *models.Member, domain.Principal, context.Context) {
	t.Helper()

	db := setupTestDB(t)
	svc := newTestLoanService(db)

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, nil)
	member := createTestMember(t, db, user.ID, sacco.ID, decimal.NewFromInt(5000))

	return svc, member, domain.Principal{ID: admin.ID, Role: admin.Role}, context.Background()
}

func TestLoanLifecycle(t *testing.T) {
	svc, member, actor, ctx := loanFixture(t)

	loan, err := svc.Apply(ctx, &ApplyInput{
		MemberID:     member.ID,
		Amount:       decimal.NewFromInt(50000),
		InterestRate: decimal.NewFromInt(10),
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusPending, loan.Status)
	assert.True(t, loan.RepaidAmount.IsZero())

	loan, err = svc.Decide(ctx, loan.ID, &DecideInput{Status: models.LoanStatusApproved}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusApproved, loan.Status)
	assert.NotNil(t, loan.ApprovalDate)

	loan, err = svc.Disburse(ctx, loan.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusDisbursed, loan.Status)
	assert.NotNil(t, loan.DisbursementDate)
	assert.EqualValues(t, 1, countTransactions(t, svc.db, loan.ID))

	// Partial repayment keeps the loan disbursed
	loan, err = svc.Repay(ctx, loan.ID, decimal.NewFromInt(30000), actor)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusDisbursed, loan.Status)
	assert.True(t, loan.RepaidAmount.Equal(decimal.NewFromInt(30000)))

	// Crossing the borrowed amount flips the loan to repaid
	loan, err = svc.Repay(ctx, loan.ID, decimal.NewFromInt(25000), actor)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusRepaid, loan.Status)
	assert.True(t, loan.RepaidAmount.Equal(decimal.NewFromInt(55000)))

	// Disbursement + two repayments reference the loan
	assert.EqualValues(t, 3, countTransactions(t, svc.db, loan.ID))

	// Repayments never touch the savings balance
	var m models.Member
	require.NoError(t, svc.db.First(&m, "id = ?", member.ID).Error)
	assert.True(t, m.SavingsBalance.Equal(decimal.NewFromInt(5000)))
}

func TestDecideRejectsPendingOnly(t *testing.T) {
	svc, member, actor, ctx := loanFixture(t)

	loan, err := svc.Apply(ctx, &ApplyInput{
		MemberID:     member.ID,
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(5),
	}, actor)
	require.NoError(t, err)

	loan, err = svc.Decide(ctx, loan.ID, &DecideInput{Status: models.LoanStatusRejected}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusRejected, loan.Status)

	// Rejected is terminal
	_, err = svc.Decide(ctx, loan.ID, &DecideInput{Status: models.LoanStatusApproved}, actor)
	assert.ErrorIs(t, err, domain.ErrLoanAlreadyProcessed)
}

func TestDecideValidatesStatus(t *testing.T) {
	svc, member, actor, ctx := loanFixture(t)

	loan, err := svc.Apply(ctx, &ApplyInput{
		MemberID:     member.ID,
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(5),
	}, actor)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, loan.ID, &DecideInput{Status: "disbursed"}, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidLoanStatus)
}

func TestDecideDoesNotDisburse(t *testing.T) {
	// Recording a disbursement date at approval time must not move the
	// loan to disbursed; only the explicit disbursement step does that.
	svc, member, actor, ctx := loanFixture(t)

	loan, err := svc.Apply(ctx, &ApplyInput{
		MemberID:     member.ID,
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(5),
	}, actor)
	require.NoError(t, err)

	date := loan.ApplicationDate
	loan, err = svc.Decide(ctx, loan.ID, &DecideInput{
		Status:           models.LoanStatusApproved,
		DisbursementDate: &date,
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, models.LoanStatusApproved, loan.Status)
	assert.NotNil(t, loan.DisbursementDate)
	assert.Zero(t, countTransactions(t, svc.db, loan.ID))
}

func TestDisburseRequiresApproved(t *testing.T) {
	svc, member, actor, ctx := loanFixture(t)

	loan, err := svc.Apply(ctx, &ApplyInput{
		MemberID:     member.ID,
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(5),
	}, actor)
	require.NoError(t, err)

	_, err = svc.Disburse(ctx, loan.ID, actor)
	assert.ErrorIs(t, err, domain.ErrLoanNotApproved)
}

func TestRepayRequiresDisbursed(t *testing.T) {
	svc, member, actor, ctx := loanFixture(t)

	loan, err := svc.Apply(ctx, &ApplyInput{
		MemberID:     member.ID,
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(5),
	}, actor)
	require.NoError(t, err)

	_, err = svc.Repay(ctx, loan.ID, decimal.NewFromInt(100), actor)
	assert.ErrorIs(t, err, domain.ErrLoanNotDisbursed)

	loan, err = svc.Decide(ctx, loan.ID, &DecideInput{Status: models.LoanStatusApproved}, actor)
	require.NoError(t, err)

	_, err = svc.Repay(ctx, loan.ID, decimal.NewFromInt(100), actor)
	assert.ErrorIs(t, err, domain.ErrLoanNotDisbursed)
}

func TestApplyValidation(t *testing.T) {
	svc, member, actor, ctx := loanFixture(t)

	_, err := svc.Apply(ctx, &ApplyInput{
		MemberID:     member.ID,
		Amount:       decimal.Zero,
		InterestRate: decimal.NewFromInt(5),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Apply(ctx, &ApplyInput{
		MemberID:     member.ID,
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(150),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidInterestRate)

	_, err = svc.Apply(ctx, &ApplyInput{
		MemberID:     "no-such-member",
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(5),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestLoanDecisionAuthorization(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestLoanService(db)
	ctx := context.Background()

	admin := createTestUser(t, db, models.RoleSuperAdmin)
	chair := createTestUser(t, db, models.RoleChairperson)
	otherChair := createTestUser(t, db, models.RoleChairperson)
	user := createTestUser(t, db, models.RoleMember)
	sacco := createTestSacco(t, db, &chair.ID)
	member := createTestMember(t, db, user.ID, sacco.ID, decimal.Zero)

	tests := []struct {
		name    string
		actor   domain.Principal
		wantErr error
	}{
		{"super admin", domain.Principal{ID: admin.ID, Role: admin.Role}, nil},
		{"own chairperson", domain.Principal{ID: chair.ID, Role: chair.Role}, nil},
		{"other chairperson", domain.Principal{ID: otherChair.ID, Role: otherChair.Role}, domain.ErrForbidden},
		{"plain member", domain.Principal{ID: user.ID, Role: user.Role}, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, err := svc.Apply(ctx, &ApplyInput{
				MemberID:     member.ID,
				Amount:       decimal.NewFromInt(1000),
				InterestRate: decimal.NewFromInt(5),
			}, tt.actor)
			require.NoError(t, err)

			_, err = svc.Decide(ctx, loan.ID, &DecideInput{Status: models.LoanStatusApproved}, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, err = svc.Disburse(ctx, loan.ID, tt.actor)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			_, err = svc.Disburse(ctx, loan.ID, tt.actor)
			assert.NoError(t, err)
		})
	}
}

func TestRepayRejectsNonPositiveAmount(t *testing.T) {
	svc, member, actor, ctx := loanFixture(t)

	loan, err := svc.Apply(ctx, &ApplyInput{
		MemberID:     member.ID,
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(5),
	}, actor)
	require.NoError(t, err)

	_, err = svc.Repay(ctx, loan.ID, decimal.Zero, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}
