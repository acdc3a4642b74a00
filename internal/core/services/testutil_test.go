package services

import (
	"context"
	"fmt"
	"testing"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database and migrates the schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newTestLedgerService(db *gorm.DB) *LedgerService {
	return NewLedgerService(
		db,
		repositories.NewDepositRepository(db),
		repositories.NewWithdrawalRepository(db),
		repositories.NewMemberRepository(db),
		events.NewBus(),
	)
}

func newTestLoanService(db *gorm.DB) *LoanService {
	return NewLoanService(
		db,
		repositories.NewLoanRepository(db),
		repositories.NewMemberRepository(db),
		events.NewBus(),
	)
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test " + role,
		Email:    uuid.NewString() + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSacco(t *testing.T, db *gorm.DB, chairpersonID *string) *models.Sacco {
	t.Helper()

	sacco := &models.Sacco{
		Name:               "Test SACCO",
		RegistrationNumber: "REG-" + uuid.NewString(),
		Location:           "Nairobi",
		Status:             models.SaccoStatusActive,
		ChairpersonID:      chairpersonID,
	}
	require.NoError(t, db.Create(sacco).Error)
	return sacco
}

func createTestMember(t *testing.T, db *gorm.DB, userID, saccoID string, savings decimal.Decimal) *models.Member {
	t.Helper()

	member := &models.Member{
		UserID:         userID,
		SaccoID:        saccoID,
		ShareBalance:   decimal.Zero,
		SavingsBalance: savings,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

func countTransactions(t *testing.T, db *gorm.DB, referenceID string) int64 {
	t.Helper()

	count, err := repositories.NewTransactionRepository(db).CountByReference(context.Background(), referenceID)
	require.NoError(t, err)
	return count
}
