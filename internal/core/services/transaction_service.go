package services

import (
	"context"
	"errors"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"

	"gorm.io/gorm"
)

// TransactionService is the read surface over the append-only
// transaction log. There is deliberately no update or delete path.
type TransactionService struct {
	txRepo *repositories.TransactionRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txRepo *repositories.TransactionRepository) *TransactionService {
	return &TransactionService{txRepo: txRepo}
}

// GetByID gets a transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// List lists transactions newest-first with optional filters
func (s *TransactionService) List(ctx context.Context, filter *repositories.TransactionFilter) ([]*models.Transaction, error) {
	return s.txRepo.List(ctx, filter)
}
