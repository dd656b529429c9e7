package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain"
	"github.com/pshBlack/bank-backend/pkg/domain/money"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a ledger repository bound to the given session.
func NewTransactionRepository(db *gorm.DB) *transactionRepository {
	return &transactionRepository{db: db}
}

// Create implements repository.TransactionRepository.
func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	m := Transaction{
		ID:          t.ID,
		FromAccount: t.FromAccount,
		ToAccount:   t.ToAccount,
		Amount:      t.Amount.Cents(),
		CreatedAt:   t.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListByAccount implements repository.TransactionRepository.
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	var models []Transaction
	err := r.db.WithContext(ctx).
		Where("from_account = ? OR to_account = ?", accountID, accountID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	transactions := make([]*domain.Transaction, 0, len(models))
	for i := range models {
		m := &models[i]
		transactions = append(transactions, &domain.Transaction{
			ID:          m.ID,
			FromAccount: m.FromAccount,
			ToAccount:   m.ToAccount,
			Amount:      money.FromCents(m.Amount),
			CreatedAt:   m.CreatedAt,
		})
	}
	return transactions, nil
}
