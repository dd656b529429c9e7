package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain"
	"github.com/pshBlack/bank-backend/pkg/domain/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository bound to the given
// session. Inside a unit of work the session is the scope's transaction.
func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

// Create implements repository.AccountRepository.
func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	return r.db.WithContext(ctx).Create(mapAccountToModel(a)).Error
}

// Get implements repository.AccountRepository.
func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return mapModelToAccount(&m), nil
}

// GetForUpdate implements repository.AccountRepository. It issues
// SELECT ... FOR UPDATE, so the returned row stays exclusively locked until
// the surrounding scope commits or rolls back.
func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return mapModelToAccount(&m), nil
}

// UpdateBalance implements repository.AccountRepository.
func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money) error {
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Update("balance", balance.Cents())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ListByUser implements repository.AccountRepository.
func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	var models []Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&models).Error; err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(models))
	for i := range models {
		accounts = append(accounts, mapModelToAccount(&models[i]))
	}
	return accounts, nil
}

// DeleteByUser implements repository.AccountRepository.
func (r *accountRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Account{}).Error
}

func mapAccountToModel(a *domain.Account) *Account {
	return &Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Balance:   a.Balance.Cents(),
		CreatedAt: a.CreatedAt,
	}
}

func mapModelToAccount(m *Account) *domain.Account {
	return &domain.Account{
		ID:        m.ID,
		UserID:    m.UserID,
		Balance:   money.FromCents(m.Balance),
		CreatedAt: m.CreatedAt,
	}
}
