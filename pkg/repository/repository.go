// Package repository defines the persistence contracts consumed by the
// services. Implementations live in infra/repository.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain"
	"github.com/pshBlack/bank-backend/pkg/domain/money"
	"github.com/pshBlack/bank-backend/pkg/domain/user"
)

// AccountRepository defines data access for accounts.
//
// GetForUpdate and UpdateBalance are only valid inside a UnitOfWork.Do scope:
// GetForUpdate takes an exclusive row lock that blocks concurrent
// GetForUpdate calls on the same row until the scope commits or rolls back,
// and a balance is never read for mutation through any other path.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// TransactionRepository defines data access for the append-only ledger.
// Records are created exactly once and never mutated.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	// ListByAccount returns records naming the account as source or
	// destination, newest first. No records is an empty slice, not an error.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnitOfWork delimits an atomic scope: every repository operation performed
// through the UnitOfWork passed to fn shares one store transaction, so the
// effects of fn are durable together or not at all. Row locks taken inside
// the scope are released when Do returns.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
	AccountRepository() AccountRepository
	TransactionRepository() TransactionRepository
	UserRepository() UserRepository
}
