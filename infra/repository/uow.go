package repository

import (
	"context"

	"github.com/pshBlack/bank-backend/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Handing repositories out through the UoW guarantees that every
// operation inside a Do scope runs on the same DB transaction, which is what
// makes row locks taken by GetForUpdate hold until commit or rollback.
type UoW struct {
	db *gorm.DB
}

// NewUoW creates a unit of work over the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside one store transaction. fn receives a UnitOfWork whose
// repositories share that transaction; returning an error rolls everything
// back, releasing any row locks taken along the way.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: tx})
	})
}

// AccountRepository returns an account repository on this scope's session.
func (u *UoW) AccountRepository() repository.AccountRepository {
	return NewAccountRepository(u.db)
}

// TransactionRepository returns a ledger repository on this scope's session.
func (u *UoW) TransactionRepository() repository.TransactionRepository {
	return NewTransactionRepository(u.db)
}

// UserRepository returns a user repository on this scope's session.
func (u *UoW) UserRepository() repository.UserRepository {
	return NewUserRepository(u.db)
}
