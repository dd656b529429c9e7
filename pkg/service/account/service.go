// Package account implements the money-transfer subsystem: atomic peer-to-peer
// transfers, the single-account funding operation, and the account queries the
// HTTP layer exposes.
//
// Every balance mutation goes through one UnitOfWork scope and the row locks
// taken inside it; there is no cached in-memory balance state anywhere.
package account

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain"
	"github.com/pshBlack/bank-backend/pkg/domain/money"
	"github.com/pshBlack/bank-backend/pkg/repository"
)

// Service provides account creation, funding, transfers and ledger queries.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a Service with a UnitOfWork and logger.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateAccount creates a zero-balance account owned by the given user.
func (s *Service) CreateAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	a := domain.NewAccount(userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		return uow.AccountRepository().Create(ctx, a)
	})
	if err != nil {
		s.logger.Error("create account failed", "userID", userID, "error", err)
		return nil, classifyStorageErr(err)
	}
	s.logger.Info("account created", "accountID", a.ID, "userID", userID)
	return a, nil
}

// Transfer atomically debits one account and credits another, appending one
// ledger record for the completed transfer.
//
// Both rows are locked in ascending identifier order regardless of transfer
// direction; that fixed order is the sole deadlock-avoidance mechanism and
// must be preserved at any future multi-account lock site. Failures surface
// as typed errors with every effect rolled back; the engine never retries,
// so a caller retrying a reported failure cannot double-apply a transfer.
func (s *Service) Transfer(
	ctx context.Context,
	fromID, toID uuid.UUID,
	amountText string,
) (*domain.Transaction, error) {
	logger := s.logger.With("fromID", fromID, "toID", toID)

	if fromID == toID {
		return nil, domain.ErrSameAccount
	}
	amount, err := money.Parse(amountText)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}

	var record *domain.Transaction
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts := uow.AccountRepository()

		first, second := lockOrder(fromID, toID)
		locked := map[uuid.UUID]*domain.Account{}
		for _, id := range []uuid.UUID{first, second} {
			a, err := accounts.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			locked[id] = a
		}
		from, to := locked[fromID], locked[toID]

		if from.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		if err := accounts.UpdateBalance(ctx, from.ID, from.Balance.Subtract(amount)); err != nil {
			return err
		}
		if err := accounts.UpdateBalance(ctx, to.ID, to.Balance.Add(amount)); err != nil {
			return err
		}

		record = domain.NewTransaction(fromID, toID, amount)
		return uow.TransactionRepository().Create(ctx, record)
	})
	if err != nil {
		logger.Error("transfer failed", "amount", amountText, "error", err)
		return nil, classifyStorageErr(err)
	}

	logger.Info("transfer completed", "transactionID", record.ID, "amount", amount)
	return record, nil
}

// AddFunds atomically credits a single account.
//
// Unlike Transfer it writes no ledger record: a funding credit has no
// counterparty account, and the source system kept that asymmetry on purpose
// (a collaborator may log credits separately).
func (s *Service) AddFunds(
	ctx context.Context,
	accountID uuid.UUID,
	amountText string,
) (*domain.Account, error) {
	amount, err := money.Parse(amountText)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}

	var funded *domain.Account
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts := uow.AccountRepository()
		a, err := accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		a.Balance = a.Balance.Add(amount)
		if err := accounts.UpdateBalance(ctx, a.ID, a.Balance); err != nil {
			return err
		}
		funded = a
		return nil
	})
	if err != nil {
		s.logger.Error("add funds failed", "accountID", accountID, "amount", amountText, "error", err)
		return nil, classifyStorageErr(err)
	}

	s.logger.Info("funds added", "accountID", accountID, "amount", amount, "balance", funded.Balance)
	return funded, nil
}

// ListAccounts returns all accounts owned by the given user.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		accounts, err = uow.AccountRepository().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, classifyStorageErr(err)
	}
	return accounts, nil
}

// GetTransactions returns the ledger records naming the account as source or
// destination, newest first. An account with no history yields an empty
// slice, not an error.
func (s *Service) GetTransactions(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		transactions, err = uow.TransactionRepository().ListByAccount(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, classifyStorageErr(err)
	}
	return transactions, nil
}

// lockOrder returns the two ids in ascending byte order.
func lockOrder(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// classifyStorageErr passes the engine's typed failures through untouched and
// wraps everything else as ErrStorageUnavailable, so callers can tell a
// deterministic rejection from a store failure that is safe to retry.
func classifyStorageErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
}
