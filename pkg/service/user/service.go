// Package user provides the user-management plumbing around the ledger core:
// registration, lookup, deletion and credential checks.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain/user"
	"github.com/pshBlack/bank-backend/pkg/repository"
)

// Service provides business logic for user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a Service with a UnitOfWork and logger.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates a new user with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*user.User, error) {
	u, err := user.New(username, password)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		return uow.UserRepository().Create(ctx, u)
	})
	if err != nil {
		s.logger.Error("register failed", "username", username, "error", err)
		return nil, err
	}
	s.logger.Info("user registered", "userID", u.ID, "username", username)
	return u, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		u, err = uow.UserRepository().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user and all accounts they own, in one atomic scope.
// Ledger records referencing the deleted accounts stay: they are immutable
// facts of transfers that happened.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.AccountRepository().DeleteByUser(ctx, id); err != nil {
			return err
		}
		return uow.UserRepository().Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("delete user failed", "userID", id, "error", err)
		return err
	}
	s.logger.Info("user deleted", "userID", id)
	return nil
}

// Authenticate verifies a username/password pair and returns the user.
// A missing user and a wrong password both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		u, err = uow.UserRepository().GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}
	if !u.CheckPassword(password) {
		return nil, user.ErrInvalidCredentials
	}
	return u, nil
}
