// Package domain defines the core entities of the ledger: accounts, the
// immutable transaction record, and the error taxonomy surfaced by the
// transfer engine.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain/money"
)

// Account is a balance-holding record owned by exactly one user. Its balance
// is mutated only by the transfer engine and the funding operation, always
// inside an atomic scope, and can never be observed below zero.
type Account struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Balance   money.Money `json:"balance"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewAccount creates a zero-balance account for the given owner.
func NewAccount(userID uuid.UUID) *Account {
	return &Account{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}
