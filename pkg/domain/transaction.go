package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain/money"
)

// Transaction is the immutable fact of a completed transfer between two
// accounts. Exactly one record exists per successful transfer, written in the
// same atomic scope as the balance mutations it reflects; it is never updated
// or deleted.
type Transaction struct {
	ID          uuid.UUID   `json:"id"`
	FromAccount uuid.UUID   `json:"from_account"`
	ToAccount   uuid.UUID   `json:"to_account"`
	Amount      money.Money `json:"amount"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewTransaction creates the ledger record for a transfer of amount from one
// account to another. Amount must already be validated as strictly positive.
func NewTransaction(fromAccount, toAccount uuid.UUID, amount money.Money) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		FromAccount: fromAccount,
		ToAccount:   toAccount,
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
	}
}
