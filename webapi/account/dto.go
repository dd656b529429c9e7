package account

import (
	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain"
)

// CreateAccountRequest is the body of POST /accounts.
type CreateAccountRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// TransferRequest is the body of POST /transactions. Amount is decimal text;
// a JSON number would force the value through float64 on the way in.
type TransferRequest struct {
	FromAccount uuid.UUID `json:"from_account" validate:"required"`
	ToAccount   uuid.UUID `json:"to_account" validate:"required"`
	Amount      string    `json:"amount" validate:"required"`
}

// AddMoneyRequest is the body of POST /addmoney.
type AddMoneyRequest struct {
	AccountID uuid.UUID `json:"account_id" validate:"required"`
	Amount    string    `json:"amount" validate:"required"`
}

// AccountResponse mirrors the original wire shape {id, user_id, balance}.
type AccountResponse struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Balance string    `json:"balance"`
}

// NewAccountResponse maps a domain account onto the wire shape.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:      a.ID,
		UserID:  a.UserID,
		Balance: a.Balance.String(),
	}
}
