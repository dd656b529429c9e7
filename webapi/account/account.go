// Package account exposes the ledger over HTTP: account creation, funding,
// transfers and transaction history.
package account

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	accountsvc "github.com/pshBlack/bank-backend/pkg/service/account"
	"github.com/pshBlack/bank-backend/webapi/common"
)

// Routes registers the account and ledger endpoints:
//
//   - POST /accounts                   : create a zero-balance account for a user
//   - GET  /accounts/:id               : list accounts owned by user :id
//   - GET  /accounts/:id/transactions  : ledger history for account :id
//   - POST /transactions               : transfer between two accounts
//   - POST /addmoney                   : credit a single account
func Routes(app *fiber.App, svc *accountsvc.Service) {
	app.Post("/accounts", CreateAccount(svc))
	app.Get("/accounts/:id", GetAccounts(svc))
	app.Get("/accounts/:id/transactions", GetTransactions(svc))
	app.Post("/transactions", MakeTransfer(svc))
	app.Post("/addmoney", AddMoney(svc))
}

// CreateAccount returns the handler for POST /accounts.
func CreateAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := svc.CreateAccount(c.Context(), input.UserID)
		if err != nil {
			log.Errorf("failed to create account: %v", err)
			return common.DomainErrorJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", NewAccountResponse(a))
	}
}

// GetAccounts returns the handler for GET /accounts/:id. The path id is a
// user id; the response lists every account that user owns.
func GetAccounts(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.ParseIDParam(c)
		if err != nil {
			return err
		}
		accounts, err := svc.ListAccounts(c.Context(), userID)
		if err != nil {
			log.Errorf("failed to list accounts: %v", err)
			return common.DomainErrorJSON(c, "Failed to list accounts", err)
		}
		out := make([]AccountResponse, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, NewAccountResponse(a))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts", out)
	}
}

// GetTransactions returns the handler for GET /accounts/:id/transactions.
// History is ordered newest first; an account with no history yields an
// empty array.
func GetTransactions(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := common.ParseIDParam(c)
		if err != nil {
			return err
		}
		transactions, err := svc.GetTransactions(c.Context(), accountID)
		if err != nil {
			log.Errorf("failed to list transactions: %v", err)
			return common.DomainErrorJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", transactions)
	}
}

// MakeTransfer returns the handler for POST /transactions.
func MakeTransfer(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		record, err := svc.Transfer(c.Context(), input.FromAccount, input.ToAccount, input.Amount)
		if err != nil {
			log.Errorf("transfer failed: %v", err)
			return common.DomainErrorJSON(c, "Transfer failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer completed", record)
	}
}

// AddMoney returns the handler for POST /addmoney.
func AddMoney(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[AddMoneyRequest](c)
		if input == nil {
			return err
		}
		a, err := svc.AddFunds(c.Context(), input.AccountID, input.Amount)
		if err != nil {
			log.Errorf("add money failed: %v", err)
			return common.DomainErrorJSON(c, "Failed to add money", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Funds added", NewAccountResponse(a))
	}
}
