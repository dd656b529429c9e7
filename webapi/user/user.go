// Package user exposes user registration, login and lookup over HTTP.
package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	accountsvc "github.com/pshBlack/bank-backend/pkg/service/account"
	usersvc "github.com/pshBlack/bank-backend/pkg/service/user"
	"github.com/pshBlack/bank-backend/webapi/account"
	"github.com/pshBlack/bank-backend/webapi/common"
)

// Routes registers the user endpoints:
//
//   - POST   /register  : create a user
//   - POST   /login     : verify credentials, return the user and their accounts
//   - GET    /users/:id : fetch a user
//   - DELETE /users/:id : delete a user and their accounts
func Routes(app *fiber.App, userSvc *usersvc.Service, accountSvc *accountsvc.Service) {
	app.Post("/register", Register(userSvc))
	app.Post("/login", Login(userSvc, accountSvc))
	app.Get("/users/:id", GetUser(userSvc))
	app.Delete("/users/:id", DeleteUser(userSvc))
}

// Register returns the handler for POST /register.
func Register(svc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		u, err := svc.Register(c.Context(), input.Username, input.Password)
		if err != nil {
			log.Errorf("failed to register user: %v", err)
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Failed to create user", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User created", NewUserResponse(u))
	}
}

// Login returns the handler for POST /login. On success the response carries
// the user and the accounts they own; no session or token is issued here.
func Login(userSvc *usersvc.Service, accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		u, err := userSvc.Authenticate(c.Context(), input.Username, input.Password)
		if err != nil {
			return common.DomainErrorJSON(c, "Login failed", err)
		}
		accounts, err := accountSvc.ListAccounts(c.Context(), u.ID)
		if err != nil {
			log.Errorf("failed to list accounts on login: %v", err)
			return common.DomainErrorJSON(c, "Login failed", err)
		}
		out := make([]account.AccountResponse, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, account.NewAccountResponse(a))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", fiber.Map{
			"user":     NewUserResponse(u),
			"accounts": out,
		})
	}
}

// GetUser returns the handler for GET /users/:id.
func GetUser(svc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c)
		if err != nil {
			return err
		}
		u, err := svc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "User not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User", NewUserResponse(u))
	}
}

// DeleteUser returns the handler for DELETE /users/:id.
func DeleteUser(svc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return common.DomainErrorJSON(c, "Failed to delete user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User deleted", nil)
	}
}
