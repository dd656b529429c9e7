// Package webapi assembles the Fiber application.
package webapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	accountsvc "github.com/pshBlack/bank-backend/pkg/service/account"
	usersvc "github.com/pshBlack/bank-backend/pkg/service/user"
	"github.com/pshBlack/bank-backend/webapi/account"
	"github.com/pshBlack/bank-backend/webapi/common"
	"github.com/pshBlack/bank-backend/webapi/user"
)

// SetupApp builds the Fiber app with panic recovery, a per-IP rate limit and
// all routes registered.
func SetupApp(accountSvc *accountsvc.Service, userSvc *usersvc.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "bank-backend",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, utils.StatusMessage(status), err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	account.Routes(app, accountSvc)
	user.Routes(app, userSvc, accountSvc)

	return app
}
