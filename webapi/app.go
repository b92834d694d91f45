// Package webapi exposes the transaction engine over HTTP. It is an outer
// surface like the terminal shell: all user-facing text is produced here,
// the services return typed results only.
package webapi

import (
	"log/slog"

	accountsvc "github.com/abbeysbank/banking/pkg/service/account"
	authsvc "github.com/abbeysbank/banking/pkg/service/auth"
	transactionsvc "github.com/abbeysbank/banking/pkg/service/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services collects what the HTTP layer needs.
type Services struct {
	Account   *accountsvc.Service
	Auth      *authsvc.Service
	Tx        *transactionsvc.Service
	JwtSecret string
	Logger    *slog.Logger
}

// SetupApp builds the Fiber application with all routes and middleware.
func SetupApp(s Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Abbeys Bank",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return ErrorResponseJSON(c, code, "Request failed", err.Error())
		},
	})
	app.Use(recover.New())

	app.Get("/metrics", MetricsHandler())
	app.Post("/register", Register(s.Account))
	app.Post("/login", Login(s.Auth))

	authed := app.Group("/", Protected(s.JwtSecret))
	authed.Get("/balance", Balance(s.Account))
	authed.Post("/deposit", Deposit(s.Tx))
	authed.Post("/transfer/preview", TransferPreview(s.Tx))
	authed.Post("/transfer", Transfer(s.Tx))
	authed.Get("/transactions", Transactions(s.Tx))
	authed.Post("/logout", Logout(s.Auth))

	return app
}
