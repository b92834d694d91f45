package webapi

import (
	authsvc "github.com/abbeysbank/banking/pkg/service/auth"
	"github.com/gofiber/fiber/v2"
)

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an account and returns a signed token.
func Login(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(LoginInput)
		if err := BindAndValidate(c, input); err != nil {
			return err
		}
		a, err := svc.Login(c.Context(), input.Email, input.Password)
		if err != nil {
			return DomainError(c, err)
		}
		token, err := svc.GenerateToken(a)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", err.Error())
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Login successful",
			Data: fiber.Map{
				"token":          token,
				"account_number": a.AccountNumber,
			},
		})
	}
}

// Logout records a logout audit event for the authenticated account.
func Logout(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := currentAccountID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", nil)
		}
		if err := svc.Logout(c.Context(), accountID); err != nil {
			return DomainError(c, err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Logout recorded"})
	}
}
