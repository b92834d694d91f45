package webapi

import (
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	accountsvc "github.com/abbeysbank/banking/pkg/service/account"
	transactionsvc "github.com/abbeysbank/banking/pkg/service/transaction"
	"github.com/abbeysbank/banking/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// RegisterInput is the registration request body. The phone number must be in
// a supported format; the account number is derived from it.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type accountResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	AccountNumber string  `json:"account_number"`
	Balance       float64 `json:"balance"`
}

func toAccountResponse(a *domainaccount.Account) accountResponse {
	return accountResponse{
		ID:            a.ID.String(),
		Email:         a.Email,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance.Naira(),
	}
}

// Register creates an account with the fixed initial grant.
func Register(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(RegisterInput)
		if err := BindAndValidate(c, input); err != nil {
			return err
		}
		if !utils.IsStrongPassword(input.Password) {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Weak password",
				"password must be at least 8 characters with an uppercase letter, a lowercase letter and a digit")
		}
		a, err := svc.Register(c.Context(), input.Email, input.Password, input.Phone)
		countOp("register", err)
		if err != nil {
			return DomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "Account created",
			Data:    toAccountResponse(a),
		})
	}
}

// Balance returns the authenticated account's committed balance.
func Balance(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := currentAccountID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", nil)
		}
		balance, err := svc.GetBalance(c.Context(), accountID)
		if err != nil {
			return DomainError(c, err)
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Balance",
			Data:    fiber.Map{"balance": balance.Naira(), "currency": "NGN"},
		})
	}
}

type transactionResponse struct {
	ID           int64   `json:"id"`
	Kind         string  `json:"kind"`
	Amount       float64 `json:"amount"`
	BalanceAfter float64 `json:"balance_after"`
	Timestamp    string  `json:"timestamp"`
}

// Transactions returns the authenticated account's ledger, oldest first.
func Transactions(svc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := currentAccountID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", nil)
		}
		records, err := svc.History(c.Context(), accountID)
		if err != nil {
			return DomainError(c, err)
		}
		out := make([]transactionResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, transactionResponse{
				ID:           rec.ID,
				Kind:         string(rec.Kind),
				Amount:       rec.Amount.Naira(),
				BalanceAfter: rec.BalanceAfter.Naira(),
				Timestamp:    rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Transactions", Data: out})
	}
}
