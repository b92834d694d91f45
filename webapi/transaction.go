package webapi

import (
	"github.com/abbeysbank/banking/pkg/domain/money"
	transactionsvc "github.com/abbeysbank/banking/pkg/service/transaction"
	"github.com/gofiber/fiber/v2"
)

// DepositInput is the deposit request body, amount in naira.
type DepositInput struct {
	Amount float64 `json:"amount" validate:"required"`
}

// TransferInput is the transfer request body, amount in naira.
type TransferInput struct {
	AccountNumber string  `json:"account_number" validate:"required,len=10,numeric"`
	Amount        float64 `json:"amount" validate:"required"`
}

// Deposit credits the authenticated account and returns the new balance.
func Deposit(svc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := currentAccountID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", nil)
		}
		input := new(DepositInput)
		if err := BindAndValidate(c, input); err != nil {
			return err
		}
		amount, err := money.New(input.Amount)
		if err != nil {
			return DomainError(c, err)
		}
		balance, err := svc.Deposit(c.Context(), accountID, amount)
		countOp("deposit", err)
		if err != nil {
			return DomainError(c, err)
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Deposit committed",
			Data:    fiber.Map{"balance": balance.Naira()},
		})
	}
}

// TransferPreview validates a transfer and returns the recipient identity for
// the client to confirm against. No state is touched; a client that does not
// confirm simply never calls the transfer endpoint.
func TransferPreview(svc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		plan, err := planFromRequest(c, svc)
		if err != nil {
			return err
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Transfer preview",
			Data: fiber.Map{
				"recipient_email":          plan.RecipientEmail,
				"recipient_account_number": plan.RecipientAccountNumber,
				"amount":                   plan.Amount.Naira(),
			},
		})
	}
}

// Transfer executes a confirmed transfer and returns the sender's new
// balance. The plan is rebuilt and every invariant re-checked under row
// locks, so stale previews degrade to clean rejections.
func Transfer(svc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		plan, err := planFromRequest(c, svc)
		if err != nil {
			return err
		}
		balance, err := svc.ExecuteTransfer(c.Context(), plan)
		countOp("transfer", err)
		if err != nil {
			return DomainError(c, err)
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Transfer committed",
			Data:    fiber.Map{"balance": balance.Naira()},
		})
	}
}

func planFromRequest(c *fiber.Ctx, svc *transactionsvc.Service) (*transactionsvc.TransferPlan, error) {
	accountID, err := currentAccountID(c)
	if err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", nil)
	}
	input := new(TransferInput)
	if err := BindAndValidate(c, input); err != nil {
		return nil, err
	}
	amount, err := money.New(input.Amount)
	if err != nil {
		return nil, DomainError(c, err)
	}
	plan, err := svc.PlanTransfer(c.Context(), accountID, input.AccountNumber, amount)
	if err != nil {
		return nil, DomainError(c, err)
	}
	return plan, nil
}
