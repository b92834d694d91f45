// Package transaction is the transaction engine: every balance mutation runs
// as one atomic unit that pairs the balance change with its ledger record.
// Transfers move funds between two accounts with a fixed lock ordering and
// an explicit plan/execute protocol so user confirmation never happens while
// locks are held.
package transaction

import (
	"context"
	"errors"
	"log/slog"

	"github.com/abbeysbank/banking/pkg/domain"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/abbeysbank/banking/pkg/repository"
	"github.com/google/uuid"
)

// Service implements deposits, transfers and history over the unit of work.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a transaction engine.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// TransferPlan is a validated, side-effect-free preview of a transfer. The
// caller collects confirmation between PlanTransfer and ExecuteTransfer;
// declining simply means never executing the plan.
type TransferPlan struct {
	SenderID               uuid.UUID
	RecipientID            uuid.UUID
	RecipientEmail         string
	RecipientAccountNumber string
	Amount                 money.Money
}

// Deposit credits the account and appends the matching ledger record in one
// atomic unit. Returns the new balance.
func (s *Service) Deposit(ctx context.Context, accountID uuid.UUID, amount money.Money) (money.Money, error) {
	log := s.logger.With("context", "Deposit", "account_id", accountID)
	if !amount.IsPositive() {
		return money.Zero, domainaccount.ErrInvalidAmount
	}

	var newBalance money.Money
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts := uow.AccountRepository()
		a, err := accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if err := a.ValidateDeposit(amount); err != nil {
			return err
		}
		balance, err := accounts.AdjustBalance(ctx, accountID, amount)
		if err != nil {
			return err
		}
		rec := domainaccount.NewTransactionRecord(accountID, domainaccount.KindDeposit, amount, balance)
		if err := uow.LedgerRepository().Append(ctx, rec); err != nil {
			return err
		}
		newBalance = balance
		return nil
	})
	if err != nil {
		log.Warn("deposit rejected", "error", err)
		return money.Zero, err
	}
	log.Info("deposit committed", "amount", amount.String(), "balance", newBalance.String())
	return newBalance, nil
}

// PlanTransfer validates a transfer and returns a preview without touching
// any state: the amount must be positive and covered by the sender's
// balance, the recipient must exist and must not be the sender.
func (s *Service) PlanTransfer(
	ctx context.Context,
	senderID uuid.UUID,
	recipientAccountNumber string,
	amount money.Money,
) (*TransferPlan, error) {
	if !amount.IsPositive() {
		return nil, domainaccount.ErrInvalidAmount
	}
	accounts := s.uow.AccountRepository()
	sender, err := accounts.Get(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(sender.Balance) {
		return nil, domainaccount.ErrInsufficientFunds
	}
	recipient, err := accounts.GetByAccountNumber(ctx, recipientAccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domainaccount.ErrRecipientNotFound
		}
		return nil, err
	}
	if err := sender.ValidateTransfer(recipient, amount); err != nil {
		return nil, err
	}
	return &TransferPlan{
		SenderID:               senderID,
		RecipientID:            recipient.ID,
		RecipientEmail:         recipient.Email,
		RecipientAccountNumber: recipient.AccountNumber,
		Amount:                 amount,
	}, nil
}

// ExecuteTransfer commits a confirmed plan: debit plus transfer_out record,
// credit plus transfer_in record, all in one atomic unit. Both account rows
// are locked in ascending id order and every invariant is re-checked under
// the locks, so a plan that went stale degrades to a clean rejection, never
// a partial write. Returns the sender's new balance.
func (s *Service) ExecuteTransfer(ctx context.Context, plan *TransferPlan) (money.Money, error) {
	if plan == nil {
		return money.Zero, domainaccount.ErrInvalidAmount
	}
	log := s.logger.With("context", "ExecuteTransfer",
		"sender_id", plan.SenderID, "recipient_id", plan.RecipientID)
	if !plan.Amount.IsPositive() {
		return money.Zero, domainaccount.ErrInvalidAmount
	}

	var senderBalance money.Money
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts := uow.AccountRepository()
		locked, err := accounts.GetManyForUpdate(ctx, []uuid.UUID{plan.SenderID, plan.RecipientID})
		if err != nil {
			return err
		}
		sender, ok := locked[plan.SenderID]
		if !ok {
			return domain.ErrNotFound
		}
		recipient, ok := locked[plan.RecipientID]
		if !ok {
			return domainaccount.ErrRecipientNotFound
		}
		if err := sender.ValidateTransfer(recipient, plan.Amount); err != nil {
			return err
		}

		ledger := uow.LedgerRepository()

		debited, err := accounts.AdjustBalance(ctx, sender.ID, plan.Amount.Negate())
		if err != nil {
			return err
		}
		out := domainaccount.NewTransactionRecord(
			sender.ID, domainaccount.KindTransferOut, plan.Amount.Negate(), debited)
		if err := ledger.Append(ctx, out); err != nil {
			return err
		}

		credited, err := accounts.AdjustBalance(ctx, recipient.ID, plan.Amount)
		if err != nil {
			return err
		}
		in := domainaccount.NewTransactionRecord(
			recipient.ID, domainaccount.KindTransferIn, plan.Amount, credited)
		if err := ledger.Append(ctx, in); err != nil {
			return err
		}

		senderBalance = debited
		return nil
	})
	if err != nil {
		log.Warn("transfer rejected", "error", err)
		return money.Zero, err
	}
	log.Info("transfer committed",
		"amount", plan.Amount.String(), "sender_balance", senderBalance.String())
	return senderBalance, nil
}

// History returns the account's ledger records, oldest first.
func (s *Service) History(ctx context.Context, accountID uuid.UUID) ([]*domainaccount.TransactionRecord, error) {
	return s.uow.LedgerRepository().ListByAccount(ctx, accountID)
}
