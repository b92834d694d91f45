// Package repository defines the data access contracts consumed by the
// services. Implementations live under infra/repository.
package repository

import (
	"context"

	"github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/google/uuid"
)

// AccountRepository owns account rows.
type AccountRepository interface {
	// Create inserts a new account. Uniqueness of email and account number
	// is enforced by the store's constraints; a violation surfaces as
	// domain.ErrDuplicateIdentity.
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	GetByAccountNumber(ctx context.Context, number string) (*account.Account, error)
	// GetManyForUpdate loads the given accounts with row locks held until the
	// surrounding unit of work commits. Locks are always acquired in
	// ascending id order regardless of the order of ids, which is what makes
	// opposite-direction transfers deadlock-free.
	GetManyForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*account.Account, error)
	// AdjustBalance applies delta to the stored balance as a single guarded
	// update and returns the new balance. A result below zero is rejected
	// with account.ErrInsufficientFunds and leaves the row untouched.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta money.Money) (money.Money, error)
}

// LedgerRepository owns the append-only transaction history. There are no
// update or delete operations.
type LedgerRepository interface {
	// Append persists a record and fills in its store-assigned ID.
	Append(ctx context.Context, rec *account.TransactionRecord) error
	// ListByAccount returns an account's records oldest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.TransactionRecord, error)
}

// AuditRepository owns the append-only login/logout log.
type AuditRepository interface {
	Append(ctx context.Context, ev *account.AuditEvent) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.AuditEvent, error)
}

// UnitOfWork provides the transaction boundary and repository access in one
// abstraction. Repositories obtained inside Do share one storage transaction,
// so everything written in fn commits or rolls back as a unit. Repositories
// obtained outside Do run in auto-commit mode.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
	AccountRepository() AccountRepository
	LedgerRepository() LedgerRepository
	AuditRepository() AuditRepository
}
