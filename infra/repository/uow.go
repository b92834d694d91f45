// Package repository provides the GORM-backed unit of work. Repositories
// obtained inside Do share one database transaction, which is what makes a
// transfer's debit, credit and two ledger appends a single atomic commit.
package repository

import (
	"context"
	"errors"

	accountrepo "github.com/abbeysbank/banking/infra/repository/account"
	auditrepo "github.com/abbeysbank/banking/infra/repository/audit"
	"github.com/abbeysbank/banking/infra/repository/gormerr"
	ledgerrepo "github.com/abbeysbank/banking/infra/repository/ledger"
	"github.com/abbeysbank/banking/pkg/domain"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/repository"
	"gorm.io/gorm"
)

// UoW implements repository.UnitOfWork over a *gorm.DB.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a unit of work over the shared database handle.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Do runs fn inside one database transaction. A nested Do joins the
// transaction already in progress rather than opening a second one.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
	return mapTransactionError(err)
}

// AccountRepository returns an account repository bound to the current
// session.
func (u *UoW) AccountRepository() repository.AccountRepository {
	return accountrepo.New(u.session())
}

// LedgerRepository returns a ledger repository bound to the current session.
func (u *UoW) LedgerRepository() repository.LedgerRepository {
	return ledgerrepo.New(u.session())
}

// AuditRepository returns an audit repository bound to the current session.
func (u *UoW) AuditRepository() repository.AuditRepository {
	return auditrepo.New(u.session())
}

// mapTransactionError leaves already-mapped domain errors alone and maps
// anything else (begin/commit failures) to a storage fault.
func mapTransactionError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrDuplicateIdentity,
		domain.ErrUnauthorized,
		domain.ErrStorageFault,
		domainaccount.ErrInvalidAmount,
		domainaccount.ErrInsufficientFunds,
		domainaccount.ErrSelfTransfer,
		domainaccount.ErrRecipientNotFound,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return gormerr.MapGormErrorToDomain(err)
}
