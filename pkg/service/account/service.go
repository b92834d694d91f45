// Package account provides the account store operations: registration with
// the fixed initial grant, and account lookups.
package account

import (
	"context"
	"log/slog"

	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/abbeysbank/banking/pkg/repository"
	"github.com/abbeysbank/banking/pkg/utils"
	"github.com/google/uuid"
)

// Service implements registration and account queries over the unit of work.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates an account service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates an account: the credential is hashed, the account number
// derived from the phone number, and the balance starts at the initial grant.
// Uniqueness of email and account number is left to the store's constraints;
// a clash surfaces as domain.ErrDuplicateIdentity with no row created.
func (s *Service) Register(ctx context.Context, email, password, phone string) (*domainaccount.Account, error) {
	log := s.logger.With("context", "Register", "email", email)

	number, err := utils.DeriveAccountNumber(phone)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Error("hashing credential failed", "error", err)
		return nil, err
	}
	a, err := domainaccount.New().
		WithEmail(email).
		WithCredential(hash).
		WithAccountNumber(number).
		Build()
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		return uow.AccountRepository().Create(ctx, a)
	})
	if err != nil {
		log.Warn("registration rejected", "error", err)
		return nil, err
	}
	log.Info("account registered", "account_number", a.AccountNumber)
	return a, nil
}

// Get retrieves an account by its internal id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domainaccount.Account, error) {
	return s.uow.AccountRepository().Get(ctx, id)
}

// GetByAccountNumber retrieves an account by its external account number.
func (s *Service) GetByAccountNumber(ctx context.Context, number string) (*domainaccount.Account, error) {
	return s.uow.AccountRepository().GetByAccountNumber(ctx, number)
}

// GetBalance returns the current committed balance.
func (s *Service) GetBalance(ctx context.Context, id uuid.UUID) (money.Money, error) {
	a, err := s.uow.AccountRepository().Get(ctx, id)
	if err != nil {
		return money.Zero, err
	}
	return a.Balance, nil
}
