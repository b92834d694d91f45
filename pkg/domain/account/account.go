// Package account holds the Account aggregate together with its append-only
// transaction and audit records, and the invariant checks every balance
// mutation must pass.
package account

import (
	"errors"
	"regexp"
	"time"

	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount is returned when a deposit or transfer amount is not
	// strictly positive.
	ErrInvalidAmount = errors.New("transaction amount must be positive")
	// ErrInsufficientFunds is returned when a debit would drive the balance
	// below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSelfTransfer is returned when a transfer resolves to the sender's
	// own account.
	ErrSelfTransfer = errors.New("cannot transfer to own account")
	// ErrRecipientNotFound is returned when a transfer's recipient account
	// number does not exist.
	ErrRecipientNotFound = errors.New("recipient account number not found")
)

// InitialGrant is the fixed opening balance credited to every new account.
var InitialGrant = money.FromKobo(10000 * 100)

var accountNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

// Account is the aggregate root for a customer: identity, credential and
// balance.
//
// Invariants:
//   - Email and account number are unique across the bank (store-enforced).
//   - The balance is never negative after a committed operation.
//   - The balance is mutated only through the transaction engine, which pairs
//     every mutation with exactly one ledger record.
type Account struct {
	ID            uuid.UUID
	Email         string
	Credential    string // bcrypt hash, never the plain secret
	AccountNumber string
	Balance       money.Money
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Builder constructs Account instances, both for new registrations and for
// hydration from the store.
type Builder struct {
	id            uuid.UUID
	email         string
	credential    string
	accountNumber string
	balance       money.Money
	createdAt     time.Time
	updatedAt     time.Time
}

// New creates a Builder with a fresh ID and the initial grant as balance.
func New() *Builder {
	now := time.Now().UTC()
	return &Builder{
		id:        uuid.New(),
		balance:   InitialGrant,
		createdAt: now,
		updatedAt: now,
	}
}

// WithID sets the account ID, for hydration from the store.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithEmail sets the account's email identity. Mandatory.
func (b *Builder) WithEmail(email string) *Builder {
	b.email = email
	return b
}

// WithCredential sets the hashed credential. Mandatory.
func (b *Builder) WithCredential(hash string) *Builder {
	b.credential = hash
	return b
}

// WithAccountNumber sets the 10-digit external account number. Mandatory.
func (b *Builder) WithAccountNumber(number string) *Builder {
	b.accountNumber = number
	return b
}

// WithBalance overrides the balance. Only for hydration and test setup; new
// accounts always start at the initial grant.
func (b *Builder) WithBalance(balance money.Money) *Builder {
	b.balance = balance
	return b
}

// WithCreatedAt sets the creation timestamp, for hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp, for hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the aggregate's invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if b.email == "" {
		return nil, errors.New("email is required")
	}
	if b.credential == "" {
		return nil, errors.New("credential is required")
	}
	if !accountNumberPattern.MatchString(b.accountNumber) {
		return nil, errors.New("account number must be exactly 10 digits")
	}
	if b.balance.IsNegative() {
		return nil, errors.New("balance cannot be negative")
	}
	return &Account{
		ID:            b.id,
		Email:         b.email,
		Credential:    b.credential,
		AccountNumber: b.accountNumber,
		Balance:       b.balance,
		CreatedAt:     b.createdAt,
		UpdatedAt:     b.updatedAt,
	}, nil
}

func validateAmount(amount money.Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDeposit checks the invariants for crediting this account.
func (a *Account) ValidateDeposit(amount money.Money) error {
	return validateAmount(amount)
}

// ValidateWithdrawal checks the invariants for debiting this account.
// The balance must never go negative.
func (a *Account) ValidateWithdrawal(amount money.Money) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateTransfer checks every invariant for moving funds from this account
// to dest: a known recipient, not the sender itself, a positive amount, and
// sufficient funds.
func (a *Account) ValidateTransfer(dest *Account, amount money.Money) error {
	if dest == nil {
		return ErrRecipientNotFound
	}
	if a.ID == dest.ID {
		return ErrSelfTransfer
	}
	return a.ValidateWithdrawal(amount)
}
