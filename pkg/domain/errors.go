package domain

import "errors"

// Cross-cutting domain errors. Operation-specific errors live with their
// aggregate in pkg/domain/account.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateIdentity is returned when an email or account number is
	// already registered. Uniqueness is enforced by the store's constraints,
	// never by a separate existence probe.
	ErrDuplicateIdentity = errors.New("email or account number already registered")
	// ErrUnauthorized is returned when credentials do not match an account.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrStorageFault is returned when the storage layer fails. A storage
	// fault inside an atomic commit rolls back every write of that commit.
	ErrStorageFault = errors.New("storage fault")
)
