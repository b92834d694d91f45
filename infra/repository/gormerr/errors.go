// Package gormerr converts GORM errors to domain errors so storage concerns
// never leak past the repository layer.
package gormerr

import (
	"errors"
	"fmt"

	"github.com/abbeysbank/banking/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors. The error
// chain is walked because GORM wraps driver errors.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}

	currentErr := err
	for currentErr != nil {
		switch {
		case errors.Is(currentErr, gorm.ErrDuplicatedKey):
			return domain.ErrDuplicateIdentity
		case errors.Is(currentErr, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		}
		currentErr = errors.Unwrap(currentErr)
	}

	// Anything unrecognised is a storage fault; the unit of work has already
	// rolled back by the time callers see it.
	return fmt.Errorf("%w: %v", domain.ErrStorageFault, err)
}

// WrapError wraps a GORM operation and maps its error.
//
// Usage:
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(row).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}
