package gormerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abbeysbank/banking/infra/repository/gormerr"
	"github.com/abbeysbank/banking/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"duplicated key", gorm.ErrDuplicatedKey, domain.ErrDuplicateIdentity},
		{"record not found", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"wrapped duplicated key", fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey), domain.ErrDuplicateIdentity},
		{"unknown becomes storage fault", errors.New("connection reset"), domain.ErrStorageFault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gormerr.MapGormErrorToDomain(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapGormErrorToDomain_KeepsCause(t *testing.T) {
	got := gormerr.MapGormErrorToDomain(errors.New("connection reset"))
	require.ErrorIs(t, got, domain.ErrStorageFault)
	assert.Contains(t, got.Error(), "connection reset")
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, gormerr.WrapError(func() error { return nil }))
	assert.ErrorIs(t, gormerr.WrapError(func() error { return gorm.ErrDuplicatedKey }), domain.ErrDuplicateIdentity)
}
