package account_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/abbeysbank/banking/infra/repository/memory"
	"github.com/abbeysbank/banking/pkg/domain"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/service/account"
	"github.com/abbeysbank/banking/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *account.Service {
	t.Helper()
	return account.New(memory.New().UoW(), slog.Default())
}

func TestRegister(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	a, err := svc.Register(ctx, "ada@example.com", "Secret123", "08012345678")
	require.NoError(t, err)
	assert.Equal(t, "8012345678", a.AccountNumber)
	assert.True(t, a.Balance.Equals(domainaccount.InitialGrant), "initial grant credited")
	assert.NotEqual(t, "Secret123", a.Credential, "credential stored hashed")
	assert.True(t, utils.CheckPasswordHash("Secret123", a.Credential))
}

func TestRegister_InvalidPhone(t *testing.T) {
	svc := newService(t)
	_, err := svc.Register(context.Background(), "ada@example.com", "Secret123", "12345")
	require.ErrorIs(t, err, utils.ErrInvalidPhoneNumber)
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", "Secret123", "08012345678")
	require.NoError(t, err)

	t.Run("same email", func(t *testing.T) {
		_, err := svc.Register(ctx, "ada@example.com", "Secret123", "08099999999")
		require.ErrorIs(t, err, domain.ErrDuplicateIdentity)
	})
	t.Run("same account number", func(t *testing.T) {
		_, err := svc.Register(ctx, "grace@example.com", "Secret123", "08012345678")
		require.ErrorIs(t, err, domain.ErrDuplicateIdentity)
	})
	t.Run("no account is created on rejection", func(t *testing.T) {
		_, err := svc.GetByAccountNumber(ctx, "8099999999")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLookups(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "ada@example.com", "Secret123", "08012345678")
	require.NoError(t, err)

	byNumber, err := svc.GetByAccountNumber(ctx, "8012345678")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	byID, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)

	balance, err := svc.GetBalance(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equals(domainaccount.InitialGrant))
}
