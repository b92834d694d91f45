package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	accountrepo "github.com/abbeysbank/banking/infra/repository/account"
	"github.com/abbeysbank/banking/pkg/domain"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() }) //nolint:errcheck

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return db, mock
}

func accountRows(id uuid.UUID) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "email", "password", "account_number", "balance", "created_at", "updated_at",
	}).AddRow(id, "ada@example.com", "hash", "8012345678", int64(1_000_000), now, now)
}

func TestGetByAccountNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountrepo.New(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE account_number = \$1`).
		WithArgs("8012345678", 1).
		WillReturnRows(accountRows(id))

	a, err := repo.GetByAccountNumber(context.Background(), "8012345678")
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, int64(1_000_000), a.Balance.Kobo())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByAccountNumber_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountrepo.New(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE account_number = \$1`).
		WithArgs("9999999999", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByAccountNumber(context.Background(), "9999999999")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountrepo.New(db)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(int64(50_000), sqlmock.AnyArg(), id, int64(50_000)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(int64(1_050_000)))

	balance, err := repo.AdjustBalance(context.Background(), id, money.FromKobo(50_000))
	require.NoError(t, err)
	assert.Equal(t, int64(1_050_000), balance.Kobo())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustBalance_InsufficientFunds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountrepo.New(db)
	id := uuid.New()

	// The guard rejects the update, then the follow-up read finds the row, so
	// the rejection is insufficient funds rather than not-found.
	mock.ExpectQuery(`UPDATE users`).
		WithArgs(int64(-2_000_000), sqlmock.AnyArg(), id, int64(-2_000_000)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(accountRows(id))

	_, err := repo.AdjustBalance(context.Background(), id, money.FromKobo(-2_000_000))
	require.ErrorIs(t, err, domainaccount.ErrInsufficientFunds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustBalance_UnknownAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountrepo.New(db)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(int64(100), sqlmock.AnyArg(), id, int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.AdjustBalance(context.Background(), id, money.FromKobo(100))
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
