// Package account implements the account repository over GORM/Postgres.
package account

import (
	"context"
	"errors"
	"time"

	"github.com/abbeysbank/banking/infra/repository/gormerr"
	"github.com/abbeysbank/banking/pkg/domain"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/abbeysbank/banking/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// New creates an account repository bound to the given session. When the
// session is a transaction, every operation joins it.
func New(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *domainaccount.Account) error {
	row := mapDomainToModel(a)
	return gormerr.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*domainaccount.Account, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domainaccount.Account, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *accountRepository) GetByAccountNumber(ctx context.Context, number string) (*domainaccount.Account, error) {
	return r.getOne(ctx, "account_number = ?", number)
}

func (r *accountRepository) getOne(ctx context.Context, query string, arg any) (*domainaccount.Account, error) {
	var row Account
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		return nil, gormerr.MapGormErrorToDomain(err)
	}
	return mapModelToDomain(&row)
}

// GetManyForUpdate locks the rows with SELECT ... FOR UPDATE. The ORDER BY id
// fixes the lock acquisition order, so two transfers touching the same pair
// of accounts in opposite directions cannot deadlock.
func (r *accountRepository) GetManyForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domainaccount.Account, error) {
	var rows []Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id IN ?", ids).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, gormerr.MapGormErrorToDomain(err)
	}
	result := make(map[uuid.UUID]*domainaccount.Account, len(rows))
	for i := range rows {
		a, err := mapModelToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		result[a.ID] = a
	}
	return result, nil
}

// AdjustBalance applies the delta in a single guarded UPDATE so the
// non-negative balance invariant holds without a read-modify-write race. The
// new balance comes back from the same statement, which keeps ledger
// snapshots exact.
func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta money.Money) (money.Money, error) {
	var newBalance int64
	res := r.db.WithContext(ctx).Raw(
		`UPDATE users
		    SET balance = balance + ?, updated_at = ?
		  WHERE id = ? AND balance + ? >= 0
		 RETURNING balance`,
		delta.Kobo(), time.Now().UTC(), id, delta.Kobo(),
	).Scan(&newBalance)
	if res.Error != nil {
		return money.Zero, gormerr.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the account does not exist or the guard rejected a negative
		// result; a follow-up read inside the same transaction disambiguates.
		if _, err := r.Get(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return money.Zero, domain.ErrNotFound
			}
			return money.Zero, err
		}
		return money.Zero, domainaccount.ErrInsufficientFunds
	}
	return money.FromKobo(newBalance), nil
}
