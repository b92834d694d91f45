// Package ledger implements the append-only transaction history over
// GORM/Postgres.
package ledger

import (
	"context"

	"github.com/abbeysbank/banking/infra/repository/gormerr"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// New creates a ledger repository bound to the given session.
func New(db *gorm.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Append(ctx context.Context, rec *domainaccount.TransactionRecord) error {
	row := mapDomainToModel(rec)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return gormerr.MapGormErrorToDomain(err)
	}
	rec.ID = row.ID
	return nil
}

func (r *ledgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domainaccount.TransactionRecord, error) {
	var rows []Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", accountID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, gormerr.MapGormErrorToDomain(err)
	}
	result := make([]*domainaccount.TransactionRecord, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToDomain(&rows[i]))
	}
	return result, nil
}
