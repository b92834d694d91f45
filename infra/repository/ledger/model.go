package ledger

import (
	"time"

	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/google/uuid"
)

// Transaction is a persisted ledger row. The bigserial primary key doubles as
// the append order. Amounts are signed kobo.
type Transaction struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null;column:user_id"`
	TransactionType string    `gorm:"type:varchar(16);not null"`
	Amount          int64     `gorm:"not null"`
	BalanceAfter    int64     `gorm:"not null"`
	Timestamp       time.Time `gorm:"not null"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

func mapDomainToModel(rec *domainaccount.TransactionRecord) Transaction {
	return Transaction{
		ID:              rec.ID,
		UserID:          rec.AccountID,
		TransactionType: string(rec.Kind),
		Amount:          rec.Amount.Kobo(),
		BalanceAfter:    rec.BalanceAfter.Kobo(),
		Timestamp:       rec.CreatedAt,
	}
}

func mapModelToDomain(row *Transaction) *domainaccount.TransactionRecord {
	return &domainaccount.TransactionRecord{
		ID:           row.ID,
		AccountID:    row.UserID,
		Kind:         domainaccount.TransactionKind(row.TransactionType),
		Amount:       money.FromKobo(row.Amount),
		BalanceAfter: money.FromKobo(row.BalanceAfter),
		CreatedAt:    row.Timestamp,
	}
}
