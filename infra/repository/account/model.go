package account

import (
	"time"

	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/google/uuid"
)

// Account is the persisted account row. Table and column names follow the
// original banking schema.
type Account struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password      string    `gorm:"type:varchar(255);not null"`
	AccountNumber string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Balance       int64     `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "users"
}

func mapDomainToModel(a *domainaccount.Account) Account {
	return Account{
		ID:            a.ID,
		Email:         a.Email,
		Password:      a.Credential,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance.Kobo(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func mapModelToDomain(row *Account) (*domainaccount.Account, error) {
	return domainaccount.New().
		WithID(row.ID).
		WithEmail(row.Email).
		WithCredential(row.Password).
		WithAccountNumber(row.AccountNumber).
		WithBalance(money.FromKobo(row.Balance)).
		WithCreatedAt(row.CreatedAt).
		WithUpdatedAt(row.UpdatedAt).
		Build()
}
