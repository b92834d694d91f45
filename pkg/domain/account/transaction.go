package account

import (
	"time"

	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/google/uuid"
)

// TransactionKind classifies a ledger record.
type TransactionKind string

const (
	KindDeposit     TransactionKind = "deposit"
	KindTransferOut TransactionKind = "transfer_out"
	KindTransferIn  TransactionKind = "transfer_in"
)

// TransactionRecord is one append-only ledger entry. The amount is signed:
// positive for credits, negative for debits. BalanceAfter snapshots the
// account balance at commit time, so the ledger alone reconstructs any
// balance: initial grant plus the sum of amounts equals the current balance.
//
// Records are immutable once written; there is no update or delete.
type TransactionRecord struct {
	ID           int64 // assigned by the store on append
	AccountID    uuid.UUID
	Kind         TransactionKind
	Amount       money.Money
	BalanceAfter money.Money
	CreatedAt    time.Time
}

// NewTransactionRecord creates an unpersisted ledger record. The store
// assigns the ID on append.
func NewTransactionRecord(
	accountID uuid.UUID,
	kind TransactionKind,
	amount, balanceAfter money.Money,
) *TransactionRecord {
	return &TransactionRecord{
		AccountID:    accountID,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now().UTC(),
	}
}
