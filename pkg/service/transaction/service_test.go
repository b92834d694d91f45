package transaction_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/abbeysbank/banking/infra/repository/memory"
	"github.com/abbeysbank/banking/pkg/domain"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/abbeysbank/banking/pkg/repository"
	"github.com/abbeysbank/banking/pkg/service/transaction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*transaction.Service, repository.UnitOfWork) {
	t.Helper()
	uow := memory.New().UoW()
	return transaction.New(uow, slog.Default()), uow
}

func seedAccount(t *testing.T, uow repository.UnitOfWork, email, number string, balance money.Money) *domainaccount.Account {
	t.Helper()
	a, err := domainaccount.New().
		WithEmail(email).
		WithCredential("hash").
		WithAccountNumber(number).
		WithBalance(balance).
		Build()
	require.NoError(t, err)
	require.NoError(t, uow.AccountRepository().Create(context.Background(), a))
	return a
}

func balanceOf(t *testing.T, uow repository.UnitOfWork, id uuid.UUID) money.Money {
	t.Helper()
	a, err := uow.AccountRepository().Get(context.Background(), id)
	require.NoError(t, err)
	return a.Balance
}

func ledgerOf(t *testing.T, uow repository.UnitOfWork, id uuid.UUID) []*domainaccount.TransactionRecord {
	t.Helper()
	records, err := uow.LedgerRepository().ListByAccount(context.Background(), id)
	require.NoError(t, err)
	return records
}

func TestDeposit_InvalidAmount(t *testing.T) {
	svc, uow := newEngine(t)
	a := seedAccount(t, uow, "ada@example.com", "8012345678", domainaccount.InitialGrant)

	for _, kobo := range []int64{0, -500} {
		_, err := svc.Deposit(context.Background(), a.ID, money.FromKobo(kobo))
		require.ErrorIs(t, err, domainaccount.ErrInvalidAmount)
	}
	assert.True(t, balanceOf(t, uow, a.ID).Equals(domainaccount.InitialGrant), "balance untouched")
	assert.Empty(t, ledgerOf(t, uow, a.ID), "ledger untouched")
}

func TestDeposit_UnknownAccount(t *testing.T) {
	svc, _ := newEngine(t)
	_, err := svc.Deposit(context.Background(), uuid.New(), money.FromKobo(100))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeposit_Success(t *testing.T) {
	svc, uow := newEngine(t)
	a := seedAccount(t, uow, "ada@example.com", "8012345678", domainaccount.InitialGrant)

	amount, err := money.New(500)
	require.NoError(t, err)
	balance, err := svc.Deposit(context.Background(), a.ID, amount)
	require.NoError(t, err)
	assert.Equal(t, int64(1_050_000), balance.Kobo())

	records := ledgerOf(t, uow, a.ID)
	require.Len(t, records, 1)
	assert.Equal(t, domainaccount.KindDeposit, records[0].Kind)
	assert.Equal(t, amount.Kobo(), records[0].Amount.Kobo())
	assert.Equal(t, balance.Kobo(), records[0].BalanceAfter.Kobo())
	assert.NotZero(t, records[0].ID)
}

func TestPlanTransfer_Rejections(t *testing.T) {
	svc, uow := newEngine(t)
	sender := seedAccount(t, uow, "ada@example.com", "8012345678", domainaccount.InitialGrant)
	seedAccount(t, uow, "grace@example.com", "7012345678", domainaccount.InitialGrant)
	ctx := context.Background()

	testCases := []struct {
		desc    string
		number  string
		amount  money.Money
		wantErr error
	}{
		{desc: "zero amount", number: "7012345678", amount: money.Zero, wantErr: domainaccount.ErrInvalidAmount},
		{desc: "negative amount", number: "7012345678", amount: money.FromKobo(-1), wantErr: domainaccount.ErrInvalidAmount},
		{desc: "insufficient funds", number: "7012345678", amount: money.FromKobo(1_000_001), wantErr: domainaccount.ErrInsufficientFunds},
		{desc: "unknown recipient", number: "9999999999", amount: money.FromKobo(100), wantErr: domainaccount.ErrRecipientNotFound},
		{desc: "self transfer", number: "8012345678", amount: money.FromKobo(100), wantErr: domainaccount.ErrSelfTransfer},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := svc.PlanTransfer(ctx, sender.ID, tc.number, tc.amount)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	// No rejection leaves a trace.
	assert.True(t, balanceOf(t, uow, sender.ID).Equals(domainaccount.InitialGrant))
	assert.Empty(t, ledgerOf(t, uow, sender.ID))
}

func TestExecuteTransfer_Success(t *testing.T) {
	svc, uow := newEngine(t)
	sender := seedAccount(t, uow, "ada@example.com", "8012345678", domainaccount.InitialGrant)
	recipient := seedAccount(t, uow, "grace@example.com", "7012345678", domainaccount.InitialGrant)
	ctx := context.Background()

	amount := money.FromKobo(200_000)
	plan, err := svc.PlanTransfer(ctx, sender.ID, recipient.AccountNumber, amount)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", plan.RecipientEmail)

	senderBalance, err := svc.ExecuteTransfer(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, int64(800_000), senderBalance.Kobo())
	assert.Equal(t, int64(1_200_000), balanceOf(t, uow, recipient.ID).Kobo())

	// Exactly one record per side, matching magnitudes, opposite signs.
	out := ledgerOf(t, uow, sender.ID)
	require.Len(t, out, 1)
	assert.Equal(t, domainaccount.KindTransferOut, out[0].Kind)
	assert.Equal(t, int64(-200_000), out[0].Amount.Kobo())
	assert.Equal(t, int64(800_000), out[0].BalanceAfter.Kobo())

	in := ledgerOf(t, uow, recipient.ID)
	require.Len(t, in, 1)
	assert.Equal(t, domainaccount.KindTransferIn, in[0].Kind)
	assert.Equal(t, int64(200_000), in[0].Amount.Kobo())
	assert.Equal(t, int64(1_200_000), in[0].BalanceAfter.Kobo())
}

func TestExecuteTransfer_StalePlan(t *testing.T) {
	svc, uow := newEngine(t)
	sender := seedAccount(t, uow, "ada@example.com", "8012345678", domainaccount.InitialGrant)
	recipient := seedAccount(t, uow, "grace@example.com", "7012345678", domainaccount.InitialGrant)
	ctx := context.Background()

	plan, err := svc.PlanTransfer(ctx, sender.ID, recipient.AccountNumber, domainaccount.InitialGrant)
	require.NoError(t, err)

	// Drain the sender between plan and execute; the re-check under locks
	// must reject cleanly.
	_, err = uow.AccountRepository().AdjustBalance(ctx, sender.ID, money.FromKobo(-999_999))
	require.NoError(t, err)

	_, err = svc.ExecuteTransfer(ctx, plan)
	require.ErrorIs(t, err, domainaccount.ErrInsufficientFunds)
	assert.Equal(t, int64(1), balanceOf(t, uow, sender.ID).Kobo())
	assert.Equal(t, int64(1_000_000), balanceOf(t, uow, recipient.ID).Kobo())
	assert.Empty(t, ledgerOf(t, uow, sender.ID))
	assert.Empty(t, ledgerOf(t, uow, recipient.ID))
}

// faultyUow injects a ledger append failure to prove the commit is
// all-or-nothing: the debit that already happened must be rolled back.
type faultyUow struct {
	repository.UnitOfWork
}

func (f *faultyUow) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return f.UnitOfWork.Do(ctx, func(inner repository.UnitOfWork) error {
		return fn(&faultyUow{inner})
	})
}

func (f *faultyUow) LedgerRepository() repository.LedgerRepository {
	return &faultyLedger{}
}

type faultyLedger struct{}

func (l *faultyLedger) Append(context.Context, *domainaccount.TransactionRecord) error {
	return domain.ErrStorageFault
}

func (l *faultyLedger) ListByAccount(context.Context, uuid.UUID) ([]*domainaccount.TransactionRecord, error) {
	return nil, domain.ErrStorageFault
}

func TestExecuteTransfer_StorageFaultRollsBack(t *testing.T) {
	uow := memory.New().UoW()
	sender := seedAccount(t, uow, "ada@example.com", "8012345678", domainaccount.InitialGrant)
	recipient := seedAccount(t, uow, "grace@example.com", "7012345678", domainaccount.InitialGrant)
	ctx := context.Background()

	svc := transaction.New(&faultyUow{uow}, slog.Default())
	plan := &transaction.TransferPlan{
		SenderID:               sender.ID,
		RecipientID:            recipient.ID,
		RecipientEmail:         recipient.Email,
		RecipientAccountNumber: recipient.AccountNumber,
		Amount:                 money.FromKobo(100_000),
	}
	_, err := svc.ExecuteTransfer(ctx, plan)
	require.ErrorIs(t, err, domain.ErrStorageFault)

	// No mismatched balance/ledger state survives the fault.
	assert.Equal(t, int64(1_000_000), balanceOf(t, uow, sender.ID).Kobo())
	assert.Equal(t, int64(1_000_000), balanceOf(t, uow, recipient.ID).Kobo())
	assert.Empty(t, ledgerOf(t, uow, sender.ID))
	assert.Empty(t, ledgerOf(t, uow, recipient.ID))
}

func TestLedgerReconstructsBalance(t *testing.T) {
	svc, uow := newEngine(t)
	a := seedAccount(t, uow, "ada@example.com", "8012345678", domainaccount.InitialGrant)
	b := seedAccount(t, uow, "grace@example.com", "7012345678", domainaccount.InitialGrant)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, a.ID, money.FromKobo(77_700))
	require.NoError(t, err)
	plan, err := svc.PlanTransfer(ctx, a.ID, b.AccountNumber, money.FromKobo(123_400))
	require.NoError(t, err)
	_, err = svc.ExecuteTransfer(ctx, plan)
	require.NoError(t, err)
	plan, err = svc.PlanTransfer(ctx, b.ID, a.AccountNumber, money.FromKobo(50_000))
	require.NoError(t, err)
	_, err = svc.ExecuteTransfer(ctx, plan)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		sum := domainaccount.InitialGrant
		for _, rec := range ledgerOf(t, uow, id) {
			sum = sum.Add(rec.Amount)
		}
		assert.True(t, balanceOf(t, uow, id).Equals(sum),
			"initial grant plus ledger sum must equal the balance")
	}
}

func TestConcurrentOppositeTransfers(t *testing.T) {
	svc, uow := newEngine(t)
	a := seedAccount(t, uow, "ada@example.com", "8012345678", domainaccount.InitialGrant)
	b := seedAccount(t, uow, "grace@example.com", "7012345678", domainaccount.InitialGrant)
	ctx := context.Background()

	planAB, err := svc.PlanTransfer(ctx, a.ID, b.AccountNumber, money.FromKobo(10_000))
	require.NoError(t, err)
	planBA, err := svc.PlanTransfer(ctx, b.ID, a.AccountNumber, money.FromKobo(10_000))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.ExecuteTransfer(ctx, planAB)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.ExecuteTransfer(ctx, planBA)
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int64(1_000_000), balanceOf(t, uow, a.ID).Kobo())
	assert.Equal(t, int64(1_000_000), balanceOf(t, uow, b.ID).Kobo())
	assert.Len(t, ledgerOf(t, uow, a.ID), 2)
	assert.Len(t, ledgerOf(t, uow, b.ID), 2)
}

// TestScenario walks the end-to-end example: a fresh account deposits 500,
// then transfers 2000 to a second fresh account.
func TestScenario(t *testing.T) {
	svc, uow := newEngine(t)
	ctx := context.Background()

	a := seedAccount(t, uow, "ada@example.com", "7011111111", domainaccount.InitialGrant)
	deposit, err := money.New(500)
	require.NoError(t, err)
	balance, err := svc.Deposit(ctx, a.ID, deposit)
	require.NoError(t, err)
	assert.Equal(t, "10500.00", balance.String())
	require.Len(t, ledgerOf(t, uow, a.ID), 1)

	b := seedAccount(t, uow, "grace@example.com", "8012345678", domainaccount.InitialGrant)
	amount, err := money.New(2000)
	require.NoError(t, err)
	plan, err := svc.PlanTransfer(ctx, a.ID, "8012345678", amount)
	require.NoError(t, err)
	senderBalance, err := svc.ExecuteTransfer(ctx, plan)
	require.NoError(t, err)

	assert.Equal(t, "8500.00", senderBalance.String())
	assert.Equal(t, "12000.00", balanceOf(t, uow, b.ID).String())

	aRecords := ledgerOf(t, uow, a.ID)
	require.Len(t, aRecords, 2)
	assert.Equal(t, int64(-200_000), aRecords[1].Amount.Kobo())
	bRecords := ledgerOf(t, uow, b.ID)
	require.Len(t, bRecords, 1)
	assert.Equal(t, int64(200_000), bRecords[0].Amount.Kobo())
}
