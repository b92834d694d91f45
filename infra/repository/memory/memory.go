// Package memory provides an in-memory unit of work used for tests and local
// development. One mutex guards the whole store and Do holds it for the full
// unit of work, so every operation is serializable by construction; rollback
// restores a snapshot taken when the unit began.
package memory

import (
	"context"
	"sync"

	"github.com/abbeysbank/banking/pkg/domain"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/abbeysbank/banking/pkg/repository"
	"github.com/google/uuid"
)

type state struct {
	accounts     map[uuid.UUID]domainaccount.Account
	byEmail      map[string]uuid.UUID
	byNumber     map[string]uuid.UUID
	ledger       []domainaccount.TransactionRecord
	audit        []domainaccount.AuditEvent
	nextLedgerID int64
	nextAuditID  int64
}

func newState() *state {
	return &state{
		accounts:     make(map[uuid.UUID]domainaccount.Account),
		byEmail:      make(map[string]uuid.UUID),
		byNumber:     make(map[string]uuid.UUID),
		nextLedgerID: 1,
		nextAuditID:  1,
	}
}

func (st *state) clone() *state {
	cp := &state{
		accounts:     make(map[uuid.UUID]domainaccount.Account, len(st.accounts)),
		byEmail:      make(map[string]uuid.UUID, len(st.byEmail)),
		byNumber:     make(map[string]uuid.UUID, len(st.byNumber)),
		ledger:       make([]domainaccount.TransactionRecord, len(st.ledger)),
		audit:        make([]domainaccount.AuditEvent, len(st.audit)),
		nextLedgerID: st.nextLedgerID,
		nextAuditID:  st.nextAuditID,
	}
	for id, a := range st.accounts {
		cp.accounts[id] = a
	}
	for k, v := range st.byEmail {
		cp.byEmail[k] = v
	}
	for k, v := range st.byNumber {
		cp.byNumber[k] = v
	}
	copy(cp.ledger, st.ledger)
	copy(cp.audit, st.audit)
	return cp
}

// Store holds all in-memory state behind one mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{st: newState()}
}

// Reset clears all state, for reuse between tests.
func (s *Store) Reset() {
	s.mu.Lock()
	s.st = newState()
	s.mu.Unlock()
}

// UoW returns a unit of work over the store.
func (s *Store) UoW() repository.UnitOfWork {
	return &uow{store: s}
}

type uow struct {
	store *Store
	inTx  bool
}

// Do takes the store lock for the whole unit, snapshots the state, runs fn
// and restores the snapshot if fn fails. All-or-nothing, same as a database
// transaction. A nested Do joins the unit in progress.
func (u *uow) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.inTx {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	snap := u.store.st.clone()
	if err := fn(&uow{store: u.store, inTx: true}); err != nil {
		u.store.st = snap
		return err
	}
	return nil
}

// locked runs fn with the store lock held, unless this unit already holds it.
func (u *uow) locked(fn func(st *state) error) error {
	if !u.inTx {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	return fn(u.store.st)
}

func (u *uow) AccountRepository() repository.AccountRepository {
	return &accountRepo{u}
}

func (u *uow) LedgerRepository() repository.LedgerRepository {
	return &ledgerRepo{u}
}

func (u *uow) AuditRepository() repository.AuditRepository {
	return &auditRepo{u}
}

type accountRepo struct {
	u *uow
}

func (r *accountRepo) Create(_ context.Context, a *domainaccount.Account) error {
	return r.u.locked(func(st *state) error {
		if _, exists := st.byEmail[a.Email]; exists {
			return domain.ErrDuplicateIdentity
		}
		if _, exists := st.byNumber[a.AccountNumber]; exists {
			return domain.ErrDuplicateIdentity
		}
		if _, exists := st.accounts[a.ID]; exists {
			return domain.ErrDuplicateIdentity
		}
		st.accounts[a.ID] = *a
		st.byEmail[a.Email] = a.ID
		st.byNumber[a.AccountNumber] = a.ID
		return nil
	})
}

func (r *accountRepo) Get(_ context.Context, id uuid.UUID) (*domainaccount.Account, error) {
	var out *domainaccount.Account
	err := r.u.locked(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domainaccount.Account, error) {
	var out *domainaccount.Account
	err := r.u.locked(func(st *state) error {
		id, ok := st.byEmail[email]
		if !ok {
			return domain.ErrNotFound
		}
		a := st.accounts[id]
		out = &a
		return nil
	})
	return out, err
}

func (r *accountRepo) GetByAccountNumber(ctx context.Context, number string) (*domainaccount.Account, error) {
	var out *domainaccount.Account
	err := r.u.locked(func(st *state) error {
		id, ok := st.byNumber[number]
		if !ok {
			return domain.ErrNotFound
		}
		a := st.accounts[id]
		out = &a
		return nil
	})
	return out, err
}

// GetManyForUpdate needs no extra locking here: the unit of work already
// holds the store mutex, which is stricter than per-row locks.
func (r *accountRepo) GetManyForUpdate(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*domainaccount.Account, error) {
	result := make(map[uuid.UUID]*domainaccount.Account, len(ids))
	err := r.u.locked(func(st *state) error {
		for _, id := range ids {
			if a, ok := st.accounts[id]; ok {
				cp := a
				result[id] = &cp
			}
		}
		return nil
	})
	return result, err
}

func (r *accountRepo) AdjustBalance(_ context.Context, id uuid.UUID, delta money.Money) (money.Money, error) {
	var newBalance money.Money
	err := r.u.locked(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		adjusted := a.Balance.Add(delta)
		if adjusted.IsNegative() {
			return domainaccount.ErrInsufficientFunds
		}
		a.Balance = adjusted
		st.accounts[id] = a
		newBalance = adjusted
		return nil
	})
	return newBalance, err
}

type ledgerRepo struct {
	u *uow
}

func (r *ledgerRepo) Append(_ context.Context, rec *domainaccount.TransactionRecord) error {
	return r.u.locked(func(st *state) error {
		rec.ID = st.nextLedgerID
		st.nextLedgerID++
		st.ledger = append(st.ledger, *rec)
		return nil
	})
}

func (r *ledgerRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*domainaccount.TransactionRecord, error) {
	var out []*domainaccount.TransactionRecord
	err := r.u.locked(func(st *state) error {
		for i := range st.ledger {
			if st.ledger[i].AccountID == accountID {
				cp := st.ledger[i]
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

type auditRepo struct {
	u *uow
}

func (r *auditRepo) Append(_ context.Context, ev *domainaccount.AuditEvent) error {
	return r.u.locked(func(st *state) error {
		ev.ID = st.nextAuditID
		st.nextAuditID++
		st.audit = append(st.audit, *ev)
		return nil
	})
}

func (r *auditRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*domainaccount.AuditEvent, error) {
	var out []*domainaccount.AuditEvent
	err := r.u.locked(func(st *state) error {
		for i := range st.audit {
			if st.audit[i].AccountID == accountID {
				cp := st.audit[i]
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}
