// Package testutils provides an in-memory UnitOfWork for service and handler
// tests.
//
// It is not a stub: GetForUpdate takes a real per-row mutex that is held
// until the scope ends, so tests genuinely exercise the engine's lock-order
// discipline. Two concurrent scopes locking the same rows in opposite orders
// will deadlock here exactly as they would on the database.
package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain"
	"github.com/pshBlack/bank-backend/pkg/domain/money"
	"github.com/pshBlack/bank-backend/pkg/domain/user"
	"github.com/pshBlack/bank-backend/pkg/repository"
)

type accountRow struct {
	mu      sync.Mutex
	account domain.Account // committed state
}

// MemoryUoW is an in-memory repository.UnitOfWork with row-lock semantics.
type MemoryUoW struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*accountRow
	transactions []*domain.Transaction
	users        map[uuid.UUID]*user.User

	// CreateTransactionErr, when set, makes ledger inserts fail. It lets
	// tests simulate a store failure after both balances were staged and
	// assert that the whole scope rolls back.
	CreateTransactionErr error
}

// NewMemoryUoW creates an empty in-memory unit of work.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{
		accounts: make(map[uuid.UUID]*accountRow),
		users:    make(map[uuid.UUID]*user.User),
	}
}

// SeedAccount inserts a committed account row and returns its id.
func (m *MemoryUoW) SeedAccount(userID uuid.UUID, balance money.Money) uuid.UUID {
	a := domain.NewAccount(userID)
	a.Balance = balance
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = &accountRow{account: *a}
	return a.ID
}

// Balance returns the committed balance of an account.
func (m *MemoryUoW) Balance(id uuid.UUID) money.Money {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id].account.Balance
}

// LedgerSize returns the number of committed ledger records.
func (m *MemoryUoW) LedgerSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions)
}

// scope is one atomic unit of work: it tracks held row locks and staged
// writes, applying them only if the scope function succeeds.
type scope struct {
	parent *MemoryUoW

	held    []*accountRow
	staged  map[uuid.UUID]money.Money
	records []*domain.Transaction
}

// Do implements repository.UnitOfWork.
func (m *MemoryUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	s := &scope{parent: m, staged: make(map[uuid.UUID]money.Money)}
	err := fn(s)
	if err == nil {
		err = ctx.Err()
	}

	m.mu.Lock()
	if err == nil {
		for id, balance := range s.staged {
			m.accounts[id].account.Balance = balance
		}
		m.transactions = append(m.transactions, s.records...)
	}
	m.mu.Unlock()

	for _, row := range s.held {
		row.mu.Unlock()
	}
	return err
}

func (m *MemoryUoW) AccountRepository() repository.AccountRepository         { return rootAccounts{m} }
func (m *MemoryUoW) TransactionRepository() repository.TransactionRepository { return scopeLedger{nil, m} }
func (m *MemoryUoW) UserRepository() repository.UserRepository               { return memUsers{m} }

// Do on a scope is not supported; scopes are handed to exactly one function.
func (s *scope) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fmt.Errorf("nested unit of work")
}

func (s *scope) AccountRepository() repository.AccountRepository {
	return scopeAccounts{s}
}

func (s *scope) TransactionRepository() repository.TransactionRepository {
	return scopeLedger{s, s.parent}
}

func (s *scope) UserRepository() repository.UserRepository {
	return memUsers{s.parent}
}

// scopeAccounts implements repository.AccountRepository inside a scope.
type scopeAccounts struct{ s *scope }

func (r scopeAccounts) Create(ctx context.Context, a *domain.Account) error {
	m := r.s.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = &accountRow{account: *a}
	return nil
}

func (r scopeAccounts) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	m := r.s.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a := row.account
	return &a, nil
}

// GetForUpdate blocks until the row lock is acquired and holds it until the
// scope ends, mirroring SELECT ... FOR UPDATE.
func (r scopeAccounts) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	m := r.s.parent
	m.mu.Lock()
	row, ok := m.accounts[id]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	row.mu.Lock()
	r.s.held = append(r.s.held, row)

	a := row.account
	if staged, ok := r.s.staged[id]; ok {
		a.Balance = staged
	}
	return &a, nil
}

func (r scopeAccounts) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money) error {
	m := r.s.parent
	m.mu.Lock()
	_, ok := m.accounts[id]
	m.mu.Unlock()
	if !ok {
		return domain.ErrAccountNotFound
	}
	r.s.staged[id] = balance
	return nil
}

func (r scopeAccounts) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	m := r.s.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Account
	for _, row := range m.accounts {
		if row.account.UserID == userID {
			a := row.account
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r scopeAccounts) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	m := r.s.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.accounts {
		if row.account.UserID == userID {
			delete(m.accounts, id)
		}
	}
	return nil
}

// rootAccounts serves reads outside any scope.
type rootAccounts struct{ m *MemoryUoW }

func (r rootAccounts) Create(ctx context.Context, a *domain.Account) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.accounts[a.ID] = &accountRow{account: *a}
	return nil
}

func (r rootAccounts) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	row, ok := r.m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a := row.account
	return &a, nil
}

func (r rootAccounts) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return nil, fmt.Errorf("GetForUpdate outside unit of work")
}

func (r rootAccounts) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money) error {
	return fmt.Errorf("UpdateBalance outside unit of work")
}

func (r rootAccounts) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	return scopeAccounts{&scope{parent: r.m}}.ListByUser(ctx, userID)
}

func (r rootAccounts) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return scopeAccounts{&scope{parent: r.m}}.DeleteByUser(ctx, userID)
}

// scopeLedger implements repository.TransactionRepository. Writes require a
// scope; reads work anywhere.
type scopeLedger struct {
	s *scope
	m *MemoryUoW
}

func (r scopeLedger) Create(ctx context.Context, t *domain.Transaction) error {
	if r.s == nil {
		return fmt.Errorf("ledger insert outside unit of work")
	}
	if err := r.m.CreateTransactionErr; err != nil {
		return err
	}
	r.s.records = append(r.s.records, t)
	return nil
}

func (r scopeLedger) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*domain.Transaction{}
	// Committed records are appended in order; walk backwards for newest first.
	for i := len(r.m.transactions) - 1; i >= 0; i-- {
		t := r.m.transactions[i]
		if t.FromAccount == accountID || t.ToAccount == accountID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

// memUsers implements repository.UserRepository over the shared map.
type memUsers struct{ m *MemoryUoW }

func (r memUsers) Create(ctx context.Context, u *user.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Username == u.Username {
			return fmt.Errorf("username %q already taken", u.Username)
		}
	}
	copied := *u
	r.m.users[u.ID] = &copied
	return nil
}

func (r memUsers) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.m.users, id)
	return nil
}
