package account_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain"
	"github.com/pshBlack/bank-backend/pkg/domain/money"
	"github.com/pshBlack/bank-backend/pkg/service/account"
	"github.com/pshBlack/bank-backend/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*account.Service, *testutils.MemoryUoW) {
	t.Helper()
	uow := testutils.NewMemoryUoW()
	return account.New(uow, slog.Default()), uow
}

func mustParse(t *testing.T, text string) money.Money {
	t.Helper()
	m, err := money.Parse(text)
	require.NoError(t, err)
	return m
}

func TestTransfer_MovesFundsAndAppendsRecord(t *testing.T) {
	svc, uow := newService(t)
	userID := uuid.New()
	a := uow.SeedAccount(userID, mustParse(t, "1000.00"))
	b := uow.SeedAccount(userID, mustParse(t, "500.00"))

	record, err := svc.Transfer(context.Background(), a, b, "250.50")
	require.NoError(t, err)

	assert.Equal(t, "749.50", uow.Balance(a).String())
	assert.Equal(t, "750.50", uow.Balance(b).String())

	assert.Equal(t, a, record.FromAccount)
	assert.Equal(t, b, record.ToAccount)
	assert.Equal(t, "250.50", record.Amount.String())
	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, 1, uow.LedgerSize())
}

func TestTransfer_IsZeroSum(t *testing.T) {
	svc, uow := newService(t)
	userID := uuid.New()
	a := uow.SeedAccount(userID, mustParse(t, "321.09"))
	b := uow.SeedAccount(userID, mustParse(t, "78.91"))
	before := uow.Balance(a).Add(uow.Balance(b))

	for _, amount := range []string{"10.00", "0.01", "311.08"} {
		_, err := svc.Transfer(context.Background(), a, b, amount)
		require.NoError(t, err)
	}

	after := uow.Balance(a).Add(uow.Balance(b))
	assert.True(t, before.Equals(after), "total balance changed: %s -> %s", before, after)
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	svc, uow := newService(t)
	userID := uuid.New()
	a := uow.SeedAccount(userID, mustParse(t, "100.00"))
	b := uow.SeedAccount(userID, mustParse(t, "0.00"))

	_, err := svc.Transfer(context.Background(), a, b, "150.00")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, "100.00", uow.Balance(a).String())
	assert.Equal(t, "0.00", uow.Balance(b).String())
	assert.Equal(t, 0, uow.LedgerSize())
}

func TestTransfer_ExactBalanceSucceeds(t *testing.T) {
	svc, uow := newService(t)
	userID := uuid.New()
	a := uow.SeedAccount(userID, mustParse(t, "100.00"))
	b := uow.SeedAccount(userID, mustParse(t, "0.00"))

	_, err := svc.Transfer(context.Background(), a, b, "100.00")
	require.NoError(t, err)
	assert.Equal(t, "0.00", uow.Balance(a).String())
	assert.Equal(t, "100.00", uow.Balance(b).String())
}

func TestTransfer_SameAccount(t *testing.T) {
	svc, uow := newService(t)
	a := uow.SeedAccount(uuid.New(), mustParse(t, "100.00"))

	_, err := svc.Transfer(context.Background(), a, a, "10.00")
	assert.ErrorIs(t, err, domain.ErrSameAccount)
	assert.Equal(t, 0, uow.LedgerSize())
}

func TestTransfer_InvalidAmounts(t *testing.T) {
	svc, uow := newService(t)
	userID := uuid.New()
	a := uow.SeedAccount(userID, mustParse(t, "100.00"))
	b := uow.SeedAccount(userID, mustParse(t, "100.00"))

	for _, amountText := range []string{"", "abc", "-5.00", "0", "0.00", "1.005"} {
		t.Run(fmt.Sprintf("amount %q", amountText), func(t *testing.T) {
			_, err := svc.Transfer(context.Background(), a, b, amountText)
			assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		})
	}
	assert.Equal(t, "100.00", uow.Balance(a).String())
	assert.Equal(t, 0, uow.LedgerSize())
}

func TestTransfer_AccountNotFound(t *testing.T) {
	svc, uow := newService(t)
	a := uow.SeedAccount(uuid.New(), mustParse(t, "100.00"))
	missing := uuid.New()

	_, err := svc.Transfer(context.Background(), a, missing, "10.00")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = svc.Transfer(context.Background(), missing, a, "10.00")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	assert.Equal(t, "100.00", uow.Balance(a).String())
	assert.Equal(t, 0, uow.LedgerSize())
}

func TestTransfer_StorageFailureRollsBack(t *testing.T) {
	svc, uow := newService(t)
	userID := uuid.New()
	a := uow.SeedAccount(userID, mustParse(t, "100.00"))
	b := uow.SeedAccount(userID, mustParse(t, "50.00"))

	// Fail the ledger insert, after both balance updates were staged.
	uow.CreateTransactionErr = errors.New("connection reset")

	_, err := svc.Transfer(context.Background(), a, b, "25.00")
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)

	assert.Equal(t, "100.00", uow.Balance(a).String())
	assert.Equal(t, "50.00", uow.Balance(b).String())
	assert.Equal(t, 0, uow.LedgerSize())
}

func TestTransfer_ConcurrentFanOut(t *testing.T) {
	svc, uow := newService(t)
	userID := uuid.New()
	const n = 20
	source := uow.SeedAccount(userID, mustParse(t, "2000.00"))

	dests := make([]uuid.UUID, n)
	for i := range dests {
		dests[i] = uow.SeedAccount(userID, mustParse(t, "0.00"))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Transfer(context.Background(), source, dests[i], "10.00")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "transfer %d", i)
	}
	assert.Equal(t, "1800.00", uow.Balance(source).String())
	for _, d := range dests {
		assert.Equal(t, "10.00", uow.Balance(d).String())
	}
	assert.Equal(t, n, uow.LedgerSize())
}

// Opposite-direction transfers over the same pair must both complete; the
// engine's fixed lock order is what prevents them from deadlocking.
func TestTransfer_OppositeDirectionsNoDeadlock(t *testing.T) {
	svc, uow := newService(t)
	userID := uuid.New()
	x := uow.SeedAccount(userID, mustParse(t, "500.00"))
	y := uow.SeedAccount(userID, mustParse(t, "500.00"))

	const rounds = 50
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				_, err := svc.Transfer(context.Background(), x, y, "1.00")
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				_, err := svc.Transfer(context.Background(), y, x, "1.00")
				assert.NoError(t, err)
			}
		}()
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("transfers deadlocked")
	}

	assert.Equal(t, "500.00", uow.Balance(x).String())
	assert.Equal(t, "500.00", uow.Balance(y).String())
	assert.Equal(t, 2*rounds, uow.LedgerSize())
}

func TestAddFunds(t *testing.T) {
	svc, uow := newService(t)
	a := uow.SeedAccount(uuid.New(), mustParse(t, "0.00"))

	funded, err := svc.AddFunds(context.Background(), a, "1000.00")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", funded.Balance.String())
	assert.Equal(t, "1000.00", uow.Balance(a).String())

	// Funding is a bare credit: no ledger record.
	assert.Equal(t, 0, uow.LedgerSize())
}

func TestAddFunds_Validation(t *testing.T) {
	svc, uow := newService(t)
	a := uow.SeedAccount(uuid.New(), mustParse(t, "10.00"))

	_, err := svc.AddFunds(context.Background(), a, "0.00")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.AddFunds(context.Background(), a, "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.AddFunds(context.Background(), uuid.New(), "10.00")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	assert.Equal(t, "10.00", uow.Balance(a).String())
}

func TestGetTransactions(t *testing.T) {
	svc, uow := newService(t)
	userID := uuid.New()
	a := uow.SeedAccount(userID, mustParse(t, "100.00"))
	b := uow.SeedAccount(userID, mustParse(t, "100.00"))
	c := uow.SeedAccount(userID, mustParse(t, "100.00"))

	t.Run("empty history is a slice, not an error", func(t *testing.T) {
		history, err := svc.GetTransactions(context.Background(), a)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	_, err := svc.Transfer(context.Background(), a, b, "10.00")
	require.NoError(t, err)
	_, err = svc.Transfer(context.Background(), b, a, "5.00")
	require.NoError(t, err)
	_, err = svc.Transfer(context.Background(), b, c, "1.00")
	require.NoError(t, err)

	history, err := svc.GetTransactions(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Newest first; the b->c transfer does not reference a.
	assert.Equal(t, "5.00", history[0].Amount.String())
	assert.Equal(t, "10.00", history[1].Amount.String())
}

func TestCreateAndListAccounts(t *testing.T) {
	svc, _ := newService(t)
	userID := uuid.New()

	created, err := svc.CreateAccount(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, created.Balance.IsZero())
	assert.Equal(t, userID, created.UserID)

	_, err = svc.CreateAccount(context.Background(), userID)
	require.NoError(t, err)

	accounts, err := svc.ListAccounts(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	other, err := svc.ListAccounts(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
