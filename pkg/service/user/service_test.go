package user_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/pshBlack/bank-backend/pkg/domain/money"
	domainuser "github.com/pshBlack/bank-backend/pkg/domain/user"
	"github.com/pshBlack/bank-backend/pkg/service/user"
	"github.com/pshBlack/bank-backend/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*user.Service, *testutils.MemoryUoW) {
	t.Helper()
	uow := testutils.NewMemoryUoW()
	return user.New(uow, slog.Default()), uow
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newService(t)

	u, err := svc.Register(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	got, err := svc.Authenticate(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, domainuser.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, domainuser.ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), "", "pass")
	assert.Error(t, err)

	_, err = svc.Register(context.Background(), "bob", "")
	assert.Error(t, err)

	_, err = svc.Register(context.Background(), "carol", "pass1234")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "carol", "other")
	assert.Error(t, err, "duplicate username must be rejected")
}

func TestGetAndDelete(t *testing.T) {
	svc, uow := newService(t)

	u, err := svc.Register(context.Background(), "dave", "pass1234")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dave", got.Username)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainuser.ErrUserNotFound)

	// Deleting the user removes their accounts too.
	uow.SeedAccount(u.ID, money.FromCents(5000))
	require.NoError(t, svc.Delete(context.Background(), u.ID))

	_, err = svc.Get(context.Background(), u.ID)
	assert.ErrorIs(t, err, domainuser.ErrUserNotFound)

	accounts, err := uow.AccountRepository().ListByUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	assert.ErrorIs(t, svc.Delete(context.Background(), u.ID), domainuser.ErrUserNotFound)
}
