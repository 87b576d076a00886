package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/mailgate/internal/common"
)

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	acc, err := f.accounts.Register(context.Background(), "Alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte("secret1")))
	assert.Nil(t, acc.ForwardingAddress)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"short username", "al", "secret1", common.ErrInvalidUsername},
		{"long username", strings.Repeat("a", 31), "secret1", common.ErrInvalidUsername},
		{"symbols", "al!ce", "secret1", common.ErrInvalidUsername},
		{"short password", "alice", "12345", common.ErrInvalidPassword},
		{"long password", "alice", strings.Repeat("x", 73), common.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.accounts.Register(context.Background(), tt.username, tt.password)
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, common.ErrorValidation)
			require.NoError(t, f.mock.ExpectationsWereMet(), "no transaction for invalid input")
		})
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "first-pass")

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.accounts.Register(context.Background(), "ALICE", "second-pass")
	require.ErrorIs(t, err, common.ErrUsernameTaken)

	_, err = f.accounts.Authenticate(context.Background(), "alice", "first-pass")
	require.NoError(t, err, "original credentials survive a collision")
	_, err = f.accounts.Authenticate(context.Background(), "alice", "second-pass")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRegister_ConcurrentInsertMapsToTaken(t *testing.T) {
	f := newFixture(t)
	f.rm.a.createErr = common.ErrUsernameTaken
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.accounts.Register(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, common.ErrUsernameTaken)
}

func TestRegister_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.rm.a.createErr = errBoom{}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.accounts.Register(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, common.ErrCreationFailed)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRegister_CommitFailure(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	_, err := f.accounts.Register(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, common.ErrCreationFailed)
}

func TestRegister_BeginFailure(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin().WillReturnError(errors.New("db down"))

	_, err := f.accounts.Register(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, common.ErrCreationFailed)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "secret1")
	ctx := context.Background()

	acc, err := f.accounts.Authenticate(ctx, "Alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)

	_, err = f.accounts.Authenticate(ctx, "alice", "wrong-pass")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = f.accounts.Authenticate(ctx, "ghost", "secret1")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = f.accounts.Authenticate(ctx, "no", "secret1")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticate_StoreError(t *testing.T) {
	f := newFixture(t)
	f.rm.a.getErr = errBoom{}

	_, err := f.accounts.Authenticate(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestLoginLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.register(t, "alice", "secret1")

	username, ok, err := f.registry.Resolve(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", username)

	require.NoError(t, f.accounts.Logout(ctx, token))
	_, ok, _ = f.registry.Resolve(ctx, token)
	assert.False(t, ok)

	require.NoError(t, f.accounts.Logout(ctx, token), "logout is idempotent")
	require.NoError(t, f.accounts.Logout(ctx, "never-issued"))
}

func TestLogin_WrongPasswordCreatesNoSession(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "secret1")
	before := f.registry.Active()

	_, _, err := f.accounts.Login(context.Background(), "alice", "nope-nope")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, before, f.registry.Active())
}
