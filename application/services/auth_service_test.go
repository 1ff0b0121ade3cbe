package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/infrastructure/persistence/memory"
	pkgerrors "snaptales/pkg/errors"
)

// fakeDirectory is an in-memory stand-in for the external identity provider
type fakeDirectory struct {
	accounts map[string]ports.Account
	ended    []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{accounts: make(map[string]ports.Account)}
}

func (d *fakeDirectory) CreateAccount(ctx context.Context, email, password, name string) (ports.Account, error) {
	if _, exists := d.accounts[email]; exists {
		return ports.Account{}, pkgerrors.NewValidationError("email already registered")
	}
	account := ports.Account{AccountID: "acct-" + name, Email: email, Name: name}
	d.accounts[email] = account
	return account, nil
}

func (d *fakeDirectory) Authenticate(ctx context.Context, email, password string) (ports.Session, error) {
	account, exists := d.accounts[email]
	if !exists {
		return ports.Session{}, pkgerrors.NewUnauthorizedError("invalid email or password")
	}
	return ports.Session{AccessToken: "token-" + account.AccountID, ExpiresIn: 3600, Account: account}, nil
}

func (d *fakeDirectory) CurrentPrincipal(ctx context.Context, token string) (ports.Account, error) {
	for _, account := range d.accounts {
		if "token-"+account.AccountID == token {
			return account, nil
		}
	}
	return ports.Account{}, pkgerrors.NewUnauthorizedError("invalid or expired token")
}

func (d *fakeDirectory) RequestEmailVerification(ctx context.Context, email string) error {
	if _, exists := d.accounts[email]; !exists {
		return pkgerrors.NewNotFoundError("account")
	}
	return nil
}

func (d *fakeDirectory) ConfirmVerification(ctx context.Context, email, code string) (ports.Account, error) {
	account, exists := d.accounts[email]
	if !exists || code != "123456" {
		return ports.Account{}, pkgerrors.NewValidationError("invalid or expired verification code")
	}
	account.Verified = true
	d.accounts[email] = account
	return account, nil
}

func (d *fakeDirectory) EndSession(ctx context.Context, token string) error {
	d.ended = append(d.ended, token)
	return nil
}

func newAuthFixture(t *testing.T) (*fakeDirectory, *memory.Store, *AuthService) {
	t.Helper()
	directory := newFakeDirectory()
	store := memory.NewStore()
	profiles := NewProfileService(store.Profiles(), zap.NewNop())
	return directory, store, NewAuthService(directory, profiles, zap.NewNop())
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("registers the account and bootstraps the profile", func(t *testing.T) {
		_, store, svc := newAuthFixture(t)

		profile, err := svc.Signup(ctx, "alice@example.com", "s3cretpass", "Alice")
		require.NoError(t, err)
		assert.Equal(t, "acct-Alice", profile.AccountID())
		assert.False(t, profile.IsVerified())

		stored, err := store.Profiles().FindByAccountID(ctx, "acct-Alice")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", stored.Email())
	})

	t.Run("requires email and password", func(t *testing.T) {
		_, _, svc := newAuthFixture(t)
		_, err := svc.Signup(ctx, "", "s3cretpass", "Alice")
		assert.True(t, pkgerrors.IsValidation(err))
		_, err = svc.Signup(ctx, "alice@example.com", "", "Alice")
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	directory, store, svc := newAuthFixture(t)

	_, err := directory.CreateAccount(ctx, "alice@example.com", "s3cretpass", "Alice")
	require.NoError(t, err)

	// First login bootstraps the profile.
	session, profile, err := svc.Login(ctx, "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "token-acct-Alice", session.AccessToken)
	assert.Equal(t, "acct-Alice", profile.AccountID())

	stored, err := store.Profiles().FindByAccountID(ctx, "acct-Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.DisplayName())

	_, _, err = svc.Login(ctx, "ghost@example.com", "whatever")
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	directory, _, svc := newAuthFixture(t)

	require.NoError(t, svc.Logout(ctx, "token-acct-Alice"))
	assert.Equal(t, []string{"token-acct-Alice"}, directory.ended)
}

func TestConfirmVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("marks an existing profile verified", func(t *testing.T) {
		directory, store, svc := newAuthFixture(t)
		_, err := directory.CreateAccount(ctx, "alice@example.com", "s3cretpass", "Alice")
		require.NoError(t, err)
		_, _, err = svc.Login(ctx, "alice@example.com", "s3cretpass")
		require.NoError(t, err)

		require.NoError(t, svc.ConfirmVerification(ctx, "alice@example.com", "123456"))

		profile, err := store.Profiles().FindByAccountID(ctx, "acct-Alice")
		require.NoError(t, err)
		assert.True(t, profile.IsVerified())
	})

	t.Run("verification before first login is not an error", func(t *testing.T) {
		directory, _, svc := newAuthFixture(t)
		_, err := directory.CreateAccount(ctx, "alice@example.com", "s3cretpass", "Alice")
		require.NoError(t, err)

		require.NoError(t, svc.ConfirmVerification(ctx, "alice@example.com", "123456"))
	})

	t.Run("rejects a bad code", func(t *testing.T) {
		directory, _, svc := newAuthFixture(t)
		_, err := directory.CreateAccount(ctx, "alice@example.com", "s3cretpass", "Alice")
		require.NoError(t, err)

		err = svc.ConfirmVerification(ctx, "alice@example.com", "000000")
		assert.True(t, pkgerrors.IsValidation(err))
	})
}
