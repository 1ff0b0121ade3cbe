// Package acl contains anti-corruption adapters around external services.
package acl

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"snaptales/application/ports"
	pkgerrors "snaptales/pkg/errors"
)

// SupabaseDirectory implements the AccountDirectory port against Supabase
// auth. All calls go through a circuit breaker; an open circuit surfaces as
// an Unavailable error instead of hammering a failing upstream.
type SupabaseDirectory struct {
	client  *supabase.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewSupabaseDirectory creates a new SupabaseDirectory
func NewSupabaseDirectory(client *supabase.Client, logger *zap.Logger) ports.AccountDirectory {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "account-directory",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &SupabaseDirectory{
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

func (d *SupabaseDirectory) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := d.breaker.Execute(fn)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		d.logger.Warn("account directory circuit open", zap.String("operation", op))
		return nil, pkgerrors.NewUnavailableError("account directory")
	}
	return result, err
}

// CreateAccount registers a new account. Supabase sends the confirmation
// email itself when email confirmation is enabled on the project.
func (d *SupabaseDirectory) CreateAccount(ctx context.Context, email, password, name string) (ports.Account, error) {
	result, err := d.execute("create account", func() (interface{}, error) {
		return d.client.Auth.Signup(types.SignupRequest{
			Email:    email,
			Password: password,
			Data:     map[string]interface{}{"name": name},
		})
	})
	if err != nil {
		if pkgerrors.IsUnavailable(err) {
			return ports.Account{}, err
		}
		return ports.Account{}, pkgerrors.NewExternalError("account signup failed", err)
	}

	resp := result.(*types.SignupResponse)
	return ports.Account{
		AccountID: resp.ID.String(),
		Email:     resp.Email,
		Name:      name,
		Verified:  resp.EmailConfirmedAt != nil,
	}, nil
}

// Authenticate exchanges credentials for a session
func (d *SupabaseDirectory) Authenticate(ctx context.Context, email, password string) (ports.Session, error) {
	result, err := d.execute("authenticate", func() (interface{}, error) {
		return d.client.SignInWithEmailPassword(email, password)
	})
	if err != nil {
		if pkgerrors.IsUnavailable(err) {
			return ports.Session{}, err
		}
		return ports.Session{}, pkgerrors.NewUnauthorizedError("invalid email or password")
	}

	session := result.(types.Session)
	return ports.Session{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    int(session.ExpiresIn),
		Account:      accountFromUser(session.User),
	}, nil
}

// CurrentPrincipal resolves the account behind an access token
func (d *SupabaseDirectory) CurrentPrincipal(ctx context.Context, token string) (ports.Account, error) {
	result, err := d.execute("current principal", func() (interface{}, error) {
		return d.client.Auth.WithToken(token).GetUser()
	})
	if err != nil {
		if pkgerrors.IsUnavailable(err) {
			return ports.Account{}, err
		}
		return ports.Account{}, pkgerrors.NewUnauthorizedError("invalid or expired token")
	}

	user := result.(*types.UserResponse)
	return accountFromUser(user.User), nil
}

// RequestEmailVerification asks the directory to send a one-time code to
// the account's email address
func (d *SupabaseDirectory) RequestEmailVerification(ctx context.Context, email string) error {
	_, err := d.execute("request verification", func() (interface{}, error) {
		return nil, d.client.Auth.OTP(types.OTPRequest{
			Email:      email,
			CreateUser: false,
		})
	})
	if err != nil {
		if pkgerrors.IsUnavailable(err) {
			return err
		}
		return pkgerrors.NewExternalError("verification request failed", err)
	}
	return nil
}

// ConfirmVerification redeems a one-time code, proving control of the
// email address
func (d *SupabaseDirectory) ConfirmVerification(ctx context.Context, email, code string) (ports.Account, error) {
	result, err := d.execute("confirm verification", func() (interface{}, error) {
		return d.client.Auth.VerifyForUser(types.VerifyForUserRequest{
			Type:  types.VerificationTypeMagiclink,
			Token: code,
			Email: email,
		})
	})
	if err != nil {
		if pkgerrors.IsUnavailable(err) {
			return ports.Account{}, err
		}
		return ports.Account{}, pkgerrors.NewValidationError("invalid or expired verification code")
	}

	resp := result.(*types.VerifyForUserResponse)
	account := accountFromUser(resp.User)
	account.Verified = true
	return account, nil
}

// EndSession invalidates the caller's session at the directory
func (d *SupabaseDirectory) EndSession(ctx context.Context, token string) error {
	_, err := d.execute("end session", func() (interface{}, error) {
		return nil, d.client.Auth.WithToken(token).Logout()
	})
	if err != nil {
		if pkgerrors.IsUnavailable(err) {
			return err
		}
		// A dead session is already logged out.
		d.logger.Debug("logout call failed", zap.Error(err))
	}
	return nil
}

func accountFromUser(user types.User) ports.Account {
	name := ""
	if raw, ok := user.UserMetadata["name"]; ok {
		if s, ok := raw.(string); ok {
			name = s
		}
	}
	return ports.Account{
		AccountID: user.ID.String(),
		Email:     user.Email,
		Name:      name,
		Verified:  user.EmailConfirmedAt != nil,
	}
}
