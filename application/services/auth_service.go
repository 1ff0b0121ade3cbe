package services

import (
	"context"

	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/domain/entities"
	pkgerrors "snaptales/pkg/errors"
)

// AuthService fronts the external account directory and keeps the local
// profile store in step with it
type AuthService struct {
	directory ports.AccountDirectory
	profiles  *ProfileService
	logger    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(directory ports.AccountDirectory, profiles *ProfileService, logger *zap.Logger) *AuthService {
	return &AuthService{
		directory: directory,
		profiles:  profiles,
		logger:    logger,
	}
}

// Signup registers an account with the directory and bootstraps its profile
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*entities.Profile, error) {
	if email == "" || password == "" {
		return nil, pkgerrors.NewValidationError("email and password are required")
	}

	account, err := s.directory.CreateAccount(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.EnsureProfile(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account registered",
		zap.String("accountID", account.AccountID),
	)
	return profile, nil
}

// Login authenticates against the directory and returns the session plus
// the caller's profile, bootstrapping it on first login
func (s *AuthService) Login(ctx context.Context, email, password string) (ports.Session, *entities.Profile, error) {
	session, err := s.directory.Authenticate(ctx, email, password)
	if err != nil {
		return ports.Session{}, nil, err
	}

	profile, err := s.profiles.EnsureProfile(ctx, session.Account)
	if err != nil {
		return ports.Session{}, nil, err
	}
	return session, profile, nil
}

// Logout ends the directory session behind the token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.directory.EndSession(ctx, token)
}

// RequestVerification asks the directory to email a verification code
func (s *AuthService) RequestVerification(ctx context.Context, email string) error {
	if email == "" {
		return pkgerrors.NewValidationError("email is required")
	}
	return s.directory.RequestEmailVerification(ctx, email)
}

// ConfirmVerification redeems a verification code and marks the profile
// verified
func (s *AuthService) ConfirmVerification(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return pkgerrors.NewValidationError("email and code are required")
	}

	account, err := s.directory.ConfirmVerification(ctx, email, code)
	if err != nil {
		return err
	}
	if err := s.profiles.MarkVerified(ctx, account.AccountID); err != nil {
		// A profile that has not been bootstrapped yet picks the flag up
		// from the directory on first login.
		if !pkgerrors.IsNotFound(err) {
			return err
		}
	}
	s.logger.Info("email verified",
		zap.String("accountID", account.AccountID),
	)
	return nil
}
