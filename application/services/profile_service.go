package services

import (
	"context"

	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// ProfileService resolves and mutates per-account profiles
type ProfileService struct {
	profiles ports.ProfileRepository
	logger   *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profiles ports.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger,
	}
}

// EnsureProfile resolves the profile for an authenticated principal,
// bootstrapping it on first access. Idempotent: repeated calls for the same
// account return the existing record.
func (s *ProfileService) EnsureProfile(ctx context.Context, account ports.Account) (*entities.Profile, error) {
	profile, err := s.profiles.FindByAccountID(ctx, account.AccountID)
	if err == nil {
		// Verification state flows one way from the directory.
		if account.Verified && !profile.IsVerified() {
			profile.MarkVerified()
			if err := s.profiles.Save(ctx, profile); err != nil {
				return nil, err
			}
		}
		return profile, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	profile, err = entities.NewProfile(account.AccountID, account.Email, account.Name)
	if err != nil {
		return nil, err
	}
	if account.Verified {
		profile.MarkVerified()
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile bootstrapped",
		zap.String("accountID", account.AccountID),
	)
	return profile, nil
}

// GetProfile returns the profile for an account
func (s *ProfileService) GetProfile(ctx context.Context, accountID string) (*entities.Profile, error) {
	if accountID == "" {
		return nil, pkgerrors.NewValidationError("accountID cannot be empty")
	}
	return s.profiles.FindByAccountID(ctx, accountID)
}

// UpdateProfile applies owner-editable changes. Only the owner may mutate
// their profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, callerID, accountID string, update entities.ProfileUpdate) (*entities.Profile, error) {
	if callerID != accountID {
		return nil, pkgerrors.NewForbiddenError("a profile may only be modified by its owner")
	}

	profile, err := s.profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile.Apply(update)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SetAvatar replaces the owner's avatar reference. The blob must already be
// uploaded; placeholder references are rejected.
func (s *ProfileService) SetAvatar(ctx context.Context, callerID, ref string) (*entities.Profile, error) {
	avatarRef, err := valueobjects.NewBlobRef(ref)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	profile, err := s.profiles.FindByAccountID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	profile.SetAvatar(avatarRef)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// MarkVerified transitions an account's profile to the verified state
func (s *ProfileService) MarkVerified(ctx context.Context, accountID string) error {
	profile, err := s.profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if profile.IsVerified() {
		return nil
	}
	profile.MarkVerified()
	return s.profiles.Save(ctx, profile)
}
