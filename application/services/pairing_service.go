package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// PairingService establishes and dissolves the exclusive link between two
// profiles. The multi-record writes go through the PairingStore so that no
// half-linked state is ever observable.
type PairingService struct {
	profiles ports.ProfileRepository
	couples  ports.CoupleRepository
	pairings ports.PairingStore
	logger   *zap.Logger
}

// NewPairingService creates a new pairing service
func NewPairingService(
	profiles ports.ProfileRepository,
	couples ports.CoupleRepository,
	pairings ports.PairingStore,
	logger *zap.Logger,
) *PairingService {
	return &PairingService{
		profiles: profiles,
		couples:  couples,
		pairings: pairings,
		logger:   logger,
	}
}

// Pair links two unpaired accounts into a new active couple.
//
// The couple id is deterministically derived from both member identities,
// so a repeat attempt for the same two accounts collides with the existing
// record instead of creating a duplicate. If the two accounts were paired
// before and disconnected, re-pairing reactivates the same identity and the
// couple regains its shared history.
func (s *PairingService) Pair(ctx context.Context, initiatorID, targetID string) (*entities.Couple, error) {
	if initiatorID == targetID {
		return nil, pkgerrors.NewSelfPairingError(initiatorID)
	}

	initiator, err := s.profiles.FindByAccountID(ctx, initiatorID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.NewNotFoundError("initiator profile")
		}
		return nil, err
	}
	target, err := s.profiles.FindByAccountID(ctx, targetID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.NewNotFoundError("partner profile")
		}
		return nil, err
	}

	if !initiator.IsVerified() {
		return nil, pkgerrors.NewForbiddenError("email verification is required before pairing")
	}
	if initiator.IsPaired() {
		return nil, pkgerrors.NewAlreadyPairedError(initiatorID)
	}
	if target.IsPaired() {
		return nil, pkgerrors.NewAlreadyPairedError(targetID)
	}

	coupleID, err := valueobjects.DeriveCoupleID(initiatorID, targetID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	couple, err := entities.NewCouple(
		coupleID,
		entities.Member{AccountID: initiator.AccountID(), Name: initiator.DisplayName(), Email: initiator.Email()},
		entities.Member{AccountID: target.AccountID(), Name: target.DisplayName(), Email: target.Email()},
		initiatorID,
	)
	if err != nil {
		return nil, err
	}

	// The link is a single logical transaction over three records. The
	// store serializes racing initiators on the target's pairing pointer.
	if err := s.pairings.Link(ctx, couple); err != nil {
		return nil, err
	}

	s.logger.Info("couple linked",
		zap.String("coupleID", couple.ID().String()),
		zap.String("initiator", initiatorID),
		zap.String("partner", targetID),
	)
	return couple, nil
}

// CurrentCouple returns the active couple for an account, or nil when the
// account is unpaired. A pairing pointer referencing a missing or inactive
// couple is a consistency violation, not an unpaired state.
func (s *PairingService) CurrentCouple(ctx context.Context, accountID string) (*entities.Couple, error) {
	profile, err := s.profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !profile.IsPaired() {
		return nil, nil
	}

	couple, err := s.couples.FindByID(ctx, profile.CoupleID())
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.NewConsistencyError("profile pairing pointer references a missing couple").
				WithDetails(map[string]interface{}{
					"accountId": accountID,
					"coupleId":  profile.CoupleID().String(),
				})
		}
		return nil, err
	}
	if !couple.Active() {
		return nil, pkgerrors.NewConsistencyError("profile pairing pointer references an inactive couple").
			WithDetails(map[string]interface{}{
				"accountId": accountID,
				"coupleId":  couple.ID().String(),
			})
	}
	return couple, nil
}

// Disconnect deactivates the caller's couple and clears both members'
// pairing pointers. Historical memories stay attached to the now-inactive
// couple; both former members retain read access through their previous
// couple reference.
func (s *PairingService) Disconnect(ctx context.Context, accountID string) error {
	profile, err := s.profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if !profile.IsPaired() {
		return pkgerrors.NewNotPairedError(accountID)
	}

	couple, err := s.couples.FindByID(ctx, profile.CoupleID())
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return pkgerrors.NewConsistencyError("profile pairing pointer references a missing couple").
				WithDetails(map[string]interface{}{"accountId": accountID})
		}
		return err
	}

	// The loaded record may alias live store state, so a rejected unlink
	// restores the entity and the couple stays active.
	snapshot := *couple
	if err := couple.Disconnect(accountID, time.Now()); err != nil {
		return err
	}
	if err := s.pairings.Unlink(ctx, couple); err != nil {
		*couple = snapshot
		return err
	}

	s.logger.Info("couple disconnected",
		zap.String("coupleID", couple.ID().String()),
		zap.String("disconnectedBy", accountID),
	)
	return nil
}

// RenameCouple changes the display name of the caller's active couple
func (s *PairingService) RenameCouple(ctx context.Context, accountID, name string) (*entities.Couple, error) {
	couple, err := s.CurrentCouple(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, pkgerrors.NewNotPairedError(accountID)
	}

	if err := couple.Rename(accountID, name); err != nil {
		return nil, err
	}
	if err := s.couples.Save(ctx, couple); err != nil {
		return nil, err
	}
	return couple, nil
}
