package entities

import (
	"time"

	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// ProfileStatus represents the verification state of a profile.
// Transitions: unverified -> verified. Pairing requires verified.
type ProfileStatus string

const (
	StatusUnverified ProfileStatus = "unverified"
	StatusVerified   ProfileStatus = "verified"
)

// Profile is the per-account record holding personal and pairing state.
// The pairing pointer is an explicit nullable reference: a zero CoupleID
// means unpaired, there is no self-scoped placeholder.
type Profile struct {
	accountID         string
	email             string
	displayName       string
	bio               string
	partnerName       string
	relationshipStart string
	anniversary       string
	location          string
	avatarRef         valueobjects.BlobRef
	coupleID          valueobjects.CoupleID
	previousCoupleID  valueobjects.CoupleID
	status            ProfileStatus
	createdAt         time.Time
	updatedAt         time.Time
}

// NewProfile creates a profile for an account on first authenticated access
func NewProfile(accountID, email, displayName string) (*Profile, error) {
	if accountID == "" {
		return nil, pkgerrors.NewValidationError("accountID cannot be empty")
	}
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}

	now := time.Now().UTC()
	return &Profile{
		accountID:   accountID,
		email:       email,
		displayName: displayName,
		status:      StatusUnverified,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructProfile rebuilds a profile from repository data
func ReconstructProfile(
	accountID, email, displayName string,
	bio, partnerName, relationshipStart, anniversary, location string,
	avatarRef valueobjects.BlobRef,
	coupleID, previousCoupleID valueobjects.CoupleID,
	status ProfileStatus,
	createdAt, updatedAt time.Time,
) (*Profile, error) {
	if accountID == "" {
		return nil, pkgerrors.NewValidationError("accountID cannot be empty")
	}
	if status == "" {
		status = StatusUnverified
	}
	return &Profile{
		accountID:         accountID,
		email:             email,
		displayName:       displayName,
		bio:               bio,
		partnerName:       partnerName,
		relationshipStart: relationshipStart,
		anniversary:       anniversary,
		location:          location,
		avatarRef:         avatarRef,
		coupleID:          coupleID,
		previousCoupleID:  previousCoupleID,
		status:            status,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

func (p *Profile) AccountID() string                       { return p.accountID }
func (p *Profile) Email() string                           { return p.email }
func (p *Profile) DisplayName() string                     { return p.displayName }
func (p *Profile) Bio() string                             { return p.bio }
func (p *Profile) PartnerName() string                     { return p.partnerName }
func (p *Profile) RelationshipStart() string               { return p.relationshipStart }
func (p *Profile) Anniversary() string                     { return p.anniversary }
func (p *Profile) Location() string                        { return p.location }
func (p *Profile) AvatarRef() valueobjects.BlobRef         { return p.avatarRef }
func (p *Profile) CoupleID() valueobjects.CoupleID         { return p.coupleID }
func (p *Profile) PreviousCoupleID() valueobjects.CoupleID { return p.previousCoupleID }
func (p *Profile) Status() ProfileStatus                   { return p.status }
func (p *Profile) CreatedAt() time.Time                    { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time                    { return p.updatedAt }

// IsPaired reports whether the profile carries an active pairing pointer
func (p *Profile) IsPaired() bool {
	return !p.coupleID.IsZero()
}

// IsVerified reports whether the account's email ownership was confirmed
func (p *Profile) IsVerified() bool {
	return p.status == StatusVerified
}

// MarkVerified transitions the profile to verified. Idempotent.
func (p *Profile) MarkVerified() {
	if p.status == StatusVerified {
		return
	}
	p.status = StatusVerified
	p.updatedAt = time.Now().UTC()
}

// ProfileUpdate carries the owner-editable fields. Nil pointers leave the
// current value untouched.
type ProfileUpdate struct {
	DisplayName       *string
	Bio               *string
	PartnerName       *string
	RelationshipStart *string
	Anniversary       *string
	Location          *string
}

// Apply mutates the owner-editable fields
func (p *Profile) Apply(update ProfileUpdate) {
	if update.DisplayName != nil {
		p.displayName = *update.DisplayName
	}
	if update.Bio != nil {
		p.bio = *update.Bio
	}
	if update.PartnerName != nil {
		p.partnerName = *update.PartnerName
	}
	if update.RelationshipStart != nil {
		p.relationshipStart = *update.RelationshipStart
	}
	if update.Anniversary != nil {
		p.anniversary = *update.Anniversary
	}
	if update.Location != nil {
		p.location = *update.Location
	}
	p.updatedAt = time.Now().UTC()
}

// SetAvatar replaces the avatar reference
func (p *Profile) SetAvatar(ref valueobjects.BlobRef) {
	p.avatarRef = ref
	p.updatedAt = time.Now().UTC()
}

// LinkCouple sets the pairing pointer. Fails if the profile is already paired
// with a different couple.
func (p *Profile) LinkCouple(coupleID valueobjects.CoupleID) error {
	if coupleID.IsZero() {
		return pkgerrors.NewValidationError("couple id cannot be empty")
	}
	if p.IsPaired() && !p.coupleID.Equals(coupleID) {
		return pkgerrors.NewAlreadyPairedError(p.accountID)
	}
	p.coupleID = coupleID
	p.updatedAt = time.Now().UTC()
	return nil
}

// UnlinkCouple clears the pairing pointer, retaining the old reference so
// historical memories stay reachable after a disconnect.
func (p *Profile) UnlinkCouple() error {
	if !p.IsPaired() {
		return pkgerrors.NewNotPairedError(p.accountID)
	}
	p.previousCoupleID = p.coupleID
	p.coupleID = valueobjects.CoupleID{}
	p.updatedAt = time.Now().UTC()
	return nil
}

// BelongsTo reports whether the given couple is the profile's current or
// former pairing scope.
func (p *Profile) BelongsTo(coupleID valueobjects.CoupleID) bool {
	if coupleID.IsZero() {
		return false
	}
	return p.coupleID.Equals(coupleID) || p.previousCoupleID.Equals(coupleID)
}
