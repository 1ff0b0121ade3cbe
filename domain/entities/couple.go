package entities

import (
	"fmt"
	"time"

	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// Member identifies one side of a couple
type Member struct {
	AccountID string
	Name      string
	Email     string
}

// Couple represents the exclusive pairing of exactly two profiles. Once
// active, membership is immutable; the only transition out is Disconnect,
// which deactivates the record without deleting it.
type Couple struct {
	id             valueobjects.CoupleID
	memberA        Member
	memberB        Member
	displayName    string
	active         bool
	createdBy      string
	createdAt      time.Time
	disconnectedAt *time.Time
	disconnectedBy string
}

// NewCouple creates an active couple from two distinct members
func NewCouple(id valueobjects.CoupleID, memberA, memberB Member, createdBy string) (*Couple, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("couple id cannot be empty")
	}
	if memberA.AccountID == "" || memberB.AccountID == "" {
		return nil, pkgerrors.NewValidationError("both members must have an account id")
	}
	if memberA.AccountID == memberB.AccountID {
		return nil, pkgerrors.NewSelfPairingError(memberA.AccountID)
	}
	if createdBy != memberA.AccountID && createdBy != memberB.AccountID {
		return nil, pkgerrors.NewValidationError("createdBy must be one of the members")
	}

	return &Couple{
		id:          id,
		memberA:     memberA,
		memberB:     memberB,
		displayName: fmt.Sprintf("%s & %s", memberA.Name, memberB.Name),
		active:      true,
		createdBy:   createdBy,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructCouple rebuilds a couple from repository data
func ReconstructCouple(
	id valueobjects.CoupleID,
	memberA, memberB Member,
	displayName string,
	active bool,
	createdBy string,
	createdAt time.Time,
	disconnectedAt *time.Time,
	disconnectedBy string,
) (*Couple, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("couple id cannot be empty")
	}
	if memberA.AccountID == memberB.AccountID {
		return nil, pkgerrors.NewValidationError("couple members must be distinct accounts")
	}
	return &Couple{
		id:             id,
		memberA:        memberA,
		memberB:        memberB,
		displayName:    displayName,
		active:         active,
		createdBy:      createdBy,
		createdAt:      createdAt,
		disconnectedAt: disconnectedAt,
		disconnectedBy: disconnectedBy,
	}, nil
}

func (c *Couple) ID() valueobjects.CoupleID  { return c.id }
func (c *Couple) MemberA() Member            { return c.memberA }
func (c *Couple) MemberB() Member            { return c.memberB }
func (c *Couple) DisplayName() string        { return c.displayName }
func (c *Couple) Active() bool               { return c.active }
func (c *Couple) CreatedBy() string          { return c.createdBy }
func (c *Couple) CreatedAt() time.Time       { return c.createdAt }
func (c *Couple) DisconnectedAt() *time.Time { return c.disconnectedAt }
func (c *Couple) DisconnectedBy() string     { return c.disconnectedBy }

// HasMember reports whether the account is one of the couple's members
func (c *Couple) HasMember(accountID string) bool {
	return c.memberA.AccountID == accountID || c.memberB.AccountID == accountID
}

// OtherMember returns the member opposite to the given account
func (c *Couple) OtherMember(accountID string) (Member, error) {
	switch accountID {
	case c.memberA.AccountID:
		return c.memberB, nil
	case c.memberB.AccountID:
		return c.memberA, nil
	default:
		return Member{}, pkgerrors.NewForbiddenError("account is not a member of this couple")
	}
}

// Rename changes the couple's display name. Only members may rename.
func (c *Couple) Rename(accountID, name string) error {
	if !c.HasMember(accountID) {
		return pkgerrors.NewForbiddenError("account is not a member of this couple")
	}
	if name == "" {
		return pkgerrors.NewValidationError("couple name cannot be empty")
	}
	c.displayName = name
	return nil
}

// Disconnect deactivates the couple, recording who disconnected and when.
// The record is retained so historical memories keep a valid owner scope.
func (c *Couple) Disconnect(accountID string, at time.Time) error {
	if !c.HasMember(accountID) {
		return pkgerrors.NewForbiddenError("account is not a member of this couple")
	}
	if !c.active {
		return pkgerrors.NewNotPairedError(accountID)
	}
	c.active = false
	at = at.UTC()
	c.disconnectedAt = &at
	c.disconnectedBy = accountID
	return nil
}
