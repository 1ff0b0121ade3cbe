package valueobjects

import (
	"errors"
)

// coupleIDPrefixLen is the number of leading account id bytes contributing to
// a joint couple id. Account ids shorter than this contribute in full.
const coupleIDPrefixLen = 10

// CoupleID is a value object identifying an exclusive pairing of two accounts.
// It is deterministically derived from both member identities so that a repeat
// pairing attempt collides with the existing record instead of creating a
// duplicate.
type CoupleID struct {
	value string
}

// DeriveCoupleID derives the joint id for a pairing, initiator first
func DeriveCoupleID(initiatorID, targetID string) (CoupleID, error) {
	if initiatorID == "" || targetID == "" {
		return CoupleID{}, errors.New("both account ids are required to derive a couple id")
	}
	if initiatorID == targetID {
		return CoupleID{}, errors.New("couple id requires two distinct accounts")
	}
	return CoupleID{value: accountPrefix(initiatorID) + accountPrefix(targetID)}, nil
}

// NewCoupleIDFromString creates a CoupleID from an existing string
func NewCoupleIDFromString(id string) (CoupleID, error) {
	if id == "" {
		return CoupleID{}, errors.New("couple id cannot be empty")
	}
	return CoupleID{value: id}, nil
}

// String returns the string representation of the CoupleID
func (id CoupleID) String() string {
	return id.value
}

// Equals checks if two CoupleIDs are equal
func (id CoupleID) Equals(other CoupleID) bool {
	return id.value == other.value
}

// IsZero checks if the CoupleID is the zero value (an unpaired reference)
func (id CoupleID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id CoupleID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *CoupleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("CoupleID must be a string")
	}
	raw := string(data[1 : len(data)-1])
	if raw == "" {
		*id = CoupleID{}
		return nil
	}
	parsed, err := NewCoupleIDFromString(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func accountPrefix(accountID string) string {
	if len(accountID) <= coupleIDPrefixLen {
		return accountID
	}
	return accountID[:coupleIDPrefixLen]
}
