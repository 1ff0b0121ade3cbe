package valueobjects

import (
	"errors"
	"strings"
)

// BlobRef is an opaque reference to an object in the external blob store.
// The core never handles raw bytes, only these references.
type BlobRef struct {
	value string
}

// NewBlobRef validates and creates a blob reference. Serialized null
// placeholders are rejected so a failed upload can never be persisted as a
// memory's image.
func NewBlobRef(ref string) (BlobRef, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return BlobRef{}, errors.New("blob reference cannot be empty")
	}
	switch strings.ToLower(trimmed) {
	case "null", "undefined", "nil":
		return BlobRef{}, errors.New("blob reference is a placeholder, not a stored object")
	}
	return BlobRef{value: trimmed}, nil
}

// String returns the string representation of the BlobRef
func (r BlobRef) String() string {
	return r.value
}

// IsZero checks if the BlobRef is the zero value
func (r BlobRef) IsZero() bool {
	return r.value == ""
}

// Equals checks if two BlobRefs are equal
func (r BlobRef) Equals(other BlobRef) bool {
	return r.value == other.value
}

// MarshalJSON implements json.Marshaler
func (r BlobRef) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (r *BlobRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("BlobRef must be a string")
	}
	raw := string(data[1 : len(data)-1])
	if strings.TrimSpace(raw) == "" {
		*r = BlobRef{}
		return nil
	}
	parsed, err := NewBlobRef(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
