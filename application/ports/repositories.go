package ports

import (
	"context"

	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
)

// ProfileRepository persists per-account profiles
type ProfileRepository interface {
	// FindByAccountID returns the profile for an account, or a NotFound error
	FindByAccountID(ctx context.Context, accountID string) (*entities.Profile, error)

	// Save creates or replaces a profile record
	Save(ctx context.Context, profile *entities.Profile) error
}

// CoupleRepository persists couple records
type CoupleRepository interface {
	// FindByID returns the couple with the given id, or a NotFound error
	FindByID(ctx context.Context, id valueobjects.CoupleID) (*entities.Couple, error)

	// Save creates or replaces a couple record
	Save(ctx context.Context, couple *entities.Couple) error
}

// PairingStore performs the multi-record pairing writes. Implementations
// must guarantee that the couple record and both profiles' pairing pointers
// change together: either through a native multi-record transaction, or by
// writing in a fixed order (initiator, then target) and compensating the
// first write when the second fails. A half-linked state that survives the
// call is a consistency violation.
type PairingStore interface {
	// Link creates the couple and sets both members' pairing pointers.
	// Fails with AlreadyPaired if either member's pointer is occupied, and
	// with AlreadyPaired if a couple with the same identity already exists.
	Link(ctx context.Context, couple *entities.Couple) error

	// Unlink deactivates the couple and clears both members' pairing
	// pointers, retaining each profile's previous couple reference.
	Unlink(ctx context.Context, couple *entities.Couple) error
}

// MemoryRepository persists timeline memories
type MemoryRepository interface {
	// Save creates a memory record
	Save(ctx context.Context, memory *entities.Memory) error

	// FindByCoupleID returns all memories owned by a couple, ordered by
	// memory date descending with creation time descending as tiebreak
	FindByCoupleID(ctx context.Context, coupleID valueobjects.CoupleID) ([]*entities.Memory, error)
}
