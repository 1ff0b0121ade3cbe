// Package memory provides an in-process implementation of the persistence
// ports, used by tests and local development. It has no multi-record
// transaction primitive, so the pairing writes follow the fixed-order
// strategy: initiator first, then partner, with the first write rolled back
// when the second fails.
package memory

import (
	"context"
	"sort"
	"sync"

	"snaptales/application/ports"
	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// Store holds all records behind a single mutex
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*entities.Profile
	couples  map[string]*entities.Couple
	memories map[string][]*entities.Memory

	// failNextPartnerWrite, when set, makes the next partner-profile write
	// in Link/Unlink fail. Used by tests to exercise compensation.
	failNextPartnerWrite error
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]*entities.Profile),
		couples:  make(map[string]*entities.Couple),
		memories: make(map[string][]*entities.Memory),
	}
}

// FailNextPartnerWrite arms a one-shot failure for the next partner-profile
// write inside Link or Unlink
func (s *Store) FailNextPartnerWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextPartnerWrite = err
}

// Profiles returns the profile repository view of the store
func (s *Store) Profiles() ports.ProfileRepository { return &profileRepository{store: s} }

// Couples returns the couple repository view of the store
func (s *Store) Couples() ports.CoupleRepository { return &coupleRepository{store: s} }

// Pairings returns the pairing store view of the store
func (s *Store) Pairings() ports.PairingStore { return &pairingStore{store: s} }

// Memories returns the memory repository view of the store
func (s *Store) Memories() ports.MemoryRepository { return &memoryRepository{store: s} }

type profileRepository struct {
	store *Store
}

func (r *profileRepository) FindByAccountID(ctx context.Context, accountID string) (*entities.Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	profile, exists := r.store.profiles[accountID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("profile")
	}
	return profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *entities.Profile) error {
	if profile == nil || profile.AccountID() == "" {
		return pkgerrors.NewValidationError("profile must have an account id")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.profiles[profile.AccountID()] = profile
	return nil
}

type coupleRepository struct {
	store *Store
}

func (r *coupleRepository) FindByID(ctx context.Context, id valueobjects.CoupleID) (*entities.Couple, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	couple, exists := r.store.couples[id.String()]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("couple")
	}
	return couple, nil
}

func (r *coupleRepository) Save(ctx context.Context, couple *entities.Couple) error {
	if couple == nil || couple.ID().IsZero() {
		return pkgerrors.NewValidationError("couple must have an id")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.couples[couple.ID().String()] = couple
	return nil
}

type pairingStore struct {
	store *Store
}

// Link creates the couple and sets both members' pairing pointers. The
// whole sequence runs under the store mutex, which serializes racing
// initiators on the same target.
func (p *pairingStore) Link(ctx context.Context, couple *entities.Couple) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	initiatorID := couple.CreatedBy()
	partner, err := couple.OtherMember(initiatorID)
	if err != nil {
		return err
	}

	initiatorProfile, exists := p.store.profiles[initiatorID]
	if !exists {
		return pkgerrors.NewNotFoundError("initiator profile")
	}
	partnerProfile, exists := p.store.profiles[partner.AccountID]
	if !exists {
		return pkgerrors.NewNotFoundError("partner profile")
	}

	// A still-active couple under the same identity means one of the two
	// accounts is already linked.
	if existing, exists := p.store.couples[couple.ID().String()]; exists && existing.Active() {
		return pkgerrors.NewAlreadyPairedError(initiatorID)
	}

	// Fixed order: initiator, then partner.
	snapshot := *initiatorProfile
	if err := initiatorProfile.LinkCouple(couple.ID()); err != nil {
		return err
	}

	partnerErr := p.store.failNextPartnerWrite
	p.store.failNextPartnerWrite = nil
	if partnerErr == nil {
		partnerErr = partnerProfile.LinkCouple(couple.ID())
	}
	if partnerErr != nil {
		// Compensate the first write so no half-linked state persists.
		*initiatorProfile = snapshot
		return partnerErr
	}

	p.store.couples[couple.ID().String()] = couple
	return nil
}

// Unlink saves the deactivated couple and clears both members' pairing
// pointers, using the same fixed-order discipline as Link.
func (p *pairingStore) Unlink(ctx context.Context, couple *entities.Couple) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	memberA := p.store.profiles[couple.MemberA().AccountID]
	memberB := p.store.profiles[couple.MemberB().AccountID]
	if memberA == nil || memberB == nil {
		return pkgerrors.NewConsistencyError("couple member profile is missing")
	}

	snapshotA := *memberA
	if memberA.IsPaired() {
		if err := memberA.UnlinkCouple(); err != nil {
			return err
		}
	}

	partnerErr := p.store.failNextPartnerWrite
	p.store.failNextPartnerWrite = nil
	if partnerErr == nil && memberB.IsPaired() {
		partnerErr = memberB.UnlinkCouple()
	}
	if partnerErr != nil {
		*memberA = snapshotA
		return partnerErr
	}

	p.store.couples[couple.ID().String()] = couple
	return nil
}

type memoryRepository struct {
	store *Store
}

func (r *memoryRepository) Save(ctx context.Context, memory *entities.Memory) error {
	if memory == nil || memory.ID() == "" {
		return pkgerrors.NewValidationError("memory must have an id")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := memory.CoupleID().String()
	r.store.memories[key] = append(r.store.memories[key], memory)
	return nil
}

func (r *memoryRepository) FindByCoupleID(ctx context.Context, coupleID valueobjects.CoupleID) ([]*entities.Memory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored := r.store.memories[coupleID.String()]
	result := make([]*entities.Memory, len(stored))
	copy(result, stored)

	// Most recent event first; creation time breaks ties.
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].MemoryDate().Equal(result[j].MemoryDate()) {
			return result[i].MemoryDate().After(result[j].MemoryDate())
		}
		return result[i].CreatedAt().After(result[j].CreatedAt())
	})
	return result, nil
}
