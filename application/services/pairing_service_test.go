package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
	"snaptales/infrastructure/persistence/memory"
	pkgerrors "snaptales/pkg/errors"
)

func seedProfile(t *testing.T, store *memory.Store, accountID, email, name string, verified bool) *entities.Profile {
	t.Helper()
	profile, err := entities.NewProfile(accountID, email, name)
	require.NoError(t, err)
	if verified {
		profile.MarkVerified()
	}
	require.NoError(t, store.Profiles().Save(context.Background(), profile))
	return profile
}

func newPairingFixture(t *testing.T) (*memory.Store, *PairingService) {
	t.Helper()
	store := memory.NewStore()
	svc := NewPairingService(store.Profiles(), store.Couples(), store.Pairings(), zap.NewNop())
	return store, svc
}

func TestPair(t *testing.T) {
	ctx := context.Background()

	t.Run("links two unpaired accounts", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)
		seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)

		couple, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		require.NoError(t, err)

		assert.True(t, couple.Active())
		assert.Equal(t, "Alice & Bob", couple.DisplayName())
		assert.Equal(t, "acct-alice", couple.CreatedBy())

		// Both profiles point at the same couple.
		alice, err := store.Profiles().FindByAccountID(ctx, "acct-alice")
		require.NoError(t, err)
		bob, err := store.Profiles().FindByAccountID(ctx, "acct-bob")
		require.NoError(t, err)
		assert.True(t, alice.CoupleID().Equals(couple.ID()))
		assert.True(t, bob.CoupleID().Equals(couple.ID()))
	})

	t.Run("rejects pairing with yourself", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)

		_, err := svc.Pair(ctx, "acct-alice", "acct-alice")
		assert.True(t, pkgerrors.IsSelfPairing(err))
	})

	t.Run("requires a verified initiator", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", false)
		seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)

		_, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		assert.True(t, pkgerrors.IsForbidden(err))
	})

	t.Run("requires both profiles to exist", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)

		_, err := svc.Pair(ctx, "acct-alice", "acct-ghost")
		assert.True(t, pkgerrors.IsNotFound(err))
		_, err = svc.Pair(ctx, "acct-ghost", "acct-alice")
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("a paired initiator cannot pair again", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)
		seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)
		seedProfile(t, store, "acct-carol", "carol@example.com", "Carol", true)

		original, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		require.NoError(t, err)

		_, err = svc.Pair(ctx, "acct-alice", "acct-carol")
		assert.True(t, pkgerrors.IsAlreadyPaired(err))

		// The original pairing is untouched.
		current, err := svc.CurrentCouple(ctx, "acct-alice")
		require.NoError(t, err)
		assert.True(t, current.ID().Equals(original.ID()))
		carol, err := store.Profiles().FindByAccountID(ctx, "acct-carol")
		require.NoError(t, err)
		assert.False(t, carol.IsPaired())
	})

	t.Run("a paired target cannot be claimed", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)
		seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)
		seedProfile(t, store, "acct-carol", "carol@example.com", "Carol", true)

		_, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		require.NoError(t, err)

		_, err = svc.Pair(ctx, "acct-carol", "acct-bob")
		assert.True(t, pkgerrors.IsAlreadyPaired(err))
	})

	t.Run("a failed partner write leaves no half-linked state", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)
		seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)

		store.FailNextPartnerWrite(errors.New("write timed out"))
		_, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		require.Error(t, err)

		alice, err := store.Profiles().FindByAccountID(ctx, "acct-alice")
		require.NoError(t, err)
		bob, err := store.Profiles().FindByAccountID(ctx, "acct-bob")
		require.NoError(t, err)
		assert.False(t, alice.IsPaired())
		assert.False(t, bob.IsPaired())

		// The pair can be retried cleanly.
		_, err = svc.Pair(ctx, "acct-alice", "acct-bob")
		require.NoError(t, err)
	})
}

func TestCurrentCouple(t *testing.T) {
	ctx := context.Background()

	t.Run("unpaired accounts have no couple and no error", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)

		couple, err := svc.CurrentCouple(ctx, "acct-alice")
		require.NoError(t, err)
		assert.Nil(t, couple)
	})

	t.Run("a dangling pairing pointer is a consistency violation", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		profile := seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)

		// Point the profile at a couple record that does not exist.
		coupleID, err := valueobjects.DeriveCoupleID("acct-alice", "acct-ghost")
		require.NoError(t, err)
		require.NoError(t, profile.LinkCouple(coupleID))
		require.NoError(t, store.Profiles().Save(ctx, profile))

		_, err = svc.CurrentCouple(ctx, "acct-alice")
		assert.True(t, pkgerrors.IsConsistency(err))
	})
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("clears both members and deactivates the couple", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)
		seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)

		couple, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		require.NoError(t, err)

		require.NoError(t, svc.Disconnect(ctx, "acct-bob"))

		for _, accountID := range []string{"acct-alice", "acct-bob"} {
			current, err := svc.CurrentCouple(ctx, accountID)
			require.NoError(t, err)
			assert.Nil(t, current)
		}

		// The record survives, deactivated, with the disconnect attributed.
		stored, err := store.Couples().FindByID(ctx, couple.ID())
		require.NoError(t, err)
		assert.False(t, stored.Active())
		assert.Equal(t, "acct-bob", stored.DisconnectedBy())
	})

	t.Run("unpaired accounts cannot disconnect", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)

		err := svc.Disconnect(ctx, "acct-alice")
		assert.True(t, pkgerrors.IsNotPaired(err))
	})

	t.Run("a failed partner write leaves the pairing intact", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)
		seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)

		couple, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		require.NoError(t, err)

		store.FailNextPartnerWrite(errors.New("write timed out"))
		require.Error(t, svc.Disconnect(ctx, "acct-alice"))

		// The couple record stays active and both members still resolve it.
		stored, err := store.Couples().FindByID(ctx, couple.ID())
		require.NoError(t, err)
		assert.True(t, stored.Active())
		for _, accountID := range []string{"acct-alice", "acct-bob"} {
			current, err := svc.CurrentCouple(ctx, accountID)
			require.NoError(t, err)
			require.NotNil(t, current)
			assert.True(t, current.ID().Equals(couple.ID()))
		}

		// The disconnect can be retried cleanly.
		require.NoError(t, svc.Disconnect(ctx, "acct-alice"))
	})

	t.Run("both former members may pair again", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)
		seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)
		seedProfile(t, store, "acct-carol", "carol@example.com", "Carol", true)

		_, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		require.NoError(t, err)
		require.NoError(t, svc.Disconnect(ctx, "acct-alice"))

		couple, err := svc.Pair(ctx, "acct-bob", "acct-carol")
		require.NoError(t, err)
		assert.True(t, couple.Active())
	})

	t.Run("re-pairing the same accounts revives the shared identity", func(t *testing.T) {
		store, svc := newPairingFixture(t)
		seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)
		seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)

		first, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		require.NoError(t, err)
		require.NoError(t, svc.Disconnect(ctx, "acct-alice"))

		second, err := svc.Pair(ctx, "acct-alice", "acct-bob")
		require.NoError(t, err)
		assert.True(t, second.ID().Equals(first.ID()))
	})
}

func TestRenameCouple(t *testing.T) {
	ctx := context.Background()
	store, svc := newPairingFixture(t)
	seedProfile(t, store, "acct-alice", "alice@example.com", "Alice", true)
	seedProfile(t, store, "acct-bob", "bob@example.com", "Bob", true)

	_, err := svc.Pair(ctx, "acct-alice", "acct-bob")
	require.NoError(t, err)

	couple, err := svc.RenameCouple(ctx, "acct-bob", "The Adventurers")
	require.NoError(t, err)
	assert.Equal(t, "The Adventurers", couple.DisplayName())

	stored, err := svc.CurrentCouple(ctx, "acct-alice")
	require.NoError(t, err)
	assert.Equal(t, "The Adventurers", stored.DisplayName())

	// Unpaired callers have nothing to rename.
	seedProfile(t, store, "acct-carol", "carol@example.com", "Carol", true)
	_, err = svc.RenameCouple(ctx, "acct-carol", "Solo")
	assert.True(t, pkgerrors.IsNotPaired(err))
}
