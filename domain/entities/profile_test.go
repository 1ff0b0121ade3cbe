package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

func mustCoupleID(t *testing.T, raw string) valueobjects.CoupleID {
	t.Helper()
	id, err := valueobjects.NewCoupleIDFromString(raw)
	require.NoError(t, err)
	return id
}

func TestNewProfile(t *testing.T) {
	profile, err := NewProfile("acct-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	assert.Equal(t, "acct-1", profile.AccountID())
	assert.False(t, profile.IsPaired())
	assert.False(t, profile.IsVerified())
	assert.True(t, profile.CoupleID().IsZero())

	_, err = NewProfile("", "alice@example.com", "Alice")
	assert.Error(t, err)
	_, err = NewProfile("acct-1", "", "Alice")
	assert.Error(t, err)
}

func TestProfileMarkVerified(t *testing.T) {
	profile, err := NewProfile("acct-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	profile.MarkVerified()
	assert.True(t, profile.IsVerified())

	// Idempotent.
	profile.MarkVerified()
	assert.True(t, profile.IsVerified())
}

func TestProfileLinkCouple(t *testing.T) {
	coupleID := mustCoupleID(t, "aliceaabbob-ccdd")
	otherID := mustCoupleID(t, "carol-xxdave-yy")

	t.Run("links an unpaired profile", func(t *testing.T) {
		profile, err := NewProfile("acct-1", "alice@example.com", "Alice")
		require.NoError(t, err)

		require.NoError(t, profile.LinkCouple(coupleID))
		assert.True(t, profile.IsPaired())
		assert.True(t, profile.CoupleID().Equals(coupleID))
	})

	t.Run("rejects a second pairing with a different couple", func(t *testing.T) {
		profile, err := NewProfile("acct-1", "alice@example.com", "Alice")
		require.NoError(t, err)
		require.NoError(t, profile.LinkCouple(coupleID))

		err = profile.LinkCouple(otherID)
		assert.True(t, pkgerrors.IsAlreadyPaired(err))
		assert.True(t, profile.CoupleID().Equals(coupleID))
	})

	t.Run("relinking the same couple is a no-op", func(t *testing.T) {
		profile, err := NewProfile("acct-1", "alice@example.com", "Alice")
		require.NoError(t, err)
		require.NoError(t, profile.LinkCouple(coupleID))
		require.NoError(t, profile.LinkCouple(coupleID))
	})
}

func TestProfileUnlinkCouple(t *testing.T) {
	coupleID := mustCoupleID(t, "aliceaabbob-ccdd")

	t.Run("clears the pointer and keeps the previous reference", func(t *testing.T) {
		profile, err := NewProfile("acct-1", "alice@example.com", "Alice")
		require.NoError(t, err)
		require.NoError(t, profile.LinkCouple(coupleID))

		require.NoError(t, profile.UnlinkCouple())
		assert.False(t, profile.IsPaired())
		assert.True(t, profile.PreviousCoupleID().Equals(coupleID))
	})

	t.Run("unpaired profiles cannot unlink", func(t *testing.T) {
		profile, err := NewProfile("acct-1", "alice@example.com", "Alice")
		require.NoError(t, err)

		err = profile.UnlinkCouple()
		assert.True(t, pkgerrors.IsNotPaired(err))
	})
}

func TestProfileBelongsTo(t *testing.T) {
	coupleID := mustCoupleID(t, "aliceaabbob-ccdd")
	otherID := mustCoupleID(t, "carol-xxdave-yy")

	profile, err := NewProfile("acct-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	assert.False(t, profile.BelongsTo(coupleID))
	assert.False(t, profile.BelongsTo(valueobjects.CoupleID{}))

	require.NoError(t, profile.LinkCouple(coupleID))
	assert.True(t, profile.BelongsTo(coupleID))
	assert.False(t, profile.BelongsTo(otherID))

	// Former members keep read scope after a disconnect.
	require.NoError(t, profile.UnlinkCouple())
	assert.True(t, profile.BelongsTo(coupleID))
	assert.False(t, profile.BelongsTo(otherID))
}

func TestProfileApply(t *testing.T) {
	profile, err := NewProfile("acct-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	bio := "loves hiking"
	profile.Apply(ProfileUpdate{Bio: &bio})
	assert.Equal(t, "loves hiking", profile.Bio())
	assert.Equal(t, "Alice", profile.DisplayName(), "absent fields stay untouched")

	name := "Alice M"
	location := "Lisbon"
	profile.Apply(ProfileUpdate{DisplayName: &name, Location: &location})
	assert.Equal(t, "Alice M", profile.DisplayName())
	assert.Equal(t, "Lisbon", profile.Location())
	assert.Equal(t, "loves hiking", profile.Bio())
}
