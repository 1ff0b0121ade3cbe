package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "snaptales/pkg/errors"
)

func testMembers() (Member, Member) {
	return Member{AccountID: "acct-alice", Name: "Alice", Email: "alice@example.com"},
		Member{AccountID: "acct-bob", Name: "Bob", Email: "bob@example.com"}
}

func TestNewCouple(t *testing.T) {
	alice, bob := testMembers()
	coupleID := mustCoupleID(t, "acct-aliceacct-bob")

	t.Run("creates an active couple with a default display name", func(t *testing.T) {
		couple, err := NewCouple(coupleID, alice, bob, alice.AccountID)
		require.NoError(t, err)

		assert.True(t, couple.Active())
		assert.Equal(t, "Alice & Bob", couple.DisplayName())
		assert.Equal(t, alice.AccountID, couple.CreatedBy())
		assert.Nil(t, couple.DisconnectedAt())
	})

	t.Run("rejects identical members", func(t *testing.T) {
		_, err := NewCouple(coupleID, alice, alice, alice.AccountID)
		assert.True(t, pkgerrors.IsSelfPairing(err))
	})

	t.Run("creator must be a member", func(t *testing.T) {
		_, err := NewCouple(coupleID, alice, bob, "acct-carol")
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestCoupleMembership(t *testing.T) {
	alice, bob := testMembers()
	coupleID := mustCoupleID(t, "acct-aliceacct-bob")
	couple, err := NewCouple(coupleID, alice, bob, alice.AccountID)
	require.NoError(t, err)

	assert.True(t, couple.HasMember(alice.AccountID))
	assert.True(t, couple.HasMember(bob.AccountID))
	assert.False(t, couple.HasMember("acct-carol"))

	other, err := couple.OtherMember(alice.AccountID)
	require.NoError(t, err)
	assert.Equal(t, bob.AccountID, other.AccountID)

	_, err = couple.OtherMember("acct-carol")
	assert.True(t, pkgerrors.IsForbidden(err))
}

func TestCoupleRename(t *testing.T) {
	alice, bob := testMembers()
	coupleID := mustCoupleID(t, "acct-aliceacct-bob")
	couple, err := NewCouple(coupleID, alice, bob, alice.AccountID)
	require.NoError(t, err)

	require.NoError(t, couple.Rename(bob.AccountID, "The Adventurers"))
	assert.Equal(t, "The Adventurers", couple.DisplayName())

	err = couple.Rename("acct-carol", "Intruders")
	assert.True(t, pkgerrors.IsForbidden(err))

	err = couple.Rename(alice.AccountID, "")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestCoupleDisconnect(t *testing.T) {
	alice, bob := testMembers()
	coupleID := mustCoupleID(t, "acct-aliceacct-bob")

	t.Run("deactivates and records who disconnected", func(t *testing.T) {
		couple, err := NewCouple(coupleID, alice, bob, alice.AccountID)
		require.NoError(t, err)

		at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, couple.Disconnect(bob.AccountID, at))

		assert.False(t, couple.Active())
		assert.Equal(t, bob.AccountID, couple.DisconnectedBy())
		require.NotNil(t, couple.DisconnectedAt())
		assert.Equal(t, at, *couple.DisconnectedAt())
	})

	t.Run("non-members cannot disconnect", func(t *testing.T) {
		couple, err := NewCouple(coupleID, alice, bob, alice.AccountID)
		require.NoError(t, err)

		err = couple.Disconnect("acct-carol", time.Now())
		assert.True(t, pkgerrors.IsForbidden(err))
		assert.True(t, couple.Active())
	})

	t.Run("disconnecting twice fails", func(t *testing.T) {
		couple, err := NewCouple(coupleID, alice, bob, alice.AccountID)
		require.NoError(t, err)
		require.NoError(t, couple.Disconnect(alice.AccountID, time.Now()))

		err = couple.Disconnect(bob.AccountID, time.Now())
		assert.True(t, pkgerrors.IsNotPaired(err))
	})
}
