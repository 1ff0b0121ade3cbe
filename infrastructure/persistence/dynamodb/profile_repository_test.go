package dynamodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "snaptales/pkg/errors"
)

func validProfileItem() profileItem {
	return profileItem{
		PK:          profilePK("acct-alice"),
		SK:          profileSK,
		EntityType:  "PROFILE",
		AccountID:   "acct-alice",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Status:      "verified",
		CreatedAt:   "2024-01-02T03:04:05Z",
		UpdatedAt:   "2024-01-02T03:04:05Z",
	}
}

func TestProfileFromItem(t *testing.T) {
	t.Run("decodes a stored record", func(t *testing.T) {
		profile, err := profileFromItem(validProfileItem())
		require.NoError(t, err)
		assert.Equal(t, "acct-alice", profile.AccountID())
		assert.Equal(t, 2024, profile.CreatedAt().Year())
	})

	t.Run("rejects corrupt timestamps", func(t *testing.T) {
		item := validProfileItem()
		item.CreatedAt = "not-a-time"
		_, err := profileFromItem(item)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))

		item = validProfileItem()
		item.UpdatedAt = "not-a-time"
		_, err = profileFromItem(item)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
	})
}
