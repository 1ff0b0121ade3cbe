package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

func mustBlobRef(t *testing.T, raw string) valueobjects.BlobRef {
	t.Helper()
	ref, err := valueobjects.NewBlobRef(raw)
	require.NoError(t, err)
	return ref
}

func TestNewMemory(t *testing.T) {
	coupleID := mustCoupleID(t, "acct-aliceacct-bob")
	date := time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)

	t.Run("creates a memory with a generated id", func(t *testing.T) {
		memory, err := NewMemory(coupleID, "First Date", "We met at the old cafe.", date, "Porto",
			mustBlobRef(t, "cover.jpg"), []valueobjects.BlobRef{mustBlobRef(t, "extra.jpg")}, "acct-alice")
		require.NoError(t, err)

		assert.NotEmpty(t, memory.ID())
		assert.Equal(t, 2024, memory.Year())
		assert.Equal(t, "acct-alice", memory.CreatedBy())
		assert.True(t, memory.CoupleID().Equals(coupleID))
	})

	t.Run("images are optional", func(t *testing.T) {
		memory, err := NewMemory(coupleID, "Quiet Evening", "Stayed in.", date, "", valueobjects.BlobRef{}, nil, "acct-bob")
		require.NoError(t, err)
		assert.True(t, memory.CoverImage().IsZero())
		assert.Empty(t, memory.AdditionalImages())
	})

	t.Run("validates required fields", func(t *testing.T) {
		cases := []struct {
			name string
			fn   func() error
		}{
			{"empty couple id", func() error {
				_, err := NewMemory(valueobjects.CoupleID{}, "T", "S", date, "", valueobjects.BlobRef{}, nil, "acct-alice")
				return err
			}},
			{"empty title", func() error {
				_, err := NewMemory(coupleID, "", "S", date, "", valueobjects.BlobRef{}, nil, "acct-alice")
				return err
			}},
			{"empty story", func() error {
				_, err := NewMemory(coupleID, "T", "", date, "", valueobjects.BlobRef{}, nil, "acct-alice")
				return err
			}},
			{"zero date", func() error {
				_, err := NewMemory(coupleID, "T", "S", time.Time{}, "", valueobjects.BlobRef{}, nil, "acct-alice")
				return err
			}},
			{"empty creator", func() error {
				_, err := NewMemory(coupleID, "T", "S", date, "", valueobjects.BlobRef{}, nil, "")
				return err
			}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.True(t, pkgerrors.IsValidation(tc.fn()))
			})
		}
	})

	t.Run("rejects empty additional image references", func(t *testing.T) {
		_, err := NewMemory(coupleID, "T", "S", date, "", valueobjects.BlobRef{},
			[]valueobjects.BlobRef{{}}, "acct-alice")
		assert.True(t, pkgerrors.IsValidation(err))
	})
}
