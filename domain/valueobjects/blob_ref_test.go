package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlobRef(t *testing.T) {
	t.Run("accepts a stored object reference", func(t *testing.T) {
		ref, err := NewBlobRef("3f2c9d1e.jpg")
		require.NoError(t, err)
		assert.Equal(t, "3f2c9d1e.jpg", ref.String())
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		ref, err := NewBlobRef("  cover.png  ")
		require.NoError(t, err)
		assert.Equal(t, "cover.png", ref.String())
	})

	t.Run("rejects empty references", func(t *testing.T) {
		_, err := NewBlobRef("")
		assert.Error(t, err)
		_, err = NewBlobRef("   ")
		assert.Error(t, err)
	})

	t.Run("rejects serialized null placeholders", func(t *testing.T) {
		for _, raw := range []string{"null", "NULL", "undefined", "nil", " Undefined "} {
			_, err := NewBlobRef(raw)
			assert.Error(t, err, "expected %q to be rejected", raw)
		}
	})
}

func TestBlobRefUnmarshalJSON(t *testing.T) {
	t.Run("decodes a stored reference", func(t *testing.T) {
		var ref BlobRef
		require.NoError(t, json.Unmarshal([]byte(`"cover.png"`), &ref))
		assert.Equal(t, "cover.png", ref.String())
	})

	t.Run("rejects placeholder strings", func(t *testing.T) {
		for _, raw := range []string{`"undefined"`, `"null"`, `"nil"`} {
			var ref BlobRef
			assert.Error(t, json.Unmarshal([]byte(raw), &ref), raw)
		}
	})

	t.Run("empty and null decode to the zero value", func(t *testing.T) {
		var ref BlobRef
		require.NoError(t, json.Unmarshal([]byte(`""`), &ref))
		assert.True(t, ref.IsZero())
		require.NoError(t, json.Unmarshal([]byte(`null`), &ref))
		assert.True(t, ref.IsZero())
	})

	t.Run("rejects non-string values", func(t *testing.T) {
		var ref BlobRef
		assert.Error(t, json.Unmarshal([]byte(`42`), &ref))
	})
}
