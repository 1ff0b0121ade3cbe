package projections

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
)

func makeMemory(t *testing.T, title string, date time.Time) *entities.Memory {
	t.Helper()
	coupleID, err := valueobjects.NewCoupleIDFromString("acct-aliceacct-bob")
	require.NoError(t, err)
	memory, err := entities.NewMemory(coupleID, title, "story", date, "", valueobjects.BlobRef{}, nil, "acct-alice")
	require.NoError(t, err)
	return memory
}

func TestGroupByYear(t *testing.T) {
	t.Run("empty input yields an empty group sequence", func(t *testing.T) {
		groups := GroupByYear(nil)
		require.NotNil(t, groups)
		assert.Empty(t, groups)

		groups = GroupByYear([]*entities.Memory{})
		require.NotNil(t, groups)
		assert.Empty(t, groups)
	})

	t.Run("groups by memory date year in descending order", func(t *testing.T) {
		trip := makeMemory(t, "Trip", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
		anniversary := makeMemory(t, "Anniversary", time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
		firstDate := makeMemory(t, "First Date", time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC))
		beginning := makeMemory(t, "How It Started", time.Date(2022, 6, 21, 0, 0, 0, 0, time.UTC))

		// Input arrives most recent event first.
		groups := GroupByYear([]*entities.Memory{trip, anniversary, firstDate, beginning})

		require.Len(t, groups, 3)
		assert.Equal(t, 2025, groups[0].Year)
		assert.Equal(t, 2024, groups[1].Year)
		assert.Equal(t, 2022, groups[2].Year)
	})

	t.Run("preserves input order within each group", func(t *testing.T) {
		later := makeMemory(t, "Later", time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC))
		earlier := makeMemory(t, "Earlier", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

		groups := GroupByYear([]*entities.Memory{later, earlier})

		require.Len(t, groups, 1)
		require.Len(t, groups[0].Memories, 2)
		assert.Equal(t, "Later", groups[0].Memories[0].Title())
		assert.Equal(t, "Earlier", groups[0].Memories[1].Title())
	})
}
