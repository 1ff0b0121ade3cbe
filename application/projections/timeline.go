package projections

import (
	"sort"

	"snaptales/domain/entities"
)

// YearGroup is one year's slice of the timeline, ready for rendering
type YearGroup struct {
	Year     int
	Memories []*entities.Memory
}

// GroupByYear derives the grouped timeline view from an already-ordered
// memory sequence. Pure function: groups by the calendar year of the
// memory date (not the creation time), emits groups in descending year
// order, and preserves the input order within each group. Empty input
// yields an empty group sequence.
func GroupByYear(memories []*entities.Memory) []YearGroup {
	if len(memories) == 0 {
		return []YearGroup{}
	}

	byYear := make(map[int][]*entities.Memory)
	years := make([]int, 0)
	for _, m := range memories {
		year := m.Year()
		if _, seen := byYear[year]; !seen {
			years = append(years, year)
		}
		byYear[year] = append(byYear[year], m)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make([]YearGroup, 0, len(years))
	for _, year := range years {
		groups = append(groups, YearGroup{Year: year, Memories: byYear[year]})
	}
	return groups
}
