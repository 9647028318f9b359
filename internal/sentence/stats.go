package sentence

import (
	"sort"

	"github.com/samber/lo"
)

// SectionStats counts sentences per section.
func SectionStats(sentences []Sentence) map[int]int {
	stats := make(map[int]int)
	for _, s := range sentences {
		stats[s.Section]++
	}
	return stats
}

// Sections returns the distinct section ids in ascending order.
func Sections(sentences []Sentence) []int {
	ids := lo.Uniq(lo.Map(sentences, func(s Sentence, _ int) int { return s.Section }))
	sort.Ints(ids)
	return ids
}
