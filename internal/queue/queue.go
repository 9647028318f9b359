package queue

import (
	"math/rand/v2"

	"github.com/dgnsrekt/shadowdrill/internal/sentence"
	"github.com/samber/lo"
)

// Build returns the sentences whose section is in selected, in file order,
// or shuffled when shuffle is set. The input slice is never modified.
func Build(sentences []sentence.Sentence, selected []int, shuffle bool, rng *rand.Rand) []sentence.Sentence {
	keep := make(map[int]struct{}, len(selected))
	for _, n := range selected {
		keep[n] = struct{}{}
	}

	filtered := lo.Filter(sentences, func(s sentence.Sentence, _ int) bool {
		_, ok := keep[s.Section]
		return ok
	})
	if shuffle {
		return Shuffle(filtered, rng)
	}
	return filtered
}

// Shuffle returns a uniformly permuted copy of in (Fisher-Yates). A nil rng
// uses the global source.
func Shuffle[T any](in []T, rng *rand.Rand) []T {
	out := make([]T, len(in))
	copy(out, in)

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(out) - 1; i > 0; i-- {
		j := intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// IDs returns the sentence numbers of q in order.
func IDs(q []sentence.Sentence) []int {
	return lo.Map(q, func(s sentence.Sentence, _ int) int { return s.No })
}

// Restore rebuilds a queue from sentence numbers. Numbers that are no longer
// present in sentences are dropped.
func Restore(ids []int, sentences []sentence.Sentence) []sentence.Sentence {
	byNo := sentence.Lookup(sentences)
	out := make([]sentence.Sentence, 0, len(ids))
	for _, no := range ids {
		if s, ok := byNo[no]; ok {
			out = append(out, s)
		}
	}
	return out
}
