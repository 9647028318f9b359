package sentence

import (
	"github.com/sahilm/fuzzy"
)

// Match is a fuzzy search hit.
type Match struct {
	Sentence Sentence
	Score    int
}

type searchSource []Sentence

func (s searchSource) String(i int) string { return s[i].English + " " + s[i].Japanese }
func (s searchSource) Len() int            { return len(s) }

// Find fuzzy-matches query against the English and Japanese text, best first.
func Find(sentences []Sentence, query string) []Match {
	if query == "" {
		return nil
	}
	matches := fuzzy.FindFrom(query, searchSource(sentences))
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		out = append(out, Match{Sentence: sentences[m.Index], Score: m.Score})
	}
	return out
}
