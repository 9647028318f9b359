// Package bookmark is the learner's set of marked sentence numbers.
package bookmark

import (
	"sort"

	"github.com/samber/lo"
)

// Set is a set of sentence numbers. The zero value is not usable; use NewSet.
type Set struct {
	ids map[int]struct{}
}

// NewSet returns a set holding ids.
func NewSet(ids ...int) *Set {
	s := &Set{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle adds id when absent and removes it when present. It reports whether
// id is a member afterwards.
func (s *Set) Toggle(id int) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Has reports membership.
func (s *Set) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the members in ascending order, never nil.
func (s *Set) IDs() []int {
	out := lo.Keys(s.ids)
	sort.Ints(out)
	return out
}

// Len returns the number of members.
func (s *Set) Len() int { return len(s.ids) }
