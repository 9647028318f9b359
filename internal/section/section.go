// Package section tracks which sentence sections are included in a drill.
package section

import (
	"sort"

	"github.com/samber/lo"
)

// Selector holds the selected subset of a universe of known sections. The
// selection may be empty while it is being edited; CanClose reports whether
// it is acceptable to leave the editor.
type Selector struct {
	universe []int
	selected map[int]struct{}
}

// NewSelector returns a selector over universe with nothing selected.
func NewSelector(universe []int) *Selector {
	s := &Selector{selected: make(map[int]struct{})}
	s.SetUniverse(universe)
	return s
}

// SetUniverse replaces the set of known sections. Selected sections that
// are no longer known are dropped.
func (s *Selector) SetUniverse(universe []int) {
	u := lo.Uniq(universe)
	sort.Ints(u)
	s.universe = u
	for n := range s.selected {
		if !s.known(n) {
			delete(s.selected, n)
		}
	}
}

func (s *Selector) known(section int) bool {
	i := sort.SearchInts(s.universe, section)
	return i < len(s.universe) && s.universe[i] == section
}

// Universe returns the known sections in ascending order.
func (s *Selector) Universe() []int {
	return append([]int(nil), s.universe...)
}

// Set replaces the selection. Unknown sections are ignored.
func (s *Selector) Set(sections []int) {
	s.selected = make(map[int]struct{}, len(sections))
	for _, n := range sections {
		if s.known(n) {
			s.selected[n] = struct{}{}
		}
	}
}

// Toggle flips the membership of one known section.
func (s *Selector) Toggle(section int) {
	if _, ok := s.selected[section]; ok {
		delete(s.selected, section)
		return
	}
	if s.known(section) {
		s.selected[section] = struct{}{}
	}
}

// ToggleAll clears the selection when every known section is selected and
// selects every known section otherwise.
func (s *Selector) ToggleAll() {
	if s.AllSelected() {
		s.selected = make(map[int]struct{})
		return
	}
	for _, n := range s.universe {
		s.selected[n] = struct{}{}
	}
}

// AllSelected reports whether every known section is selected. An empty
// universe is never all selected.
func (s *Selector) AllSelected() bool {
	if len(s.universe) == 0 {
		return false
	}
	for _, n := range s.universe {
		if _, ok := s.selected[n]; !ok {
			return false
		}
	}
	return true
}

// Has reports whether section is selected.
func (s *Selector) Has(section int) bool {
	_, ok := s.selected[section]
	return ok
}

// Selected returns the selection in ascending order.
func (s *Selector) Selected() []int {
	out := lo.Keys(s.selected)
	sort.Ints(out)
	return out
}

// Len returns the number of selected sections.
func (s *Selector) Len() int { return len(s.selected) }

// CanClose reports whether the selection may be committed: at least one
// known section is selected, or there are none to choose from.
func (s *Selector) CanClose() bool { return len(s.selected) > 0 || len(s.universe) == 0 }
