package section

import (
	"fmt"
	"testing"
)

func TestToggleTwiceRestores(t *testing.T) {
	s := NewSelector([]int{1, 2, 3})
	s.Set([]int{1, 3})

	for _, n := range []int{1, 2, 3, 4} {
		before := fmt.Sprint(s.Selected())
		s.Toggle(n)
		s.Toggle(n)
		if after := fmt.Sprint(s.Selected()); after != before {
			t.Errorf("double toggle of %d changed selection: %s -> %s", n, before, after)
		}
	}
}

func TestToggle(t *testing.T) {
	s := NewSelector([]int{1, 2})
	s.Toggle(2)
	if !s.Has(2) || s.Has(1) || s.Len() != 1 {
		t.Errorf("unexpected selection after toggle: %v", s.Selected())
	}
	s.Toggle(2)
	if s.Has(2) || s.CanClose() {
		t.Errorf("expected empty selection, got %v", s.Selected())
	}
}

func TestToggleAll(t *testing.T) {
	tests := []struct {
		name    string
		initial []int
		want    []int
	}{
		{"none selected", nil, []int{1, 2, 3}},
		{"some selected", []int{2}, []int{1, 2, 3}},
		{"all selected", []int{1, 2, 3}, []int{}},
		{"stale extra selected", []int{1, 2, 3, 9}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector([]int{3, 1, 2})
			s.Set(tt.initial)
			s.ToggleAll()
			if fmt.Sprint(s.Selected()) != fmt.Sprint(tt.want) {
				t.Errorf("ToggleAll() = %v, want %v", s.Selected(), tt.want)
			}
		})
	}
}

func TestToggleAllTwiceIsStable(t *testing.T) {
	for _, initial := range [][]int{nil, {1}, {1, 2, 3}} {
		s := NewSelector([]int{1, 2, 3})
		s.Set(initial)
		s.ToggleAll()
		first := fmt.Sprint(s.Selected())
		s.ToggleAll()
		s.ToggleAll()
		if got := fmt.Sprint(s.Selected()); got != first {
			t.Errorf("initial %v: ToggleAll not stable, %s vs %s", initial, first, got)
		}
	}
}

func TestAllSelectedTracksUniverse(t *testing.T) {
	s := NewSelector([]int{1, 2})
	s.Set([]int{1, 2})
	if !s.AllSelected() {
		t.Fatal("expected all selected")
	}

	s.SetUniverse([]int{1, 2, 3})
	if s.AllSelected() {
		t.Error("new section should make the selection partial")
	}

	s.ToggleAll()
	if fmt.Sprint(s.Selected()) != "[1 2 3]" {
		t.Errorf("unexpected selection: %v", s.Selected())
	}
}

func TestEmptyUniverse(t *testing.T) {
	s := NewSelector(nil)
	if s.AllSelected() {
		t.Error("empty universe should not count as all selected")
	}
	s.ToggleAll()
	if s.Len() != 0 {
		t.Errorf("expected nothing selected, got %v", s.Selected())
	}
}

func TestDeselectAllThenToggleAll(t *testing.T) {
	s := NewSelector([]int{1, 2})
	s.Set([]int{1, 2})
	s.Toggle(1)
	s.Toggle(2)
	if s.CanClose() {
		t.Fatal("empty selection must not be closable")
	}
	s.ToggleAll()
	if !s.AllSelected() || !s.CanClose() {
		t.Errorf("expected every section selected, got %v", s.Selected())
	}
}

func TestUnknownSectionsAreDropped(t *testing.T) {
	s := NewSelector([]int{1, 2})
	s.Set([]int{1, 2, 99})
	if fmt.Sprint(s.Selected()) != "[1 2]" {
		t.Fatalf("unknown section kept: %v", s.Selected())
	}
	s.Toggle(1)
	s.Toggle(2)
	if s.CanClose() {
		t.Errorf("closable with no known section selected: %v", s.Selected())
	}
	s.Toggle(99)
	if s.Len() != 0 {
		t.Errorf("toggling an unknown section selected it: %v", s.Selected())
	}

	s.Set([]int{1, 2})
	s.SetUniverse([]int{2, 3})
	if fmt.Sprint(s.Selected()) != "[2]" {
		t.Errorf("selection after universe change = %v, want [2]", s.Selected())
	}
}

func TestCanCloseWithEmptyUniverse(t *testing.T) {
	if !NewSelector(nil).CanClose() {
		t.Error("nothing to choose from should still be closable")
	}
}
