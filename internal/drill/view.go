package drill

import "github.com/dgnsrekt/shadowdrill/internal/sentence"

// SectionView is one row of the section checklist.
type SectionView struct {
	ID       int
	Count    int
	Selected bool
}

// View is a read-only copy of the state needed to draw the player.
type View struct {
	Phase    Phase
	Mode     Mode
	Progress int

	Index      int
	Total      int
	Current    sentence.Sentence
	HasCurrent bool
	Bookmarked bool

	RepeatOne bool
	Shuffle   bool

	SettingsOpen bool
	Sections     []SectionView
	AllSelected  bool
	CanClose     bool

	Bookmarks int
}

// CanPrev reports whether Prev would move.
func (v View) CanPrev() bool { return v.Index > 0 }

// CanNext reports whether Next would move.
func (v View) CanNext() bool { return v.Index < v.Total-1 }

// Idle reports whether idle-only controls are enabled.
func (v View) Idle() bool { return v.Phase == PhaseIdle }

// Snapshot returns the current view.
func (c *Controller) Snapshot() View {
	v := View{
		Phase:        c.phase,
		Mode:         c.mode,
		Progress:     c.progress,
		Index:        c.index,
		Total:        len(c.queue),
		RepeatOne:    c.repeatOne,
		Shuffle:      c.shuffle,
		SettingsOpen: c.settingsOpen,
		AllSelected:  c.sections.AllSelected(),
		CanClose:     c.sections.CanClose(),
		Bookmarks:    c.bookmarks.Len(),
	}
	if s, ok := c.Current(); ok {
		v.Current = s
		v.HasCurrent = true
		v.Bookmarked = c.bookmarks.Has(s.No)
	}
	for _, id := range c.sections.Universe() {
		v.Sections = append(v.Sections, SectionView{
			ID:       id,
			Count:    c.stats[id],
			Selected: c.sections.Has(id),
		})
	}
	return v
}
