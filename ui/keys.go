package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/shadowdrill/internal/drill"
)

type keyMap struct {
	Play      key.Binding
	Stop      key.Binding
	Prev      key.Binding
	Next      key.Binding
	Mode      key.Binding
	RepeatOne key.Binding
	Shuffle   key.Binding
	Bookmark  key.Binding
	Copy      key.Binding
	Settings  key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding

	// section list
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Close  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Play:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "play/stop")),
		Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		RepeatOne: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat one")),
		Shuffle:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "shuffle")),
		Bookmark:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Settings:  key.NewBinding(key.WithKeys("o", ","), key.WithHelp("o", "sections")),
		Reload:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Close:  key.NewBinding(key.WithKeys("enter", "esc", "o"), key.WithHelp("enter", "done")),
	}
}

// keyMatches ignores the enabled flag, which only controls what help shows.
func keyMatches(msg tea.KeyMsg, b key.Binding) bool {
	s := msg.String()
	for _, k := range b.Keys() {
		if k == s {
			return true
		}
	}
	return false
}

// forView disables the bindings that do nothing in the current state.
func (k keyMap) forView(v drill.View) keyMap {
	idle := v.Idle()
	k.Stop.SetEnabled(!idle)
	k.Prev.SetEnabled(v.CanPrev())
	k.Next.SetEnabled(v.CanNext())
	k.Mode.SetEnabled(idle)
	k.RepeatOne.SetEnabled(idle)
	k.Shuffle.SetEnabled(idle)
	k.Settings.SetEnabled(idle)
	k.Reload.SetEnabled(idle)
	k.Bookmark.SetEnabled(v.HasCurrent)
	k.Copy.SetEnabled(v.HasCurrent)
	k.Play.SetEnabled(v.HasCurrent)
	k.Close.SetEnabled(v.CanClose)
	return k
}

type playerHelp struct{ keyMap }

func (h playerHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.Play, h.Prev, h.Next, h.Mode, h.Settings, h.Help, h.Quit}
}

func (h playerHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.Play, h.Stop, h.Prev, h.Next},
		{h.Mode, h.RepeatOne, h.Shuffle},
		{h.Bookmark, h.Copy, h.Settings, h.Reload},
		{h.Help, h.Quit},
	}
}

type settingsHelp struct{ keyMap }

func (h settingsHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.Up, h.Down, h.Toggle, h.Close}
}

func (h settingsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
