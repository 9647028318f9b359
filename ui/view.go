package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/shadowdrill/internal/drill"
)

var (
	mintGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#89F0CB"}
	dimFg     = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	errorFg   = lipgloss.AdaptiveColor{Light: "#D93F3F", Dark: "#FF5F87"}
	badgeBg   = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#323232"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)

	badgeStyle    = lipgloss.NewStyle().Background(badgeBg).Padding(0, 1)
	badgeOnStyle  = badgeStyle.Foreground(mintGreen).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(dimFg)
	errorStyle    = lipgloss.NewStyle().Foreground(errorFg)
	messageStyle  = lipgloss.NewStyle().Foreground(mintGreen)
	spinnerStyle  = lipgloss.NewStyle().Foreground(mintGreen)
	bookmarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1C40F"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimFg).
			Padding(1, 2)

	japaneseStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(mintGreen).Bold(true)
)

func (m model) View() string {
	width := m.common.width
	if width <= 0 {
		width = defaultWidth
	}
	v := m.ctrl.Snapshot()
	keys := m.keys.forView(v)

	var b strings.Builder
	b.WriteString(m.headerView(v, width))
	b.WriteString("\n\n")

	switch {
	case !m.loaded:
		b.WriteString(m.spinner.View() + " Loading sentences" + ellipsis)
	case v.SettingsOpen:
		b.WriteString(m.settingsView(v))
	default:
		b.WriteString(m.cardView(v, width))
		b.WriteString("\n")
		b.WriteString(m.progressView(v, width))
	}
	b.WriteString("\n\n")
	b.WriteString(m.footerView(v, keys, width))
	return b.String()
}

func (m model) headerView(v drill.View, width int) string {
	parts := []string{titleStyle.Render("shadowdrill"), badgeOnStyle.Render(strings.ToUpper(v.Mode.String()))}
	if v.RepeatOne {
		parts = append(parts, badgeOnStyle.Render("repeat one"))
	}
	if v.Shuffle {
		parts = append(parts, badgeOnStyle.Render("shuffle"))
	}
	left := strings.Join(parts, " ")

	right := ""
	if v.Total > 0 {
		right = dimStyle.Render(fmt.Sprintf("%d/%d", v.Index+1, v.Total))
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m model) cardView(v drill.View, width int) string {
	if !v.HasCurrent {
		msg := "No sentences in the queue."
		if m.loadErr == nil {
			msg += " Press o to choose sections."
		}
		return dimStyle.Render(msg)
	}

	// border and padding take six columns
	inner := max(width-6, 10)
	s := v.Current

	ja := runewidth.Wrap(s.Japanese, inner)
	en := wordwrap.String(s.English, inner)

	lines := []string{japaneseStyle.Render(ja), "", en}
	if s.Malformed {
		lines = append(lines, "", errorStyle.Render("(malformed row)"))
	}
	card := cardStyle.Width(inner + 4).Render(strings.Join(lines, "\n"))

	mark := "  "
	if v.Bookmarked {
		mark = bookmarkStyle.Render("★") + " "
	}
	meta := dimStyle.Render(fmt.Sprintf("#%d · section %d · %s", s.No, s.Section, s.Audio))
	return card + "\n" + mark + truncate.StringWithTail(meta, uint(max(width-2, 1)), ellipsis)
}

func (m model) progressView(v drill.View, width int) string {
	var label string
	switch v.Phase {
	case drill.PhasePlaying:
		label = messageStyle.Render("▶ playing")
	case drill.PhaseWaiting:
		label = m.spinner.View() + " your turn"
	default:
		label = dimStyle.Render("■ stopped")
	}

	bar := m.progress
	bar.Width = max(width-lipgloss.Width(label)-1, 10)
	return bar.ViewAs(float64(v.Progress)/100) + " " + label
}

func (m model) settingsView(v drill.View) string {
	var b strings.Builder
	b.WriteString(japaneseStyle.Render("Sections") + "\n\n")

	row := func(i int, checked bool, label string) {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if checked {
			box = cursorStyle.Render("[x]")
		}
		b.WriteString(cursor + box + " " + label + "\n")
	}

	row(0, v.AllSelected, "All sections")
	for i, s := range v.Sections {
		row(i+1, s.Selected, fmt.Sprintf("Section %-4d %s", s.ID, dimStyle.Render(fmt.Sprintf("%d sentences", s.Count))))
	}
	if !v.CanClose {
		b.WriteString("\n" + errorStyle.Render("Select at least one section"))
	}
	return b.String()
}

func (m model) footerView(v drill.View, keys keyMap, width int) string {
	if m.statusMessage != "" {
		style := messageStyle
		if m.statusIsError {
			style = errorStyle
		}
		return style.Render(truncate.StringWithTail(m.statusMessage, uint(max(width, 1)), ellipsis))
	}
	if v.SettingsOpen {
		return m.help.View(settingsHelp{keys})
	}
	return m.help.View(playerHelp{keys})
}
