package ui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/shadowdrill/internal/sentence"
)

func clipText(s sentence.Sentence) string {
	return s.Japanese + "\n" + s.English
}

func copySentence(s sentence.Sentence) tea.Cmd {
	text := clipText(s)
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}
