// Package ui provides the terminal drill player.
package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	te "github.com/muesli/termenv"

	"github.com/dgnsrekt/shadowdrill/internal/drill"
	"github.com/dgnsrekt/shadowdrill/internal/sentence"
	"github.com/dgnsrekt/shadowdrill/internal/settings"
	"github.com/dgnsrekt/shadowdrill/utils"
)

const (
	statusMessageTimeout = time.Second * 3
	loadTimeout          = time.Second * 30
	ellipsis             = "…"
	defaultWidth         = 80
)

// SettingsLoader reads the persisted session.
type SettingsLoader interface {
	Load(ctx context.Context) (*settings.Settings, error)
}

// Session is what the player drives.
type Session struct {
	Controller *drill.Controller
	Settings   SettingsLoader
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, s Session) *tea.Program {
	log.Debug("starting shadowdrill", "source", cfg.Source, "fps", cfg.FPS, "watch", cfg.Watch)

	lipgloss.SetHasDarkBackground(te.HasDarkBackground())

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, s), opts...)
}

type (
	// frameMsg drives the progress loop. id is the controller tick id the
	// frame was scheduled for.
	frameMsg struct{ id uint64 }

	loadedMsg struct {
		sentences []sentence.Sentence
		saved     *settings.Settings
		err       error
	}

	fileChangedMsg          struct{}
	statusMessageTimeoutMsg struct{}
	copiedMsg               struct{ err error }
)

type commonModel struct {
	cfg    Config
	width  int
	height int
}

type model struct {
	common *commonModel
	ctrl   *drill.Controller
	store  SettingsLoader

	keys     keyMap
	help     help.Model
	progress progress.Model
	spinner  spinner.Model

	loaded        bool
	loadErr       error
	reloadPending bool

	// id of the frame loop currently scheduled
	chain uint64

	// cursor row in the section list; 0 is the select-all row
	cursor int

	statusMessage      string
	statusIsError      bool
	statusMessageTimer *time.Timer

	watcher *fsnotify.Watcher
}

func newModel(cfg Config, s Session) model {
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	common := &commonModel{cfg: cfg, width: defaultWidth}

	m := model{
		common:   common,
		ctrl:     s.Controller,
		store:    s.Settings,
		keys:     newKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	m.spinner.Style = spinnerStyle

	if cfg.Watch && utils.IsLocalFile(cfg.Source) {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			log.Error("error creating fsnotify watcher", "error", err)
		} else {
			m.watcher = w
		}
	}
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.load()}
	if m.watcher != nil {
		cmds = append(cmds, m.watchFile)
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if m.ctrl.Snapshot().SettingsOpen {
			cmds = append(cmds, m.updateSettings(msg))
		} else {
			cmds = append(cmds, m.updatePlayer(msg))
		}

	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.help.Width = msg.Width

	case frameMsg:
		m.ctrl.Tick(msg.id)
		if m.ctrl.Ticking() && m.ctrl.TickID() == msg.id {
			cmds = append(cmds, m.frame(msg.id))
		}

	case loadedMsg:
		m.loaded = true
		m.loadErr = msg.err
		if msg.err != nil {
			log.Error("unable to load sentences", "source", m.common.cfg.Source, "error", msg.err)
			cmds = append(cmds, m.showStatusMessage("Could not load sentences: "+msg.err.Error(), true))
			break
		}
		if m.ctrl.Phase() != drill.PhaseIdle {
			m.reloadPending = true
			break
		}
		m.ctrl.Restore(msg.sentences, msg.saved)
		m.cursor = 0
		log.Info("sentences loaded", "count", len(msg.sentences))

	case fileChangedMsg:
		m.reloadPending = true
		cmds = append(cmds, m.watchFile)

	case copiedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.showStatusMessage("Copy failed: "+msg.err.Error(), true))
		} else {
			cmds = append(cmds, m.showStatusMessage("Copied sentence", false))
		}

	case statusMessageTimeoutMsg:
		m.statusMessage = ""
		m.statusIsError = false

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.reloadPending && m.ctrl.Phase() == drill.PhaseIdle {
		m.reloadPending = false
		cmds = append(cmds, m.load())
	}
	cmds = append(cmds, m.syncFrames())
	return m, tea.Batch(cmds...)
}

func (m *model) updatePlayer(msg tea.KeyMsg) tea.Cmd {
	v := m.ctrl.Snapshot()
	k := m.keys

	switch {
	case keyMatches(msg, k.Quit):
		return m.quit()

	case keyMatches(msg, k.Play):
		if !v.Idle() {
			m.ctrl.Stop()
			return nil
		}
		return m.reportErr(m.ctrl.Play())

	case keyMatches(msg, k.Stop):
		m.ctrl.Stop()

	case keyMatches(msg, k.Prev):
		m.ctrl.Prev()

	case keyMatches(msg, k.Next):
		m.ctrl.Next()

	case keyMatches(msg, k.Mode):
		return m.reportErr(m.ctrl.SetMode(v.Mode.Other()))

	case keyMatches(msg, k.RepeatOne):
		return m.reportErr(m.ctrl.SetRepeatOne(!v.RepeatOne))

	case keyMatches(msg, k.Shuffle):
		if err := m.ctrl.SetShuffle(!v.Shuffle); err != nil {
			return m.reportErr(err)
		}
		if !v.Shuffle {
			return m.showStatusMessage("Shuffled", false)
		}
		return m.showStatusMessage("Queue in order", false)

	case keyMatches(msg, k.Bookmark):
		on, ok := m.ctrl.ToggleCurrentBookmark()
		if !ok {
			return nil
		}
		if on {
			return m.showStatusMessage("Bookmarked", false)
		}
		return m.showStatusMessage("Bookmark removed", false)

	case keyMatches(msg, k.Copy):
		if s, ok := m.ctrl.Current(); ok {
			return copySentence(s)
		}

	case keyMatches(msg, k.Settings):
		if err := m.ctrl.OpenSettings(); err != nil {
			return m.reportErr(err)
		}
		m.cursor = 0

	case keyMatches(msg, k.Reload):
		if !v.Idle() {
			return m.reportErr(drill.ErrBusy)
		}
		return m.load()

	case keyMatches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	v := m.ctrl.Snapshot()
	k := m.keys
	rows := len(v.Sections) + 1

	switch {
	case keyMatches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case keyMatches(msg, k.Down):
		if m.cursor < rows-1 {
			m.cursor++
		}
	case keyMatches(msg, k.Toggle):
		if m.cursor == 0 {
			m.ctrl.ToggleAll()
		} else {
			m.ctrl.ToggleSection(v.Sections[m.cursor-1].ID)
		}
	case keyMatches(msg, k.Close):
		if err := m.ctrl.CloseSettings(); err != nil {
			return m.reportErr(err)
		}
	case keyMatches(msg, k.Quit):
		return m.quit()
	}
	return nil
}

// syncFrames starts a frame loop for the controller's current tick id if
// none is scheduled for it yet.
func (m *model) syncFrames() tea.Cmd {
	if !m.ctrl.Ticking() {
		return nil
	}
	id := m.ctrl.TickID()
	if id == m.chain {
		return nil
	}
	m.chain = id
	return m.frame(id)
}

func (m model) frame(id uint64) tea.Cmd {
	interval := time.Second / time.Duration(m.common.cfg.FPS)
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return frameMsg{id: id}
	})
}

func (m *model) reportErr(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, drill.ErrBusy):
		return m.showStatusMessage("Stop playback first", true)
	case errors.Is(err, drill.ErrNoSections):
		return m.showStatusMessage("Select at least one section", true)
	case errors.Is(err, drill.ErrEmptyQueue):
		return m.showStatusMessage("Nothing to play", true)
	default:
		return m.showStatusMessage(err.Error(), true)
	}
}

func (m *model) showStatusMessage(msg string, isErr bool) tea.Cmd {
	m.statusMessage = msg
	m.statusIsError = isErr
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(m.statusMessageTimer)
}

func (m *model) quit() tea.Cmd {
	m.ctrl.Stop()
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			log.Debug("closing fsnotify watcher", "error", err)
		}
	}
	return tea.Quit
}

// load reads the sentences and the saved session.
func (m model) load() tea.Cmd {
	src := m.common.cfg.Source
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		sentences, err := sentence.Load(ctx, src)
		if err != nil {
			return loadedMsg{err: err}
		}
		var saved *settings.Settings
		if store != nil {
			saved, err = store.Load(ctx)
			if err != nil {
				log.Warn("unable to read saved session", "error", err)
			}
		}
		return loadedMsg{sentences: sentences, saved: saved}
	}
}

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}
