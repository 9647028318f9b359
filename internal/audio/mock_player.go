package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// MockPlayer stands in for Player in tests. It never touches a sound device
// and never advances on its own: tests move the position with Advance and
// finish clips with Finish.
type MockPlayer struct {
	mu sync.Mutex

	// Durations maps a path to its clip length; unknown paths use DefaultDuration.
	Durations       map[string]time.Duration
	DefaultDuration time.Duration
	// Missing paths fail to Load; FailPlay makes every Play fail.
	Missing  map[string]bool
	FailPlay bool

	path     string
	loaded   bool
	state    PlayerState
	position time.Duration
	ended    bool

	Loads     []string
	playCount int
	stopCount int
}

// NewMockPlayer returns a mock whose clips last defaultDuration.
func NewMockPlayer(defaultDuration time.Duration) *MockPlayer {
	return &MockPlayer{
		Durations:       make(map[string]time.Duration),
		DefaultDuration: defaultDuration,
		Missing:         make(map[string]bool),
	}
}

func (m *MockPlayer) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateStopped
	m.Loads = append(m.Loads, path)
	if m.Missing[path] {
		m.loaded = false
		return fmt.Errorf("unable to open clip: %s: file does not exist", path)
	}
	m.path = path
	m.loaded = true
	return nil
}

func (m *MockPlayer) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return errors.New("no clip loaded")
	}
	if m.FailPlay {
		return errors.New("simulated playback error")
	}
	m.state = StatePlaying
	m.position = 0
	m.ended = false
	m.playCount++
	return nil
}

func (m *MockPlayer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateStopped
	m.position = 0
	m.ended = false
	m.stopCount++
	return nil
}

func (m *MockPlayer) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *MockPlayer) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.durationLocked()
}

func (m *MockPlayer) Ended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StatePlaying && m.ended
}

// Advance moves the playback position forward, finishing the clip when it
// passes the end.
func (m *MockPlayer) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePlaying {
		return
	}
	m.position += d
	if dur := m.durationLocked(); m.position >= dur {
		m.position = dur
		m.ended = true
	}
}

// Finish jumps to the end of the playing clip.
func (m *MockPlayer) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePlaying {
		return
	}
	m.position = m.durationLocked()
	m.ended = true
}

// Path returns the last successfully loaded path.
func (m *MockPlayer) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// IsPlaying reports whether a clip is playing and not yet finished.
func (m *MockPlayer) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StatePlaying && !m.ended
}

// Counts returns how often Play and Stop were called.
func (m *MockPlayer) Counts() (plays, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCount, m.stopCount
}

func (m *MockPlayer) durationLocked() time.Duration {
	if d, ok := m.Durations[m.path]; ok {
		return d
	}
	return m.DefaultDuration
}
