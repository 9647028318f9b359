package drill

import (
	"fmt"
	"math"
	"time"
)

// Phase is the playback state.
type Phase int

const (
	// PhaseIdle: nothing playing, navigation moves the index only.
	PhaseIdle Phase = iota
	// PhasePlaying: a clip is playing; progress follows the media position.
	PhasePlaying
	// PhaseWaiting: the clip ended; progress ramps over the pause.
	PhaseWaiting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// Mode selects the pause between sentences.
type Mode int

const (
	// ModeRepeating pauses after each clip so the learner can repeat it.
	ModeRepeating Mode = iota
	// ModeShadowing moves on immediately.
	ModeShadowing
)

func (m Mode) String() string {
	switch m {
	case ModeRepeating:
		return "repeating"
	case ModeShadowing:
		return "shadowing"
	default:
		return "unknown"
	}
}

// Other returns the mode that is not m.
func (m Mode) Other() Mode {
	if m == ModeRepeating {
		return ModeShadowing
	}
	return ModeRepeating
}

// ParseMode parses "repeating" or "shadowing".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "repeating", "repeat":
		return ModeRepeating, nil
	case "shadowing", "shadow":
		return ModeShadowing, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want repeating or shadowing)", s)
	}
}

// trailingSilence is trimmed from the pause; clips end with about a second
// of silence.
const trailingSilence = 1000.0 // ms

// PauseFor returns the pause after a clip of the given duration. Repeating
// mode waits ceil(duration_ms - 1000) ms, never less than zero; shadowing
// mode does not wait.
func PauseFor(m Mode, clip time.Duration) time.Duration {
	if m != ModeRepeating {
		return 0
	}
	ms := math.Ceil(float64(clip)/float64(time.Millisecond) - trailingSilence)
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
