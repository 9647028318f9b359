package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process.
var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoErr     error
)

// PlayerState is the device-side state of a Player.
type PlayerState int32

const (
	StateStopped PlayerState = iota
	StatePlaying
	StateClosed
)

func (s PlayerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int     // 44100 or 48000 Hz only
	BufferSize int     // device buffer in bytes
	Volume     float64 // 0.0 to 1.0
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 44100,
		BufferSize: 8192,
		Volume:     1.0,
	}
}

// Validate checks the configuration against what the device accepts.
func (c PlayerConfig) Validate() error {
	if c.SampleRate != 44100 && c.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", c.SampleRate)
	}
	if c.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", c.Volume)
	}
	return nil
}

// Player owns the sound device. It holds at most one loaded clip and plays
// it from the start on every Play.
type Player struct {
	decoder *Decoder
	config  PlayerConfig

	mu        sync.Mutex
	context   *oto.Context
	player    *oto.Player
	clip      *Clip
	path      string
	state     PlayerState
	source    *countingReader
}

// NewPlayer opens the sound device.
func NewPlayer(config PlayerConfig, decoder *Decoder) (*Player, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   config.SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   time.Duration(config.BufferSize) * time.Second / time.Duration(config.SampleRate*Channels*2),
		}
		var ready chan struct{}
		otoContext, ready, otoErr = oto.NewContext(op)
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", otoErr)
	}

	return &Player{
		decoder: decoder,
		config:  config,
		context: otoContext,
		state:   StateStopped,
	}, nil
}

// Load decodes the clip at path, replacing (and stopping) the current one.
func (p *Player) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return errors.New("player is closed")
	}
	p.stopInternal()

	clip, err := p.decoder.Decode(path)
	if err != nil {
		p.clip = nil
		p.path = ""
		return err
	}
	p.clip = clip
	p.path = path
	return nil
}

// Play starts the loaded clip from the beginning.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.state == StateClosed:
		return errors.New("player is closed")
	case p.clip == nil:
		return errors.New("no clip loaded")
	}
	p.stopInternal()

	src := &countingReader{r: bytes.NewReader(p.clip.PCM)}
	player := p.context.NewPlayer(src)
	player.SetVolume(p.config.Volume)
	player.Play()

	p.player = player
	p.source = src
	p.state = StatePlaying
	log.Debug("playing clip", "path", p.path, "duration", p.clip.Duration)
	return nil
}

// Stop halts playback and rewinds. The clip stays loaded.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopInternal()
	return nil
}

func (p *Player) stopInternal() {
	if p.player != nil {
		p.player.Pause()
		if err := p.player.Close(); err != nil {
			log.Debug("error closing oto player", "error", err)
		}
		p.player = nil
		p.source = nil
	}
	if p.state == StatePlaying {
		p.state = StateStopped
	}
}

// Position returns how far into the clip the device has played. Bytes oto
// has read but not yet sent to the device are not counted.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePlaying || p.clip == nil || p.player == nil {
		return 0
	}
	return playedPosition(p.source.Count(), int64(p.player.BufferedSize()), p.clip)
}

func playedPosition(read, buffered int64, clip *Clip) time.Duration {
	played := max(read-buffered, 0)
	d := time.Duration(played/bytesPerFrame) * time.Second / time.Duration(clip.SampleRate)
	return min(d, clip.Duration)
}

// countingReader counts the bytes oto has pulled from the clip. oto reads
// from its own goroutine.
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n.Add(int64(n))
	return n, err
}

// Count returns the number of bytes read so far.
func (c *countingReader) Count() int64 { return c.n.Load() }

// Duration returns the loaded clip's length.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.clip == nil {
		return 0
	}
	return p.clip.Duration
}

// Ended reports whether the last Play has run to the end of the clip.
func (p *Player) Ended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePlaying || p.player == nil {
		return false
	}
	if p.player.IsPlaying() {
		return false
	}
	if err := p.player.Err(); err != nil {
		log.Warn("playback error", "path", p.path, "error", err)
	}
	return true
}

// SetVolume changes the volume of current and future playback.
func (p *Player) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.config.Volume = volume
	if p.player != nil {
		p.player.SetVolume(volume)
	}
	return nil
}

// State returns the device-side state.
func (p *Player) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Close stops playback. The oto context lives for the rest of the process.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopInternal()
	p.clip = nil
	p.state = StateClosed
	return nil
}
