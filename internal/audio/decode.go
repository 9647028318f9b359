package audio

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/go-audio/wav"
)

// Channels is the channel count of every decoded clip.
const Channels = 2

// bytesPerFrame is 16-bit samples times Channels.
const bytesPerFrame = 2 * Channels

// resampleQuality is passed to beep.Resample (1 fastest, 6 best).
const resampleQuality = 4

// ErrUnsupportedFormat is returned for files that are neither MP3 nor WAV.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Clip is decoded audio: signed 16-bit little-endian interleaved stereo.
type Clip struct {
	PCM        []byte
	SampleRate int
	Duration   time.Duration
}

// ClipCache stores decoded PCM by key.
type ClipCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// Decoder turns audio files into clips at a fixed output rate.
type Decoder struct {
	sampleRate int
	cache      ClipCache
}

// NewDecoder returns a decoder producing clips at sampleRate. cache may be nil.
func NewDecoder(sampleRate int, cache ClipCache) *Decoder {
	return &Decoder{sampleRate: sampleRate, cache: cache}
}

// Decode reads path and returns its clip, using the cache when possible.
func (d *Decoder) Decode(path string) (*Clip, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open clip: %w", err)
	}

	key := d.cacheKey(path, info)
	if d.cache != nil {
		if pcm, ok := d.cache.Get(key); ok {
			return d.clip(pcm), nil
		}
	}

	pcm, err := d.decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", filepath.Base(path), err)
	}
	if d.cache != nil {
		if err := d.cache.Put(key, pcm); err != nil {
			log.Debug("clip not cached", "path", path, "error", err)
		}
	}
	return d.clip(pcm), nil
}

func (d *Decoder) clip(pcm []byte) *Clip {
	frames := len(pcm) / bytesPerFrame
	return &Clip{
		PCM:        pcm,
		SampleRate: d.sampleRate,
		Duration:   time.Duration(frames) * time.Second / time.Duration(d.sampleRate),
	}
}

// cacheKey changes whenever the file or the output rate changes.
func (d *Decoder) cacheKey(path string, info os.FileInfo) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%d", path, info.Size(), info.ModTime().UnixNano(), d.sampleRate)
	return hex.EncodeToString(h.Sum(nil))
}

func (d *Decoder) decodeFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var (
		s    beep.Streamer
		rate beep.SampleRate
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		ss, format, err := mp3.Decode(f)
		if err != nil {
			return nil, err
		}
		defer ss.Close() //nolint:errcheck
		s, rate = ss, format.SampleRate

	case ".wav":
		ws, r, err := decodeWAV(f)
		if err != nil {
			return nil, err
		}
		s, rate = ws, r

	default:
		return nil, ErrUnsupportedFormat
	}

	if int(rate) != d.sampleRate {
		s = beep.Resample(resampleQuality, rate, beep.SampleRate(d.sampleRate), s)
	}
	return readPCM(s)
}

// decodeWAV reads a whole WAV file into a streamer of normalized frames.
func decodeWAV(f *os.File) (*frameStreamer, beep.SampleRate, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, ErrUnsupportedFormat
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("wav has %d channels", channels)
	}
	scale := math.Exp2(float64(dec.BitDepth) - 1)
	if dec.BitDepth == 8 {
		// 8-bit WAV is unsigned
		for i := range buf.Data {
			buf.Data[i] -= 128
		}
	}

	frames := make([][2]float64, len(buf.Data)/channels)
	for i := range frames {
		left := float64(buf.Data[i*channels]) / scale
		right := left
		if channels > 1 {
			right = float64(buf.Data[i*channels+1]) / scale
		}
		frames[i] = [2]float64{left, right}
	}
	return &frameStreamer{frames: frames}, beep.SampleRate(buf.Format.SampleRate), nil
}

// frameStreamer is a beep.Streamer over decoded frames.
type frameStreamer struct {
	frames [][2]float64
	pos    int
}

func (s *frameStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.frames) {
		return 0, false
	}
	n := copy(samples, s.frames[s.pos:])
	s.pos += n
	return n, true
}

func (s *frameStreamer) Err() error { return nil }

// readPCM drains s into signed 16-bit little-endian stereo.
func readPCM(s beep.Streamer) ([]byte, error) {
	var out []byte
	buf := make([][2]float64, 1024)
	frame := make([]byte, bytesPerFrame)
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			binary.LittleEndian.PutUint16(frame[0:], uint16(toInt16(smp[0])))
			binary.LittleEndian.PutUint16(frame[2:], uint16(toInt16(smp[1])))
			out = append(out, frame...)
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func toInt16(v float64) int16 {
	switch {
	case v >= 1:
		return math.MaxInt16
	case v <= -1:
		return -math.MaxInt16
	default:
		return int16(v * math.MaxInt16)
	}
}
