package drill

import "time"

type tickKind int

const (
	tickNone tickKind = iota
	tickMedia
	tickWait
)

func (k tickKind) String() string {
	switch k {
	case tickMedia:
		return "media"
	case tickWait:
		return "wait"
	default:
		return "none"
	}
}

// Ticker is the one active progress source. Every start or cancel bumps the
// generation id so ticks scheduled for an earlier source can be told apart.
type Ticker struct {
	kind  tickKind
	id    uint64
	start time.Time
	wait  time.Duration
}

// startMedia switches to polling the media position.
func (t *Ticker) startMedia(now time.Time) uint64 {
	t.id++
	t.kind = tickMedia
	t.start = now
	t.wait = 0
	return t.id
}

// startWait switches to a ramp lasting d.
func (t *Ticker) startWait(now time.Time, d time.Duration) uint64 {
	t.id++
	t.kind = tickWait
	t.start = now
	t.wait = d
	return t.id
}

// cancel stops whatever source is active.
func (t *Ticker) cancel() {
	if t.kind == tickNone {
		return
	}
	t.id++
	t.kind = tickNone
}

// Active reports whether a source is running.
func (t *Ticker) Active() bool { return t.kind != tickNone }

// ID returns the current generation.
func (t *Ticker) ID() uint64 { return t.id }

// current reports whether id belongs to the running source.
func (t *Ticker) current(id uint64) bool { return t.kind != tickNone && id == t.id }

// rampPercent returns the wait ramp's progress at now and whether the
// wait is over.
func (t *Ticker) rampPercent(now time.Time) (int, bool) {
	elapsed := now.Sub(t.start)
	if t.wait <= 0 || elapsed >= t.wait {
		return 100, true
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return ceilPercent(elapsed, t.wait), false
}

// ceilPercent returns ceil(part/whole*100) clamped to [0, 100].
func ceilPercent(part, whole time.Duration) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	if part >= whole {
		return 100
	}
	// integer ceil avoids float rounding at exact boundaries
	return int((int64(part)*100 + int64(whole) - 1) / int64(whole))
}
