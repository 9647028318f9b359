package drill

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/shadowdrill/internal/bookmark"
	"github.com/dgnsrekt/shadowdrill/internal/queue"
	"github.com/dgnsrekt/shadowdrill/internal/section"
	"github.com/dgnsrekt/shadowdrill/internal/sentence"
	"github.com/dgnsrekt/shadowdrill/internal/settings"
)

const saveTimeout = 2 * time.Second

// Media is the audio device as seen by the controller.
type Media interface {
	Load(path string) error
	Play() error
	Stop() error
	Position() time.Duration
	Duration() time.Duration
	Ended() bool
}

// Saver persists partial settings updates.
type Saver interface {
	Save(ctx context.Context, u settings.Update) error
}

// Options configure a Controller. Media is required.
type Options struct {
	Media    Media
	Store    Saver
	AudioDir string
	Mode     Mode
	Rand     *rand.Rand
	Now      func() time.Time

	// OnPlay is called after a clip starts playing.
	OnPlay func(s sentence.Sentence, m Mode)
}

// Controller runs a drill session. It is not safe for concurrent use; the
// UI drives it from its update loop.
type Controller struct {
	media    Media
	store    Saver
	audioDir string
	rng      *rand.Rand
	now      func() time.Time
	onPlay   func(sentence.Sentence, Mode)

	sentences []sentence.Sentence
	stats     map[int]int
	sections  *section.Selector
	queue     []sentence.Sentence
	index     int
	bookmarks *bookmark.Set

	shuffle      bool
	repeatOne    bool
	mode         Mode
	settingsOpen bool

	phase    Phase
	progress int
	ticker   Ticker
	tickLog  rate.Sometimes
}

// New returns an idle controller with no sentences. Call Restore to load a
// session.
func New(opts Options) *Controller {
	c := &Controller{
		media:     opts.Media,
		store:     opts.Store,
		audioDir:  opts.AudioDir,
		rng:       opts.Rand,
		now:       opts.Now,
		onPlay:    opts.OnPlay,
		mode:      opts.Mode,
		stats:     map[int]int{},
		sections:  section.NewSelector(nil),
		bookmarks: bookmark.NewSet(),
		tickLog:   rate.Sometimes{Interval: time.Second},
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Restore replaces the sentence collection and applies saved settings.
// Playback is stopped first. saved may be nil.
func (c *Controller) Restore(sentences []sentence.Sentence, saved *settings.Settings) {
	c.halt()

	c.sentences = sentences
	c.stats = sentence.SectionStats(sentences)
	all := sentence.Sections(sentences)
	c.sections.SetUniverse(all)
	c.sections.Set(all)
	c.bookmarks = bookmark.NewSet()
	c.shuffle = false
	c.queue = nil
	c.index = 0

	if saved != nil {
		if len(saved.SelectedSections) > 0 {
			c.sections.Set(saved.SelectedSections)
			if c.sections.Len() == 0 {
				c.sections.Set(all)
			}
		}
		if len(saved.Bookmarks) > 0 {
			c.bookmarks = bookmark.NewSet(saved.Bookmarks...)
		}
		if saved.IsRandom != nil {
			c.shuffle = *saved.IsRandom
		}
		if len(saved.PlayQueue) > 0 {
			restored := queue.Restore(saved.PlayQueue, sentences)
			c.queue = lo.Filter(restored, func(s sentence.Sentence, _ int) bool {
				return c.sections.Has(s.Section)
			})
		}
	}

	if len(c.queue) == 0 {
		c.rebuildQueue()
		return
	}
	if saved.CurrentPlayIndex != nil {
		if i := *saved.CurrentPlayIndex; i >= 0 && i < len(c.queue) {
			c.index = i
		}
	}
	log.Debug("session restored", "sentences", len(sentences), "queue", len(c.queue), "index", c.index)
}

// SectionStats returns the number of sentences per section.
func (c *Controller) SectionStats() map[int]int { return c.stats }

// OpenSettings shows the section selection surface.
func (c *Controller) OpenSettings() error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	c.settingsOpen = true
	return nil
}

// ToggleSection flips one section while the settings are open.
func (c *Controller) ToggleSection(id int) {
	c.sections.Toggle(id)
}

// ToggleAll selects every section, or clears them when all are selected.
func (c *Controller) ToggleAll() {
	c.sections.ToggleAll()
}

// CloseSettings persists the selection and rebuilds the queue. It refuses
// while no section is selected.
func (c *Controller) CloseSettings() error {
	if !c.sections.CanClose() {
		return ErrNoSections
	}
	selected := c.sections.Selected()
	c.persist(settings.Update{SelectedSections: &selected})
	c.rebuildQueue()
	c.settingsOpen = false
	return nil
}

// SetShuffle persists the shuffle flag and rebuilds the queue.
func (c *Controller) SetShuffle(on bool) error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	c.shuffle = on
	c.persist(settings.Update{IsRandom: lo.ToPtr(on)})
	c.rebuildQueue()
	return nil
}

// SetRepeatOne toggles replaying the same sentence instead of advancing.
func (c *Controller) SetRepeatOne(on bool) error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	c.repeatOne = on
	return nil
}

// SetMode switches between repeating and shadowing.
func (c *Controller) SetMode(m Mode) error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	c.mode = m
	return nil
}

// ToggleBookmark flips the bookmark of sentence no and persists the set. It
// reports whether the sentence is bookmarked afterwards.
func (c *Controller) ToggleBookmark(no int) bool {
	on := c.bookmarks.Toggle(no)
	ids := c.bookmarks.IDs()
	c.persist(settings.Update{Bookmarks: &ids})
	return on
}

// ToggleCurrentBookmark toggles the bookmark of the sentence at the current
// index. ok is false when the queue is empty.
func (c *Controller) ToggleCurrentBookmark() (on, ok bool) {
	s, ok := c.Current()
	if !ok {
		return false, false
	}
	return c.ToggleBookmark(s.No), true
}

// Play starts the sentence at the current index.
func (c *Controller) Play() error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	if len(c.queue) == 0 {
		return ErrEmptyQueue
	}
	return c.playAt(c.index)
}

// Stop halts playback and returns to idle.
func (c *Controller) Stop() {
	if c.phase == PhaseIdle {
		return
	}
	log.Debug("stopped", "index", c.index)
	c.halt()
}

// Next moves to the following sentence. While not idle it plays it at once.
func (c *Controller) Next() {
	if c.index >= len(c.queue)-1 {
		return
	}
	c.move(c.index + 1)
}

// Prev moves to the preceding sentence. While not idle it plays it at once.
func (c *Controller) Prev() {
	if c.index <= 0 {
		return
	}
	c.move(c.index - 1)
}

func (c *Controller) move(i int) {
	c.setIndex(i)
	if c.phase == PhaseIdle {
		return
	}
	if err := c.playAt(i); err != nil {
		log.Warn("skip failed", "error", err)
	}
}

// Tick advances the active progress source. Ticks whose id does not match
// the running source are ignored.
func (c *Controller) Tick(id uint64) {
	if !c.ticker.current(id) {
		return
	}
	now := c.now()

	switch c.ticker.kind {
	case tickMedia:
		pos, dur := c.media.Position(), c.media.Duration()
		c.progress = ceilPercent(pos, dur)
		c.tickLog.Do(func() {
			log.Debug("media tick", "position", pos, "duration", dur, "progress", c.progress)
		})
		if c.media.Ended() {
			c.progress = 100
			c.ended(now, dur)
		}
	case tickWait:
		pct, done := c.ticker.rampPercent(now)
		c.progress = pct
		if done {
			c.ticker.cancel()
			c.advance()
		}
	}
}

// Ticking reports whether the controller wants ticks.
func (c *Controller) Ticking() bool { return c.ticker.Active() }

// TickID is the id the next tick must carry.
func (c *Controller) TickID() uint64 { return c.ticker.ID() }

// Current returns the sentence at the current index.
func (c *Controller) Current() (sentence.Sentence, bool) {
	if c.index < 0 || c.index >= len(c.queue) {
		return sentence.Sentence{}, false
	}
	return c.queue[c.index], true
}

// Phase returns the playback phase.
func (c *Controller) Phase() Phase { return c.phase }

// Bookmarks returns the bookmarked sentence numbers, sorted.
func (c *Controller) Bookmarks() []int { return c.bookmarks.IDs() }

func (c *Controller) playAt(i int) error {
	c.ticker.cancel()
	if err := c.media.Stop(); err != nil {
		log.Debug("stop before load", "error", err)
	}
	c.progress = 0

	s := c.queue[i]
	path := sentence.AudioPath(c.audioDir, s)
	err := c.media.Load(path)
	if err == nil {
		err = c.media.Play()
	}
	if err != nil {
		c.phase = PhaseIdle
		log.Error("unable to play clip", "no", s.No, "path", path, "error", err)
		return fmt.Errorf("%w: sentence %d: %w", ErrPlayback, s.No, err)
	}

	c.phase = PhasePlaying
	c.ticker.startMedia(c.now())
	log.Info("playing", "no", s.No, "index", i, "mode", c.mode)
	if c.onPlay != nil {
		c.onPlay(s, c.mode)
	}
	return nil
}

func (c *Controller) ended(now time.Time, clip time.Duration) {
	c.phase = PhaseWaiting
	wait := PauseFor(c.mode, clip)
	if wait <= 0 {
		c.ticker.cancel()
		c.advance()
		return
	}
	c.progress = 0
	c.ticker.startWait(now, wait)
	log.Debug("waiting", "pause", wait)
}

func (c *Controller) advance() {
	switch {
	case c.repeatOne:
		c.replay(c.index)
	case c.index < len(c.queue)-1:
		c.setIndex(c.index + 1)
		c.replay(c.index)
	default:
		log.Debug("end of queue", "len", len(c.queue))
		c.halt()
	}
}

func (c *Controller) replay(i int) {
	if err := c.playAt(i); err != nil {
		log.Warn("advance failed", "error", err)
	}
}

// halt stops the device and all ticking without touching the index.
func (c *Controller) halt() {
	c.ticker.cancel()
	if c.phase != PhaseIdle {
		if err := c.media.Stop(); err != nil {
			log.Debug("stop", "error", err)
		}
	}
	c.phase = PhaseIdle
	c.progress = 0
}

func (c *Controller) setIndex(i int) {
	c.index = i
	c.persist(settings.Update{CurrentPlayIndex: lo.ToPtr(i)})
}

func (c *Controller) rebuildQueue() {
	c.queue = queue.Build(c.sentences, c.sections.Selected(), c.shuffle, c.rng)
	ids := queue.IDs(c.queue)
	c.index = 0
	c.persist(settings.Update{PlayQueue: &ids, CurrentPlayIndex: lo.ToPtr(0)})
	log.Debug("queue rebuilt", "len", len(c.queue), "shuffle", c.shuffle)
}

func (c *Controller) persist(u settings.Update) {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := c.store.Save(ctx, u); err != nil {
		log.Warn("unable to save settings", "error", err)
	}
}
