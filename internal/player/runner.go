package player

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Busline-Digital/marquee/internal/model"
)

// Runner drives one widget's Sequencer in real time. Image items advance on
// an owned timer; video items advance only on MediaEnded/MediaError signals
// from the media element. A generation counter invalidates stale timers on
// index change, playlist replacement, and teardown.
type Runner struct {
	mu       sync.Mutex
	seq      *Sequencer
	timeUnit time.Duration
	gen      uint64
	timer    *time.Timer
	stopped  bool

	onShow     func(item model.PlaylistItem, restarted bool)
	onFinished func()
}

// RunnerOption tweaks runner construction.
type RunnerOption func(*Runner)

// WithTimeUnit overrides the duration unit (one second in production).
func WithTimeUnit(unit time.Duration) RunnerOption {
	return func(r *Runner) { r.timeUnit = unit }
}

func NewRunner(items []model.PlaylistItem, triggerMode bool, opts ...RunnerOption) *Runner {
	r := &Runner{
		seq:      NewSequencer(items, triggerMode),
		timeUnit: time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnShow registers the callback fired when an item starts showing.
// restarted is true when a looping single-video playlist must be replayed.
func (r *Runner) OnShow(fn func(item model.PlaylistItem, restarted bool)) { r.onShow = fn }

// OnFinished registers the trigger-mode completion callback.
func (r *Runner) OnFinished(fn func()) { r.onFinished = fn }

// Start shows the first item. A runner over an empty playlist is inert.
func (r *Runner) Start() {
	r.mu.Lock()
	item, ok := r.seq.Current()
	if !ok || r.stopped {
		r.mu.Unlock()
		return
	}
	r.scheduleLocked(item)
	r.mu.Unlock()

	if r.onShow != nil {
		r.onShow(item, false)
	}
}

// CurrentItem reports what the widget is showing right now.
func (r *Runner) CurrentItem() (model.PlaylistItem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return model.PlaylistItem{}, false
	}
	return r.seq.Current()
}

// MediaEnded signals natural end of the current video item.
func (r *Runner) MediaEnded() {
	r.advance()
}

// MediaError signals a broken media resource. Treated exactly like natural
// end so playback never stalls on a bad URL.
func (r *Runner) MediaError() {
	log.Debug().Msg("media error reported, skipping playlist item")
	r.advance()
}

// ReplacePlaylist swaps the playlist and rewinds the cursor to 0, cancelling
// any pending timer.
func (r *Runner) ReplacePlaylist(items []model.PlaylistItem) {
	r.mu.Lock()
	r.invalidateLocked()
	r.seq.Reset(items)
	item, ok := r.seq.Current()
	if !ok || r.stopped {
		r.mu.Unlock()
		return
	}
	r.scheduleLocked(item)
	r.mu.Unlock()

	if r.onShow != nil {
		r.onShow(item, false)
	}
}

// Stop tears the runner down; late timer fires become no-ops.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	r.invalidateLocked()
}

// invalidateLocked bumps the generation and cancels the pending timer.
func (r *Runner) invalidateLocked() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// scheduleLocked installs the advance trigger for the item now showing.
func (r *Runner) scheduleLocked(item model.PlaylistItem) {
	r.invalidateLocked()
	if item.Type != "image" {
		// video: advance arrives via MediaEnded/MediaError
		return
	}
	gen := r.gen
	delay := time.Duration(item.EffectiveDuration()) * r.timeUnit
	r.timer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		stale := r.stopped || gen != r.gen
		r.mu.Unlock()
		if stale {
			return
		}
		r.advance()
	})
}

func (r *Runner) advance() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}

	result := r.seq.Advance()

	var (
		showItem  model.PlaylistItem
		restarted bool
		show      bool
		finished  bool
	)
	switch result {
	case AdvanceNext, AdvanceWrapped:
		if item, ok := r.seq.Current(); ok {
			r.scheduleLocked(item)
			showItem, show = item, true
		}
	case AdvanceRestartVideo:
		if item, ok := r.seq.Current(); ok {
			r.invalidateLocked()
			showItem, show, restarted = item, true, true
		}
	case AdvanceFinished:
		r.invalidateLocked()
		finished = true
	}
	r.mu.Unlock()

	if show && r.onShow != nil {
		r.onShow(showItem, restarted)
	}
	if finished && r.onFinished != nil {
		r.onFinished()
	}
}
