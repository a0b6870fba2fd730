package player

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Busline-Digital/marquee/internal/model"
)

// DefaultPollInterval is how often the trigger engine asks where the bus is.
const DefaultPollInterval = 30 * time.Second

// OverlayMode says how a triggered item is presented above the normal layer.
type OverlayMode string

const (
	OverlayFullscreen OverlayMode = "fullscreen"
	OverlayModal      OverlayMode = "modal"
)

// Overlay describes the active trigger presentation. Modal overlays occupy
// 80% of the viewport and carry a close affordance; fullscreen overlays
// cover everything and cannot be dismissed manually.
type Overlay struct {
	Widget      model.Widget `json:"widget"`
	Mode        OverlayMode  `json:"mode"`
	Dismissible bool         `json:"dismissible"`
	WidthPct    int          `json:"width_pct"`
	HeightPct   int          `json:"height_pct"`
	LocationID  string       `json:"location_id"`
}

// Poller is the location trigger engine: one recurring timer for its whole
// lifetime, polling the location client and raising at most one overlay at a
// time. Fetch failures are logged and retried next tick, never surfaced.
type Poller struct {
	mu            sync.Mutex
	client        LocationClient
	widgets       func() []model.Widget
	interval      time.Duration
	timeUnit      time.Duration
	lastProcessed string
	active        *activeTrigger

	onRaise    func(Overlay)
	onClear    func()
	onLocation func(locationID string)
}

type activeTrigger struct {
	overlay Overlay
	runner  *Runner
}

// PollerOption tweaks poller construction.
type PollerOption func(*Poller)

func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// WithTriggerTimeUnit sets the duration unit for trigger playback runners.
func WithTriggerTimeUnit(unit time.Duration) PollerOption {
	return func(p *Poller) { p.timeUnit = unit }
}

// NewPoller builds a trigger engine over a widget snapshot function. widgets
// must return the layout's widgets in layout order.
func NewPoller(client LocationClient, widgets func() []model.Widget, opts ...PollerOption) *Poller {
	p := &Poller{
		client:   client,
		widgets:  widgets,
		interval: DefaultPollInterval,
		timeUnit: time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnRaise registers the callback fired when a trigger overlay goes up.
func (p *Poller) OnRaise(fn func(Overlay)) { p.onRaise = fn }

// OnClear registers the callback fired when the overlay comes down.
func (p *Poller) OnClear(fn func()) { p.onClear = fn }

// OnLocation registers a hook fired when a new location id is processed
// (used to persist the id across restarts).
func (p *Poller) OnLocation(fn func(locationID string)) { p.onLocation = fn }

// SetLastProcessed seeds the dedup guard, e.g. from Redis after a restart.
func (p *Poller) SetLastProcessed(locationID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastProcessed = locationID
}

// Run polls once immediately, then on every interval tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.Poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.teardown()
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one location check. Exported so tests and manual refresh
// paths can drive the engine without the ticker.
func (p *Poller) Poll(ctx context.Context) {
	locationID, ok, err := p.client.CurrentLocation(ctx)
	if err != nil {
		// transient fetch failure: swallow and retry on the next tick
		log.Error().Err(err).Msg("bus location poll failed")
		return
	}
	if !ok {
		return
	}

	p.mu.Lock()
	if locationID == p.lastProcessed {
		p.mu.Unlock()
		return
	}
	p.lastProcessed = locationID
	p.mu.Unlock()

	log.Info().Str("location_id", locationID).Msg("bus reached new location")
	if p.onLocation != nil {
		p.onLocation(locationID)
	}

	widget, item, found := matchTrigger(p.widgets(), locationID)
	if !found {
		log.Debug().Str("location_id", locationID).Msg("no playlist item matches location")
		return
	}
	p.raise(widget, item, locationID)
}

// matchTrigger scans widgets in layout order and returns the first playlist
// item whose locationId matches. Scanning stops at the first match; no
// stacking of simultaneous triggers.
func matchTrigger(widgets []model.Widget, locationID string) (model.Widget, model.PlaylistItem, bool) {
	for _, w := range widgets {
		for _, item := range w.Properties.Playlist() {
			if item.MatchesLocation(locationID) {
				return w, item, true
			}
		}
	}
	return model.Widget{}, model.PlaylistItem{}, false
}

// raise activates a trigger: a synthetic copy of the matched widget whose
// playlist holds only the matched item, played in trigger mode.
func (p *Poller) raise(widget model.Widget, item model.PlaylistItem, locationID string) {
	synthetic := widget.Clone()
	synthetic.Properties.SetPlaylist([]model.PlaylistItem{item})

	overlay := Overlay{
		Widget:      synthetic,
		Mode:        OverlayModal,
		Dismissible: true,
		WidthPct:    80,
		HeightPct:   80,
		LocationID:  locationID,
	}
	if item.Fullscreen {
		overlay = Overlay{
			Widget:     synthetic,
			Mode:       OverlayFullscreen,
			WidthPct:   100,
			HeightPct:  100,
			LocationID: locationID,
		}
	}

	runner := NewRunner([]model.PlaylistItem{item}, true, WithTimeUnit(p.timeUnit))
	runner.OnFinished(func() { p.clear() })

	p.mu.Lock()
	if p.active != nil {
		p.active.runner.Stop()
	}
	p.active = &activeTrigger{overlay: overlay, runner: runner}
	p.mu.Unlock()

	runner.Start()
	if p.onRaise != nil {
		p.onRaise(overlay)
	}
}

// ActiveOverlay returns the overlay currently up, if any.
func (p *Poller) ActiveOverlay() *Overlay {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return nil
	}
	overlay := p.active.overlay
	return &overlay
}

// ActiveRunner exposes the trigger playback runner so media end/error
// signals can reach it.
func (p *Poller) ActiveRunner() *Runner {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return nil
	}
	return p.active.runner
}

// Dismiss closes a modal overlay on user request. Fullscreen overlays have
// no manual dismiss.
func (p *Poller) Dismiss() bool {
	p.mu.Lock()
	if p.active == nil || !p.active.overlay.Dismissible {
		p.mu.Unlock()
		return false
	}
	p.mu.Unlock()
	p.clear()
	return true
}

// clear tears down the active trigger.
func (p *Poller) clear() {
	p.mu.Lock()
	if p.active == nil {
		p.mu.Unlock()
		return
	}
	runner := p.active.runner
	p.active = nil
	p.mu.Unlock()

	runner.Stop()
	if p.onClear != nil {
		p.onClear()
	}
}

func (p *Poller) teardown() {
	p.mu.Lock()
	active := p.active
	p.active = nil
	p.mu.Unlock()
	if active != nil {
		active.runner.Stop()
	}
}
