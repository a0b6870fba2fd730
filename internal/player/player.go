package player

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Busline-Digital/marquee/internal/broker"
	"github.com/Busline-Digital/marquee/internal/model"
	"github.com/Busline-Digital/marquee/internal/redis"
)

// Player plays one layout on one bus: an independent playlist runner per
// playlist-bearing widget, plus a single trigger poller for the whole view.
// It only bookkeeps playlist cursors; the layout itself is never mutated.
type Player struct {
	layout    model.Layout
	deviceID  string
	publisher broker.Publisher
	poller    *Poller
	runners   map[string]*Runner

	timeUnit     time.Duration
	pollInterval time.Duration
	cancel       context.CancelFunc
}

// WidgetPlayback is one widget's slice of a playback snapshot.
type WidgetPlayback struct {
	WidgetID string              `json:"widget_id"`
	Item     *model.PlaylistItem `json:"item,omitempty"`
}

// Snapshot is the device-facing view of playback state.
type Snapshot struct {
	LayoutID int              `json:"layout_id"`
	Widgets  []WidgetPlayback `json:"widgets"`
	Overlay  *Overlay         `json:"overlay,omitempty"`
}

// PlayerOption tweaks player construction.
type PlayerOption func(*Player)

func WithPlayerTimeUnit(unit time.Duration) PlayerOption {
	return func(p *Player) { p.timeUnit = unit }
}

func WithPlayerPollInterval(d time.Duration) PlayerOption {
	return func(p *Player) { p.pollInterval = d }
}

func NewPlayer(layout model.Layout, deviceID string, client LocationClient, publisher broker.Publisher, opts ...PlayerOption) *Player {
	p := &Player{
		layout:       layout,
		deviceID:     deviceID,
		publisher:    publisher,
		runners:      make(map[string]*Runner),
		timeUnit:     time.Second,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}

	widgets := func() []model.Widget { return p.layout.Widgets }
	p.poller = NewPoller(client, widgets,
		WithPollInterval(p.pollInterval),
		WithTriggerTimeUnit(p.timeUnit),
	)
	return p
}

func lastLocationKey(deviceID string) string {
	return fmt.Sprintf("bus:%s:last_location", deviceID)
}

// Start brings up all runners and the poller. Cancelling ctx tears down
// every timer and subscription the player owns.
func (p *Player) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	// a restarted player must not re-fire the trigger for a location the
	// previous incarnation already handled
	if last := redis.Get(ctx, lastLocationKey(p.deviceID)); last != "" {
		p.poller.SetLastProcessed(last)
	}
	p.poller.OnLocation(func(locationID string) {
		redis.Set(context.Background(), lastLocationKey(p.deviceID), locationID, 24*time.Hour)
	})
	p.poller.OnRaise(func(overlay Overlay) {
		itemID := ""
		if items := overlay.Widget.Properties.Playlist(); len(items) > 0 {
			itemID = items[0].ID
		}
		if err := p.publisher.PublishBusCommand(p.deviceID, broker.Command{
			Action: broker.ActionTriggerRaised,
			ItemID: itemID,
		}); err != nil {
			log.Error().Err(err).Str("device_id", p.deviceID).Msg("failed to push trigger raise")
		}
	})
	p.poller.OnClear(func() {
		if err := p.publisher.PublishBusCommand(p.deviceID, broker.Command{
			Action: broker.ActionTriggerCleared,
		}); err != nil {
			log.Error().Err(err).Str("device_id", p.deviceID).Msg("failed to push trigger clear")
		}
	})

	for _, w := range p.layout.Widgets {
		items := w.Properties.Playlist()
		if len(items) == 0 {
			continue
		}
		runner := NewRunner(items, false, WithTimeUnit(p.timeUnit))
		p.runners[w.ID] = runner
		runner.Start()
	}

	go p.poller.Run(ctx)
	go func() {
		<-ctx.Done()
		for _, runner := range p.runners {
			runner.Stop()
		}
	}()

	log.Info().
		Str("device_id", p.deviceID).
		Int("layout_id", p.layout.ID).
		Int("playlists", len(p.runners)).
		Msg("player started")
}

// Stop cancels everything the player owns.
func (p *Player) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

// LayoutID reports which layout this player is running.
func (p *Player) LayoutID() int { return p.layout.ID }

// Snapshot captures current playback state for the device API.
func (p *Player) Snapshot() Snapshot {
	snap := Snapshot{LayoutID: p.layout.ID}
	for _, w := range p.layout.Widgets {
		runner, ok := p.runners[w.ID]
		if !ok {
			continue
		}
		wp := WidgetPlayback{WidgetID: w.ID}
		if item, ok := runner.CurrentItem(); ok {
			wp.Item = &item
		}
		snap.Widgets = append(snap.Widgets, wp)
	}
	snap.Overlay = p.poller.ActiveOverlay()
	return snap
}

// MediaEnded routes a playback-ended signal from the display to the right
// runner; the overlay runner takes precedence when its widget matches.
func (p *Player) MediaEnded(widgetID string) {
	if r := p.triggerRunnerFor(widgetID); r != nil {
		r.MediaEnded()
		return
	}
	if runner, ok := p.runners[widgetID]; ok {
		runner.MediaEnded()
	}
}

// MediaError routes a playback-error signal; handled exactly like an end.
func (p *Player) MediaError(widgetID string) {
	if r := p.triggerRunnerFor(widgetID); r != nil {
		r.MediaError()
		return
	}
	if runner, ok := p.runners[widgetID]; ok {
		runner.MediaError()
	}
}

// Dismiss closes the active modal overlay, if there is one.
func (p *Player) Dismiss() bool {
	return p.poller.Dismiss()
}

// Poller exposes the trigger engine (tests, manual refresh).
func (p *Player) Poller() *Poller { return p.poller }

func (p *Player) triggerRunnerFor(widgetID string) *Runner {
	overlay := p.poller.ActiveOverlay()
	if overlay == nil || overlay.Widget.ID != widgetID {
		return nil
	}
	return p.poller.ActiveRunner()
}
