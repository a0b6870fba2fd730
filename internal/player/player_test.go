package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Busline-Digital/marquee/internal/broker"
	"github.com/Busline-Digital/marquee/internal/model"
)

// fakePublisher records pushed commands per device.
type fakePublisher struct {
	mu       sync.Mutex
	commands []broker.Command
	devices  []string
}

func (p *fakePublisher) PublishBusCommand(deviceID string, cmd broker.Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = append(p.commands, cmd)
	p.devices = append(p.devices, deviceID)
	return nil
}

func (p *fakePublisher) published() []broker.Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]broker.Command, len(p.commands))
	copy(out, p.commands)
	return out
}

func playerLayout() model.Layout {
	playlistWidget := model.Widget{ID: "w-playlist", Type: model.WidgetImage, Properties: model.WidgetProperties{}}
	playlistWidget.Properties.SetPlaylist([]model.PlaylistItem{
		{ID: "a", URL: "https://cdn.example.com/a.jpg", Type: "image", Duration: 120},
		{ID: "b", URL: "https://cdn.example.com/b.jpg", Type: "image", Duration: 120, LocationID: "100", Fullscreen: true},
		{ID: "c", URL: "https://cdn.example.com/c.jpg", Type: "image", Duration: 120, LocationID: "200"},
	})

	return model.Layout{
		ID:     7,
		Name:   "route display",
		Width:  1920,
		Height: 1080,
		Widgets: model.WidgetList{
			{ID: "w-clock", Type: model.WidgetClock, Properties: model.WidgetProperties{}},
			playlistWidget,
		},
	}
}

func startTestPlayer(t *testing.T, client LocationClient, pub broker.Publisher) *Player {
	t.Helper()
	p := NewPlayer(playerLayout(), "device-1", client, pub,
		WithPlayerTimeUnit(time.Millisecond),
		WithPlayerPollInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	p.Start(ctx)
	// let the poller's startup poll drain before tests drive it manually
	time.Sleep(10 * time.Millisecond)
	return p
}

func TestPlayerRunsOnlyPlaylistWidgets(t *testing.T) {
	client := &fakeLocationClient{}
	p := startTestPlayer(t, client, broker.Nop{})

	snap := p.Snapshot()
	assert.Equal(t, 7, snap.LayoutID)
	require.Len(t, snap.Widgets, 1)
	assert.Equal(t, "w-playlist", snap.Widgets[0].WidgetID)
	require.NotNil(t, snap.Widgets[0].Item)
	assert.Equal(t, "a", snap.Widgets[0].Item.ID)
	assert.Nil(t, snap.Overlay)
}

func TestPlayerPushesTriggerCommands(t *testing.T) {
	client := &fakeLocationClient{}
	pub := &fakePublisher{}
	p := startTestPlayer(t, client, pub)

	client.set("200", true, nil)
	p.Poller().Poll(context.Background())

	cmds := pub.published()
	require.Len(t, cmds, 1)
	assert.Equal(t, broker.ActionTriggerRaised, cmds[0].Action)
	assert.Equal(t, "c", cmds[0].ItemID)

	require.True(t, p.Dismiss())

	cmds = pub.published()
	require.Len(t, cmds, 2)
	assert.Equal(t, broker.ActionTriggerCleared, cmds[1].Action)
	assert.Nil(t, p.Snapshot().Overlay)
}

func TestPlayerSnapshotIncludesOverlay(t *testing.T) {
	client := &fakeLocationClient{}
	p := startTestPlayer(t, client, broker.Nop{})

	client.set("100", true, nil)
	p.Poller().Poll(context.Background())

	snap := p.Snapshot()
	require.NotNil(t, snap.Overlay)
	assert.Equal(t, OverlayFullscreen, snap.Overlay.Mode)
	assert.Equal(t, "100", snap.Overlay.LocationID)

	// the base playlist keeps running underneath
	require.Len(t, snap.Widgets, 1)
	require.NotNil(t, snap.Widgets[0].Item)
}

func TestPlayerRoutesMediaSignalsToOverlayFirst(t *testing.T) {
	client := &fakeLocationClient{}
	p := startTestPlayer(t, client, broker.Nop{})

	client.set("100", true, nil)
	p.Poller().Poll(context.Background())
	require.NotNil(t, p.Snapshot().Overlay)

	// the overlay wraps widget w-playlist: the signal must hit the trigger
	// runner, not the base runner
	base := p.runners["w-playlist"]
	before, ok := base.CurrentItem()
	require.True(t, ok)

	p.MediaEnded("w-playlist")

	after, ok := base.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, before.ID, after.ID, "base runner must not advance while overlay is up")
}

func TestPlayerMediaEndedAdvancesBaseRunner(t *testing.T) {
	client := &fakeLocationClient{}
	p := startTestPlayer(t, client, broker.Nop{})

	p.MediaEnded("w-playlist")

	snap := p.Snapshot()
	require.NotNil(t, snap.Widgets[0].Item)
	assert.Equal(t, "b", snap.Widgets[0].Item.ID)
}

func TestPlayerStopTearsDownRunners(t *testing.T) {
	client := &fakeLocationClient{}
	p := startTestPlayer(t, client, broker.Nop{})

	p.Stop()
	time.Sleep(10 * time.Millisecond)

	snap := p.Snapshot()
	require.Len(t, snap.Widgets, 1)
	assert.Nil(t, snap.Widgets[0].Item)
}
