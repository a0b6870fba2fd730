package player

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Busline-Digital/marquee/internal/model"
)

// showRecorder collects OnShow callbacks for assertion.
type showRecorder struct {
	mu    sync.Mutex
	shows []string
}

func (rec *showRecorder) record(item model.PlaylistItem, restarted bool) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	id := item.ID
	if restarted {
		id += "!"
	}
	rec.shows = append(rec.shows, id)
}

func (rec *showRecorder) snapshot() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]string, len(rec.shows))
	copy(out, rec.shows)
	return out
}

func (rec *showRecorder) waitFor(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if shows := rec.snapshot(); len(shows) >= n {
			return shows
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d shows, got %v", n, rec.snapshot())
	return nil
}

func TestRunnerAdvancesImagesOnTimer(t *testing.T) {
	items := []model.PlaylistItem{imageItem("a", 1), imageItem("b", 1)}
	rec := &showRecorder{}
	r := NewRunner(items, false, WithTimeUnit(time.Millisecond))
	r.OnShow(rec.record)
	defer r.Stop()

	r.Start()

	shows := rec.waitFor(t, 3)
	assert.Equal(t, []string{"a", "b", "a"}, shows[:3])
}

func TestRunnerVideoWaitsForMediaSignal(t *testing.T) {
	items := []model.PlaylistItem{videoItem("v"), imageItem("b", 1)}
	rec := &showRecorder{}
	r := NewRunner(items, false, WithTimeUnit(time.Millisecond))
	r.OnShow(rec.record)
	defer r.Stop()

	r.Start()
	time.Sleep(20 * time.Millisecond)
	// no timer for a video item: still on the first item
	assert.Equal(t, []string{"v"}, rec.snapshot())

	r.MediaEnded()
	cur, ok := r.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID)
}

func TestRunnerMediaErrorSkipsLikeEnded(t *testing.T) {
	items := []model.PlaylistItem{videoItem("broken"), videoItem("next")}
	rec := &showRecorder{}
	r := NewRunner(items, false, WithTimeUnit(time.Millisecond))
	r.OnShow(rec.record)
	defer r.Stop()

	r.Start()
	r.MediaError()

	cur, ok := r.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, "next", cur.ID)
}

func TestRunnerSingleVideoRestartFlag(t *testing.T) {
	rec := &showRecorder{}
	r := NewRunner([]model.PlaylistItem{videoItem("solo")}, false, WithTimeUnit(time.Millisecond))
	r.OnShow(rec.record)
	defer r.Stop()

	r.Start()
	r.MediaEnded()

	assert.Equal(t, []string{"solo", "solo!"}, rec.snapshot())
}

func TestRunnerReplacePlaylistRewinds(t *testing.T) {
	rec := &showRecorder{}
	r := NewRunner([]model.PlaylistItem{imageItem("old", 60)}, false, WithTimeUnit(time.Millisecond))
	r.OnShow(rec.record)
	defer r.Stop()

	r.Start()
	r.ReplacePlaylist([]model.PlaylistItem{imageItem("new1", 60), imageItem("new2", 60)})

	cur, ok := r.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, "new1", cur.ID)
	assert.Equal(t, []string{"old", "new1"}, rec.snapshot())
}

func TestRunnerTriggerModeFiresOnFinished(t *testing.T) {
	items := []model.PlaylistItem{imageItem("a", 1)}
	r := NewRunner(items, true, WithTimeUnit(time.Millisecond))
	done := make(chan struct{})
	r.OnFinished(func() { close(done) })
	defer r.Stop()

	r.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger-mode runner never finished")
	}
	_, ok := r.CurrentItem()
	assert.False(t, ok)
}

func TestRunnerStopSilencesPendingTimer(t *testing.T) {
	rec := &showRecorder{}
	r := NewRunner([]model.PlaylistItem{imageItem("a", 5), imageItem("b", 5)}, false, WithTimeUnit(time.Millisecond))
	r.OnShow(rec.record)

	r.Start()
	r.Stop()
	time.Sleep(30 * time.Millisecond)

	// only the initial show; the scheduled advance went stale
	assert.Equal(t, []string{"a"}, rec.snapshot())
	_, ok := r.CurrentItem()
	assert.False(t, ok)
}

func TestRunnerEmptyPlaylistIsInert(t *testing.T) {
	rec := &showRecorder{}
	r := NewRunner(nil, false, WithTimeUnit(time.Millisecond))
	r.OnShow(rec.record)
	defer r.Stop()

	r.Start()
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestRunnerDefaultImageDurationApplies(t *testing.T) {
	// duration 0 falls back to the 10-unit default
	rec := &showRecorder{}
	r := NewRunner([]model.PlaylistItem{imageItem("a", 0), imageItem("b", 0)}, false, WithTimeUnit(time.Millisecond))
	r.OnShow(rec.record)
	defer r.Stop()

	r.Start()
	rec.waitFor(t, 2)
	cur, ok := r.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID)
}
