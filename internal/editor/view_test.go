package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoomClampsToBounds(t *testing.T) {
	store, _ := newTestStore(t)

	store.SetViewState(ViewState{Scale: 4.95})
	store.ZoomIn()
	assert.Equal(t, 5.0, store.ViewStateValue().Scale)
	store.ZoomIn()
	assert.Equal(t, 5.0, store.ViewStateValue().Scale)

	store.SetViewState(ViewState{Scale: 0.15})
	store.ZoomOut()
	assert.InDelta(t, 0.1, store.ViewStateValue().Scale, 1e-9)
	store.ZoomOut()
	assert.InDelta(t, 0.1, store.ViewStateValue().Scale, 1e-9)
}

func TestZoomStepsByTenth(t *testing.T) {
	store, _ := newTestStore(t)
	store.SetViewState(ViewState{Scale: 1})

	store.ZoomIn()
	assert.InDelta(t, 1.1, store.ViewStateValue().Scale, 1e-9)
	store.ZoomOut()
	store.ZoomOut()
	assert.InDelta(t, 0.9, store.ViewStateValue().Scale, 1e-9)
}

func TestFitToScreenSubtractsPaddingAndCenters(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	// 1920x1080 canvas in a 1000x500 viewport: usable area is 900x400,
	// so the height axis constrains the scale to 400/1080.
	store.FitToScreen(1000, 500)

	vs := store.ViewStateValue()
	wantScale := 400.0 / 1080.0
	assert.InDelta(t, wantScale, vs.Scale, 1e-9)
	assert.InDelta(t, (1000-1920*wantScale)/2, vs.PanX, 1e-9)
	assert.InDelta(t, (500-1080*wantScale)/2, vs.PanY, 1e-9)
}

func TestFitToScreenWidthConstrained(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	// tall narrow viewport: width is the limiting axis
	store.FitToScreen(600, 2000)

	vs := store.ViewStateValue()
	wantScale := 500.0 / 1920.0
	assert.InDelta(t, wantScale, vs.Scale, 1e-9)
}

func TestFitToScreenNoopWithoutLayout(t *testing.T) {
	store, _ := newTestStore(t)
	store.FitToScreen(1000, 500)
	assert.Equal(t, ViewState{Scale: 1}, store.ViewStateValue())
}

func TestResetViewCentersAtFullScale(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	store.SetViewState(ViewState{Scale: 0.3, PanX: 42, PanY: -7})
	store.ResetView(2400, 1400)

	vs := store.ViewStateValue()
	assert.Equal(t, 1.0, vs.Scale)
	assert.Equal(t, 240.0, vs.PanX) // (2400-1920)/2
	assert.Equal(t, 160.0, vs.PanY) // (1400-1080)/2
}

func TestViewStateSurvivesWidgetEdits(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	store.SetViewState(ViewState{Scale: 2, PanX: 10, PanY: 20})
	require.NoError(t, store.AddNewWidget("text"))

	assert.Equal(t, ViewState{Scale: 2, PanX: 10, PanY: 20}, store.ViewStateValue())
}
