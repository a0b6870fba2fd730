package editor

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Busline-Digital/marquee/internal/model"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	layouts   []model.Layout
	nextID    int
	failNext  error
	saveCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1}
}

func (r *fakeRepo) CreateLayout(layout model.Layout) (model.Layout, error) {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return model.Layout{}, err
	}
	layout.ID = r.nextID
	r.nextID++
	r.layouts = append(r.layouts, layout.Clone())
	return layout, nil
}

func (r *fakeRepo) UpdateLayout(layout model.Layout) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.saveCalls++
	for i := range r.layouts {
		if r.layouts[i].ID == layout.ID {
			r.layouts[i] = layout.Clone()
		}
	}
	return nil
}

func (r *fakeRepo) DeleteLayout(id int) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	kept := r.layouts[:0]
	for _, l := range r.layouts {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	r.layouts = kept
	return nil
}

func (r *fakeRepo) ListLayouts(companyID, page int) ([]model.Layout, int, error) {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return nil, 0, err
	}
	out := make([]model.Layout, len(r.layouts))
	copy(out, r.layouts)
	return out, len(r.layouts), nil
}

func newTestStore(t *testing.T) (*Store, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewStore(repo, 1), repo
}

func TestCreateLayoutSwitchesToEditor(t *testing.T) {
	store, _ := newTestStore(t)

	created, err := store.CreateLayout("Morning Loop", TemplateQuadGrid)
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, DefaultCanvasWidth, created.Width)
	assert.Equal(t, DefaultCanvasHeight, created.Height)
	assert.Len(t, created.Widgets, 4)

	assert.Equal(t, ViewEditor, store.CurrentView())
	assert.True(t, store.Initialized())
	assert.Len(t, store.SavedLayouts(), 1)
	assert.Equal(t, ViewState{Scale: 1}, store.ViewStateValue())
}

func TestCreateLayoutFailureLeavesListUnchanged(t *testing.T) {
	store, repo := newTestStore(t)
	_, err := store.CreateLayout("keeper", TemplateBlank)
	require.NoError(t, err)

	repo.failNext = errors.New("boom")
	_, err = store.CreateLayout("doomed", TemplateBlank)
	require.Error(t, err)

	assert.Len(t, store.SavedLayouts(), 1)
	assert.Equal(t, "keeper", store.SavedLayouts()[0].Name)
}

func TestCreateLayoutDefaultsName(t *testing.T) {
	store, _ := newTestStore(t)
	created, err := store.CreateLayout("", TemplateBlank)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Layout", created.Name)
}

func TestAddNewWidgetCreatesWhenNothingSelected(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	require.NoError(t, store.AddNewWidget(model.WidgetTicker))

	layout := store.Layout()
	require.Len(t, layout.Widgets, 1)
	w := layout.Widgets[0]
	assert.Equal(t, model.WidgetTicker, w.Type)
	assert.Equal(t, 100.0, w.X)
	assert.Equal(t, 400.0, w.Width)
	assert.Equal(t, 100.0, w.Height) // ticker height
	assert.Equal(t, w.ID, store.SelectedWidgetID())
}

func TestAddNewWidgetRetypesSelection(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	require.NoError(t, store.AddNewWidget(model.WidgetText))
	layout := store.Layout()
	require.Len(t, layout.Widgets, 1)
	originalID := layout.Widgets[0].ID

	// the text widget is still selected: adding a clock replaces it in place
	require.NoError(t, store.AddNewWidget(model.WidgetClock))

	layout = store.Layout()
	require.Len(t, layout.Widgets, 1)
	assert.Equal(t, originalID, layout.Widgets[0].ID)
	assert.Equal(t, model.WidgetClock, layout.Widgets[0].Type)
	assert.Equal(t, originalID, store.SelectedWidgetID())
}

func TestChangeWidgetTypeDiscardsProperties(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	require.NoError(t, store.AddNewWidget(model.WidgetText))
	id := store.SelectedWidgetID()

	custom := model.WidgetProperties{
		"content":    "customized",
		"customKey":  "must not survive",
		"anotherOne": 42,
	}
	require.NoError(t, store.UpdateWidgetProperties(id, custom))

	require.NoError(t, store.ChangeWidgetType(id, model.WidgetWebview))

	layout := store.Layout()
	w := layout.Widgets[0]
	assert.Equal(t, model.WidgetWebview, w.Type)
	assert.NotContains(t, w.Properties, "customKey")
	assert.NotContains(t, w.Properties, "anotherOne")
	assert.NotContains(t, w.Properties, "content")
	assert.NotEmpty(t, w.Properties.URL())
	// id, geometry, and selection survive
	assert.Equal(t, id, w.ID)
	assert.Equal(t, id, store.SelectedWidgetID())
}

func TestUpdatePositionAllowsOffCanvas(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)
	require.NoError(t, store.AddNewWidget(model.WidgetText))
	id := store.SelectedWidgetID()

	require.NoError(t, store.UpdateWidgetPosition(id, -500, 9000))
	w := store.Layout().Widgets[0]
	assert.Equal(t, -500.0, w.X)
	assert.Equal(t, 9000.0, w.Y)
}

func TestDeleteWidgetClearsSelectionOnlyWhenSelected(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	require.NoError(t, store.AddNewWidget(model.WidgetText))
	first := store.SelectedWidgetID()
	store.SelectWidget("")
	require.NoError(t, store.AddNewWidget(model.WidgetClock))
	second := store.SelectedWidgetID()

	// deleting the unselected widget keeps the selection
	require.NoError(t, store.DeleteWidget(first))
	assert.Equal(t, second, store.SelectedWidgetID())

	require.NoError(t, store.DeleteWidget(second))
	assert.Empty(t, store.SelectedWidgetID())
	assert.Empty(t, store.Layout().Widgets)
}

func TestApplyTemplateRegeneratesAndClearsSelection(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)
	require.NoError(t, store.AddNewWidget(model.WidgetText))
	require.NotEmpty(t, store.SelectedWidgetID())

	require.NoError(t, store.ApplyTemplate(TemplateThreeCols))

	layout := store.Layout()
	assert.Len(t, layout.Widgets, 3)
	for _, w := range layout.Widgets {
		assert.NotEqual(t, model.WidgetText, w.Type)
	}
	assert.Empty(t, store.SelectedWidgetID())
}

func TestSaveCurrentLayoutStampsAndUpdatesList(t *testing.T) {
	store, repo := newTestStore(t)
	created, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)
	require.NoError(t, store.AddNewWidget(model.WidgetText))

	before := created.UpdatedAt
	require.NoError(t, store.SaveCurrentLayout())

	assert.Equal(t, 1, repo.saveCalls)
	saved := store.SavedLayouts()[0]
	assert.Len(t, saved.Widgets, 1)
	assert.True(t, saved.UpdatedAt.After(before) || before.IsZero())
}

func TestSaveWithoutActiveLayoutFails(t *testing.T) {
	store, _ := newTestStore(t)
	assert.ErrorIs(t, store.SaveCurrentLayout(), ErrNoActiveLayout)
}

func TestEditLayoutWorksOnACopy(t *testing.T) {
	store, _ := newTestStore(t)
	created, err := store.CreateLayout("l", TemplateSplitHorizontal)
	require.NoError(t, err)
	store.BackToDashboard()

	require.NoError(t, store.EditLayout(created.ID))
	require.NoError(t, store.DeleteWidget(store.Layout().Widgets[0].ID))

	// the list entry is untouched until save
	assert.Len(t, store.SavedLayouts()[0].Widgets, 2)
	assert.Len(t, store.Layout().Widgets, 1)
}

func TestFetchLayoutsFailureKeepsPreviousList(t *testing.T) {
	store, repo := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	repo.failNext = errors.New("network down")
	store.FetchLayouts(1)

	assert.Len(t, store.SavedLayouts(), 1)
}

func TestViewTransitions(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Equal(t, ViewDashboard, store.CurrentView())

	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)
	assert.Equal(t, ViewEditor, store.CurrentView())

	store.BackToDashboard()
	assert.Equal(t, ViewDashboard, store.CurrentView())
	assert.Nil(t, store.Layout())
	assert.False(t, store.Initialized())

	store.ManageBuses()
	assert.Equal(t, ViewBuses, store.CurrentView())

	// buses -> editor is not a legal transition
	store.ManageBuses()
	assert.Equal(t, ViewBuses, store.CurrentView())

	store.BackToDashboard()
	assert.Equal(t, ViewDashboard, store.CurrentView())
}

func TestSubscribersSeeMutations(t *testing.T) {
	store, _ := newTestStore(t)
	var events []Event
	store.Subscribe(func(e Event) { events = append(events, e) })

	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)
	require.NoError(t, store.AddNewWidget(model.WidgetText))

	require.NotEmpty(t, events)
	assert.Equal(t, EventLayoutChanged, events[0].Type)
}

func TestConcurrentMutationsKeepStateConsistent(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)

	const iterations = 100
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			store.SelectWidget("")
			_ = store.AddNewWidget(model.WidgetText)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			store.SelectWidget("")
			store.ZoomIn()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			_ = store.Layout()
			_ = store.SavedLayouts()
			_ = store.SelectedWidgetID()
		}
	}()
	wg.Wait()

	layout := store.Layout()
	require.NotNil(t, layout)
	require.NotEmpty(t, layout.Widgets)
	assert.LessOrEqual(t, len(layout.Widgets), iterations)

	seen := make(map[string]bool, len(layout.Widgets))
	for _, w := range layout.Widgets {
		assert.False(t, seen[w.ID], "duplicate widget id %s", w.ID)
		seen[w.ID] = true
	}
}

func TestDeleteLayoutRemovesFromList(t *testing.T) {
	store, _ := newTestStore(t)
	created, err := store.CreateLayout("l", TemplateBlank)
	require.NoError(t, err)
	store.BackToDashboard()

	require.NoError(t, store.DeleteLayout(created.ID))
	assert.Empty(t, store.SavedLayouts())
	assert.Equal(t, 0, store.TotalLayouts())
}
