// Package editor holds the layout editing core: the single source of truth
// for the layout being edited, the saved-layout list, selection, and the
// view transform. UI bindings observe it through subscription callbacks.
package editor

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Busline-Digital/marquee/internal/model"
)

// Repository is the persistence collaborator. db.Store satisfies it.
type Repository interface {
	CreateLayout(layout model.Layout) (model.Layout, error)
	UpdateLayout(layout model.Layout) error
	DeleteLayout(id int) error
	ListLayouts(companyID, page int) ([]model.Layout, int, error)
}

// View is the top-level screen the UI shows.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewEditor    View = "editor"
	ViewBuses     View = "buses"
)

// ViewState is the canvas pan/zoom transform. Presentation only; never
// persisted with the layout.
type ViewState struct {
	Scale float64 `json:"scale"`
	PanX  float64 `json:"panX"`
	PanY  float64 `json:"panY"`
}

const (
	minScale   = 0.1
	maxScale   = 5.0
	zoomStep   = 0.1
	fitPadding = 50.0
)

// Default canvas for newly created layouts.
const (
	DefaultCanvasWidth      = 1920
	DefaultCanvasHeight     = 1080
	DefaultBackgroundColor  = "#FFFFFF"
	defaultUntitledName     = "Untitled Layout"
	defaultWidgetX          = 100
	defaultWidgetY          = 100
	defaultWidgetWidth      = 400
	defaultWebviewWidth     = 600
	defaultWidgetHeight     = 200
	defaultTickerHeight     = 100
)

// Event describes a store mutation for observers.
type Event struct {
	Type     string
	WidgetID string
}

const (
	EventLayoutChanged    = "layout_changed"
	EventSelectionChanged = "selection_changed"
	EventViewChanged      = "view_changed"
	EventListChanged      = "list_changed"
)

var (
	ErrNoActiveLayout = errors.New("no active layout")
	ErrWidgetNotFound = errors.New("widget not found")
	ErrLayoutNotFound = errors.New("layout not found")
	ErrInvalidType    = errors.New("invalid widget type")
)

// Store owns the editor state. A single mutex guards every field; all
// mutation goes through its methods, and the Layout it holds is never shared
// mutably with callers. Observer callbacks always run outside the lock, so a
// subscriber may call back into the Store.
type Store struct {
	repo      Repository
	companyID int

	mu               sync.Mutex
	currentView      View
	savedLayouts     []model.Layout
	totalLayouts     int
	page             int
	layout           *model.Layout
	selectedWidgetID string
	previewMode      bool
	initialized      bool
	viewState        ViewState

	subscribers []func(Event)
}

func NewStore(repo Repository, companyID int) *Store {
	return &Store{
		repo:        repo,
		companyID:   companyID,
		currentView: ViewDashboard,
		page:        1,
		viewState:   ViewState{Scale: 1},
	}
}

// Subscribe registers an observer invoked after every mutation.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// notify fans an event out to subscribers. Never called with the lock held;
// it snapshots the subscriber list so callbacks run unlocked.
func (s *Store) notify(e Event) {
	s.mu.Lock()
	subs := make([]func(Event), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(e)
	}
}

// --- read accessors -------------------------------------------------------

func (s *Store) CurrentView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentView
}

func (s *Store) ViewStateValue() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewState
}

func (s *Store) SelectedWidgetID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedWidgetID
}

func (s *Store) PreviewMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewMode
}

func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *Store) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Store) TotalLayouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLayouts
}

// Layout returns a deep copy of the active layout, or nil.
func (s *Store) Layout() *model.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layout == nil {
		return nil
	}
	copied := s.layout.Clone()
	return &copied
}

// SavedLayouts returns the cached list page.
func (s *Store) SavedLayouts() []model.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Layout, len(s.savedLayouts))
	copy(out, s.savedLayouts)
	return out
}

// --- list / persistence ---------------------------------------------------

// FetchLayouts refreshes one page of the saved-layout list. A failed fetch
// keeps the previous list; passive reads never surface errors to the UI.
func (s *Store) FetchLayouts(page int) {
	layouts, total, err := s.repo.ListLayouts(s.companyID, page)
	if err != nil {
		log.Error().Err(err).Int("page", page).Msg("failed to fetch layouts, keeping previous list")
		return
	}
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.savedLayouts = layouts
	s.totalLayouts = total
	s.page = page
	s.mu.Unlock()
	s.notify(Event{Type: EventListChanged})
}

// CreateLayout builds a blank default canvas, applies the template, persists
// it, and switches to the editor on the created layout. On persistence
// failure the in-memory list is left unchanged and the error propagates.
func (s *Store) CreateLayout(name string, template TemplateType) (model.Layout, error) {
	if name == "" {
		name = defaultUntitledName
	}
	base := model.Layout{
		Name:            name,
		Width:           DefaultCanvasWidth,
		Height:          DefaultCanvasHeight,
		BackgroundColor: DefaultBackgroundColor,
		Widgets:         model.WidgetList{},
		CompanyID:       s.companyID,
	}
	withWidgets := CreateLayoutFromTemplate(base, template)

	created, err := s.repo.CreateLayout(withWidgets)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to create layout")
		return model.Layout{}, err
	}

	s.mu.Lock()
	s.savedLayouts = append([]model.Layout{created}, s.savedLayouts...)
	s.totalLayouts++
	active := created.Clone()
	s.layout = &active
	s.currentView = ViewEditor
	s.selectedWidgetID = ""
	s.initialized = true
	s.viewState = ViewState{Scale: 1}
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged})
	return created, nil
}

// LoadLayout replaces the active layout wholesale and marks the store
// initialized.
func (s *Store) LoadLayout(layout model.Layout) {
	active := layout.Clone()
	s.mu.Lock()
	s.layout = &active
	s.initialized = true
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged})
}

// EditLayout opens a saved layout in the editor, working on a deep copy so
// edits do not leak into the list until saved.
func (s *Store) EditLayout(id int) error {
	s.mu.Lock()
	for _, l := range s.savedLayouts {
		if l.ID == id {
			active := l.Clone()
			s.layout = &active
			s.currentView = ViewEditor
			s.selectedWidgetID = ""
			s.initialized = true
			s.viewState = ViewState{Scale: 1}
			s.mu.Unlock()
			s.notify(Event{Type: EventLayoutChanged})
			return nil
		}
	}
	s.mu.Unlock()
	return ErrLayoutNotFound
}

// SaveCurrentLayout stamps updated_at, persists, and refreshes the matching
// list entry.
func (s *Store) SaveCurrentLayout() error {
	s.mu.Lock()
	if s.layout == nil {
		s.mu.Unlock()
		return ErrNoActiveLayout
	}
	s.layout.UpdatedAt = time.Now().UTC()
	snapshot := s.layout.Clone()
	s.mu.Unlock()

	if err := s.repo.UpdateLayout(snapshot); err != nil {
		log.Error().Err(err).Int("layout_id", snapshot.ID).Msg("failed to save layout")
		return err
	}

	s.mu.Lock()
	for i := range s.savedLayouts {
		if s.savedLayouts[i].ID == snapshot.ID {
			s.savedLayouts[i] = snapshot.Clone()
		}
	}
	s.mu.Unlock()
	s.notify(Event{Type: EventListChanged})
	return nil
}

// DeleteLayout removes a saved layout.
func (s *Store) DeleteLayout(id int) error {
	if err := s.repo.DeleteLayout(id); err != nil {
		log.Error().Err(err).Int("layout_id", id).Msg("failed to delete layout")
		return err
	}
	s.mu.Lock()
	kept := s.savedLayouts[:0]
	for _, l := range s.savedLayouts {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.savedLayouts = kept
	if s.totalLayouts > 0 {
		s.totalLayouts--
	}
	s.mu.Unlock()
	s.notify(Event{Type: EventListChanged})
	return nil
}

// --- view transitions -----------------------------------------------------

// BackToDashboard leaves the editor or bus screen and refreshes the list.
func (s *Store) BackToDashboard() {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	s.FetchLayouts(page)

	s.mu.Lock()
	s.currentView = ViewDashboard
	s.layout = nil
	s.selectedWidgetID = ""
	s.initialized = false
	s.mu.Unlock()
	s.notify(Event{Type: EventViewChanged})
}

// ManageBuses switches from the dashboard to the bus management screen.
func (s *Store) ManageBuses() {
	s.mu.Lock()
	if s.currentView != ViewDashboard {
		s.mu.Unlock()
		return
	}
	s.currentView = ViewBuses
	s.mu.Unlock()
	s.notify(Event{Type: EventViewChanged})
}

func (s *Store) TogglePreviewMode() {
	s.mu.Lock()
	s.previewMode = !s.previewMode
	s.selectedWidgetID = ""
	s.mu.Unlock()
	s.notify(Event{Type: EventViewChanged})
}

// --- widget operations ----------------------------------------------------

func (s *Store) SelectWidget(id string) {
	s.mu.Lock()
	s.selectedWidgetID = id
	s.mu.Unlock()
	s.notify(Event{Type: EventSelectionChanged, WidgetID: id})
}

// findWidgetLocked requires s.mu held.
func (s *Store) findWidgetLocked(id string) (*model.Widget, bool) {
	if s.layout == nil {
		return nil, false
	}
	for i := range s.layout.Widgets {
		if s.layout.Widgets[i].ID == id {
			return &s.layout.Widgets[i], true
		}
	}
	return nil, false
}

// AddNewWidget adds a widget of the given type. When a widget is selected it
// retypes that widget in place instead of creating a new one; this is the
// "replace current selection" contract, matching how box-based editors swap
// content into a selected region.
func (s *Store) AddNewWidget(widgetType model.WidgetType) error {
	if !widgetType.Valid() {
		return ErrInvalidType
	}

	s.mu.Lock()
	if s.layout == nil {
		s.mu.Unlock()
		return ErrNoActiveLayout
	}

	if s.selectedWidgetID != "" {
		if w, ok := s.findWidgetLocked(s.selectedWidgetID); ok {
			w.Type = widgetType
			w.Properties = WidgetDefaults(widgetType)
			id := w.ID
			s.mu.Unlock()
			s.notify(Event{Type: EventLayoutChanged, WidgetID: id})
			return nil
		}
	}

	width := float64(defaultWidgetWidth)
	if widgetType == model.WidgetWebview {
		width = defaultWebviewWidth
	}
	height := float64(defaultWidgetHeight)
	if widgetType == model.WidgetTicker {
		height = defaultTickerHeight
	}

	widget := model.Widget{
		ID:         newWidgetID(),
		Type:       widgetType,
		X:          defaultWidgetX,
		Y:          defaultWidgetY,
		Width:      width,
		Height:     height,
		ZIndex:     len(s.layout.Widgets) + 1,
		Properties: WidgetDefaults(widgetType),
	}

	s.layout.Widgets = append(s.layout.Widgets, widget)
	s.selectedWidgetID = widget.ID
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged, WidgetID: widget.ID})
	return nil
}

// AddWidget appends a prebuilt widget (paste-style callers).
func (s *Store) AddWidget(widget model.Widget) error {
	s.mu.Lock()
	if s.layout == nil {
		s.mu.Unlock()
		return ErrNoActiveLayout
	}
	s.layout.Widgets = append(s.layout.Widgets, widget.Clone())
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged, WidgetID: widget.ID})
	return nil
}

// ChangeWidgetType swaps the widget's type and replaces its entire property
// bag with the new type's defaults. Position, size, and selection survive;
// the old properties do not.
func (s *Store) ChangeWidgetType(id string, newType model.WidgetType) error {
	if !newType.Valid() {
		return ErrInvalidType
	}
	s.mu.Lock()
	w, ok := s.findWidgetLocked(id)
	if !ok {
		s.mu.Unlock()
		return ErrWidgetNotFound
	}
	w.Type = newType
	w.Properties = WidgetDefaults(newType)
	s.selectedWidgetID = id
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged, WidgetID: id})
	return nil
}

// UpdateWidgetPosition moves a widget. Widgets may extend past the canvas
// edges; no clamping.
func (s *Store) UpdateWidgetPosition(id string, x, y float64) error {
	s.mu.Lock()
	w, ok := s.findWidgetLocked(id)
	if !ok {
		s.mu.Unlock()
		return ErrWidgetNotFound
	}
	w.X = x
	w.Y = y
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged, WidgetID: id})
	return nil
}

func (s *Store) UpdateWidgetSize(id string, width, height float64) error {
	s.mu.Lock()
	w, ok := s.findWidgetLocked(id)
	if !ok {
		s.mu.Unlock()
		return ErrWidgetNotFound
	}
	w.Width = width
	w.Height = height
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged, WidgetID: id})
	return nil
}

// UpdateWidgetProperties replaces the widget's whole property bag. Callers
// wanting a merge must merge before calling.
func (s *Store) UpdateWidgetProperties(id string, properties model.WidgetProperties) error {
	s.mu.Lock()
	w, ok := s.findWidgetLocked(id)
	if !ok {
		s.mu.Unlock()
		return ErrWidgetNotFound
	}
	w.Properties = properties.Clone()
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged, WidgetID: id})
	return nil
}

func (s *Store) DeleteWidget(id string) error {
	s.mu.Lock()
	if s.layout == nil {
		s.mu.Unlock()
		return ErrNoActiveLayout
	}
	kept := s.layout.Widgets[:0]
	found := false
	for _, w := range s.layout.Widgets {
		if w.ID == id {
			found = true
			continue
		}
		kept = append(kept, w)
	}
	if !found {
		s.mu.Unlock()
		return ErrWidgetNotFound
	}
	s.layout.Widgets = kept
	if s.selectedWidgetID == id {
		s.selectedWidgetID = ""
	}
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged, WidgetID: id})
	return nil
}

// UpdateLayoutDimensions resizes the canvas without touching widgets.
func (s *Store) UpdateLayoutDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("layout dimensions must be positive")
	}
	s.mu.Lock()
	if s.layout == nil {
		s.mu.Unlock()
		return ErrNoActiveLayout
	}
	s.layout.Width = width
	s.layout.Height = height
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged})
	return nil
}

// ApplyTemplate regenerates the whole widget set for the current canvas from
// the template, discarding existing widgets and the selection.
func (s *Store) ApplyTemplate(template TemplateType) error {
	s.mu.Lock()
	if s.layout == nil {
		s.mu.Unlock()
		return ErrNoActiveLayout
	}
	regenerated := CreateLayoutFromTemplate(*s.layout, template)
	s.layout.Widgets = regenerated.Widgets
	s.selectedWidgetID = ""
	s.mu.Unlock()
	s.notify(Event{Type: EventLayoutChanged})
	return nil
}
