package editor

// View transform operations. Pure presentation state: scale and pan live on
// the store, never on widgets or the persisted layout.

// SetViewState overrides the transform wholesale.
func (s *Store) SetViewState(vs ViewState) {
	s.mu.Lock()
	s.viewState = vs
	s.mu.Unlock()
	s.notify(Event{Type: EventViewChanged})
}

func (s *Store) ZoomIn() {
	s.mu.Lock()
	s.viewState.Scale = clampScale(s.viewState.Scale + zoomStep)
	s.mu.Unlock()
	s.notify(Event{Type: EventViewChanged})
}

func (s *Store) ZoomOut() {
	s.mu.Lock()
	s.viewState.Scale = clampScale(s.viewState.Scale - zoomStep)
	s.mu.Unlock()
	s.notify(Event{Type: EventViewChanged})
}

// FitToScreen scales the canvas to fill the viewport minus a fixed padding on
// every side, then centers it.
func (s *Store) FitToScreen(viewportWidth, viewportHeight float64) {
	s.mu.Lock()
	if s.layout == nil {
		s.mu.Unlock()
		return
	}
	layoutW := float64(s.layout.Width)
	layoutH := float64(s.layout.Height)

	scale := min(
		(viewportWidth-fitPadding*2)/layoutW,
		(viewportHeight-fitPadding*2)/layoutH,
	)
	s.viewState = ViewState{
		Scale: scale,
		PanX:  (viewportWidth - layoutW*scale) / 2,
		PanY:  (viewportHeight - layoutH*scale) / 2,
	}
	s.mu.Unlock()
	s.notify(Event{Type: EventViewChanged})
}

// ResetView restores 1:1 scale with the canvas centered in the viewport.
func (s *Store) ResetView(viewportWidth, viewportHeight float64) {
	s.mu.Lock()
	if s.layout == nil {
		s.mu.Unlock()
		return
	}
	s.viewState = ViewState{
		Scale: 1,
		PanX:  (viewportWidth - float64(s.layout.Width)) / 2,
		PanY:  (viewportHeight - float64(s.layout.Height)) / 2,
	}
	s.mu.Unlock()
	s.notify(Event{Type: EventViewChanged})
}

func clampScale(scale float64) float64 {
	if scale < minScale {
		return minScale
	}
	if scale > maxScale {
		return maxScale
	}
	return scale
}
