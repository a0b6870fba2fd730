// Package player runs signage layouts: per-widget playlist sequencing plus
// the location-triggered overlay engine.
package player

import "github.com/Busline-Digital/marquee/internal/model"

// AdvanceResult tells the caller what a playlist advance did.
type AdvanceResult int

const (
	// AdvanceNext moved the cursor to the next item.
	AdvanceNext AdvanceResult = iota
	// AdvanceWrapped looped the cursor back to the first item (normal mode).
	AdvanceWrapped
	// AdvanceRestartVideo wrapped a single-video playlist: the cursor did not
	// move, so playback must be restarted imperatively.
	AdvanceRestartVideo
	// AdvanceFinished reached the end in trigger mode; the sequencer is done.
	AdvanceFinished
)

// Sequencer is the pure playlist cursor state machine. In normal mode the
// playlist loops forever; in trigger mode it finishes after the last item.
type Sequencer struct {
	items       []model.PlaylistItem
	index       int
	triggerMode bool
	finished    bool
}

func NewSequencer(items []model.PlaylistItem, triggerMode bool) *Sequencer {
	return &Sequencer{items: items, triggerMode: triggerMode}
}

// Current returns the item under the cursor; ok is false for an empty or
// finished playlist.
func (s *Sequencer) Current() (model.PlaylistItem, bool) {
	if len(s.items) == 0 || s.finished {
		return model.PlaylistItem{}, false
	}
	return s.items[s.index], true
}

func (s *Sequencer) Index() int     { return s.index }
func (s *Sequencer) Len() int       { return len(s.items) }
func (s *Sequencer) Finished() bool { return s.finished }

// Advance moves past the current item.
func (s *Sequencer) Advance() AdvanceResult {
	if len(s.items) == 0 || s.finished {
		s.finished = true
		return AdvanceFinished
	}

	if s.index < len(s.items)-1 {
		s.index++
		return AdvanceNext
	}

	if s.triggerMode {
		s.finished = true
		return AdvanceFinished
	}

	current := s.items[s.index]
	s.index = 0
	if len(s.items) == 1 && current.Type == "video" {
		// 0 -> 0 is not an index change; the video element must be told to
		// play again explicitly.
		return AdvanceRestartVideo
	}
	return AdvanceWrapped
}

// Reset swaps in a new playlist and rewinds the cursor.
func (s *Sequencer) Reset(items []model.PlaylistItem) {
	s.items = items
	s.index = 0
	s.finished = false
}
