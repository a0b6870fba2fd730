package model

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

type WidgetType string

const (
	WidgetText    WidgetType = "text"
	WidgetClock   WidgetType = "clock"
	WidgetImage   WidgetType = "image"
	WidgetVideo   WidgetType = "video"
	WidgetTicker  WidgetType = "ticker"
	WidgetWebview WidgetType = "webview"
)

// Valid reports whether t is one of the known widget types.
func (t WidgetType) Valid() bool {
	switch t {
	case WidgetText, WidgetClock, WidgetImage, WidgetVideo, WidgetTicker, WidgetWebview:
		return true
	}
	return false
}

// Widget is one positioned element on a layout canvas. Coordinates are
// top-left in layout pixel space; view pan/zoom is never written here.
type Widget struct {
	ID         string           `json:"id"`
	Type       WidgetType       `json:"type"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	ZIndex     int              `json:"zIndex"`
	Properties WidgetProperties `json:"properties"`
}

func (w Widget) Clone() Widget {
	out := w
	out.Properties = w.Properties.Clone()
	return out
}

// WidgetProperties is an open per-type property bag. Unknown keys are kept
// verbatim so newer clients can round-trip fields this server predates.
type WidgetProperties map[string]any

// UnmarshalJSON degrades malformed stored properties to an empty bag instead
// of failing the whole layout decode.
func (p *WidgetProperties) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Msg("malformed widget properties, falling back to empty bag")
		*p = WidgetProperties{}
		return nil
	}
	if m == nil {
		m = map[string]any{}
	}
	*p = m
	return nil
}

func (p WidgetProperties) Clone() WidgetProperties {
	if p == nil {
		return WidgetProperties{}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return WidgetProperties{}
	}
	var out WidgetProperties
	if err := json.Unmarshal(raw, &out); err != nil {
		return WidgetProperties{}
	}
	return out
}

// Typed accessors. The bag is loosely typed JSON, so every read goes through
// cast with a per-field fallback default.

func (p WidgetProperties) Content() string  { return cast.ToString(p["content"]) }
func (p WidgetProperties) Text() string     { return cast.ToString(p["text"]) }
func (p WidgetProperties) URL() string      { return cast.ToString(p["url"]) }
func (p WidgetProperties) Color() string    { return stringOr(p["color"], "#000000") }
func (p WidgetProperties) FitMode() string  { return stringOr(p["fitMode"], "cover") }
func (p WidgetProperties) FontSize() int    { return intOr(p["fontSize"], 24) }
func (p WidgetProperties) Speed() int       { return intOr(p["speed"], 50) }
func (p WidgetProperties) Direction() string {
	return stringOr(p["direction"], "left")
}

// Playlist decodes properties.playlist, tolerating both already-typed values
// and raw JSON shapes. Anything unparseable yields an empty playlist.
func (p WidgetProperties) Playlist() []PlaylistItem {
	raw, ok := p["playlist"]
	if !ok || raw == nil {
		return nil
	}
	if items, ok := raw.([]PlaylistItem); ok {
		return items
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var items []PlaylistItem
	if err := json.Unmarshal(encoded, &items); err != nil {
		log.Error().Err(err).Msg("malformed playlist in widget properties")
		return nil
	}
	return items
}

// SetPlaylist writes items back into the bag in its generic JSON shape.
func (p WidgetProperties) SetPlaylist(items []PlaylistItem) {
	p["playlist"] = items
}

func stringOr(v any, def string) string {
	if s := cast.ToString(v); s != "" {
		return s
	}
	return def
}

func intOr(v any, def int) int {
	if v == nil {
		return def
	}
	if n, err := cast.ToIntE(v); err == nil && n != 0 {
		return n
	}
	return def
}

// PlaylistItem is one media entry inside an image/video widget playlist.
type PlaylistItem struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Type       string `json:"type"`                 // "image" or "video"
	Duration   int    `json:"duration"`             // seconds, image items only
	LocationID string `json:"locationId,omitempty"` // makes the item a trigger candidate
	Fullscreen bool   `json:"fullscreen,omitempty"`
}

// DefaultImageDuration is used when an image item carries no duration.
const DefaultImageDuration = 10

// EffectiveDuration returns the advance delay in seconds for image items.
func (i PlaylistItem) EffectiveDuration() int {
	if i.Duration > 0 {
		return i.Duration
	}
	return DefaultImageDuration
}

// MatchesLocation compares the item's trigger location against a live
// location id, string-normalized on both sides.
func (i PlaylistItem) MatchesLocation(locationID string) bool {
	if i.LocationID == "" {
		return false
	}
	return strings.TrimSpace(i.LocationID) == strings.TrimSpace(locationID)
}
