package editor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Busline-Digital/marquee/internal/model"
)

// Placeholder media used until the operator uploads real assets.
const (
	placeholderImageURL = "https://images.unsplash.com/photo-1506744038136-46273834b3fb"
	defaultWebviewURL   = "https://www.google.com"
)

func newWidgetID() string {
	return fmt.Sprintf("widget-%s", uuid.NewString())
}

func newMediaID() string {
	return fmt.Sprintf("media-%s", uuid.NewString())
}

// WidgetDefaults returns the initial property bag for a widget type. Keyed
// purely on the type; a static table, no external lookup.
func WidgetDefaults(widgetType model.WidgetType) model.WidgetProperties {
	switch widgetType {
	case model.WidgetText:
		return model.WidgetProperties{
			"content":  "New Text",
			"color":    "#000000",
			"fontSize": 24,
		}
	case model.WidgetClock:
		return model.WidgetProperties{
			"showSeconds": true,
			"format":      "24h",
			"color":       "#000000",
			"fontSize":    48,
		}
	case model.WidgetImage, model.WidgetVideo:
		props := model.WidgetProperties{
			"fitMode": "fill",
		}
		props.SetPlaylist([]model.PlaylistItem{{
			ID:       newMediaID(),
			URL:      placeholderImageURL,
			Type:     "image",
			Duration: model.DefaultImageDuration,
		}})
		return props
	case model.WidgetTicker:
		return model.WidgetProperties{
			"text":            "This is a sample scrolling text. Change it in the properties panel!",
			"direction":       "left",
			"speed":           50,
			"textColor":       "#000000",
			"backgroundColor": "#FFFFFF",
			"fontSize":        48,
		}
	case model.WidgetWebview:
		return model.WidgetProperties{
			"url": defaultWebviewURL,
		}
	}
	return model.WidgetProperties{}
}
