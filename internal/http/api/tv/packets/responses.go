package packets

import (
	"github.com/Busline-Digital/marquee/internal/model"
	"github.com/Busline-Digital/marquee/internal/player"
)

// BusLayoutResponse is what a display fetches on boot: its assigned layout.
type BusLayoutResponse struct {
	BusID    int          `json:"bus_id"`
	DeviceID string       `json:"device_id"`
	Layout   model.Layout `json:"layout"`
}

// BusStateResponse is the live playback snapshot for a display.
type BusStateResponse struct {
	DeviceID string          `json:"device_id"`
	Playing  bool            `json:"playing"`
	Snapshot player.Snapshot `json:"snapshot"`
}
