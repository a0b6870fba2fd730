package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Busline-Digital/marquee/internal/db"
	"github.com/Busline-Digital/marquee/internal/http/api"
	"github.com/Busline-Digital/marquee/internal/http/api/tv/packets"
	"github.com/Busline-Digital/marquee/internal/player"
)

type BusController struct {
	store      db.Store
	supervisor *player.Supervisor
}

// BusModule mounts the device-facing endpoints a bus display uses to fetch
// its layout and live playback state.
func BusModule(store db.Store, supervisor *player.Supervisor) api.Module {
	ctl := &BusController{store: store, supervisor: supervisor}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/buses/:device_id/layout", ctl.getLayout)
		c.GET("/buses/:device_id/state", ctl.getState)
		c.POST("/buses/:device_id/dismiss", ctl.dismissOverlay)
	})
}

// GET /api/tv/buses/:device_id/layout
func (b *BusController) getLayout(ctx *gin.Context) (any, *api.APIError) {
	deviceID := ctx.Param("device_id")

	bus, err := b.store.GetBusByDeviceID(deviceID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "bus not found"}
	}
	if bus.CurrentLayoutID == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no layout assigned"}
	}

	layout, err := b.store.GetLayoutByID(*bus.CurrentLayoutID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "layout not found"}
	}

	return packets.BusLayoutResponse{
		BusID:    bus.BusID,
		DeviceID: bus.BusDeviceID,
		Layout:   layout,
	}, nil
}

// GET /api/tv/buses/:device_id/state
func (b *BusController) getState(ctx *gin.Context) (any, *api.APIError) {
	deviceID := ctx.Param("device_id")

	p, ok := b.supervisor.PlayerForDevice(deviceID)
	if !ok {
		return packets.BusStateResponse{DeviceID: deviceID, Playing: false}, nil
	}

	return packets.BusStateResponse{
		DeviceID: deviceID,
		Playing:  true,
		Snapshot: p.Snapshot(),
	}, nil
}

// POST /api/tv/buses/:device_id/dismiss
func (b *BusController) dismissOverlay(ctx *gin.Context) (any, *api.APIError) {
	deviceID := ctx.Param("device_id")

	p, ok := b.supervisor.PlayerForDevice(deviceID)
	if !ok {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no active player"}
	}
	if !p.Dismiss() {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "overlay not dismissible"}
	}
	return gin.H{"dismissed": true}, nil
}
