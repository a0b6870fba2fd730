package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Busline-Digital/marquee/internal/broker"
	"github.com/Busline-Digital/marquee/internal/db"
	"github.com/Busline-Digital/marquee/internal/http/api"
	"github.com/Busline-Digital/marquee/internal/http/api/admin/packets"
	"github.com/Busline-Digital/marquee/internal/model"
)

type BusController struct {
	store     db.Store
	publisher broker.Publisher
}

func newBusController(store db.Store, publisher broker.Publisher) *BusController {
	return &BusController{store: store, publisher: publisher}
}

// BusModule mounts all /buses endpoints.
func BusModule(store db.Store, publisher broker.Publisher) api.Module {
	ctl := newBusController(store, publisher)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/buses", ctl.listBuses)
		c.POST("/buses", ctl.createBus)
		c.PUT("/buses/:id/assign", ctl.assignLayout)
	})
}

func busResponse(b model.Bus) packets.BusResponse {
	return packets.BusResponse{
		BusID:           b.BusID,
		BusName:         b.BusName,
		BusDeviceID:     b.BusDeviceID,
		CompanyID:       b.CompanyID,
		CurrentLayoutID: b.CurrentLayoutID,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /api/admin/buses?company_id=
func (b *BusController) listBuses(ctx *gin.Context) (any, *api.APIError) {
	companyID, err := strconv.Atoi(ctx.DefaultQuery("company_id", "0"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid company_id"}
	}

	all, err := b.store.ListBuses(companyID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list buses"}
	}

	out := make([]packets.BusResponse, 0, len(all))
	for _, bus := range all {
		out = append(out, busResponse(bus))
	}
	return out, nil
}

// POST /api/admin/buses
func (b *BusController) createBus(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateBusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	bus, err := b.store.CreateBus(request.BusName, request.BusDeviceID, request.CompanyID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create bus"}
	}
	return busResponse(bus), nil
}

// PUT /api/admin/buses/:id/assign
func (b *BusController) assignLayout(ctx *gin.Context) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	bus, err := b.store.GetBusByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "bus not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load bus"}
	}

	var request packets.AssignBusLayoutRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if request.LayoutID != nil {
		if _, err := b.store.GetLayoutByID(*request.LayoutID); err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "layout not found"}
		}
	}

	if err := b.store.AssignLayoutToBus(id, request.LayoutID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not assign layout"}
	}

	// push the change so the display reloads without waiting for a poll
	if err := b.publisher.PublishBusCommand(bus.BusDeviceID, broker.Command{
		Action:   broker.ActionLayoutAssigned,
		LayoutID: request.LayoutID,
	}); err != nil {
		log.Error().Err(err).Str("device_id", bus.BusDeviceID).Msg("failed to push layout assignment")
	}

	updated, _ := b.store.GetBusByID(id)
	return busResponse(updated), nil
}
