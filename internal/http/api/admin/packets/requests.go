package packets

import "github.com/Busline-Digital/marquee/internal/model"

// CreateLayoutRequest creates a layout; when Template is set the server
// populates the widget set from that template before persisting.
type CreateLayoutRequest struct {
	Name            string           `json:"name" binding:"required"`
	Description     *string          `json:"description"`
	Width           int              `json:"width"`
	Height          int              `json:"height"`
	BackgroundColor string           `json:"backgroundColor"`
	Widgets         model.WidgetList `json:"widgets"`
	Template        string           `json:"template"`
	CompanyID       int              `json:"company_id"`
}

type UpdateLayoutRequest struct {
	Name            string           `json:"name" binding:"required"`
	Description     *string          `json:"description"`
	Width           int              `json:"width" binding:"required,gt=0"`
	Height          int              `json:"height" binding:"required,gt=0"`
	BackgroundColor string           `json:"backgroundColor" binding:"required"`
	Widgets         model.WidgetList `json:"widgets"`
	Thumbnail       *string          `json:"thumbnail"`
}

type CreateBusRequest struct {
	BusName     string `json:"bus_name" binding:"required"`
	BusDeviceID string `json:"bus_device_id" binding:"required"`
	CompanyID   int    `json:"company_id"`
}

// AssignBusLayoutRequest assigns a layout to a bus; null clears the
// assignment.
type AssignBusLayoutRequest struct {
	LayoutID *int `json:"layout_id"`
}
