package packets

import "github.com/Busline-Digital/marquee/internal/model"

// LayoutResponse mirrors model.Layout but flattens times to RFC3339.
type LayoutResponse struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	Width           int              `json:"width"`
	Height          int              `json:"height"`
	BackgroundColor string           `json:"backgroundColor"`
	Widgets         model.WidgetList `json:"widgets"`
	Thumbnail       *string          `json:"thumbnail,omitempty"`
	CompanyID       int              `json:"company_id"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

// LayoutListResponse carries one page of layouts plus pagination metadata.
type LayoutListResponse struct {
	Layouts []LayoutResponse `json:"layouts"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

type BusResponse struct {
	BusID           int    `json:"bus_id"`
	BusName         string `json:"bus_name"`
	BusDeviceID     string `json:"bus_device_id"`
	CompanyID       int    `json:"company_id"`
	CurrentLayoutID *int   `json:"current_layout_id"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
