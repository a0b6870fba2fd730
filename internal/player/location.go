package player

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cast"
)

// LocationClient reports where a bus currently is. ok is false when the
// upstream has no update this tick; that is not an error.
type LocationClient interface {
	CurrentLocation(ctx context.Context) (locationID string, ok bool, err error)
}

type busLocationResponse struct {
	Status bool `json:"status"`
	Data   *struct {
		BusroundLocationNowID any `json:"busround_location_now_id"`
	} `json:"data"`
}

// BusLocationClient polls the public bus-tracking endpoint:
// GET <endpoint>?busno=<n>&com_id=<n>
type BusLocationClient struct {
	http     *resty.Client
	endpoint string
	busNo    int
	comID    int
}

func NewBusLocationClient(endpoint string, busNo, comID int) *BusLocationClient {
	return &BusLocationClient{
		http:     resty.New(),
		endpoint: endpoint,
		busNo:    busNo,
		comID:    comID,
	}
}

func (c *BusLocationClient) CurrentLocation(ctx context.Context) (string, bool, error) {
	var out busLocationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("busno", fmt.Sprintf("%d", c.busNo)).
		SetQueryParam("com_id", fmt.Sprintf("%d", c.comID)).
		SetResult(&out).
		Get(c.endpoint)
	if err != nil {
		return "", false, err
	}
	// non-ok HTTP and status=false both mean "no update this tick"
	if !resp.IsSuccess() || !out.Status || out.Data == nil {
		return "", false, nil
	}
	id := cast.ToString(out.Data.BusroundLocationNowID)
	if id == "" || id == "0" {
		return "", false, nil
	}
	return id, true, nil
}
