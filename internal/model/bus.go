package model

import "time"

// Bus is a physical display device mounted in a vehicle. A bus references at
// most one layout; a layout may be on any number of buses.
type Bus struct {
	BusID           int       `db:"bus_id"            json:"bus_id"`
	BusName         string    `db:"bus_name"          json:"bus_name"`
	BusDeviceID     string    `db:"bus_device_id"     json:"bus_device_id"`
	CompanyID       int       `db:"company_id"        json:"company_id"`
	CurrentLayoutID *int      `db:"current_layout_id" json:"current_layout_id"`
	CreatedAt       time.Time `db:"created_at"        json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"        json:"updated_at"`
}
