// Store exposes the persistence operations the API layer and the editor core
// depend on, so tests can substitute fakes.
package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/Busline-Digital/marquee/internal/model"
)

// LayoutPageSize is the fixed page size for layout listings.
const LayoutPageSize = 12

type Store interface {
	// layout functions
	CreateLayout(layout model.Layout) (model.Layout, error)
	GetLayoutByID(id int) (model.Layout, error)
	ListLayouts(companyID, page int) ([]model.Layout, int, error)
	UpdateLayout(layout model.Layout) error
	DeleteLayout(id int) error

	// bus functions
	CreateBus(name, deviceID string, companyID int) (model.Bus, error)
	GetBusByID(id int) (model.Bus, error)
	GetBusByDeviceID(deviceID string) (model.Bus, error)
	ListBuses(companyID int) ([]model.Bus, error)
	ListBusesWithLayout() ([]model.Bus, error)
	AssignLayoutToBus(busID int, layoutID *int) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}

// NewStoreWithDB is used by tests to inject a mocked connection.
func NewStoreWithDB(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
