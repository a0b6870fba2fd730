package db

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var busColumns = []string{
	"bus_id", "bus_name", "bus_device_id", "company_id", "current_layout_id", "created_at", "updated_at",
}

func busRow(id int, name, deviceID string, layoutID any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(busColumns).
		AddRow(id, name, deviceID, 1, layoutID, now, now)
}

func TestCreateBusReturnsInsertedRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO buses`).
		WithArgs("Bus 12", "dev-12", 1).
		WillReturnRows(busRow(12, "Bus 12", "dev-12", nil))

	bus, err := store.CreateBus("Bus 12", "dev-12", 1)
	require.NoError(t, err)
	assert.Equal(t, 12, bus.BusID)
	assert.Equal(t, "dev-12", bus.BusDeviceID)
	assert.Nil(t, bus.CurrentLayoutID)
}

func TestGetBusByDeviceID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM buses\s+WHERE bus_device_id = \$1`).
		WithArgs("dev-12").
		WillReturnRows(busRow(12, "Bus 12", "dev-12", 7))

	bus, err := store.GetBusByDeviceID("dev-12")
	require.NoError(t, err)
	require.NotNil(t, bus.CurrentLayoutID)
	assert.Equal(t, 7, *bus.CurrentLayoutID)
}

func TestListBusesWithLayoutFiltersUnassigned(t *testing.T) {
	store, mock := newMockStore(t)

	rows := busRow(1, "Bus 1", "dev-1", 7)
	rows.AddRow(2, "Bus 2", "dev-2", 1, 8, time.Now(), time.Now())
	mock.ExpectQuery(`(?s)SELECT .+ FROM buses\s+WHERE current_layout_id IS NOT NULL`).
		WillReturnRows(rows)

	buses, err := store.ListBusesWithLayout()
	require.NoError(t, err)
	require.Len(t, buses, 2)
	assert.Equal(t, 7, *buses[0].CurrentLayoutID)
	assert.Equal(t, 8, *buses[1].CurrentLayoutID)
}

func TestAssignLayoutToBus(t *testing.T) {
	store, mock := newMockStore(t)

	layoutID := 7
	mock.ExpectExec(`UPDATE buses`).
		WithArgs(12, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.AssignLayoutToBus(12, &layoutID))
}

func TestAssignLayoutToBusClears(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE buses`).
		WithArgs(12, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.AssignLayoutToBus(12, nil))
}
