package db

import (
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/Busline-Digital/marquee/internal/model"
)

func (s *pgStore) CreateBus(name, deviceID string, companyID int) (model.Bus, error) {
	var b model.Bus
	const q = `
	INSERT INTO buses (bus_name, bus_device_id, company_id, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING bus_id, bus_name, bus_device_id, company_id, current_layout_id, created_at, updated_at;`
	if err := s.db.Get(&b, q, name, deviceID, companyID); err != nil {
		log.Error().Err(err).Msg("failed to create bus")
		return model.Bus{}, err
	}
	return b, nil
}

func (s *pgStore) GetBusByID(id int) (model.Bus, error) {
	var b model.Bus
	err := s.db.Get(&b, `
		SELECT bus_id, bus_name, bus_device_id, company_id, current_layout_id, created_at, updated_at
		FROM buses
		WHERE bus_id = $1
		`, id)
	if err != nil {
		log.Error().Err(err).Int("bus_id", id).Msg("failed to get bus by id")
	}
	return b, err
}

func (s *pgStore) GetBusByDeviceID(deviceID string) (model.Bus, error) {
	var b model.Bus
	err := s.db.Get(&b, `
		SELECT bus_id, bus_name, bus_device_id, company_id, current_layout_id, created_at, updated_at
		FROM buses
		WHERE bus_device_id = $1
		`, deviceID)
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("failed to get bus by device id")
	}
	return b, err
}

func (s *pgStore) ListBuses(companyID int) ([]model.Bus, error) {
	var buses []model.Bus
	err := s.db.Select(&buses, `
		SELECT bus_id, bus_name, bus_device_id, company_id, current_layout_id, created_at, updated_at
		FROM buses
		WHERE company_id = $1
		ORDER BY bus_id
		`, companyID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list buses")
	}
	return buses, err
}

// ListBusesWithLayout returns every bus that has a layout assigned,
// regardless of company. Used by the player supervisor.
func (s *pgStore) ListBusesWithLayout() ([]model.Bus, error) {
	var buses []model.Bus
	err := s.db.Select(&buses, `
		SELECT bus_id, bus_name, bus_device_id, company_id, current_layout_id, created_at, updated_at
		FROM buses
		WHERE current_layout_id IS NOT NULL
		ORDER BY bus_id
		`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list buses with layouts")
	}
	return buses, err
}

// AssignLayoutToBus sets or clears (layoutID == nil) the bus's layout.
func (s *pgStore) AssignLayoutToBus(busID int, layoutID *int) error {
	_, err := s.db.Exec(`
		UPDATE buses
		SET current_layout_id = $2,
		updated_at = now()
		WHERE bus_id = $1
		`, busID, layoutID)
	if err != nil {
		log.Error().Err(err).Int("bus_id", busID).Msg("failed to assign layout to bus")
	}
	return err
}
