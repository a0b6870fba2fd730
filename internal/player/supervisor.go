package player

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Busline-Digital/marquee/internal/broker"
	"github.com/Busline-Digital/marquee/internal/model"
)

// BusSource is the persistence slice the supervisor needs. db.Store
// satisfies it.
type BusSource interface {
	ListBusesWithLayout() ([]model.Bus, error)
	GetLayoutByID(id int) (model.Layout, error)
}

// LocationClientFactory builds the poll client for one bus.
type LocationClientFactory func(bus model.Bus) LocationClient

// Supervisor keeps one running Player per bus that has a layout assigned,
// reconciling against the buses table on an interval: new assignments start
// a player, changed assignments restart it, unassignment stops it.
type Supervisor struct {
	source    BusSource
	factory   LocationClientFactory
	publisher broker.Publisher
	interval  time.Duration
	opts      []PlayerOption

	mu      sync.Mutex
	running map[int]*supervised // keyed by bus id
}

type supervised struct {
	player   *Player
	layoutID int
	deviceID string
}

func NewSupervisor(source BusSource, factory LocationClientFactory, publisher broker.Publisher, interval time.Duration, opts ...PlayerOption) *Supervisor {
	return &Supervisor{
		source:    source,
		factory:   factory,
		publisher: publisher,
		interval:  interval,
		opts:      opts,
		running:   make(map[int]*supervised),
	}
}

// Run reconciles immediately, then on every interval tick until ctx is done.
func (s *Supervisor) Run(ctx context.Context) {
	s.Reconcile(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.stopAll()
			return
		case <-ticker.C:
			s.Reconcile(ctx)
		}
	}
}

// Reconcile aligns running players with the current bus assignments.
func (s *Supervisor) Reconcile(ctx context.Context) {
	buses, err := s.source.ListBusesWithLayout()
	if err != nil {
		log.Error().Err(err).Msg("supervisor: failed to list assigned buses, keeping current players")
		return
	}

	assigned := make(map[int]model.Bus, len(buses))
	for _, bus := range buses {
		if bus.CurrentLayoutID != nil {
			assigned[bus.BusID] = bus
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// stop players whose bus lost its assignment
	for busID, sup := range s.running {
		if _, still := assigned[busID]; !still {
			log.Info().Int("bus_id", busID).Msg("supervisor: layout unassigned, stopping player")
			sup.player.Stop()
			delete(s.running, busID)
		}
	}

	// start or restart players for assigned buses
	for busID, bus := range assigned {
		layoutID := *bus.CurrentLayoutID
		if sup, ok := s.running[busID]; ok {
			if sup.layoutID == layoutID {
				continue
			}
			log.Info().Int("bus_id", busID).Int("layout_id", layoutID).Msg("supervisor: assignment changed, restarting player")
			sup.player.Stop()
			delete(s.running, busID)
		}

		layout, err := s.source.GetLayoutByID(layoutID)
		if err != nil {
			log.Error().Err(err).Int("bus_id", busID).Int("layout_id", layoutID).Msg("supervisor: failed to load assigned layout")
			continue
		}

		p := NewPlayer(layout, bus.BusDeviceID, s.factory(bus), s.publisher, s.opts...)
		p.Start(ctx)
		s.running[busID] = &supervised{player: p, layoutID: layoutID, deviceID: bus.BusDeviceID}
	}
}

// PlayerForDevice returns the running player for a device id, if any.
func (s *Supervisor) PlayerForDevice(deviceID string) (*Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sup := range s.running {
		if sup.deviceID == deviceID {
			return sup.player, true
		}
	}
	return nil, false
}

// RunningCount reports how many players are live.
func (s *Supervisor) RunningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

func (s *Supervisor) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for busID, sup := range s.running {
		sup.player.Stop()
		delete(s.running, busID)
	}
}
