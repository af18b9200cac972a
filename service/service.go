package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/factorysim/mfg-telemetry-g/model"
	"github.com/factorysim/mfg-telemetry-g/simulation"
)

// Service synthesizes telemetry events for assets and forwards them to the
// configured gateway. One random source feeds all synthesis; the mutex keeps
// each event's draw sequence internally consistent when the controller runs
// one goroutine per asset.
type Service struct {
	gateway model.IGateway
	rng     *rand.Rand
	mu      *sync.Mutex
}

// NewService seeds the generator from the clock when seed is 0, otherwise
// from seed so replays are reproducible.
func NewService(g model.IGateway, seed int64) Service {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return Service{
		gateway: g,
		rng:     rand.New(rand.NewSource(seed)),
		mu:      &sync.Mutex{},
	}
}

// CreateEvent resolves the asset's type, synthesizes one reading stamped
// "now", and sends it on.
func (s Service) CreateEvent(asset model.Asset, productID string, batchID string, anomaly bool, variationMultiplier float64) error {
	var (
		events model.Events
		event  model.Event
	)

	assetType, err := simulation.TypeByName(asset.Type)
	if err != nil {
		return errors.Join(err, errors.New("service.CreateEvent"))
	}

	s.mu.Lock()
	event = assetType.NewEvent(s.rng, asset.ID, productID, batchID, time.Now().UTC(), anomaly, variationMultiplier)
	s.mu.Unlock()

	events.Events = append(events.Events, event)
	return s.gateway.SendEvents(events)
}
