package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/factorysim/mfg-telemetry-g/model"
	"github.com/factorysim/mfg-telemetry-g/simulation"
)

type ControllerConfig struct {
	Frequency      int    `yaml:"Frequency"`
	MaxDataPoint   int    `yaml:"MaxDataPoint"`
	DataDefinition string `yaml:"DataDefinition"`
	AnomalyRate    int    `yaml:"AnomalyRate"`
}

type Controller struct {
	frequency      int
	maxDataPoint   int
	anomalyRate    int
	dataDefinition []DataDefinition
	eventSvc       model.IService
	logger         zerolog.Logger
}

// DataDefinition is one line of the assets jsonl file: the asset identity
// plus the product/batch context its events carry.
type DataDefinition struct {
	Asset     model.Asset `json:"asset"`
	ProductID string      `json:"product_id"`
	BatchID   string      `json:"batch_id"`
}

func NewController(conf ControllerConfig, svc model.IService) Controller {

	f, err := os.Open(conf.DataDefinition)
	if err != nil {
		processError(errors.Join(err, errors.New("open assets.jsonl file")))
	}
	defer f.Close()

	// jsonl (json object on each line)
	scanner := bufio.NewScanner(f)

	var dataDef []DataDefinition

	for scanner.Scan() {
		var item DataDefinition

		if len(scanner.Bytes()) != 0 {
			err = json.Unmarshal(scanner.Bytes(), &item)
			if err != nil {
				processError(err)
			}
			if err = validate(item); err != nil {
				processError(err)
			}
			dataDef = append(dataDef, item)
		}
	}
	if scanner.Err() != nil {
		fmt.Println(scanner.Err())
	}

	return Controller{
		frequency:      conf.Frequency,
		maxDataPoint:   conf.MaxDataPoint,
		anomalyRate:    conf.AnomalyRate,
		dataDefinition: dataDef,
		eventSvc:       svc,
		logger:         zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger(),
	}
}

// validate rejects a definition whose type name or maintenance status is not
// in the closed sets, before any goroutine starts.
func validate(item DataDefinition) error {
	if _, err := simulation.TypeByName(item.Asset.Type); err != nil {
		return errors.Join(err, fmt.Errorf("asset %s", item.Asset.ID))
	}
	if !model.ValidStatus(item.Asset.MaintenanceStatus) {
		return fmt.Errorf("asset %s: unknown maintenance status %q", item.Asset.ID, item.Asset.MaintenanceStatus)
	}
	return nil
}

// Start runs one emitter goroutine per asset. Each tick is anomalous with
// AnomalyRate percent probability; consecutive anomalous ticks escalate the
// variation multiplier to simulate a worsening fault.
func (c Controller) Start(ctx context.Context, wg *sync.WaitGroup) {

	for i, def := range c.dataDefinition {
		wg.Add(1)
		go func(def DataDefinition, seed int64) {
			rng := rand.New(rand.NewSource(seed))
			multiplier := 1.0
			for i := 0; i < c.maxDataPoint; i++ {
				anomaly := rng.Intn(100) < c.anomalyRate
				if anomaly {
					multiplier += 0.5
				} else {
					multiplier = 1.0
				}
				err := c.eventSvc.CreateEvent(def.Asset, def.ProductID, def.BatchID, anomaly, multiplier)
				if err != nil {
					c.logger.Error().Err(err).Str("asset", def.Asset.ID).Msg("failed to create event")
				}
				select {
				case <-ctx.Done():
					fmt.Println("Controller: ", def.Asset.ID, "context received signal, shutting down...")
					wg.Done()
					return
				default:
					time.Sleep(time.Duration(c.frequency) * time.Second)
				}
			}
			fmt.Println("Controller: ", def.Asset.ID, " context done")
			wg.Done()
		}(def, time.Now().UnixNano()+int64(i))
	}
}

func (c Controller) Test() {
	fmt.Println("Controller Test data:")
	fmt.Println(c)
}

func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}
