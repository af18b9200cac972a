package simulation

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/factorysim/mfg-telemetry-g/model"
)

// AssetType is one machine category's statistical sensor-behavior model.
type AssetType struct {
	Name        string
	Vibration   Metric
	Temperature Metric
	Humidity    Metric
	Speed       Metric
}

// Metric names used for anomaly selection.
const (
	metricVibration = iota
	metricTemperature
	metricHumidity
	metricSpeed
	metricCount
)

// DefectProbability derives a [0,1] defect score from the vibration,
// temperature and speed readings. Humidity is deliberately not part of the
// score even though every event reports it. The weighted deviation sum is
// jittered by a uniform [0.8, 1.2] draw and capped at 1.0.
func (t AssetType) DefectProbability(rng *rand.Rand, vibration float64, temperature float64, speed float64) float64 {
	vibrationFactor := t.Vibration.DeviationFactor(vibration)
	tempFactor := t.Temperature.DeviationFactor(temperature)
	speedFactor := t.Speed.DeviationFactor(speed)

	jitter := 0.8 + rng.Float64()*0.4
	p := round2((vibrationFactor*0.4 + tempFactor*0.3 + speedFactor*0.3) * jitter)
	return math.Min(p, 1.0)
}

// NewEvent synthesizes one reading for this asset type. When anomaly is set,
// each metric joins the anomaly set on an independent coin flip; if every
// flip misses, exactly one metric is picked uniformly so the event always
// carries at least one out-of-range reading. The flip-then-fallback shape
// skews toward single-metric anomalies and is kept as-is; downstream models
// are calibrated against that distribution. Metrics whose Variation is 0
// cannot excurse and are left out of the candidate set.
func (t AssetType) NewEvent(rng *rand.Rand, assetID string, productID string, batchID string, timestamp time.Time, anomaly bool, variationMultiplier float64) model.Event {
	var anomalous [metricCount]bool
	if anomaly {
		var candidates []int
		for i, m := range [metricCount]Metric{t.Vibration, t.Temperature, t.Humidity, t.Speed} {
			if m.Variation > 0 {
				candidates = append(candidates, i)
			}
		}

		picked := false
		for _, i := range candidates {
			if rng.Intn(2) == 0 {
				anomalous[i] = true
				picked = true
			}
		}
		if !picked && len(candidates) > 0 {
			anomalous[candidates[rng.Intn(len(candidates))]] = true
		}
	}

	vibration := t.Vibration.RandomValue(rng, anomaly && anomalous[metricVibration], variationMultiplier)
	temperature := t.Temperature.RandomValue(rng, anomaly && anomalous[metricTemperature], variationMultiplier)
	humidity := t.Humidity.RandomValue(rng, anomaly && anomalous[metricHumidity], variationMultiplier)
	speed := t.Speed.RandomValue(rng, anomaly && anomalous[metricSpeed], variationMultiplier)

	return model.Event{
		ID:                uuid.NewString(),
		AssetID:           assetID,
		ProductID:         productID,
		BatchID:           batchID,
		Vibration:         vibration,
		Temperature:       temperature,
		Humidity:          humidity,
		Speed:             speed,
		DefectProbability: t.DefectProbability(rng, vibration, temperature, speed),
		Timestamp:         timestamp,
	}
}
