package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInvalidMetric is returned when a metric definition violates its
// invariants (min > max, negative variation, zero defect factor).
var ErrInvalidMetric = errors.New("invalid metric definition")

// Metric holds one measured quantity's nominal operating range, the scale of
// anomalous excursions, and the divisor mapping deviation to defect score.
type Metric struct {
	Min          float64
	Max          float64
	Variation    float64
	DefectFactor float64
}

// NewMetric validates the definition before use. The catalog literals go
// through this at package init so a bad range fails at startup, never at
// sample time.
func NewMetric(min float64, max float64, variation float64, defectFactor float64) (Metric, error) {
	if min > max {
		return Metric{}, errors.Join(ErrInvalidMetric, fmt.Errorf("min %v > max %v", min, max))
	}
	if variation < 0 {
		return Metric{}, errors.Join(ErrInvalidMetric, fmt.Errorf("negative variation %v", variation))
	}
	if defectFactor == 0 {
		return Metric{}, errors.Join(ErrInvalidMetric, errors.New("zero defect factor"))
	}
	return Metric{
		Min:          min,
		Max:          max,
		Variation:    variation,
		DefectFactor: defectFactor,
	}, nil
}

func mustMetric(min float64, max float64, variation float64, defectFactor float64) Metric {
	m, err := NewMetric(min, max, variation, defectFactor)
	if err != nil {
		panic(err)
	}
	return m
}

// RandomValue draws a reading from the nominal range, or an out-of-range
// excursion when anomaly is set. The excursion magnitude is uniform in
// [Variation*0.5, Variation*1.5] scaled by variationMultiplier, and lands
// above Max or below Min with equal probability. The result is floored at 0
// and rounded to 2 decimals.
func (m Metric) RandomValue(rng *rand.Rand, anomaly bool, variationMultiplier float64) float64 {
	value := m.Min + rng.Float64()*(m.Max-m.Min)

	if anomaly {
		excursion := (m.Variation*0.5 + rng.Float64()*m.Variation) * variationMultiplier
		if rng.Intn(2) == 0 {
			value = m.Max + excursion
		} else {
			value = m.Min - excursion
		}
	}

	return round2(math.Max(0, value))
}

// DeviationFactor is 0 for values inside [Min, Max] and grows with the
// distance outside the range, scaled down by DefectFactor.
func (m Metric) DeviationFactor(value float64) float64 {
	return math.Max(0, math.Max(
		(value-m.Max)/m.DefectFactor,
		(m.Min-value)/m.DefectFactor,
	))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
