package simulation

import (
	"errors"
	"fmt"
)

// ErrUnknownAssetType is returned when a lookup names a type that is not in
// the catalog.
var ErrUnknownAssetType = errors.New("unknown asset type")

// The four machine categories and their calibrated sensor models. The bounds
// are domain calibration values, not derived numbers.
var assetTypes = map[string]AssetType{
	"Assembly": {
		Name:        "Assembly",
		Vibration:   mustMetric(0.1, 0.3, 0.08, 0.5),
		Temperature: mustMetric(20, 35, 3, 12),
		Humidity:    mustMetric(30, 70, 0, 15),
		Speed:       mustMetric(50, 100, 20, 20),
	},
	"Press": {
		Name:        "Press",
		Vibration:   mustMetric(0.2, 0.8, 0.08, 0.5),
		Temperature: mustMetric(25, 45, 5, 15),
		Humidity:    mustMetric(30, 70, 0, 15),
		Speed:       mustMetric(20, 60, 10, 20),
	},
	"Conveyor": {
		Name:        "Conveyor",
		Vibration:   mustMetric(0.05, 0.2, 0.08, 0.5),
		Temperature: mustMetric(18, 30, 2, 10),
		Humidity:    mustMetric(30, 70, 0, 15),
		Speed:       mustMetric(10, 50, 8, 20),
	},
	"Packaging": {
		Name:        "Packaging",
		Vibration:   mustMetric(0.1, 0.4, 0.08, 0.5),
		Temperature: mustMetric(20, 40, 3, 12),
		Humidity:    mustMetric(30, 70, 0, 15),
		Speed:       mustMetric(30, 80, 15, 20),
	},
}

// Example asset-name to type-name mapping.
var assetTypeNames = map[string]string{
	"Robotic Arm":     "Assembly",
	"Automated Press": "Press",
	"Conveyor Belt":   "Conveyor",
	"Packaging Line":  "Packaging",
}

// Types returns the full asset-type catalog. Callers get a fresh map each
// call; mutating it does not touch the catalog.
func Types() map[string]AssetType {
	out := make(map[string]AssetType, len(assetTypes))
	for name, t := range assetTypes {
		out[name] = t
	}
	return out
}

// TypeByName looks one type up by its catalog key.
func TypeByName(name string) (AssetType, error) {
	t, ok := assetTypes[name]
	if !ok {
		return AssetType{}, errors.Join(ErrUnknownAssetType, fmt.Errorf("no such type %q", name))
	}
	return t, nil
}

// TypeMap returns the asset-name to type-name mapping, a fresh copy each
// call.
func TypeMap() map[string]string {
	out := make(map[string]string, len(assetTypeNames))
	for name, t := range assetTypeNames {
		out[name] = t
	}
	return out
}
