package model

import "time"

// Event is one synthesized sensor reading for an asset, flattened for
// downstream ingestion. Values are rounded to 2 decimals and never negative.
type Event struct {
	ID                string    `json:"id"`
	AssetID           string    `json:"asset_id"`
	ProductID         string    `json:"product_id"`
	BatchID           string    `json:"batch_id"`
	Vibration         float64   `json:"vibration"`
	Temperature       float64   `json:"temperature"`
	Humidity          float64   `json:"humidity"`
	Speed             float64   `json:"speed"`
	DefectProbability float64   `json:"defect_probability"`
	Timestamp         time.Time `json:"timestamp"`
}

type Events struct {
	Events []Event `json:"Events"`
}

// Maintenance status values an asset definition may carry.
const (
	StatusOperational = "Operational"
	StatusMaintenance = "Maintenance"
	StatusFaulty      = "Faulty"
)

// Asset is a physical machine instance being simulated. Created by the
// caller (assets.jsonl), read-only for this subsystem.
type Asset struct {
	ID                string `json:"id"`
	SiteID            int    `json:"site_id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	SerialNumber      string `json:"serial_number"`
	MaintenanceStatus string `json:"maintenance_status"`
}

// ValidStatus reports whether s is in the closed maintenance-status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusOperational, StatusMaintenance, StatusFaulty:
		return true
	}
	return false
}

type IService interface {
	CreateEvent(asset Asset, productID string, batchID string, anomaly bool, variationMultiplier float64) error
}

type IGateway interface {
	SendEvents(events Events) error
}
