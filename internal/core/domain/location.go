package domain

import "time"

// Coordinates represents a geographic point in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationSample is a simulated position fix. It is derived on every query
// and never stored on the shipment.
type LocationSample struct {
	Coordinates
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	Timestamp time.Time `json:"timestamp"`
}

// Confidence labels for an EtaEstimate.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// EtaEstimate is a derived arrival estimate.
type EtaEstimate struct {
	Destination   string    `json:"destination"`
	DaysRemaining int       `json:"days_remaining"`
	ArrivesAt     time.Time `json:"arrives_at"`
	Timezone      string    `json:"timezone"`
	Confidence    string    `json:"confidence"`
}
