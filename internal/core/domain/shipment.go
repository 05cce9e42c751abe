package domain

// Recognized shipment statuses. Status is free-form text; these are the
// values the estimation tables and terminal checks know about.
const (
	StatusProcessing       = "Processing"
	StatusInTransit        = "In Transit"
	StatusCustomsClearance = "Customs Clearance"
	StatusOutForDelivery   = "Out for Delivery"
	StatusDelivered        = "Delivered"
	StatusCancelled        = "Cancelled"
	StatusReturned         = "Returned"
)

// Shipment is the registry record for a single tracking id.
type Shipment struct {
	TrackingID  string   `json:"tracking_id"`
	Destination string   `json:"destination"`
	Status      string   `json:"status"`
	Updates     []string `json:"updates"`
}

// Clone returns a deep copy so callers can't reach into registry state.
func (s *Shipment) Clone() *Shipment {
	c := *s
	c.Updates = make([]string, len(s.Updates))
	copy(c.Updates, s.Updates)
	return &c
}

// ApplyStatus overwrites the current status and records it in the history.
func (s *Shipment) ApplyStatus(status string) {
	s.Status = status
	s.Updates = append(s.Updates, status)
}

// IsUntrackable reports whether a live location fix makes no sense for the
// shipment any more.
func (s *Shipment) IsUntrackable() bool {
	switch s.Status {
	case StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// HasArrivalOutcome reports whether the shipment already has a final arrival
// outcome, so no ETA should be computed. Returned shipments still get one.
func (s *Shipment) HasArrivalOutcome() bool {
	return s.Status == StatusDelivered || s.Status == StatusCancelled
}
