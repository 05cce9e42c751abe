package ports

import (
	"context"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
)

// AddShipmentInput carries the data needed to register a shipment.
type AddShipmentInput struct {
	TrackingID  string `name:"tracking id" validate:"notblank"`
	Destination string `name:"destination" validate:"notblank"`
	Status      string
}

// UpdateStatusInput carries a status change. Recipient is optional; when set,
// the change is announced to that address.
type UpdateStatusInput struct {
	TrackingID string
	Status     string
	Recipient  string `name:"recipient" validate:"omitempty,email"`
}

// LocationReport is the result of a location query. Exactly one of Warning
// and Fix is set.
type LocationReport struct {
	TrackingID string
	Status     string
	Warning    string
	Fix        *domain.LocationSample
}

// ArrivalReport is the result of an ETA query. Exactly one of Message and
// Estimate is set.
type ArrivalReport struct {
	TrackingID string
	Status     string
	Message    string
	Estimate   *domain.EtaEstimate
}

// ShipmentService defines the registry operations.
type ShipmentService interface {
	AddShipment(ctx context.Context, input AddShipmentInput) (*domain.Shipment, error)
	GetShipment(ctx context.Context, trackingID string) (*domain.Shipment, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.Shipment, error)
}

// TrackingService defines the derived location and ETA queries.
type TrackingService interface {
	GetRealtimeLocation(ctx context.Context, trackingID string) (*LocationReport, error)
	GetEstimatedArrival(ctx context.Context, trackingID string) (*ArrivalReport, error)
}
