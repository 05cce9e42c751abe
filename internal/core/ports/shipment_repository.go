package ports

import (
	"context"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
)

// ShipmentRepository owns the tracking id to shipment mapping.
type ShipmentRepository interface {
	// Create inserts s. It returns domain.ErrDuplicateID (as a *domain.Error)
	// when the tracking id is already present and leaves the existing record
	// untouched.
	Create(ctx context.Context, s *domain.Shipment) error
	// FindByTrackingID returns a copy of the stored shipment.
	FindByTrackingID(ctx context.Context, trackingID string) (*domain.Shipment, error)
	// UpdateStatus sets the current status and appends it to the history,
	// returning the updated copy.
	UpdateStatus(ctx context.Context, trackingID, status string) (*domain.Shipment, error)
}
