package ports

import (
	"context"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
)

// Locator reports the current position of a shipment.
type Locator interface {
	Locate(ctx context.Context, trackingID string) (domain.Coordinates, error)
}
