// Package gps provides the simulated position source. There is no receiver
// behind it: every shipment reports the same fixed coordinate.
package gps

import (
	"context"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
)

// TanjungPriok is the default simulated position.
var TanjungPriok = domain.Coordinates{Lat: -6.1045, Lng: 106.8865}

// StaticLocator implements ports.Locator with a fixed coordinate.
type StaticLocator struct {
	coords domain.Coordinates
}

// NewStaticLocator returns a locator that always reports coords.
func NewStaticLocator(coords domain.Coordinates) *StaticLocator {
	return &StaticLocator{coords: coords}
}

func (l *StaticLocator) Locate(_ context.Context, _ string) (domain.Coordinates, error) {
	return l.coords, nil
}
