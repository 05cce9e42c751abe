// Package estimation derives display data for a shipment from static lookup
// tables: a location name for a coordinate, a timezone label for a longitude
// or a destination, and a transit time in days.
//
// Every table is an ordered list evaluated first-match-wins. Keyword rules
// match case-insensitively anywhere in the destination text.
package estimation

import (
	"fmt"
	"math"
	"strings"
)

// Heuristics holds the lookup tables. The zero value has empty tables and
// falls back to the defaults of each function; use Default for the
// production tables.
type Heuristics struct {
	Ports     []Port
	LonBands  []LonBand
	Zones     []ZoneRule
	Transit   []TransitRule
	Modifiers []StatusModifier
}

// Default returns the production tables.
func Default() Heuristics {
	return Heuristics{
		Ports:     defaultPorts,
		LonBands:  defaultLonBands,
		Zones:     defaultZoneRules,
		Transit:   defaultTransitRules,
		Modifiers: defaultModifiers,
	}
}

// ValidateCoordinates reports whether lat is within [-90, 90] and lon within
// [-180, 180]. NaN is never valid.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ResolveLocationName returns the first port within portTolerance of the
// point on both axes, or the formatted coordinates.
func (h Heuristics) ResolveLocationName(lat, lon float64) string {
	for _, p := range h.Ports {
		if math.Abs(lat-p.Lat) <= portTolerance && math.Abs(lon-p.Lon) <= portTolerance {
			return p.Name
		}
	}
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// ResolveTimezone returns the zone of the first band containing lon, or UTC.
func (h Heuristics) ResolveTimezone(lon float64) string {
	for _, b := range h.LonBands {
		if lon >= b.Min && lon <= b.Max {
			return b.Zone
		}
	}
	return ZoneUTC
}

// ResolveDestinationTimezone returns the zone of the first keyword found in
// destination, or UTC.
func (h Heuristics) ResolveDestinationTimezone(destination string) string {
	d := strings.ToLower(destination)
	for _, r := range h.Zones {
		if strings.Contains(d, r.Keyword) {
			return r.Zone
		}
	}
	return ZoneUTC
}

// EstimateEtaDays returns the base transit days for destination scaled by
// the status modifier, truncated toward zero. ok is false when the result
// is negative.
func (h Heuristics) EstimateEtaDays(destination, status string) (days int, ok bool) {
	base := defaultEtaDays
	d := strings.ToLower(destination)
	for _, r := range h.Transit {
		if strings.Contains(d, r.Keyword) {
			base = r.Days
			break
		}
	}

	factor := 1.0
	for _, m := range h.Modifiers {
		if m.Status == status {
			factor = m.Factor
			break
		}
	}

	days = int(float64(base) * factor)
	if days < 0 {
		return 0, false
	}
	return days, true
}
