package estimation

import (
	"time"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
)

// portTolerance is the per-axis match window, in degrees, for port lookups.
const portTolerance = 0.1

// defaultEtaDays is used when no destination rule matches.
const defaultEtaDays = 7

// Timezone labels.
const (
	ZoneWIB  = "WIB"
	ZoneWITA = "WITA"
	ZoneSGT  = "SGT"
	ZoneMYT  = "MYT"
	ZoneHKT  = "HKT"
	ZoneJST  = "JST"
	ZoneAEST = "AEST"
	ZoneUTC  = "UTC"
)

// Port is a named coordinate used to label a position fix.
type Port struct {
	Name string
	Lat  float64
	Lon  float64
}

// LonBand maps an inclusive longitude range to a timezone label.
type LonBand struct {
	Min, Max float64
	Zone     string
}

// ZoneRule maps a destination keyword to a timezone label.
type ZoneRule struct {
	Keyword string
	Zone    string
}

// TransitRule maps a destination keyword to a base transit time in days.
type TransitRule struct {
	Keyword string
	Days    int
}

// StatusModifier scales the base transit time for a given status.
type StatusModifier struct {
	Status string
	Factor float64
}

var defaultPorts = []Port{
	{Name: "Tanjung Priok Port, Jakarta", Lat: -6.1045, Lon: 106.8865},
	{Name: "Port of Singapore", Lat: 1.2644, Lon: 103.8200},
	{Name: "Port Klang, Malaysia", Lat: 3.0000, Lon: 101.3833},
	{Name: "Port of Hong Kong", Lat: 22.3080, Lon: 114.1700},
}

// The 103-105 band sits inside 100-110 and is never reached. Order is kept
// as observed in production.
var defaultLonBands = []LonBand{
	{Min: 100, Max: 110, Zone: ZoneWIB},
	{Min: 103, Max: 105, Zone: ZoneSGT},
	{Min: 113, Max: 115, Zone: ZoneHKT},
}

var defaultZoneRules = []ZoneRule{
	{Keyword: "jakarta", Zone: ZoneWIB},
	{Keyword: "surabaya", Zone: ZoneWIB},
	{Keyword: "indonesia", Zone: ZoneWIB},
	{Keyword: "bali", Zone: ZoneWITA},
	{Keyword: "denpasar", Zone: ZoneWITA},
	{Keyword: "singapore", Zone: ZoneSGT},
	{Keyword: "kuala lumpur", Zone: ZoneMYT},
	{Keyword: "malaysia", Zone: ZoneMYT},
	{Keyword: "hong kong", Zone: ZoneHKT},
	{Keyword: "tokyo", Zone: ZoneJST},
	{Keyword: "japan", Zone: ZoneJST},
	{Keyword: "sydney", Zone: ZoneAEST},
	{Keyword: "australia", Zone: ZoneAEST},
}

var defaultTransitRules = []TransitRule{
	{Keyword: "jakarta", Days: 1},
	{Keyword: "surabaya", Days: 2},
	{Keyword: "indonesia", Days: 3},
	{Keyword: "singapore", Days: 2},
	{Keyword: "kuala lumpur", Days: 3},
	{Keyword: "malaysia", Days: 3},
	{Keyword: "hong kong", Days: 4},
	{Keyword: "tokyo", Days: 5},
	{Keyword: "japan", Days: 5},
	{Keyword: "sydney", Days: 6},
	{Keyword: "australia", Days: 6},
}

var defaultModifiers = []StatusModifier{
	{Status: domain.StatusProcessing, Factor: 1.5},
	{Status: domain.StatusInTransit, Factor: 1.0},
	{Status: domain.StatusCustomsClearance, Factor: 1.2},
	{Status: domain.StatusOutForDelivery, Factor: 0.1},
}

var zoneOffsets = map[string]int{
	ZoneWIB:  7,
	ZoneWITA: 8,
	ZoneSGT:  8,
	ZoneMYT:  8,
	ZoneHKT:  8,
	ZoneJST:  9,
	ZoneAEST: 10,
	ZoneUTC:  0,
}

// ZoneFor returns a fixed-offset location for a timezone label. Unknown
// labels resolve to UTC.
func ZoneFor(label string) *time.Location {
	hours, ok := zoneOffsets[label]
	if !ok || hours == 0 {
		return time.UTC
	}
	return time.FixedZone(label, hours*60*60)
}
