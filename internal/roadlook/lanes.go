package roadlook

import "strings"

// Class represents the traffic class of a road look.
type Class int

const (
	// Unclassified is a look without a recognized lane type.
	Unclassified Class = iota

	// Local road.
	Local

	// Express road.
	Express

	// Highway (motorway/freeway).
	Highway

	// NoVehicles is a lane without traffic.
	NoVehicles
)

// String returns the class name used in exports.
func (c Class) String() string {
	switch c {
	case Local:
		return "local"
	case Express:
		return "express"
	case Highway:
		return "highway"
	case NoVehicles:
		return "no_vehicles"
	default:
		return "unclassified"
	}
}

// LaneFlags is the classification of one lane entry.
type LaneFlags struct {
	Local      bool
	Express    bool
	Highway    bool
	NoVehicles bool
}

const lanePrefix = "traffic_lane.road."

// ParseLane classifies a lane type value such as "traffic_lane.road.local".
// A divided lane counts as both express and highway.
func ParseLane(value string) LaneFlags {
	value = strings.TrimSpace(value)
	if value == "traffic_lane.no_vehicles" {
		return LaneFlags{NoVehicles: true}
	}

	rest, ok := strings.CutPrefix(value, lanePrefix)
	if !ok {
		return LaneFlags{}
	}

	var f LaneFlags
	switch rest {
	case "local", "local.tram", "local.no_overtake":
		f.Local = true
	case "expressway":
		f.Express = true
	case "divided":
		f.Express = true
		f.Highway = true
	case "motorway", "motorway.low_density", "freeway", "freeway.low_density":
		f.Highway = true
	}

	return f
}
