// Package roadlook models road surface definitions: lanes, offsets, width and class.
package roadlook

import "github.com/woozymasta/scs-route-tool/internal/token"

// NoOffset marks a look whose definition never set road_offset.
const NoOffset = 999

// laneWidth is the width of a single traffic lane in map units.
const laneWidth = 4.5

// RoadLook is the lane and shoulder profile shared by road segments.
type RoadLook struct {
	Token              token.Token // look token (part after "road.")
	Name               string      // display name
	LanesLeft          []string    // lane types, left side
	LanesRight         []string    // lane types, right side
	LaneOffsetsLeft    []string    // raw lane offset entries, left side
	LaneOffsetsRight   []string    // raw lane offset entries, right side
	Offset             float64     // road_offset, NoOffset when unset
	ShoulderSpaceLeft  float64     // shoulder_space_left
	ShoulderSpaceRight float64     // shoulder_space_right
	ShoulderSizeLeft   float64     // shoulder_size_left
	ShoulderSizeRight  float64     // shoulder_size_right
	RoadSizeLeft       float64     // road_size_left
	RoadSizeRight      float64     // road_size_right
	IsLocal            bool        // last lane added was a local lane
	IsExpress          bool        // last lane added was an expressway lane
	IsHighway          bool        // last lane added was a motorway/freeway lane
	IsNoVehicles       bool        // last lane added carries no vehicles
}

// New returns an empty look for a token with no explicit offset.
func New(t token.Token) *RoadLook {
	return &RoadLook{Token: t, Offset: NoOffset}
}

// AddLaneLeft appends a left lane and reclassifies the look from it.
func (l *RoadLook) AddLaneLeft(lane string) {
	l.LanesLeft = append(l.LanesLeft, lane)
	l.setFlags(ParseLane(lane))
}

// AddLaneRight appends a right lane and reclassifies the look from it.
func (l *RoadLook) AddLaneRight(lane string) {
	l.LanesRight = append(l.LanesRight, lane)
	l.setFlags(ParseLane(lane))
}

// setFlags overwrites the classification flags.
func (l *RoadLook) setFlags(f LaneFlags) {
	l.IsLocal = f.Local
	l.IsExpress = f.Express
	l.IsHighway = f.Highway
	l.IsNoVehicles = f.NoVehicles
}

// HasOffset reports whether road_offset was set explicitly.
func (l *RoadLook) HasOffset() bool {
	return l.Offset != NoOffset
}

// Width returns the drivable width used to normalize segment lengths.
// It never returns less than 1.
func (l *RoadLook) Width() float64 {
	offset := l.Offset
	if !l.HasOffset() {
		offset = 0
	}

	w := offset + laneWidth*float64(len(l.LanesLeft)+len(l.LanesRight))
	if w < 1 {
		return 1
	}

	return w
}

// IsBidirectional reports whether the look carries traffic both ways.
func (l *RoadLook) IsBidirectional() bool {
	return len(l.LanesLeft) > 0 && len(l.LanesRight) > 0
}

// Class returns the dominant class from the flags.
func (l *RoadLook) Class() Class {
	switch {
	case l.IsHighway:
		return Highway
	case l.IsExpress:
		return Express
	case l.IsLocal:
		return Local
	case l.IsNoVehicles:
		return NoVehicles
	default:
		return Unclassified
	}
}
