// Package guidance distills a raw route polyline into turn-by-turn
// instructions: Douglas-Peucker simplification, bearing-based turn
// detection and classification, close-turn merging, and templated
// instruction text.
package guidance

import "guidely/pkg/geo"

// TurnType classifies a maneuver. The set is closed; collaborators render
// or announce each type however their presentation layer wants.
type TurnType int

const (
	TurnStraight TurnType = iota
	TurnSlightLeft
	TurnSlightRight
	TurnLeft
	TurnRight
	TurnSharpLeft
	TurnSharpRight
	TurnUTurn
	TurnRoundabout
	TurnArrived
)

// String returns the stable wire name of the turn type.
func (t TurnType) String() string {
	switch t {
	case TurnStraight:
		return "straight"
	case TurnSlightLeft:
		return "slight_left"
	case TurnSlightRight:
		return "slight_right"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	case TurnSharpLeft:
		return "sharp_left"
	case TurnSharpRight:
		return "sharp_right"
	case TurnUTurn:
		return "u_turn"
	case TurnRoundabout:
		return "roundabout"
	case TurnArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// IsLeft reports whether the maneuver turns left.
func (t TurnType) IsLeft() bool {
	return t == TurnSlightLeft || t == TurnLeft || t == TurnSharpLeft
}

// IsRight reports whether the maneuver turns right.
func (t TurnType) IsRight() bool {
	return t == TurnSlightRight || t == TurnRight || t == TurnSharpRight
}

// Turn is one maneuver on a route. Turn lists are produced once per route
// and never mutated; the progress tracker records announcements in its own
// state, not here.
type Turn struct {
	Type              TurnType
	Position          geo.LatLng
	AngleDegrees      float64 // signed; positive = right, negative = left
	DistanceFromStart float64 // meters along the route
	DistanceToNext    float64 // meters to the following turn (or destination)
	Instruction       string
	PathIndex         int // index into the raw (unsimplified) path, -1 if unknown
}

// Config holds the turn detection thresholds, tuned for pedestrian campus
// scale. Expose-and-tune rather than bake-in: deployments adjust these
// without touching the detection logic.
type Config struct {
	// SimplifyToleranceMeters is the Douglas-Peucker tolerance applied to
	// the raw path before turn detection.
	SimplifyToleranceMeters float64

	// LookAheadMeters is how much path length is accumulated backward and
	// forward from a vertex when computing incoming/outgoing bearings.
	LookAheadMeters float64

	// MinTurnAngleDegrees discards candidate turns that are too shallow to
	// announce.
	MinTurnAngleDegrees float64

	// MinSegmentMeters: slight turns following a segment shorter than
	// twice this length are digitization noise, not decision points.
	MinSegmentMeters float64

	// MergeDistanceMeters: consecutive turns closer than this collapse
	// into one maneuver.
	MergeDistanceMeters float64

	// Classification bands, by absolute turn angle.
	StraightMaxDegrees float64 // below: straight
	SlightMaxDegrees   float64 // below: slight left/right
	TurnMaxDegrees     float64 // below: left/right
	SharpMaxDegrees    float64 // below: sharp left/right; above: U-turn
}

// DefaultConfig returns the thresholds tuned for pedestrian campus scale.
func DefaultConfig() Config {
	return Config{
		SimplifyToleranceMeters: 3.0,
		LookAheadMeters:         15.0,
		MinTurnAngleDegrees:     35.0,
		MinSegmentMeters:        8.0,
		MergeDistanceMeters:     10.0,
		StraightMaxDegrees:      25.0,
		SlightMaxDegrees:        50.0,
		TurnMaxDegrees:          110.0,
		SharpMaxDegrees:         150.0,
	}
}

// classify maps a signed turn angle to a TurnType by the config's bands.
func (c Config) classify(angleDegrees float64) TurnType {
	abs := angleDegrees
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs < c.StraightMaxDegrees:
		return TurnStraight
	case abs < c.SlightMaxDegrees:
		if angleDegrees < 0 {
			return TurnSlightLeft
		}
		return TurnSlightRight
	case abs < c.TurnMaxDegrees:
		if angleDegrees < 0 {
			return TurnLeft
		}
		return TurnRight
	case abs < c.SharpMaxDegrees:
		if angleDegrees < 0 {
			return TurnSharpLeft
		}
		return TurnSharpRight
	default:
		return TurnUTurn
	}
}
