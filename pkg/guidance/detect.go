package guidance

import (
	"math"

	"guidely/pkg/geo"
)

// Detector runs turn detection with a fixed configuration.
type Detector struct {
	cfg Config
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// DetectTurns runs turn detection over a route's point sequence with
// default thresholds. destinationName, when non-empty, names the arrival
// instruction.
func DetectTurns(points []geo.LatLng, destinationName string) []Turn {
	return NewDetector(DefaultConfig()).DetectTurns(points, destinationName)
}

// DetectTurns reduces the path to its dominant vertices and classifies the
// direction changes into announced maneuvers. The returned list always
// starts with a synthetic straight turn at distance 0 describing the
// initial heading and ends with an arrived turn at the route's total
// length; a path with fewer than 2 points yields no turns.
func (d *Detector) DetectTurns(points []geo.LatLng, destinationName string) []Turn {
	if len(points) < 2 {
		return nil
	}

	simplified, rawIdx := simplifyWithIndex(points, d.cfg.SimplifyToleranceMeters)

	// Cumulative distance along the simplified path.
	cum := make([]float64, len(simplified))
	for i := 1; i < len(simplified); i++ {
		cum[i] = cum[i-1] + geo.Dist(simplified[i-1], simplified[i])
	}
	total := cum[len(cum)-1]

	turns := []Turn{{
		Type:              TurnStraight,
		Position:          simplified[0],
		DistanceFromStart: 0,
		Instruction:       headingInstruction(initialBearing(simplified)),
		PathIndex:         rawIdx[0],
	}}

	for i := 1; i < len(simplified)-1; i++ {
		in, inOK := bearingBackward(simplified, i, d.cfg.LookAheadMeters)
		out, outOK := bearingForward(simplified, i, d.cfg.LookAheadMeters)
		if !inOK || !outOK {
			continue
		}

		angle := geo.TurnAngle(in, out)
		if math.Abs(angle) < d.cfg.MinTurnAngleDegrees {
			continue
		}

		turnType := d.cfg.classify(angle)
		if (turnType == TurnSlightLeft || turnType == TurnSlightRight) &&
			cum[i]-cum[i-1] < 2*d.cfg.MinSegmentMeters {
			// A shallow kink right after a short segment is digitization
			// noise, not a decision point.
			continue
		}

		turns = append(turns, Turn{
			Type:              turnType,
			Position:          simplified[i],
			AngleDegrees:      angle,
			DistanceFromStart: cum[i],
			PathIndex:         rawIdx[i],
		})
	}

	turns = d.mergeCloseTurns(turns)

	turns = append(turns, Turn{
		Type:              TurnArrived,
		Position:          simplified[len(simplified)-1],
		DistanceFromStart: total,
		Instruction:       arrivalInstruction(destinationName),
		PathIndex:         rawIdx[len(rawIdx)-1],
	})

	// Final pass: DistanceToNext always equals the gap to the following
	// turn; instructions for real maneuvers use that recomputed gap.
	for i := range turns {
		if i+1 < len(turns) {
			turns[i].DistanceToNext = turns[i+1].DistanceFromStart - turns[i].DistanceFromStart
		}
		if i > 0 && turns[i].Type != TurnArrived {
			turns[i].Instruction = maneuverInstruction(turns[i].Type, turns[i].DistanceToNext)
		}
	}

	return turns
}

// mergeCloseTurns collapses consecutive detected turns closer together than
// the merge distance into one maneuver with the summed (re-classified)
// angle. Single pass over adjacent pairs: a merged turn is not re-checked
// against its new neighbor. The synthetic start turn at index 0 never
// merges.
func (d *Detector) mergeCloseTurns(turns []Turn) []Turn {
	if len(turns) < 3 {
		return turns
	}

	merged := make([]Turn, 0, len(turns))
	merged = append(merged, turns[0])
	i := 1
	for i < len(turns) {
		cur := turns[i]
		if i+1 < len(turns) &&
			turns[i+1].DistanceFromStart-cur.DistanceFromStart < d.cfg.MergeDistanceMeters {
			combined := cur.AngleDegrees + turns[i+1].AngleDegrees
			combinedType := d.cfg.classify(combined)

			// An S-bend can cancel to nothing worth announcing.
			if math.Abs(combined) >= d.cfg.MinTurnAngleDegrees {
				cur.AngleDegrees = combined
				cur.Type = combinedType
				merged = append(merged, cur)
			}
			i += 2
			continue
		}
		merged = append(merged, cur)
		i++
	}
	return merged
}

// initialBearing returns the bearing of the first non-degenerate segment.
func initialBearing(points []geo.LatLng) float64 {
	for i := 1; i < len(points); i++ {
		if points[i] != points[0] {
			return geo.Bearing(points[0], points[i])
		}
	}
	return 0
}

// bearingBackward accumulates path length backward from vertex i until the
// look-ahead distance is covered (or the start is reached) and returns the
// bearing from that point to vertex i. ok=false when every candidate
// segment is degenerate.
func bearingBackward(points []geo.LatLng, i int, lookAhead float64) (float64, bool) {
	covered := 0.0
	j := i
	for j > 0 && covered < lookAhead {
		covered += geo.Dist(points[j-1], points[j])
		j--
	}
	for j < i && points[j] == points[i] {
		j++ // skip zero-length tail
	}
	if j == i {
		return 0, false
	}
	return geo.Bearing(points[j], points[i]), true
}

// bearingForward is bearingBackward mirrored: bearing from vertex i to the
// point one look-ahead distance farther along.
func bearingForward(points []geo.LatLng, i int, lookAhead float64) (float64, bool) {
	covered := 0.0
	j := i
	for j < len(points)-1 && covered < lookAhead {
		covered += geo.Dist(points[j], points[j+1])
		j++
	}
	for j > i && points[j] == points[i] {
		j--
	}
	if j == i {
		return 0, false
	}
	return geo.Bearing(points[i], points[j]), true
}
