package guidance

import (
	"fmt"
	"math"
)

// Instruction text is deterministic and templated: TurnType plus rounded
// distance to the next waypoint. Swapping locale only touches this file.

var compassNames = [8]string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest",
}

// compassName maps a bearing in degrees to an 8-wind compass direction.
func compassName(bearingDegrees float64) string {
	idx := int(math.Mod(bearingDegrees+22.5, 360) / 45)
	return compassNames[idx]
}

// roundDistance rounds to the nearest 5 meters for announcement, never
// below 5.
func roundDistance(meters float64) int {
	r := int(math.Round(meters/5) * 5)
	if r < 5 {
		r = 5
	}
	return r
}

func headingInstruction(bearingDegrees float64) string {
	return fmt.Sprintf("Head %s", compassName(bearingDegrees))
}

func arrivalInstruction(destinationName string) string {
	if destinationName == "" {
		return "You have arrived at your destination"
	}
	return fmt.Sprintf("You have arrived at %s", destinationName)
}

func maneuverInstruction(t TurnType, distanceToNextMeters float64) string {
	var action string
	switch t {
	case TurnStraight:
		action = "Continue straight"
	case TurnSlightLeft:
		action = "Turn slightly left"
	case TurnSlightRight:
		action = "Turn slightly right"
	case TurnLeft:
		action = "Turn left"
	case TurnRight:
		action = "Turn right"
	case TurnSharpLeft:
		action = "Turn sharply left"
	case TurnSharpRight:
		action = "Turn sharply right"
	case TurnUTurn:
		action = "Make a U-turn"
	case TurnRoundabout:
		action = "Follow the roundabout"
	default:
		action = "Continue"
	}

	if distanceToNextMeters <= 0 {
		return action
	}
	return fmt.Sprintf("%s, then continue for %d meters", action, roundDistance(distanceToNextMeters))
}
