package routing

import (
	"fmt"

	"route-hazard-service/internal/domain"
)

// mapGoogleManeuver converts Google Routes maneuver names into the closed
// TurnType set. Sharp turns fold into their plain direction; anything
// unrecognized is a straight continuation.
func mapGoogleManeuver(maneuver string) domain.TurnType {
	switch maneuver {
	case "TURN_SLIGHT_LEFT":
		return domain.TurnSlightLeft
	case "TURN_LEFT", "TURN_SHARP_LEFT", "RAMP_LEFT", "FORK_LEFT":
		return domain.TurnLeft
	case "TURN_SLIGHT_RIGHT":
		return domain.TurnSlightRight
	case "TURN_RIGHT", "TURN_SHARP_RIGHT", "RAMP_RIGHT", "FORK_RIGHT":
		return domain.TurnRight
	case "UTURN_LEFT", "UTURN_RIGHT":
		return domain.TurnUTurn
	default:
		return domain.TurnStraight
	}
}

// mapOSRMManeuver converts an OSRM maneuver type/modifier pair into the
// closed TurnType set.
func mapOSRMManeuver(maneuverType, modifier string) domain.TurnType {
	if maneuverType == "continue" && modifier == "uturn" {
		return domain.TurnUTurn
	}
	switch modifier {
	case "slight left":
		return domain.TurnSlightLeft
	case "left", "sharp left":
		return domain.TurnLeft
	case "slight right":
		return domain.TurnSlightRight
	case "right", "sharp right":
		return domain.TurnRight
	case "uturn":
		return domain.TurnUTurn
	default:
		return domain.TurnStraight
	}
}

// instructionText synthesizes a driver-facing instruction for providers that
// do not return one.
func instructionText(turn domain.TurnType, road string) string {
	var action string
	switch turn {
	case domain.TurnSlightLeft:
		action = "Bear left"
	case domain.TurnLeft:
		action = "Turn left"
	case domain.TurnSlightRight:
		action = "Bear right"
	case domain.TurnRight:
		action = "Turn right"
	case domain.TurnUTurn:
		action = "Make a U-turn"
	default:
		action = "Continue"
	}

	if road == "" {
		return action
	}
	if turn == domain.TurnStraight {
		return fmt.Sprintf("%s on %s", action, road)
	}
	return fmt.Sprintf("%s onto %s", action, road)
}
