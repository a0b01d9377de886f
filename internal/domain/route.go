package domain

// TurnType is the closed classification of a maneuver at an itinerary step.
// Provider maneuver vocabularies are mapped into this set; anything
// unrecognized becomes TurnStraight.
type TurnType string

const (
	TurnStraight    TurnType = "straight"
	TurnSlightLeft  TurnType = "slight_left"
	TurnLeft        TurnType = "left"
	TurnSlightRight TurnType = "slight_right"
	TurnRight       TurnType = "right"
	TurnUTurn       TurnType = "u_turn"
)

// Represents one turn-by-turn instruction unit of a route.
// Steps are kept in itinerary order, not geographic order. Hazards holds the
// subset of route hazards within the step attachment buffer; a hazard may
// appear on more than one step.
type ItineraryStep struct {
	Instruction     string
	DistanceMeters  int
	DurationSeconds int
	Location        GeoPoint
	RoadName        string
	Turn            TurnType
	Hazards         []Hazard
}

// Represents one candidate route between the requested waypoints.
// A RouteOption is the output of route computation plus hazard analysis and
// describes the polyline geometry, the ordered itinerary, the classified
// hazards and the aggregate safety metrics. It is immutable result data and
// contains no side effects; each analysis run produces a fresh set.
type RouteOption struct {
	ID              string
	Name            string
	Geometry        []GeoPoint
	DistanceMeters  int
	DurationSeconds int

	Hazards         []Hazard
	Steps           []ItineraryStep
	OverallSeverity SeverityTier
	SafetyScore     int
	Summary         string
}
