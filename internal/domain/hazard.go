package domain

// HazardKind is the closed set of infrastructure hazard categories the
// engine recognizes.
type HazardKind string

const (
	HazardLowBridge         HazardKind = "low_bridge"
	HazardWeightRestriction HazardKind = "weight_restriction"
	HazardWidthRestriction  HazardKind = "width_restriction"
	HazardHeightRestriction HazardKind = "height_restriction"
	HazardSharpTurn         HazardKind = "sharp_turn"
	HazardOverheadLines     HazardKind = "overhead_lines"
	HazardNarrowRoad        HazardKind = "narrow_road"
	HazardLevelCrossing     HazardKind = "level_crossing"
	HazardTunnel            HazardKind = "tunnel"
)

// SeverityTier ranks how dangerous a hazard is for a specific load/vehicle
// combination. Tiers are totally ordered: Safe < Caution < Unsafe.
type SeverityTier int

const (
	SeveritySafe SeverityTier = iota
	SeverityCaution
	SeverityUnsafe
)

func (s SeverityTier) String() string {
	switch s {
	case SeverityCaution:
		return "caution"
	case SeverityUnsafe:
		return "unsafe"
	default:
		return "safe"
	}
}

// Hazard is a discrete infrastructure feature that may constrain safe
// passage of an oversized or heavy vehicle. At most one of ClearanceM,
// WeightLimitT and WidthLimitM is populated, depending on Kind; all three
// may be nil when the source tag value could not be parsed.
// Immutable once classified.
type Hazard struct {
	ID          string
	Kind        HazardKind
	Location    GeoPoint
	Name        string
	Description string

	ClearanceM   *float64
	WeightLimitT *float64
	WidthLimitM  *float64

	Severity            SeverityTier
	RecommendedSpeedKph int
}
