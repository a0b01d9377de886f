package services

import "route-hazard-service/internal/domain"

// Thresholds holds the tunable margin policy for severity classification.
// Production code uses DefaultThresholds; tests may override individual
// values without touching the defaults.
type Thresholds struct {
	// A clearance within this many meters above the vehicle height is
	// caution rather than safe.
	HeightCautionMarginM float64
	// A width limit within this many meters above the load width is
	// caution rather than safe.
	WidthCautionMarginM float64
	// A load heavier than this fraction of the weight limit is caution.
	WeightCautionRatio float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		HeightCautionMarginM: 0.3,
		WidthCautionMarginM:  0.5,
		WeightCautionRatio:   0.9,
	}
}

// Classify assigns a severity tier to a hazard for the given load/vehicle
// envelope. Pure and total: it never fails and always returns exactly one
// tier.
//
// Margins are strict at the boundary: a clearance exactly equal to the
// vehicle height is unsafe, and a load exactly at the weight limit is not.
func Classify(h domain.Hazard, load domain.LoadEnvelope, vehicle domain.VehicleEnvelope, t Thresholds) domain.SeverityTier {
	switch h.Kind {
	case domain.HazardLowBridge, domain.HazardTunnel, domain.HazardHeightRestriction:
		if h.ClearanceM == nil {
			return domain.SeverityCaution
		}
		margin := *h.ClearanceM - vehicle.TotalHeightM
		switch {
		case margin <= 0:
			return domain.SeverityUnsafe
		case margin < t.HeightCautionMarginM:
			return domain.SeverityCaution
		default:
			return domain.SeveritySafe
		}

	case domain.HazardWeightRestriction:
		if h.WeightLimitT == nil {
			return domain.SeverityCaution
		}
		switch {
		case load.WeightT > *h.WeightLimitT:
			return domain.SeverityUnsafe
		case load.WeightT > t.WeightCautionRatio*(*h.WeightLimitT):
			return domain.SeverityCaution
		default:
			return domain.SeveritySafe
		}

	case domain.HazardWidthRestriction:
		if h.WidthLimitM == nil {
			return domain.SeverityCaution
		}
		margin := *h.WidthLimitM - load.WidthM
		switch {
		case margin < 0:
			return domain.SeverityUnsafe
		case margin < t.WidthCautionMarginM:
			return domain.SeverityCaution
		default:
			return domain.SeveritySafe
		}

	default:
		// Level crossings, overhead lines, sharp turns and narrow roads
		// always warrant driver attention but carry no numeric envelope
		// comparison in this policy.
		return domain.SeverityCaution
	}
}
