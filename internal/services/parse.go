package services

import (
	"fmt"
	"strconv"
	"strings"

	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
)

// ParseHazard maps one raw tagged feature onto exactly one hazard kind using
// ordered tag precedence: height (tunnel/bridge distinguished), then weight,
// then width, then level crossing, then power line. Features matching no
// pattern yield ok=false, which is a normal outcome rather than an error.
//
// Numeric tag values are plain decimal meters or tonnes. An unparsable value
// drops the limit, not the hazard: the feature keeps its kind and the
// classifier falls through to the caution tier.
func ParseHazard(f ports.TaggedFeature) (domain.Hazard, bool) {
	h := domain.Hazard{
		ID:       fmt.Sprintf("%s/%d", f.Element, f.ID),
		Location: f.Location,
		Name:     f.Name,
	}

	switch {
	case hasTag(f.Tags, "maxheight"):
		limit := parseDecimal(f.Tags["maxheight"])
		h.ClearanceM = limit
		switch {
		case hasTag(f.Tags, "tunnel"):
			h.Kind = domain.HazardTunnel
			h.Description = describeLimit("Tunnel", limit, "m clearance")
		case hasTag(f.Tags, "bridge"):
			h.Kind = domain.HazardLowBridge
			h.Description = describeLimit("Bridge", limit, "m clearance")
		default:
			h.Kind = domain.HazardHeightRestriction
			h.Description = describeLimit("Height restriction", limit, "m")
		}

	case hasTag(f.Tags, "maxweight"), hasTag(f.Tags, "maxweight:hgv"):
		v := f.Tags["maxweight"]
		if v == "" {
			v = f.Tags["maxweight:hgv"]
		}
		limit := parseDecimal(v)
		h.Kind = domain.HazardWeightRestriction
		h.WeightLimitT = limit
		h.Description = describeLimit("Weight limit", limit, "t")

	case hasTag(f.Tags, "maxwidth"):
		limit := parseDecimal(f.Tags["maxwidth"])
		h.Kind = domain.HazardWidthRestriction
		h.WidthLimitM = limit
		h.Description = describeLimit("Width restriction", limit, "m")

	case f.Tags["railway"] == "level_crossing":
		h.Kind = domain.HazardLevelCrossing
		h.Description = "Railway level crossing"
		h.RecommendedSpeedKph = 10

	case f.Tags["power"] == "line":
		h.Kind = domain.HazardOverheadLines
		h.Description = "Overhead power lines"

	default:
		return domain.Hazard{}, false
	}

	if h.Name == "" {
		h.Name = h.Description
	}

	return h, true
}

func hasTag(tags map[string]string, key string) bool {
	v, ok := tags[key]
	return ok && v != ""
}

// parseDecimal extracts a plain decimal number from a tag value, tolerating
// a trailing unit ("4.5 m", "44t"). Anything else returns nil.
func parseDecimal(s string) *float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return nil
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return nil
	}
	return &v
}

func describeLimit(prefix string, limit *float64, unit string) string {
	if limit == nil {
		return prefix
	}
	return fmt.Sprintf("%s %.1f %s", prefix, *limit, unit)
}
