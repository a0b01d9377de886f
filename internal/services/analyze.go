package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/geo"
	"route-hazard-service/internal/ports"
)

// AnalyzerConfig holds the tunable policy values of the route analyzer:
// proximity buffers, bounding-box padding and score weights. Production code
// uses DefaultAnalyzerConfig; tests may override without touching defaults.
type AnalyzerConfig struct {
	// Hazards farther than this from the route geometry are not relevant
	// to the route even when they fall inside its bounding box.
	RouteProximityM float64
	// A hazard is attached to every itinerary step within this distance.
	StepAttachmentM float64
	// Padding applied to the route bounding box before the spatial query.
	BBoxMarginM float64

	UnsafePenalty  int
	CautionPenalty int

	// Upper bound on concurrent per-route hazard fetches.
	MaxConcurrent int
}

func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		RouteProximityM: 100,
		StepAttachmentM: 500,
		BBoxMarginM:     500,
		UnsafePenalty:   20,
		CautionPenalty:  5,
		MaxConcurrent:   4,
	}
}

// Analyzer orchestrates hazard discovery, severity classification, step
// attachment and safety scoring for candidate routes.
//
// Each analysis run reads its inputs and produces a fresh, independent
// result set; nothing is mutated in place, so re-running over the same
// hazard-source snapshot yields identical output.
type Analyzer struct {
	source     ports.HazardSource
	thresholds Thresholds
	cfg        AnalyzerConfig
}

func NewAnalyzer(source ports.HazardSource, thresholds Thresholds, cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{source: source, thresholds: thresholds, cfg: cfg}
}

// AnalyzeRoutes analyzes every candidate route against the load/vehicle
// envelope and returns the results sorted by safety score descending. Ties
// preserve provider-return order.
//
// Routes are analyzed concurrently; a failed hazard fetch degrades that one
// route to an empty hazard list (safe, score 100) instead of failing the
// batch, so a flaky data source cannot block route comparison.
func (a *Analyzer) AnalyzeRoutes(ctx context.Context, routes []domain.RouteOption, load domain.LoadEnvelope, vehicle domain.VehicleEnvelope) []domain.RouteOption {
	analyzed := make([]domain.RouteOption, len(routes))

	sem := make(chan struct{}, a.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for i, route := range routes {
		wg.Add(1)
		go func(i int, route domain.RouteOption) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			analyzed[i] = a.analyzeRoute(ctx, route, load, vehicle)
		}(i, route)
	}

	wg.Wait()

	sort.SliceStable(analyzed, func(i, j int) bool {
		return analyzed[i].SafetyScore > analyzed[j].SafetyScore
	})

	return analyzed
}

func (a *Analyzer) analyzeRoute(ctx context.Context, route domain.RouteOption, load domain.LoadEnvelope, vehicle domain.VehicleEnvelope) domain.RouteOption {
	box := geo.BoundingBoxOf(route.Geometry, a.cfg.BBoxMarginM)

	features, err := a.source.FetchFeatures(ctx, box)
	if err != nil {
		// Partial data: the route still participates in the comparison,
		// it just carries no hazard information.
		log.Printf("hazard fetch failed route=%s err=%v", route.ID, err)
		features = nil
	}

	hazards := make([]domain.Hazard, 0, len(features))
	for _, f := range features {
		h, ok := ParseHazard(f)
		if !ok {
			continue
		}
		if geo.MinDistanceToPolyline(h.Location, route.Geometry) > a.cfg.RouteProximityM {
			continue
		}
		h.Severity = Classify(h, load, vehicle, a.thresholds)
		hazards = append(hazards, h)
	}

	idx := newHazardIndex(hazards)
	steps := make([]domain.ItineraryStep, len(route.Steps))
	for i, step := range route.Steps {
		step.Hazards = sortByID(idx.Near(step.Location, a.cfg.StepAttachmentM))
		steps[i] = step
	}

	unsafeCount, cautionCount := 0, 0
	for _, h := range hazards {
		switch h.Severity {
		case domain.SeverityUnsafe:
			unsafeCount++
		case domain.SeverityCaution:
			cautionCount++
		}
	}

	route.Hazards = hazards
	route.Steps = steps
	route.SafetyScore = clampScore(100 - a.cfg.UnsafePenalty*unsafeCount - a.cfg.CautionPenalty*cautionCount)
	route.OverallSeverity = overallSeverity(unsafeCount, cautionCount)
	route.Summary = summarize(route, unsafeCount, cautionCount)

	return route
}

func overallSeverity(unsafeCount, cautionCount int) domain.SeverityTier {
	switch {
	case unsafeCount > 0:
		return domain.SeverityUnsafe
	case cautionCount > 0:
		return domain.SeverityCaution
	default:
		return domain.SeveritySafe
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func summarize(route domain.RouteOption, unsafeCount, cautionCount int) string {
	km := float64(route.DistanceMeters) / 1000
	if unsafeCount == 0 && cautionCount == 0 {
		return fmt.Sprintf("No hazards detected along %.1f km", km)
	}
	return fmt.Sprintf("%d blocking hazard(s) and %d advisory hazard(s) along %.1f km",
		unsafeCount, cautionCount, km)
}

func sortByID(hazards []domain.Hazard) []domain.Hazard {
	sort.Slice(hazards, func(i, j int) bool { return hazards[i].ID < hazards[j].ID })
	return hazards
}
