package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"route-hazard-service/internal/api/dto"
	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
	"route-hazard-service/internal/services"
)

type AnalysisHandler struct {
	Geocoder ports.Geocoder
	Provider ports.RouteProvider
	Analyzer *services.Analyzer
}

// resolvedPlace pairs a coordinate with its human-readable label.
type resolvedPlace struct {
	point domain.GeoPoint
	label string
}

// Analyze orchestrates one hazard analysis run: resolve the requested
// places, compute candidate routes, classify hazards along each and return
// the ranked result.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.AnalyzeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if err := validateAnalyzeRequest(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	origin, err := h.resolvePlace(ctx, req.Origin)
	if err != nil {
		h.writeResolveError(w, r, "origin", err)
		return
	}
	destination, err := h.resolvePlace(ctx, req.Destination)
	if err != nil {
		h.writeResolveError(w, r, "destination", err)
		return
	}

	waypoints := make([]resolvedPlace, 0, len(req.Waypoints))
	waypointCoords := make([]domain.GeoPoint, 0, len(req.Waypoints))
	for _, wp := range req.Waypoints {
		resolved, err := h.resolvePlace(ctx, wp)
		if err != nil {
			h.writeResolveError(w, r, "waypoint", err)
			return
		}
		waypoints = append(waypoints, resolved)
		waypointCoords = append(waypointCoords, resolved.point)
	}

	routes, err := h.Provider.ComputeRoutes(ctx, origin.point, destination.point, waypointCoords)
	if err != nil {
		if errors.Is(err, ports.ErrNoRoute) {
			writeError(w, r, http.StatusBadGateway, ports.ErrNoRoute.Error())
			return
		}
		log.Printf("compute routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(routes) == 0 {
		writeError(w, r, http.StatusBadGateway, ports.ErrNoRoute.Error())
		return
	}

	load := domain.LoadEnvelope{
		HeightM: req.Load.HeightM,
		WidthM:  req.Load.WidthM,
		LengthM: req.Load.LengthM,
		WeightT: req.Load.WeightT,
	}
	vehicle := domain.VehicleEnvelope{
		TotalHeightM:   req.Vehicle.TotalHeightM,
		AxleWeightT:    req.Vehicle.AxleWeightT,
		AxleCount:      req.Vehicle.AxleCount,
		TurningRadiusM: req.Vehicle.TurningRadiusM,
		LengthM:        req.Vehicle.LengthM,
	}

	analyzed := h.Analyzer.AnalyzeRoutes(ctx, routes, load, vehicle)

	res := dto.AnalyzeResponse{
		Origin:      toPlaceResponse(origin),
		Destination: toPlaceResponse(destination),
		Waypoints:   make([]dto.PlaceResponse, 0, len(waypoints)),
		Load:        req.Load,
		Vehicle:     req.Vehicle,
		Routes:      make([]dto.RouteResponse, 0, len(analyzed)),
	}
	for _, wp := range waypoints {
		res.Waypoints = append(res.Waypoints, toPlaceResponse(wp))
	}
	for _, route := range analyzed {
		res.Routes = append(res.Routes, toRouteResponse(route))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func validateAnalyzeRequest(req dto.AnalyzeRequest) error {
	if err := validatePlace(req.Origin); err != nil {
		return errors.New("origin: " + err.Error())
	}
	if err := validatePlace(req.Destination); err != nil {
		return errors.New("destination: " + err.Error())
	}
	for _, wp := range req.Waypoints {
		if err := validatePlace(wp); err != nil {
			return errors.New("waypoint: " + err.Error())
		}
	}
	if req.Load.WeightT <= 0 {
		return errors.New("load weight_t must be positive")
	}
	if req.Vehicle.TotalHeightM <= 0 {
		return errors.New("vehicle total_height_m must be positive")
	}
	return nil
}

func validatePlace(p dto.PlaceRequest) error {
	hasCoords := p.Lat != nil && p.Lon != nil
	if !hasCoords && strings.TrimSpace(p.Address) == "" {
		return errors.New("address or lat/lon required")
	}
	if (p.Lat == nil) != (p.Lon == nil) {
		return errors.New("lat and lon must be given together")
	}
	return nil
}

// resolvePlace turns one request place into a coordinate plus label.
// Explicit coordinates win over an address; their label comes from reverse
// geocoding, which never fails.
func (h *AnalysisHandler) resolvePlace(ctx context.Context, p dto.PlaceRequest) (resolvedPlace, error) {
	if p.Lat != nil && p.Lon != nil {
		point := domain.GeoPoint{Lat: *p.Lat, Lon: *p.Lon}
		return resolvedPlace{point: point, label: h.Geocoder.ReverseGeocode(ctx, point)}, nil
	}

	point, err := h.Geocoder.Geocode(ctx, p.Address)
	if err != nil {
		return resolvedPlace{}, err
	}
	return resolvedPlace{point: point, label: strings.TrimSpace(p.Address)}, nil
}

func (h *AnalysisHandler) writeResolveError(w http.ResponseWriter, r *http.Request, which string, err error) {
	if errors.Is(err, ports.ErrAddressNotFound) {
		writeError(w, r, http.StatusUnprocessableEntity, ports.ErrAddressNotFound.Error())
		return
	}
	log.Printf("resolve %s failed: %v", which, err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func toPlaceResponse(p resolvedPlace) dto.PlaceResponse {
	return dto.PlaceResponse{Label: p.label, Lat: p.point.Lat, Lon: p.point.Lon}
}

func toRouteResponse(route domain.RouteOption) dto.RouteResponse {
	geometry := make([][]float64, 0, len(route.Geometry))
	for _, p := range route.Geometry {
		geometry = append(geometry, p.CoordsToList())
	}

	steps := make([]dto.StepResponse, 0, len(route.Steps))
	for _, s := range route.Steps {
		steps = append(steps, dto.StepResponse{
			Instruction:     s.Instruction,
			DistanceMeters:  s.DistanceMeters,
			DurationSeconds: s.DurationSeconds,
			Lat:             s.Location.Lat,
			Lon:             s.Location.Lon,
			RoadName:        s.RoadName,
			Turn:            string(s.Turn),
			Hazards:         toHazardResponses(s.Hazards),
		})
	}

	return dto.RouteResponse{
		ID:              route.ID,
		Name:            route.Name,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Geometry:        geometry,
		OverallSeverity: route.OverallSeverity.String(),
		SafetyScore:     route.SafetyScore,
		Summary:         route.Summary,
		Hazards:         toHazardResponses(route.Hazards),
		Steps:           steps,
	}
}

func toHazardResponses(hazards []domain.Hazard) []dto.HazardResponse {
	out := make([]dto.HazardResponse, 0, len(hazards))
	for _, h := range hazards {
		out = append(out, dto.HazardResponse{
			ID:                  h.ID,
			Kind:                string(h.Kind),
			Name:                h.Name,
			Description:         h.Description,
			Lat:                 h.Location.Lat,
			Lon:                 h.Location.Lon,
			ClearanceM:          h.ClearanceM,
			WeightLimitT:        h.WeightLimitT,
			WidthLimitM:         h.WidthLimitM,
			Severity:            h.Severity.String(),
			RecommendedSpeedKph: h.RecommendedSpeedKph,
		})
	}
	return out
}
