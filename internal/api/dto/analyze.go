package dto

// PlaceRequest names one point of the journey, either as a free-form
// address or as an explicit coordinate pair.
type PlaceRequest struct {
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

type LoadRequest struct {
	HeightM float64 `json:"height_m"`
	WidthM  float64 `json:"width_m"`
	LengthM float64 `json:"length_m"`
	WeightT float64 `json:"weight_t"`
}

type VehicleRequest struct {
	TotalHeightM   float64 `json:"total_height_m"`
	AxleWeightT    float64 `json:"axle_weight_t"`
	AxleCount      int     `json:"axle_count"`
	TurningRadiusM float64 `json:"turning_radius_m"`
	LengthM        float64 `json:"length_m"`
}

type AnalyzeRequest struct {
	Origin      PlaceRequest   `json:"origin"`
	Destination PlaceRequest   `json:"destination"`
	Waypoints   []PlaceRequest `json:"waypoints"`
	Load        LoadRequest    `json:"load"`
	Vehicle     VehicleRequest `json:"vehicle"`
}

type PlaceResponse struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type HazardResponse struct {
	ID                  string   `json:"id"`
	Kind                string   `json:"kind"`
	Name                string   `json:"name,omitempty"`
	Description         string   `json:"description,omitempty"`
	Lat                 float64  `json:"lat"`
	Lon                 float64  `json:"lon"`
	ClearanceM          *float64 `json:"clearance_m,omitempty"`
	WeightLimitT        *float64 `json:"weight_limit_t,omitempty"`
	WidthLimitM         *float64 `json:"width_limit_m,omitempty"`
	Severity            string   `json:"severity"`
	RecommendedSpeedKph int      `json:"recommended_speed_kph,omitempty"`
}

type StepResponse struct {
	Instruction     string           `json:"instruction"`
	DistanceMeters  int              `json:"distance_meters"`
	DurationSeconds int              `json:"duration_seconds"`
	Lat             float64          `json:"lat"`
	Lon             float64          `json:"lon"`
	RoadName        string           `json:"road_name,omitempty"`
	Turn            string           `json:"turn"`
	Hazards         []HazardResponse `json:"hazards"`
}

type RouteResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	DistanceMeters  int              `json:"distance_meters"`
	DurationSeconds int              `json:"duration_seconds"`
	Geometry        [][]float64      `json:"geometry"`
	OverallSeverity string           `json:"overall_severity"`
	SafetyScore     int              `json:"safety_score"`
	Summary         string           `json:"summary"`
	Hazards         []HazardResponse `json:"hazards"`
	Steps           []StepResponse   `json:"steps"`
}

type AnalyzeResponse struct {
	Origin      PlaceResponse   `json:"origin"`
	Destination PlaceResponse   `json:"destination"`
	Waypoints   []PlaceResponse `json:"waypoints"`
	Load        LoadRequest     `json:"load"`
	Vehicle     VehicleRequest  `json:"vehicle"`
	Routes      []RouteResponse `json:"routes"`
}
