package domain

// Physical dimensions and weight of the cargo itself.
// Caller-supplied, read-only input to an analysis run.
type LoadEnvelope struct {
	HeightM float64
	WidthM  float64
	LengthM float64
	WeightT float64
}

// Physical envelope of the carrying vehicle. Kept separate from LoadEnvelope
// because the loaded vehicle may be taller and heavier than the raw cargo.
type VehicleEnvelope struct {
	TotalHeightM   float64
	AxleWeightT    float64
	AxleCount      int
	TurningRadiusM float64
	LengthM        float64
}
