package api

import (
	"net/http"

	"route-hazard-service/internal/api/handlers"
	"route-hazard-service/internal/ports"
	"route-hazard-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(geocoder ports.Geocoder, provider ports.RouteProvider, analyzer *services.Analyzer) http.Handler {
	mux := http.NewServeMux()

	analysisHandler := &handlers.AnalysisHandler{
		Geocoder: geocoder,
		Provider: provider,
		Analyzer: analyzer,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/analyses", analysisHandler.Analyze)

	return loggingMiddleware(mux)
}
