package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"route-hazard-service/internal/adapters/cache"
	"route-hazard-service/internal/adapters/geocode"
	"route-hazard-service/internal/adapters/hazards"
	"route-hazard-service/internal/adapters/routing"
	"route-hazard-service/internal/api"
	"route-hazard-service/internal/platform/db"
	"route-hazard-service/internal/ports"
	"route-hazard-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Nominatim, Google/OSRM, Overpass, Postgres,
// Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")
	osrmBase := getEnv("OSRM_BASE_URL", "")
	overpassBase := getEnv("OVERPASS_BASE_URL", "")
	nominatimBase := getEnv("NOMINATIM_BASE_URL", "")

	var geocoder ports.Geocoder = geocode.NewNominatim(nominatimBase)

	// A Postgres geocode cache is optional; without it every lookup goes to
	// Nominatim, which is fine for local runs.
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		geocoder = geocode.NewCachedGeocoder(geocoder, cache.NewSQLGeocodeCache(pg))
		log.Println("Geocode cache enabled (postgres)")
	}

	// Google is the primary provider when a key is configured; the public
	// OSRM instance is always in the chain as a fallback.
	providers := make([]ports.RouteProvider, 0, 2)
	if apiKey := strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")); apiKey != "" {
		google, err := routing.NewGoogleProvider(apiKey)
		if err != nil {
			log.Fatal(err)
		}
		providers = append(providers, google)
		log.Println("Route provider enabled (google)")
	}
	providers = append(providers, routing.NewOSRMProvider(osrmBase))
	chain := routing.NewChain(providers...)

	var source ports.HazardSource = hazards.NewOverpassSource(overpassBase)
	if redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		featureCache := cache.NewRedisFeatureCache(client, 6*time.Hour)
		source = hazards.NewCachedSource(source, featureCache)
		log.Println("Feature cache enabled (redis)")
	}

	analyzer := services.NewAnalyzer(source, services.DefaultThresholds(), services.DefaultAnalyzerConfig())
	router := api.NewRouter(geocoder, chain, analyzer)

	// Timeouts are tuned for cold-cache analysis (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
