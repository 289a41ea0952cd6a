package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/holidayist/holiday-planner/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	GeocoderAPIKey    string

	// Advisor settings; the advisory pass is disabled when the key is empty.
	AdvisorAPIKey    string
	AdvisorBaseURL   string
	AdvisorModel     string
	AdvisorSlotHints bool

	// FetchInterval controls how often forecasts are refreshed for each
	// tracked location.
	FetchInterval time.Duration
	ForecastDays  int

	// Locations to track.
	Locations []weather.Location

	// SampleMaxAge drives the daily eviction sweep.
	SampleMaxAge time.Duration

	// AcceptScore is the optimizer's acceptance gate.
	AcceptScore float64

	HTTPTimeout time.Duration
	Port        string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	cfg.AdvisorAPIKey = os.Getenv("ADVISOR_API_KEY")
	cfg.AdvisorBaseURL = getenvDefault("ADVISOR_BASE_URL", "https://api.openai.com/v1")
	cfg.AdvisorModel = getenvDefault("ADVISOR_MODEL", "gpt-4o-mini")
	cfg.AdvisorSlotHints = getenvBool("ADVISOR_APPLY_SLOT_HINTS", false)

	interval, err := time.ParseDuration(getenvDefault("FETCH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 5)

	// Samples older than this are swept daily; the default keeps one week.
	maxAge, err := time.ParseDuration(getenvDefault("SAMPLE_MAX_AGE", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SAMPLE_MAX_AGE: %w", err)
	}
	cfg.SampleMaxAge = maxAge

	cfg.AcceptScore = getenvFloat("OPTIMIZER_ACCEPT_SCORE", 50)

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	locs, err := loadLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

func loadLocations() ([]weather.Location, error) {
	city := os.Getenv("WEATHER_LOCATION_CITY")
	country := os.Getenv("WEATHER_LOCATION_COUNTRY")
	if city == "" && country == "" {
		return nil, nil
	}

	cities := strings.Split(city, ",")
	countries := strings.Split(country, ",")
	if len(cities) != len(countries) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}

	var locs []weather.Location
	for i := range cities {
		locs = append(locs, weather.Location{
			City:    strings.TrimSpace(cities[i]),
			Country: strings.TrimSpace(countries[i]),
		})
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
