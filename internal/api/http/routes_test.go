package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/holidayist/holiday-planner/internal/planner"
	"github.com/holidayist/holiday-planner/internal/store"
	"github.com/holidayist/holiday-planner/internal/weather"
)

func newTestApp() *fiber.App {
	app := fiber.New()

	memStore := store.NewMemoryStore(nil)
	svc := weather.NewService(memStore, nil)
	opt := planner.New(svc, nil, planner.Options{})
	RegisterRoutes(app, svc, opt)
	return app
}

// TestCurrentWeatherValidation verifies that the current-weather endpoint
// rejects requests missing the location parameters.
func TestCurrentWeatherValidation(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?country=IT", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

// TestRangeValidation verifies the range endpoint's parameter handling.
func TestRangeValidation(t *testing.T) {
	app := newTestApp()

	// Missing from/to should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/range?city=Rome&country=IT", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Unparseable date should return 400.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/range?city=Rome&country=IT&from=yesterday&to=2024-06-07", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// to before from should return 400.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/range?city=Rome&country=IT&from=2024-06-07&to=2024-06-01", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

// TestOptimizeValidation covers the optimize endpoint's request validation.
func TestOptimizeValidation(t *testing.T) {
	app := newTestApp()

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/optimize", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return resp
	}

	// Malformed JSON should return 400.
	resp := post(`{"destination":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Empty activities list should return 400.
	resp = post(`{
		"destination": {"city": "Rome", "country": "IT"},
		"startDate": "2024-06-01",
		"endDate": "2024-06-07",
		"activities": []
	}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// An activity dated outside the plan range should return 422.
	resp = post(`{
		"destination": {"city": "Rome", "country": "IT"},
		"startDate": "2024-06-01",
		"endDate": "2024-06-07",
		"activities": [
			{"name": "Day trip", "date": "2024-07-15", "type": "sightseeing"}
		]
	}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
	}
}

// TestOptimizeWithoutWeatherData verifies that a valid plan succeeds even when
// no weather data is available; the activities come back unscheduled.
func TestOptimizeWithoutWeatherData(t *testing.T) {
	app := newTestApp()

	body := `{
		"destination": {"city": "Rome", "country": "IT"},
		"startDate": "2024-06-01",
		"endDate": "2024-06-07",
		"activities": [
			{"name": "Colosseum walk", "date": "2024-06-03", "type": "sightseeing"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/optimize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Activities []planner.Activity `json:"activities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(payload.Activities))
	}
	if payload.Activities[0].Optimized {
		t.Fatalf("expected activity to remain unoptimized without weather data")
	}
}
