package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/holidayist/holiday-planner/internal/weather"
)

// forecastPointsPerDay is the OpenWeather forecast granularity: 8 points per
// day at 3-hour intervals.
const forecastPointsPerDay = 8

// OpenWeatherProvider implements weather.ForecastProvider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name        string
	apiKey      string
	baseURL     string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:        "openweathermap",
		apiKey:      apiKey,
		baseURL:     "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg:     defaultHTTPConfig(client),
		circuit:     defaultBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchCurrent fetches and normalizes the current observation for a location.
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	body, err := p.get(ctx, p.baseURL, loc, 0)
	if err != nil {
		return weather.Reading{}, err
	}
	return ParseCurrentPayload(loc, body)
}

// FetchForecast fetches the 3-hourly forecast for up to 5 days (the free-tier
// limit) and normalizes each point onto its hour of day.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.Reading, error) {
	if days > 5 {
		days = 5
	}
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}

	body, err := p.get(ctx, p.forecastURL, loc, days*forecastPointsPerDay)
	if err != nil {
		return nil, err
	}
	return ParseForecastPayload(loc, body)
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint string, loc weather.Location, cnt int) ([]byte, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		if cnt > 0 {
			values.Set("cnt", fmt.Sprintf("%d", cnt))
		}

		q := loc.City
		if loc.Country != "" {
			q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
		}
		values.Set("q", q)

		u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// owPoint is the shared shape of one OpenWeather data point. Numeric fields
// use looseFloat so a malformed value drops that field instead of rejecting
// the sample.
type owPoint struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     looseFloat `json:"temp"`
		Humidity looseFloat `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed looseFloat `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneH   looseFloat `json:"1h"`
		ThreeH looseFloat `json:"3h"`
	} `json:"rain"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

// ParseCurrentPayload normalizes a raw OpenWeather current-weather payload
// into a reading with a nil hour.
func ParseCurrentPayload(loc weather.Location, raw []byte) (weather.Reading, error) {
	var payload owPoint
	if err := json.Unmarshal(raw, &payload); err != nil {
		return weather.Reading{}, err
	}

	r := readingFromPoint(loc, payload)
	r.Kind = weather.KindCurrent
	return r, nil
}

// ParseForecastPayload normalizes a raw OpenWeather multi-point forecast
// payload into hourly readings.
func ParseForecastPayload(loc weather.Location, raw []byte) ([]weather.Reading, error) {
	var payload struct {
		List []owPoint `json:"list"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	readings := make([]weather.Reading, 0, len(payload.List))
	for _, point := range payload.List {
		r := readingFromPoint(loc, point)
		r.Kind = weather.KindHourly
		readings = append(readings, r)
	}
	return readings, nil
}

func readingFromPoint(loc weather.Location, point owPoint) weather.Reading {
	ts := time.Unix(point.Dt, 0).UTC()
	if point.Dt == 0 {
		ts = time.Now().UTC()
	}

	// Forecast points report trailing 3h precipitation; fall back to it when
	// the 1h depth is absent, as current-weather payloads prefer 1h.
	precip := point.Rain.OneH.ptr()
	if precip == nil {
		precip = point.Rain.ThreeH.ptr()
	}

	return weather.Reading{
		ProviderName: "openweathermap",
		Location:     loc,
		Timestamp:    ts,
		Temperature:  point.Main.Temp.ptr(),
		Humidity:     point.Main.Humidity.intPtr(),
		WindSpeed:    point.Wind.Speed.ptr(),
		Precip1h:     precip,
		Condition:    mapOpenWeatherCondition(point.Weather),
	}
}

func mapOpenWeatherCondition(items []struct {
	Main string `json:"main"`
}) weather.Condition {
	if len(items) == 0 {
		return weather.ConditionUnknown
	}
	switch items[0].Main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
