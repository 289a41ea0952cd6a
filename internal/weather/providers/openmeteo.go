package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/holidayist/holiday-planner/internal/weather"
)

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
// Open-Meteo serves true hourly forecast points but addresses locations by
// coordinates, so city/country pairs are resolved through the Google
// geocoding API and cached per location key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	mu     sync.Mutex
	coords map[string]geocoder.Location
}

func NewOpenMeteoProvider(client *http.Client, geocoderAPIKey string) *OpenMeteoProvider {
	geocoder.ApiKey = geocoderAPIKey

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: defaultHTTPConfig(client),
		circuit: defaultBreaker("openmeteo"),
		coords:  make(map[string]geocoder.Location),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchCurrent fetches the current conditions for a location.
func (p *OpenMeteoProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	coords, err := p.resolve(loc)
	if err != nil {
		return weather.Reading{}, err
	}

	body, err := p.get(ctx, coords, url.Values{"current_weather": {"true"}})
	if err != nil {
		return weather.Reading{}, err
	}

	var payload struct {
		CurrentWeather struct {
			Temperature looseFloat `json:"temperature"`
			WindSpeed   looseFloat `json:"windspeed"`
			Time        string     `json:"time"`
			WeatherCode int        `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Reading{}, err
	}

	ts, err := time.Parse("2006-01-02T15:04", payload.CurrentWeather.Time)
	if err != nil {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	return weather.Reading{
		ProviderName: p.name,
		Location:     loc,
		Timestamp:    ts,
		Kind:         weather.KindCurrent,
		Temperature:  payload.CurrentWeather.Temperature.ptr(),
		WindSpeed:    kphToMs(payload.CurrentWeather.WindSpeed.ptr()),
		Condition:    mapOpenMeteoCondition(payload.CurrentWeather.WeatherCode),
	}, nil
}

// FetchForecast fetches hourly forecast points for the requested number of
// days, one reading per hour.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.Reading, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}

	coords, err := p.resolve(loc)
	if err != nil {
		return nil, err
	}

	body, err := p.get(ctx, coords, url.Values{
		"hourly":        {"temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,weather_code"},
		"forecast_days": {fmt.Sprintf("%d", days)},
		"timezone":      {"UTC"},
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Hourly struct {
			Time        []string     `json:"time"`
			Temperature []looseFloat `json:"temperature_2m"`
			Humidity    []looseFloat `json:"relative_humidity_2m"`
			Precip      []looseFloat `json:"precipitation"`
			WindSpeed   []looseFloat `json:"wind_speed_10m"`
			WeatherCode []int        `json:"weather_code"`
		} `json:"hourly"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	hourly := payload.Hourly
	readings := make([]weather.Reading, 0, len(hourly.Time))
	for i, raw := range hourly.Time {
		ts, err := time.Parse("2006-01-02T15:04", raw)
		if err != nil {
			// A point with an unparseable timestamp has no identity key.
			continue
		}

		r := weather.Reading{
			ProviderName: p.name,
			Location:     loc,
			Timestamp:    ts.UTC(),
			Kind:         weather.KindHourly,
		}
		if i < len(hourly.Temperature) {
			r.Temperature = hourly.Temperature[i].ptr()
		}
		if i < len(hourly.Humidity) {
			r.Humidity = hourly.Humidity[i].intPtr()
		}
		if i < len(hourly.Precip) {
			r.Precip1h = hourly.Precip[i].ptr()
		}
		if i < len(hourly.WindSpeed) {
			r.WindSpeed = kphToMs(hourly.WindSpeed[i].ptr())
		}
		if i < len(hourly.WeatherCode) {
			r.Condition = mapOpenMeteoCondition(hourly.WeatherCode[i])
		} else {
			r.Condition = weather.ConditionUnknown
		}
		readings = append(readings, r)
	}
	return readings, nil
}

func (p *OpenMeteoProvider) get(ctx context.Context, coords geocoder.Location, extra url.Values) ([]byte, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coords.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", coords.Longitude))
		for k, vs := range extra {
			for _, v := range vs {
				values.Set(k, v)
			}
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// resolve maps a city/country pair to coordinates, consulting the cache first.
func (p *OpenMeteoProvider) resolve(loc weather.Location) (geocoder.Location, error) {
	p.mu.Lock()
	if coords, ok := p.coords[loc.Key()]; ok {
		p.mu.Unlock()
		return coords, nil
	}
	p.mu.Unlock()

	coords, err := geocoder.Geocoding(geocoder.Address{
		City:    loc.City,
		Country: loc.Country,
	})
	if err != nil {
		return geocoder.Location{}, fmt.Errorf("geocoding %s: %w", loc.Key(), err)
	}

	p.mu.Lock()
	p.coords[loc.Key()] = coords
	p.mu.Unlock()
	return coords, nil
}

func kphToMs(v *float64) *float64 {
	if v == nil {
		return nil
	}
	ms := *v / 3.6
	return &ms
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on Open-Meteo weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code >= 45 && code <= 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case code >= 71 && code <= 77:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
