package weather

import (
	"context"
	"time"
)

// Reading is a single provider's normalized observation or forecast point
// before it is scored and stored as a Sample. Pointer fields follow the same
// nil-means-absent convention as Sample.
type Reading struct {
	ProviderName string
	Location     Location
	Timestamp    time.Time
	Kind         SampleKind

	Temperature *float64
	Humidity    *int
	WindSpeed   *float64
	Precip1h    *float64
	Condition   Condition
}

// Provider abstracts a weather data source (e.g. OpenWeatherMap, Open-Meteo).
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, loc Location) (Reading, error)
}

// ForecastProvider is implemented by providers that can return multi-day
// forecast points in addition to current conditions.
type ForecastProvider interface {
	Provider
	FetchForecast(ctx context.Context, loc Location, days int) ([]Reading, error)
}

// Store is the contract the in-memory sample store (and any future persistent
// store) must satisfy.
type Store interface {
	// Upsert inserts the sample or, when one exists for the same
	// (location, date, hour) key, merges the meteorological fields into the
	// existing record preserving its identity. Scores are recomputed from
	// the stored fields on every write. Returns the stored sample.
	Upsert(sample Sample) Sample

	// Query returns all samples for the location whose date falls in the
	// inclusive [from, to] range, ordered by date then hour ascending.
	Query(loc Location, from, to time.Time) []Sample

	// Latest returns the most recently ingested sample for the location.
	Latest(loc Location) (Sample, error)

	// EvictOlderThan removes samples ingested strictly before cutoff and
	// returns how many were removed.
	EvictOlderThan(cutoff time.Time) int
}
