package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// Service orchestrates ingestion, cache-first reads, and eviction over the
// sample store and the configured providers.
type Service struct {
	store     Store
	providers []Provider
}

// NewService creates a new Service.
func NewService(store Store, providers []Provider) *Service {
	return &Service{
		store:     store,
		providers: providers,
	}
}

// Ingest normalizes one provider reading into a sample, computes its scores,
// and upserts it. Re-ingesting the same (location, date, hour) replaces the
// stored record's meteorological fields and recomputes its scores while
// preserving the record identity.
func (s *Service) Ingest(r Reading) Sample {
	sample := Sample{
		Location:    r.Location,
		Date:        DateOf(r.Timestamp),
		Kind:        r.Kind,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		WindSpeed:   r.WindSpeed,
		Precip1h:    r.Precip1h,
		Condition:   r.Condition,
	}
	if r.Kind == KindHourly {
		hour := r.Timestamp.UTC().Hour()
		sample.Hour = &hour
	}
	if sample.Condition == "" {
		sample.Condition = ConditionUnknown
	}

	Rescore(&sample)
	return s.store.Upsert(sample)
}

// IngestAll ingests a batch of readings and returns the stored samples.
func (s *Service) IngestAll(readings []Reading) []Sample {
	samples := make([]Sample, 0, len(readings))
	for _, r := range readings {
		samples = append(samples, s.Ingest(r))
	}
	return samples
}

// CurrentWeather fetches, scores, and stores the current observation for a
// location, trying providers in order until one succeeds.
func (s *Service) CurrentWeather(ctx context.Context, loc Location) (Sample, error) {
	if len(s.providers) == 0 {
		return Sample{}, fmt.Errorf("no weather providers configured")
	}

	for _, p := range s.providers {
		r, err := p.FetchCurrent(ctx, loc)
		if err != nil {
			log.Printf("provider %s current fetch failed for %s: %v", p.Name(), loc.Key(), err)
			continue
		}
		return s.Ingest(r), nil
	}
	return Sample{}, fmt.Errorf("no provider returned current weather for %s", loc.Key())
}

// SamplesForRange returns all stored samples for the location in the
// inclusive [from, to] date range, falling back to a live forecast fetch only
// when the store has nothing at all for the range.
//
// Known limitation: any cached row for the range short-circuits the fetch,
// even when some hours are missing. The store is authoritative once it holds
// partial data; staleness is bounded by the eviction sweep.
func (s *Service) SamplesForRange(ctx context.Context, loc Location, from, to time.Time) ([]Sample, error) {
	if cached := s.store.Query(loc, from, to); len(cached) > 0 {
		return cached, nil
	}

	days := int(DateOf(to).Sub(DateOf(from)).Hours()/24) + 1
	if days < 1 {
		return nil, fmt.Errorf("invalid date range %s..%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	if err := s.RefreshForecasts(ctx, loc, days); err != nil {
		return nil, err
	}
	return s.store.Query(loc, from, to), nil
}

// HourlySamples returns the hourly samples for one calendar day keyed by hour
// of day, using the same cache-first policy as SamplesForRange.
func (s *Service) HourlySamples(ctx context.Context, loc Location, date time.Time) (map[int]Sample, error) {
	samples, err := s.SamplesForRange(ctx, loc, date, date)
	if err != nil {
		return nil, err
	}

	byHour := make(map[int]Sample)
	for _, sample := range samples {
		if sample.Hour != nil {
			byHour[*sample.Hour] = sample
		}
	}
	return byHour, nil
}

// RefreshForecasts fetches forecast readings from all forecast-capable
// providers concurrently and ingests every successful batch. Provider
// failures are logged and skipped; partial success is success.
func (s *Service) RefreshForecasts(ctx context.Context, loc Location, days int) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []Reading
	)

	fetched := 0
	for _, p := range s.providers {
		fp, ok := p.(ForecastProvider)
		if !ok {
			continue
		}
		fetched++

		wg.Add(1)
		go func(fp ForecastProvider) {
			defer wg.Done()

			rs, err := fp.FetchForecast(ctx, loc, days)
			if err != nil {
				log.Printf("provider %s forecast failed for %s: %v", fp.Name(), loc.Key(), err)
				return
			}

			mu.Lock()
			readings = append(readings, rs...)
			mu.Unlock()
		}(fp)
	}
	wg.Wait()

	if fetched == 0 {
		return fmt.Errorf("no forecast providers configured")
	}
	if len(readings) == 0 {
		log.Printf("no successful forecast readings for %s", loc.Key())
		return nil
	}

	s.IngestAll(readings)
	return nil
}

// Latest returns the most recently ingested sample for the location.
func (s *Service) Latest(loc Location) (Sample, error) {
	return s.store.Latest(loc)
}

// IsRainyDay reports whether any stored sample for the day carries
// measurable precipitation.
func (s *Service) IsRainyDay(loc Location, date time.Time) bool {
	for _, sample := range s.store.Query(loc, date, date) {
		if sample.IsRaining() {
			return true
		}
	}
	return false
}

// AverageTemperature returns the mean temperature over the day's stored
// samples, ignoring samples with no temperature. The second return is false
// when no sample has a temperature.
func (s *Service) AverageTemperature(loc Location, date time.Time) (float64, bool) {
	var temps []float64
	for _, sample := range s.store.Query(loc, date, date) {
		if sample.Temperature != nil {
			temps = append(temps, *sample.Temperature)
		}
	}
	if len(temps) == 0 {
		return 0, false
	}

	mean, err := stats.Mean(temps)
	if err != nil {
		return 0, false
	}
	return mean, true
}

// EvictOlderThan removes samples ingested before the cutoff and returns the
// number removed. Invoked periodically by the scheduler.
func (s *Service) EvictOlderThan(cutoff time.Time) int {
	return s.store.EvictOlderThan(cutoff)
}
