package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/holidayist/holiday-planner/internal/weather"
)

// ErrNotFound is returned when no data is available for a given location.
var ErrNotFound = errors.New("no weather data for location")

// MemoryStore is a concurrency-safe in-memory sample store. Samples are
// deduplicated by their (location, date, hour) identity key: re-ingesting a
// key merges the new meteorological fields into the existing record in place
// and recomputes its scores, so external references to the record ID stay
// valid.
//
// All mutation happens under the store mutex, which serializes upserts for
// the same key; concurrent readers may observe whichever fields last landed.
type MemoryStore struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	// location key -> sample key -> record
	data map[string]map[string]*weather.Sample
}

// NewMemoryStore creates an empty store. The clock stamps IngestedAt on every
// upsert; tests inject a fake clock to make eviction deterministic.
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		clock: clock,
		data:  make(map[string]map[string]*weather.Sample),
	}
}

// Upsert inserts or merges the sample by identity key and returns the stored
// copy. Scores are recomputed from the stored fields on every write, so the
// record never carries scores stale relative to its own data, regardless of
// what the caller set.
func (s *MemoryStore) Upsert(sample weather.Sample) weather.Sample {
	locKey := sample.Location.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.data[locKey]
	if !ok {
		byKey = make(map[string]*weather.Sample)
		s.data[locKey] = byKey
	}

	key := sample.Key()
	existing, ok := byKey[key]
	if !ok {
		if sample.ID == uuid.Nil {
			sample.ID = uuid.New()
		}
		sample.IngestedAt = s.clock.Now()
		weather.Rescore(&sample)
		stored := sample
		byKey[key] = &stored
		return stored
	}

	existing.Temperature = sample.Temperature
	existing.Humidity = sample.Humidity
	existing.WindSpeed = sample.WindSpeed
	existing.Precip1h = sample.Precip1h
	existing.Condition = sample.Condition
	existing.Kind = sample.Kind
	existing.IngestedAt = s.clock.Now()
	weather.Rescore(existing)
	return *existing
}

// Query returns all samples for the location whose date falls in the
// inclusive [from, to] range, ordered by date then hour ascending (samples
// without an hour sort first within their day). The result contains no
// duplicate keys and is stable across repeated calls absent writes.
func (s *MemoryStore) Query(loc weather.Location, from, to time.Time) []weather.Sample {
	from = weather.DateOf(from)
	to = weather.DateOf(to)

	s.mu.RLock()
	defer s.mu.RUnlock()

	byKey, ok := s.data[loc.Key()]
	if !ok {
		return nil
	}

	var result []weather.Sample
	for _, sample := range byKey {
		if sample.Date.Before(from) || sample.Date.After(to) {
			continue
		}
		result = append(result, *sample)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return hourRank(result[i].Hour) < hourRank(result[j].Hour)
	})
	return result
}

// Latest returns the most recently ingested sample for the location.
func (s *MemoryStore) Latest(loc weather.Location) (weather.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byKey, ok := s.data[loc.Key()]
	if !ok || len(byKey) == 0 {
		return weather.Sample{}, ErrNotFound
	}

	var latest *weather.Sample
	for _, sample := range byKey {
		if latest == nil || sample.IngestedAt.After(latest.IngestedAt) {
			latest = sample
		}
	}
	return *latest, nil
}

// EvictOlderThan removes exactly the samples ingested strictly before cutoff
// and returns the number removed. Intended as a periodic background sweep.
func (s *MemoryStore) EvictOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for locKey, byKey := range s.data {
		for key, sample := range byKey {
			if sample.IngestedAt.Before(cutoff) {
				delete(byKey, key)
				removed++
			}
		}
		if len(byKey) == 0 {
			delete(s.data, locKey)
		}
	}
	return removed
}

// hourRank orders nil hours before concrete ones within a day.
func hourRank(h *int) int {
	if h == nil {
		return -1
	}
	return *h
}
