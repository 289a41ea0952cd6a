package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holidayist/holiday-planner/internal/weather"
)

var rome = weather.Location{City: "Rome", Country: "IT"}

func hourlySample(loc weather.Location, date string, hour int, temp float64) weather.Sample {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	s := weather.Sample{
		Location:    loc,
		Date:        d.UTC(),
		Hour:        &hour,
		Kind:        weather.KindHourly,
		Temperature: &temp,
	}
	weather.Rescore(&s)
	return s
}

func TestUpsertInsertsAndAssignsIdentity(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)

	stored := s.Upsert(hourlySample(rome, "2024-06-01", 14, 22))

	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.Equal(t, clock.Now(), stored.IngestedAt)
}

func TestUpsertMergesByKeyPreservingIdentity(t *testing.T) {
	s := NewMemoryStore(clockwork.NewFakeClock())

	first := s.Upsert(hourlySample(rome, "2024-06-01", 14, 20))
	second := s.Upsert(hourlySample(rome, "2024-06-01", 14, 35))

	// Same record, new fields, recomputed scores.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 35.0, *second.Temperature)
	assert.Equal(t, 70.0, second.Scores.Outdoor)

	samples := s.Query(rome, day("2024-06-01"), day("2024-06-01"))
	require.Len(t, samples, 1)
	assert.Equal(t, 35.0, *samples[0].Temperature)
}

func TestUpsertRecomputesStaleScores(t *testing.T) {
	s := NewMemoryStore(clockwork.NewFakeClock())

	// Scores set by the caller are not trusted; the store re-derives them
	// from the fields it actually holds.
	sample := hourlySample(rome, "2024-06-01", 14, 22)
	sample.Scores = weather.Scores{Outdoor: 1, Indoor: 2, Comfort: 3}

	stored := s.Upsert(sample)
	assert.Equal(t, 100.0, stored.Scores.Outdoor)
	assert.Equal(t, 100.0, stored.Scores.Indoor)
	assert.Equal(t, 100.0, stored.Scores.Comfort)

	merged := s.Upsert(sample)
	assert.Equal(t, stored.ID, merged.ID)
	assert.Equal(t, stored.Scores, merged.Scores)
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := NewMemoryStore(clockwork.NewFakeClock())

	sample := hourlySample(rome, "2024-06-01", 9, 22)
	first := s.Upsert(sample)
	second := s.Upsert(sample)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.Temperature, second.Temperature)
	assert.Len(t, s.Query(rome, day("2024-06-01"), day("2024-06-01")), 1)
}

func TestQueryOrdersByDateThenHour(t *testing.T) {
	s := NewMemoryStore(clockwork.NewFakeClock())

	s.Upsert(hourlySample(rome, "2024-06-02", 9, 20))
	s.Upsert(hourlySample(rome, "2024-06-01", 17, 21))
	s.Upsert(hourlySample(rome, "2024-06-01", 8, 19))

	current := hourlySample(rome, "2024-06-01", 0, 18)
	current.Hour = nil
	current.Kind = weather.KindCurrent
	s.Upsert(current)

	samples := s.Query(rome, day("2024-06-01"), day("2024-06-02"))
	require.Len(t, samples, 4)

	assert.Nil(t, samples[0].Hour) // nil hour sorts first within its day
	assert.Equal(t, 8, *samples[1].Hour)
	assert.Equal(t, 17, *samples[2].Hour)
	assert.Equal(t, day("2024-06-02"), samples[3].Date)

	// No duplicate identity keys.
	seen := make(map[string]bool)
	for _, sample := range samples {
		assert.False(t, seen[sample.Key()], "duplicate key %s", sample.Key())
		seen[sample.Key()] = true
	}

	// Restartable: an identical second call returns identical results.
	assert.Equal(t, samples, s.Query(rome, day("2024-06-01"), day("2024-06-02")))
}

func TestQueryScopesByLocationAndRange(t *testing.T) {
	s := NewMemoryStore(clockwork.NewFakeClock())

	s.Upsert(hourlySample(rome, "2024-06-01", 10, 20))
	s.Upsert(hourlySample(weather.Location{City: "Paris", Country: "FR"}, "2024-06-01", 10, 20))
	s.Upsert(hourlySample(rome, "2024-06-05", 10, 20))

	samples := s.Query(rome, day("2024-06-01"), day("2024-06-02"))
	require.Len(t, samples, 1)
	assert.Equal(t, rome, samples[0].Location)
}

func TestEvictOlderThanBoundary(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)

	s.Upsert(hourlySample(rome, "2024-06-01", 8, 20))
	clock.Advance(time.Hour)
	cutoff := clock.Now()
	s.Upsert(hourlySample(rome, "2024-06-01", 9, 20))

	// Removes exactly the sample ingested strictly before the cutoff; the
	// one ingested at the cutoff instant survives.
	removed := s.EvictOlderThan(cutoff)
	assert.Equal(t, 1, removed)

	samples := s.Query(rome, day("2024-06-01"), day("2024-06-01"))
	require.Len(t, samples, 1)
	assert.Equal(t, 9, *samples[0].Hour)

	assert.Equal(t, 0, s.EvictOlderThan(cutoff))
}

func TestLatest(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)

	_, err := s.Latest(rome)
	assert.ErrorIs(t, err, ErrNotFound)

	s.Upsert(hourlySample(rome, "2024-06-01", 8, 20))
	clock.Advance(time.Minute)
	s.Upsert(hourlySample(rome, "2024-06-01", 9, 25))

	latest, err := s.Latest(rome)
	require.NoError(t, err)
	assert.Equal(t, 9, *latest.Hour)
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}
