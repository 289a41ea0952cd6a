package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestComputeScoresMildConditions(t *testing.T) {
	s := ComputeScores(fptr(20), iptr(50), fptr(3), false)

	assert.Equal(t, 100.0, s.Outdoor)
	assert.Equal(t, 100.0, s.Indoor)
	assert.Equal(t, 100.0, s.Comfort)
}

func TestComputeScoresOutdoorPenalties(t *testing.T) {
	tests := []struct {
		name    string
		temp    *float64
		hum     *int
		wind    *float64
		raining bool
		outdoor float64
	}{
		{"extreme cold", fptr(5), iptr(50), fptr(3), false, 70},
		{"extreme heat", fptr(35), iptr(50), fptr(3), false, 70},
		{"mild cold", fptr(12), iptr(50), fptr(3), false, 85},
		{"mild heat", fptr(27), iptr(50), fptr(3), false, 85},
		{"high humidity", fptr(20), iptr(85), fptr(3), false, 80},
		{"moderate humidity", fptr(20), iptr(75), fptr(3), false, 90},
		{"strong wind", fptr(20), iptr(50), fptr(12), false, 85},
		{"moderate wind", fptr(20), iptr(50), fptr(8), false, 95},
		{"rain", fptr(20), iptr(50), fptr(3), true, 60},
		{"stacked penalties", fptr(5), iptr(85), fptr(12), true, 0}, // 100-30-20-15-40 floors at 0
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := ComputeScores(tc.temp, tc.hum, tc.wind, tc.raining)
			assert.Equal(t, tc.outdoor, s.Outdoor)
			assert.GreaterOrEqual(t, s.Outdoor, 0.0)
			assert.LessOrEqual(t, s.Outdoor, 100.0)
		})
	}
}

func TestComputeScoresOutdoorMonotoneInHumidity(t *testing.T) {
	prev := 101.0
	for _, h := range []int{50, 71, 81, 95} {
		s := ComputeScores(fptr(20), iptr(h), fptr(3), false)
		assert.LessOrEqual(t, s.Outdoor, prev, "humidity %d", h)
		prev = s.Outdoor
	}
}

func TestComputeScoresIndoorBoostsAreCapped(t *testing.T) {
	// Heat and humidity both boost, but the stored score never exceeds 100.
	s := ComputeScores(fptr(35), iptr(80), fptr(3), false)
	assert.Equal(t, 100.0, s.Indoor)

	// Rain, cold, and heat are a disjunction: cold rain boosts once, +20.
	cold := ComputeScores(fptr(5), iptr(50), fptr(3), true)
	assert.Equal(t, 100.0, cold.Indoor)
}

func TestComputeScoresComfortIsMeanOfStoredScores(t *testing.T) {
	s := ComputeScores(fptr(35), iptr(85), fptr(3), false)
	assert.Equal(t, (s.Outdoor+s.Indoor)/2, s.Comfort)
}

func TestComputeScoresMissingFields(t *testing.T) {
	// A sample with humidity absent still yields a well-defined outdoor
	// score: the humidity branch never triggers.
	s := ComputeScores(fptr(20), nil, fptr(3), false)
	assert.Equal(t, 100.0, s.Outdoor)

	// Fully empty sample: no penalty branch fires at all.
	empty := ComputeScores(nil, nil, nil, false)
	assert.Equal(t, 100.0, empty.Outdoor)
	assert.Equal(t, 100.0, empty.Indoor)
	assert.Equal(t, 100.0, empty.Comfort)
}

func TestRescoreFollowsFieldChanges(t *testing.T) {
	sample := Sample{Temperature: fptr(20), Humidity: iptr(50), WindSpeed: fptr(3)}
	Rescore(&sample)
	assert.Equal(t, 100.0, sample.Scores.Outdoor)

	sample.Temperature = fptr(35)
	sample.Precip1h = fptr(1.2)
	Rescore(&sample)
	assert.Equal(t, 30.0, sample.Scores.Outdoor) // -30 heat, -40 rain
	assert.Equal(t, 100.0, sample.Scores.Indoor)
}
