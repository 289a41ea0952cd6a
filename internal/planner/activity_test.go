package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holidayist/holiday-planner/internal/weather"
)

func bptr(v bool) *bool { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		typ  ActivityType
		flag *bool
		want Orientation
	}{
		{"outdoor type", TypeOutdoorActivity, nil, OrientationOutdoor},
		{"sightseeing is outdoor", TypeSightseeing, nil, OrientationOutdoor},
		{"city tour is outdoor", TypeCityTour, nil, OrientationOutdoor},
		{"museum is indoor", TypeMuseum, nil, OrientationIndoor},
		{"nightlife is indoor", TypeNightlife, nil, OrientationIndoor},
		{"unambiguous type beats flag", TypeMuseum, bptr(true), OrientationIndoor},
		{"flag resolves ambiguous type to outdoor", TypeOther, bptr(true), OrientationOutdoor},
		{"flag resolves ambiguous type to indoor", TypeRelaxation, bptr(false), OrientationIndoor},
		{"no type match and no flag is neutral", TypeTransportation, nil, OrientationNeutral},
		{"unknown type is neutral", ActivityType("juggling"), nil, OrientationNeutral},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.typ, tc.flag))
		})
	}
}

func TestOrientationScoreSelection(t *testing.T) {
	sample := weather.Sample{Scores: weather.Scores{Outdoor: 80, Indoor: 60}}

	assert.Equal(t, 80.0, OrientationOutdoor.scoreFor(sample))
	assert.Equal(t, 60.0, OrientationIndoor.scoreFor(sample))
	// Neutral scores with the indoor curve.
	assert.Equal(t, 60.0, OrientationNeutral.scoreFor(sample))
}
