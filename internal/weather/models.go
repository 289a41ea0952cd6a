package weather

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// SampleKind distinguishes current observations from forecast points.
type SampleKind string

const (
	KindCurrent SampleKind = "current"
	KindHourly  SampleKind = "hourly"
	KindDaily   SampleKind = "daily"
)

// Location represents a logical place for which we track weather.
// City/Country matching is case-sensitive and exact.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return l.City + ":" + l.Country
}

// Scores holds the derived suitability scores for one sample.
// Outdoor and Comfort are in [0,100]; Indoor is capped at 100 after boosts.
type Scores struct {
	Outdoor float64 `json:"outdoor"`
	Indoor  float64 `json:"indoor"`
	Comfort float64 `json:"comfort"`
}

// Sample is one normalized weather observation or forecast point for a
// location, a calendar day, and (for hourly data) an hour of day in [0,23].
// Current and daily samples carry a nil Hour.
//
// Meteorological fields are pointers: nil means the provider reported no
// value, which is distinct from zero.
type Sample struct {
	ID       uuid.UUID  `json:"id"`
	Location Location   `json:"location"`
	Date     time.Time  `json:"date"` // UTC midnight of the calendar day
	Hour     *int       `json:"hour,omitempty"`
	Kind     SampleKind `json:"kind"`

	Temperature *float64  `json:"temperatureC,omitempty"`
	Humidity    *int      `json:"humidityPercent,omitempty"`
	WindSpeed   *float64  `json:"windSpeedMs,omitempty"`
	Precip1h    *float64  `json:"precip1hMm,omitempty"`
	Condition   Condition `json:"condition"`

	Scores Scores `json:"scores"`

	// IngestedAt is set by the store on every upsert and drives eviction.
	IngestedAt time.Time `json:"ingestedAt"`
}

// Key returns the identity key (location, date, hour). At most one sample is
// current per key; re-ingestion replaces the stored sample's fields in place.
func (s Sample) Key() string {
	hour := "-"
	if s.Hour != nil {
		hour = fmt.Sprintf("%02d", *s.Hour)
	}
	return s.Location.Key() + "|" + s.Date.Format("2006-01-02") + "|" + hour
}

// IsRaining reports whether the sample carries measurable precipitation.
// Absent precipitation data counts as not raining.
func (s Sample) IsRaining() bool {
	return s.Precip1h != nil && *s.Precip1h > 0
}

// DateOf truncates a timestamp to UTC midnight of its calendar day.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
