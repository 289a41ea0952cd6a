package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/holidayist/holiday-planner/internal/weather"
)

// ActivityType is the activity taxonomy used for orientation classification.
type ActivityType string

const (
	TypeSightseeing      ActivityType = "sightseeing"
	TypeMuseum           ActivityType = "museum"
	TypeRestaurant       ActivityType = "restaurant"
	TypeShopping         ActivityType = "shopping"
	TypeOutdoorActivity  ActivityType = "outdoor_activity"
	TypeEntertainment    ActivityType = "entertainment"
	TypeTransportation   ActivityType = "transportation"
	TypeAccommodation    ActivityType = "accommodation"
	TypeCultural         ActivityType = "cultural"
	TypeSports           ActivityType = "sports"
	TypeRelaxation       ActivityType = "relaxation"
	TypeAdventure        ActivityType = "adventure"
	TypeNightlife        ActivityType = "nightlife"
	TypeHistorical       ActivityType = "historical"
	TypeReligious        ActivityType = "religious"
	TypeNature           ActivityType = "nature"
	TypeFoodExperience   ActivityType = "food_experience"
	TypeWaterActivity    ActivityType = "water_activity"
	TypeMountainActivity ActivityType = "mountain_activity"
	TypeCityTour         ActivityType = "city_tour"
	TypeOther            ActivityType = "other"
)

// Slot labels a scheduled portion of the day.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
	SlotNight     Slot = "night"
	SlotFullDay   Slot = "full_day"
)

// Orientation classifies how an activity relates to weather: it drives which
// suitability score (outdoor or indoor) is used when scoring time windows.
type Orientation string

const (
	OrientationOutdoor Orientation = "outdoor"
	OrientationIndoor  Orientation = "indoor"

	// OrientationNeutral covers types that are neither clearly outdoor nor
	// indoor and have no weather-dependence flag. Neutral activities are
	// scored with the indoor curve, since an unclassified activity should
	// not be dragged outside by good weather.
	OrientationNeutral Orientation = "neutral"
)

// Activity is the scheduling view of one planned task. StartTime/EndTime use
// "HH:MM"; empty means unscheduled. The optimizer mutates only the scheduling
// outputs (times, slot, Optimized, OptimizationReason, Notes).
type Activity struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description,omitempty"`
	Date             time.Time    `json:"date"`
	Type             ActivityType `json:"type"`
	Location         string       `json:"location,omitempty"`
	WeatherDependent *bool        `json:"weatherDependent,omitempty"`

	StartTime          string `json:"startTime,omitempty"`
	EndTime            string `json:"endTime,omitempty"`
	Slot               Slot   `json:"timeSlot,omitempty"`
	Optimized          bool   `json:"optimized"`
	OptimizationReason string `json:"optimizationReason,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

var outdoorTypes = map[ActivityType]bool{
	TypeSightseeing:      true,
	TypeOutdoorActivity:  true,
	TypeNature:           true,
	TypeSports:           true,
	TypeAdventure:        true,
	TypeWaterActivity:    true,
	TypeMountainActivity: true,
	TypeCityTour:         true,
}

var indoorTypes = map[ActivityType]bool{
	TypeMuseum:        true,
	TypeShopping:      true,
	TypeRestaurant:    true,
	TypeEntertainment: true,
	TypeCultural:      true,
	TypeNightlife:     true,
}

// Classify derives an activity's orientation from its type and its explicit
// weather-dependence flag. Unambiguous types win; the flag only decides types
// outside both lists, and with neither a known type nor a flag the activity
// is neutral.
func Classify(t ActivityType, weatherDependent *bool) Orientation {
	switch {
	case outdoorTypes[t]:
		return OrientationOutdoor
	case indoorTypes[t]:
		return OrientationIndoor
	case weatherDependent != nil && *weatherDependent:
		return OrientationOutdoor
	case weatherDependent != nil:
		return OrientationIndoor
	default:
		return OrientationNeutral
	}
}

// scoreFor selects the orientation-appropriate suitability score from a
// sample. Neutral uses the indoor curve.
func (o Orientation) scoreFor(s weather.Sample) float64 {
	if o == OrientationOutdoor {
		return s.Scores.Outdoor
	}
	return s.Scores.Indoor
}
