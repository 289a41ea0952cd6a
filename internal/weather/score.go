package weather

import "math"

// ComputeScores derives the outdoor, indoor, and comfort suitability scores
// from one sample's meteorological fields.
//
// The outdoor score starts at 100 and each adverse factor subtracts its
// penalty independently; the result is floored at 0. The indoor score starts
// at 100 and is boosted when outdoor conditions are poor, capped at 100.
// Comfort is the mean of the two stored values.
//
// Absent fields (nil pointers) never trigger their branch, so a sample with
// missing humidity still yields a well-defined score.
func ComputeScores(temp *float64, humidity *int, windSpeed *float64, raining bool) Scores {
	outdoor := 100.0

	if temp != nil {
		switch t := *temp; {
		case t < 10 || t > 30:
			outdoor -= 30
		case t < 15 || t > 25:
			outdoor -= 15
		}
	}

	if humidity != nil {
		switch h := *humidity; {
		case h > 80:
			outdoor -= 20
		case h > 70:
			outdoor -= 10
		}
	}

	if windSpeed != nil {
		switch w := *windSpeed; {
		case w > 10:
			outdoor -= 15
		case w > 7:
			outdoor -= 5
		}
	}

	if raining {
		outdoor -= 40
	}

	outdoor = math.Max(0, outdoor)

	// Indoor activities gain appeal when it is too hot, too cold, or wet
	// outside. The three conditions are a disjunction, not summed.
	indoor := 100.0
	if raining || (temp != nil && (*temp > 30 || *temp < 15)) {
		indoor += 20
	}
	if humidity != nil && *humidity > 70 {
		indoor += 10
	}
	indoor = math.Min(100, indoor)

	return Scores{
		Outdoor: outdoor,
		Indoor:  indoor,
		Comfort: (outdoor + indoor) / 2,
	}
}

// Rescore recomputes and stores the sample's derived scores from its current
// meteorological fields. Must be called whenever those fields change so the
// scores are never stale relative to the data they derive from.
func Rescore(s *Sample) {
	s.Scores = ComputeScores(s.Temperature, s.Humidity, s.WindSpeed, s.IsRaining())
}
