package planner

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/holidayist/holiday-planner/internal/weather"
)

// Window is one candidate scheduling range within a day, covering hours
// [StartHour, EndHour).
type Window struct {
	Slot      Slot
	StartHour int
	EndHour   int
}

func (w Window) startTime() string { return fmt.Sprintf("%02d:00", w.StartHour) }
func (w Window) endTime() string   { return fmt.Sprintf("%02d:00", w.EndHour) }

// DefaultWindows returns the reference candidate windows in evaluation order.
// The optimizer takes the windows as configuration so alternate policies are
// testable by substitution; this is merely the default.
func DefaultWindows() []Window {
	return []Window{
		{Slot: SlotMorning, StartHour: 8, EndHour: 12},
		{Slot: SlotAfternoon, StartHour: 12, EndHour: 17},
		{Slot: SlotEvening, StartHour: 17, EndHour: 20},
	}
}

// windowScore averages the orientation-appropriate score over every hour of
// the window that has a sample. Hours with no sample are skipped, not treated
// as zero; a window with no data at all scores 0 and can never be selected.
func windowScore(w Window, byHour map[int]weather.Sample, o Orientation) float64 {
	var values []float64
	for hour := w.StartHour; hour < w.EndHour; hour++ {
		if sample, ok := byHour[hour]; ok {
			values = append(values, o.scoreFor(sample))
		}
	}
	if len(values) == 0 {
		return 0
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}
