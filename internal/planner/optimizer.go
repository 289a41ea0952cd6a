package planner

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/holidayist/holiday-planner/internal/weather"
)

// SampleSource supplies the hourly weather samples for one location and day.
// Implemented by the weather service with its cache-first policy.
type SampleSource interface {
	HourlySamples(ctx context.Context, loc weather.Location, date time.Time) (map[int]weather.Sample, error)
}

// Advisor is the optional free-text advisory collaborator. It may annotate
// activities but never decides scheduling; its failure is never fatal.
type Advisor interface {
	Suggest(ctx context.Context, activities []Activity, samples []weather.Sample) (string, error)
}

// Plan supplies the destination and date range the activities belong to.
type Plan struct {
	Destination weather.Location `json:"destination"`
	Start       time.Time        `json:"startDate"`
	End         time.Time        `json:"endDate"`
}

// Options configures the optimizer policy.
type Options struct {
	// Windows are the candidate windows in evaluation order. Defaults to
	// DefaultWindows.
	Windows []Window

	// AcceptScore is the gate a window's mean score must strictly exceed to
	// be applied. Zero means "use the default 50", so an explicit zero gate
	// is not representable; pass a negative gate to accept any window that
	// scored at all. The default keeps an all-missing-data 0 or broadly
	// mediocre conditions from forcing a move.
	AcceptScore float64

	// ApplySlotHints lets advisory free text overwrite a numerically
	// scheduled window when it names an activity alongside a slot keyword.
	// Off by default: text matching must not silently override the score.
	ApplySlotHints bool
}

// Optimizer assigns each activity to the candidate window best matching its
// weather orientation.
type Optimizer struct {
	samples SampleSource
	advisor Advisor // nil disables the advisory pass
	opts    Options
}

// New creates an Optimizer. advisor may be nil.
func New(samples SampleSource, advisor Advisor, opts Options) *Optimizer {
	if len(opts.Windows) == 0 {
		opts.Windows = DefaultWindows()
	}
	if opts.AcceptScore == 0 {
		opts.AcceptScore = 50
	}
	return &Optimizer{
		samples: samples,
		advisor: advisor,
		opts:    opts,
	}
}

// Optimize evaluates every activity against the candidate windows for its
// date and returns the updated activities in their original order.
//
// Dates are independent of each other, so each date's batch runs in its own
// goroutine. An activity dated outside the plan range is a data-integrity
// violation and fails the whole run; absent weather data for a date is not an
// error, those activities simply come back unchanged.
func (o *Optimizer) Optimize(ctx context.Context, plan Plan, activities []Activity) ([]Activity, error) {
	start := weather.DateOf(plan.Start)
	end := weather.DateOf(plan.End)

	byDate := make(map[time.Time][]int)
	for i, a := range activities {
		date := weather.DateOf(a.Date)
		if date.Before(start) || date.After(end) {
			return nil, fmt.Errorf("activity %q dated %s falls outside plan range %s..%s",
				a.Name, date.Format("2006-01-02"), start.Format("2006-01-02"), end.Format("2006-01-02"))
		}
		byDate[date] = append(byDate[date], i)
	}

	out := make([]Activity, len(activities))
	copy(out, activities)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for date, indices := range byDate {
		wg.Add(1)
		go func(date time.Time, indices []int) {
			defer wg.Done()

			batch := make([]Activity, len(indices))
			for j, i := range indices {
				batch[j] = activities[i]
			}
			updated := o.optimizeDay(ctx, plan.Destination, date, batch)

			// Results go back by position, so activities are never
			// collapsed by a shared (or absent) ID.
			mu.Lock()
			for j, i := range indices {
				out[i] = updated[j]
			}
			mu.Unlock()
		}(date, indices)
	}
	wg.Wait()

	return out, nil
}

// optimizeDay schedules one date's activities against that day's hourly
// samples, then runs the advisory annotation pass.
func (o *Optimizer) optimizeDay(ctx context.Context, loc weather.Location, date time.Time, batch []Activity) []Activity {
	updated := make([]Activity, len(batch))
	copy(updated, batch)

	byHour, err := o.samples.HourlySamples(ctx, loc, date)
	if err != nil {
		log.Printf("optimizer: weather lookup failed for %s on %s: %v", loc.Key(), date.Format("2006-01-02"), err)
		return updated
	}
	if len(byHour) == 0 {
		log.Printf("optimizer: no weather data for %s on %s; leaving activities unchanged", loc.Key(), date.Format("2006-01-02"))
		return updated
	}

	for i := range updated {
		o.scheduleActivity(&updated[i], byHour)
	}

	o.annotate(ctx, updated, byHour)
	return updated
}

// scheduleActivity picks the best candidate window for one activity and
// applies it when the score clears the acceptance gate.
func (o *Optimizer) scheduleActivity(a *Activity, byHour map[int]weather.Sample) {
	orientation := Classify(a.Type, a.WeatherDependent)

	// Windows are evaluated in order and only a strictly greater score
	// replaces the current best, so ties go to the earliest window.
	var best *Window
	bestScore := 0.0
	for i := range o.opts.Windows {
		w := o.opts.Windows[i]
		if score := windowScore(w, byHour, orientation); score > bestScore {
			best = &o.opts.Windows[i]
			bestScore = score
		}
	}

	if best == nil || bestScore <= o.opts.AcceptScore {
		return
	}

	a.StartTime = best.startTime()
	a.EndTime = best.endTime()
	a.Slot = best.Slot
	a.Optimized = true
	a.OptimizationReason = fmt.Sprintf("optimized for %s conditions (score: %.1f)", orientation, bestScore)
}

// annotate runs the optional advisory pass. Advisor failure skips the pass
// entirely and keeps the numeric results.
func (o *Optimizer) annotate(ctx context.Context, batch []Activity, byHour map[int]weather.Sample) {
	if o.advisor == nil {
		return
	}

	samples := make([]weather.Sample, 0, len(byHour))
	for _, s := range byHour {
		samples = append(samples, s)
	}
	sort.Slice(samples, func(i, j int) bool {
		return hourOf(samples[i]) < hourOf(samples[j])
	})

	advice, err := o.advisor.Suggest(ctx, batch, samples)
	if err != nil {
		log.Printf("optimizer: advisory call failed, skipping annotation: %v", err)
		return
	}
	if advice == "" {
		return
	}

	applyAdvice(batch, advice, o.opts.ApplySlotHints)
}

func hourOf(s weather.Sample) int {
	if s.Hour == nil {
		return -1
	}
	return *s.Hour
}
