package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/holidayist/holiday-planner/internal/weather"
)

// Scheduler periodically refreshes forecasts for configured locations and
// sweeps stale samples out of the store.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	service      *weather.Service
	locations    []weather.Location
	interval     time.Duration
	forecastDays int
	maxAge       time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, forecastDays int, maxAge time.Duration, service *weather.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:    s,
		service:      service,
		locations:    locations,
		interval:     interval,
		forecastDays: forecastDays,
		maxAge:       maxAge,
	}
}

// Start schedules the periodic jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	if len(s.locations) > 0 {
		_, err := s.scheduler.Every(minutes).Minutes().Do(s.refreshAll)
		if err != nil {
			return err
		}
	} else {
		log.Println("scheduler: no locations configured; skipping forecast refresh job")
	}

	// Daily sweep of samples past the retention window.
	if s.maxAge > 0 {
		_, err := s.scheduler.Every(1).Day().At("03:00").Do(func() {
			cutoff := time.Now().UTC().Add(-s.maxAge)
			removed := s.service.EvictOlderThan(cutoff)
			log.Printf("scheduler: evicted %d weather samples older than %s", removed, cutoff.Format(time.RFC3339))
		})
		if err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) refreshAll() {
	log.Println("scheduler: running forecast refresh job")

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.service.RefreshForecasts(ctx, loc, s.forecastDays); err != nil {
				log.Printf("scheduler: forecast refresh failed for %s: %v", loc.Key(), err)
			}
		}()
	}
	wg.Wait()
	log.Println("scheduler: completed forecast refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
