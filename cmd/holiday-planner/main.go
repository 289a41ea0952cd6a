package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"

	"github.com/holidayist/holiday-planner/internal/advisor"
	httpapi "github.com/holidayist/holiday-planner/internal/api/http"
	"github.com/holidayist/holiday-planner/internal/config"
	"github.com/holidayist/holiday-planner/internal/planner"
	"github.com/holidayist/holiday-planner/internal/scheduler"
	"github.com/holidayist/holiday-planner/internal/store"
	"github.com/holidayist/holiday-planner/internal/weather"
	"github.com/holidayist/holiday-planner/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider and advisor calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(clockwork.NewRealClock())

	// Providers with resilience (backoff + circuit breaker).
	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.GeocoderAPIKey != "" {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient, cfg.GeocoderAPIKey))
	}
	if len(provs) == 0 {
		log.Println("WARN: no provider API keys configured; serving cached data only")
	}

	service := weather.NewService(memStore, provs)

	// Advisory collaborator is optional; without a key the optimizer runs
	// purely on numeric scores.
	var adv planner.Advisor
	if cfg.AdvisorAPIKey != "" {
		adv = advisor.NewChatClient(httpClient, cfg.AdvisorBaseURL, cfg.AdvisorAPIKey, cfg.AdvisorModel)
	}

	optimizer := planner.New(service, adv, planner.Options{
		AcceptScore:    cfg.AcceptScore,
		ApplySlotHints: cfg.AdvisorSlotHints,
	})

	// Scheduler for periodic forecast refresh and the eviction sweep.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, cfg.ForecastDays, cfg.SampleMaxAge, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "holiday-planner",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "holiday-planner",
		})
	})

	httpapi.RegisterRoutes(app, service, optimizer)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
