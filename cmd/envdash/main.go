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

	httpapi "weather-dashboard/internal/api/http"
	"weather-dashboard/internal/config"
	"weather-dashboard/internal/dashboard"
	"weather-dashboard/internal/scheduler"
	"weather-dashboard/internal/store"
	"weather-dashboard/internal/weather"
	"weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Core service over the Open-Meteo sampler and geocoder.
	sampler := providers.NewOpenMeteoSampler(httpClient)
	geocoder := providers.NewGeocoder(httpClient)
	service := weather.NewService(memStore, sampler, geocoder)

	// Register configured cities up front; a city that cannot be geocoded is
	// skipped, not fatal.
	registerCtx, cancelRegister := context.WithTimeout(context.Background(), 30*time.Second)
	for _, name := range cfg.Cities {
		if _, err := service.AddCity(registerCtx, name, 0, 0); err != nil {
			log.Printf("startup: skipping city %s: %v", name, err)
		}
	}
	cancelRegister()

	// Scheduler that periodically collects readings.
	sched := scheduler.New(cfg.CollectInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "envdash",
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "envdash",
		})
	})

	// Poller sink shared between the poll loop and the tile fragment route.
	sink := dashboard.NewTemplateSink()

	// API and page routes.
	httpapi.RegisterRoutes(app, service, sink, httpapi.Options{
		DefaultMetric:  cfg.DefaultMetric,
		DataFreshness:  cfg.DataFreshness,
		RefreshSeconds: int(cfg.RefreshInterval.Seconds()),
	})

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Live tile poller against this service's own live endpoint unless an
	// external one is configured.
	endpoint := cfg.LiveEndpoint
	if endpoint == "" {
		endpoint = "http://localhost:" + cfg.Port + "/api/live"
	}
	liveClient := dashboard.NewHTTPLiveClient(httpClient, endpoint)
	poller := dashboard.NewPoller(liveClient, sink, cfg.RefreshInterval, cfg.PollTimeout)
	stopPoller := poller.Start(context.Background())
	defer stopPoller()

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
