package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"weather-dashboard/internal/weather"
)

type AppConfig struct {
	// DefaultMetric selects the initial chart series field on the data page.
	DefaultMetric weather.Metric

	// RefreshInterval sets the spacing between live tile poll cycles,
	// measured from the end of the previous cycle.
	RefreshInterval time.Duration

	// PollTimeout bounds each poll cycle's fetch.
	PollTimeout time.Duration

	// LiveEndpoint is the URL the tile poller fetches. Empty means the
	// service's own /api/live on the configured port.
	LiveEndpoint string

	// CollectInterval controls how often the background collector samples
	// the upstream source for every city.
	CollectInterval time.Duration

	// DataFreshness is how old a stored reading may be before /api/live
	// re-samples the city on demand.
	DataFreshness time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of readings per city (0 = unlimited)
	StoreMaxAge     time.Duration // max age of readings (0 = unlimited)

	// Cities to register at startup (geocoded by name).
	Cities []string

	// HTTPTimeout applies to the shared outbound HTTP client.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	metric := weather.Metric(getenvDefault("DEFAULT_METRIC", string(weather.MetricTemperature)))
	if !metric.Valid() {
		return nil, fmt.Errorf("invalid DEFAULT_METRIC: %q", metric)
	}
	cfg.DefaultMetric = metric

	refreshSeconds := getenvInt("REFRESH_SECONDS", 60)
	if refreshSeconds <= 0 {
		return nil, fmt.Errorf("REFRESH_SECONDS must be positive, got %d", refreshSeconds)
	}
	cfg.RefreshInterval = time.Duration(refreshSeconds) * time.Second

	pollTimeout, err := parseDuration("POLL_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.PollTimeout = pollTimeout

	cfg.LiveEndpoint = os.Getenv("LIVE_ENDPOINT")

	collectInterval, err := parseDuration("COLLECT_INTERVAL", "30m")
	if err != nil {
		return nil, err
	}
	cfg.CollectInterval = collectInterval

	freshness, err := parseDuration("DATA_FRESHNESS", "30m")
	if err != nil {
		return nil, err
	}
	cfg.DataFreshness = freshness

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 0)

	maxAge, err := parseDuration("STORE_MAX_AGE", "168h") // one week of chart history
	if err != nil {
		return nil, err
	}
	cfg.StoreMaxAge = maxAge

	httpTimeout, err := parseDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = httpTimeout

	cfg.Port = getenvDefault("PORT", "8080")

	if cities := os.Getenv("CITIES"); cities != "" {
		for _, name := range strings.Split(cities, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.Cities = append(cfg.Cities, name)
			}
		}
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
