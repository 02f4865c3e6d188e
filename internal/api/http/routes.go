package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-dashboard/internal/dashboard"
	"weather-dashboard/internal/store"
	"weather-dashboard/internal/weather"
)

var validate = validator.New()

// Options carries the page/endpoint settings supplied by configuration.
type Options struct {
	DefaultMetric  weather.Metric
	DataFreshness  time.Duration
	RefreshSeconds int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, sink *dashboard.TemplateSink, opts Options) {
	registerPages(app, sink, opts)

	v1 := app.Group("/api")

	v1.Get("/live", func(c *fiber.Ctx) error {
		readings := service.LiveAll(c.Context(), opts.DataFreshness)

		records := make([]liveRecord, 0, len(readings))
		for _, r := range readings {
			records = append(records, liveRecordFrom(r))
		}
		return c.JSON(records)
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c, opts.DefaultMetric); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		readings, err := service.History(req.City, req.From, req.To)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch history")
		}

		rows := dashboard.RowsFromReadings(readings, req.Metric)
		return c.JSON(fiber.Map{
			"metric":  req.Metric,
			"label":   dashboard.MetricLabel(req.Metric),
			"chart":   dashboard.BuildChartModel(rows),
			"summary": dashboard.Summarize(rows),
		})
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(service.Cities())
	})

	v1.Post("/cities", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city, err := service.AddCity(c.Context(), req.Name, req.Lat, req.Lon)
		if err != nil {
			if errors.Is(err, weather.ErrNoCoordinates) || errors.Is(err, weather.ErrNoCityName) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to add city")
		}
		return c.Status(fiber.StatusCreated).JSON(city)
	})

	v1.Delete("/cities/:name", func(c *fiber.Ctx) error {
		if !service.RemoveCity(c.Params("name")) {
			return fiber.NewError(fiber.StatusNotFound, "city is not registered")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// liveRecord is the wire shape of one /api/live element, matching what the
// tile poller expects.
type liveRecord struct {
	City     string  `json:"city"`
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	AQI      int     `json:"aqi"`
	Rain     float64 `json:"rain"`
	Mm       float64 `json:"mm"`
}

func liveRecordFrom(r weather.Reading) liveRecord {
	return liveRecord{
		City:     r.City,
		Temp:     r.Temperature,
		Humidity: r.Humidity,
		AQI:      r.AQI,
		Rain:     r.RainProbability,
		Mm:       r.RainMm,
	}
}

// cityRequest is the body of POST /api/cities. Lat/Lon may be omitted, in
// which case the name is geocoded; a name-less body with coordinates is
// reverse geocoded instead.
type cityRequest struct {
	Name string  `json:"name" validate:"required_without_all=Lat Lon"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// historyQuery holds the resolved query parameters for the history endpoint.
type historyQuery struct {
	City   string
	Metric weather.Metric
	From   time.Time `validate:"required"`
	To     time.Time `validate:"required,gtefield=From"`
}

// bind resolves the raw query parameters. An explicit start/end pair takes
// precedence over hours; otherwise hours (default 24) sets a relative
// lookback window. Unrecognized metrics fall back to the default.
func (h *historyQuery) bind(c *fiber.Ctx, defaultMetric weather.Metric) error {
	h.City = c.Query("city")
	if h.City == "ALL" {
		h.City = ""
	}

	h.Metric = weather.Metric(c.Query("metric", string(defaultMetric)))
	if !h.Metric.Valid() {
		h.Metric = defaultMetric
	}

	startStr := c.Query("start")
	endStr := c.Query("end")

	if startStr != "" && endStr != "" {
		start, err := parseTime(startStr)
		if err != nil {
			return err
		}
		end, err := parseTime(endStr)
		if err != nil {
			return err
		}
		h.From = start
		h.To = end
		return nil
	}

	hours := 24
	if hoursStr := c.Query("hours"); hoursStr != "" {
		n, err := strconv.Atoi(hoursStr)
		if err != nil || n <= 0 {
			return errors.New("hours must be a positive integer")
		}
		hours = n
	}

	h.To = time.Now().UTC()
	h.From = h.To.Add(-time.Duration(hours) * time.Hour)
	return nil
}

// parseTime tries RFC3339, a plain date, or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339, YYYY-MM-DD or unix seconds")
}
