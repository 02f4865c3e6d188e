package weather

import (
	"time"
)

// Metric identifies one of the recorded environmental measurements.
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricAQI         Metric = "aqi"
	MetricRainProb    Metric = "rain_probability"
	MetricRainMm      Metric = "rain_mm"
)

// KnownMetrics lists every metric the history endpoints accept.
var KnownMetrics = []Metric{
	MetricTemperature,
	MetricHumidity,
	MetricAQI,
	MetricRainProb,
	MetricRainMm,
}

// Valid reports whether m is one of the recorded metrics.
func (m Metric) Valid() bool {
	for _, k := range KnownMetrics {
		if m == k {
			return true
		}
	}
	return false
}

// City represents a monitored location. Lat/Lon are resolved once when the
// city is registered, via geocoding if the caller did not supply them.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Key returns a canonical string key for indexing this city in stores.
func (c City) Key() string {
	return c.Name
}

// Reading is one sampled set of environmental metrics for a city at a point
// in time. Timestamps are always UTC.
type Reading struct {
	City            string    `json:"city"`
	Timestamp       time.Time `json:"timestamp"`
	Temperature     float64   `json:"temperature"`
	Humidity        float64   `json:"humidity"`
	AQI             int       `json:"aqi"`
	RainProbability float64   `json:"rain_probability"`
	RainMm          float64   `json:"rain_mm"`
}

// MetricValue returns the field of r selected by metric. Unknown metrics fall
// back to temperature, mirroring the history endpoint's whitelist behaviour.
func (r Reading) MetricValue(metric Metric) float64 {
	switch metric {
	case MetricHumidity:
		return r.Humidity
	case MetricAQI:
		return float64(r.AQI)
	case MetricRainProb:
		return r.RainProbability
	case MetricRainMm:
		return r.RainMm
	default:
		return r.Temperature
	}
}
