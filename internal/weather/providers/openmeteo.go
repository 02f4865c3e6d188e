package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"weather-dashboard/internal/weather"
)

// OpenMeteoSampler implements the weather.Sampler interface against the
// Open-Meteo forecast and air-quality APIs. Open-Meteo needs no API key.
type OpenMeteoSampler struct {
	name        string
	forecastURL string
	airURL      string
	httpCfg     HTTPClientConfig

	forecastCB *gobreaker.CircuitBreaker
	airCB      *gobreaker.CircuitBreaker
}

func NewOpenMeteoSampler(client *http.Client) *OpenMeteoSampler {
	return &OpenMeteoSampler{
		name:        "openmeteo",
		forecastURL: "https://api.open-meteo.com/v1/forecast",
		airURL:      "https://air-quality-api.open-meteo.com/v1/air-quality",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		forecastCB: newBreaker("openmeteo-forecast"),
		airCB:      newBreaker("openmeteo-air-quality"),
	}
}

func (p *OpenMeteoSampler) Name() string {
	return p.name
}

// Sample fetches current temperature plus hourly humidity and precipitation
// from the forecast endpoint, and the US AQI from the air-quality endpoint,
// combining them into one Reading.
func (p *OpenMeteoSampler) Sample(ctx context.Context, city weather.City) (weather.Reading, error) {
	if city.Lat == 0 && city.Lon == 0 {
		return weather.Reading{}, fmt.Errorf("openmeteo requires latitude and longitude for %s", city.Key())
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", city.Lat))
	values.Set("longitude", fmt.Sprintf("%f", city.Lon))
	values.Set("current_weather", "true")
	values.Set("hourly", "relativehumidity_2m,precipitation_probability,precipitation")

	var forecast struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
		Hourly struct {
			Humidity []float64 `json:"relativehumidity_2m"`
			RainProb []float64 `json:"precipitation_probability"`
			PrecipMm []float64 `json:"precipitation"`
		} `json:"hourly"`
	}

	u := fmt.Sprintf("%s?%s", p.forecastURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.forecastCB, u, &forecast); err != nil {
		return weather.Reading{}, fmt.Errorf("openmeteo forecast: %w", err)
	}

	airValues := url.Values{}
	airValues.Set("latitude", fmt.Sprintf("%f", city.Lat))
	airValues.Set("longitude", fmt.Sprintf("%f", city.Lon))
	airValues.Set("current", "us_aqi")

	var air struct {
		Current struct {
			USAQI float64 `json:"us_aqi"`
		} `json:"current"`
	}

	u = fmt.Sprintf("%s?%s", p.airURL, airValues.Encode())
	if err := getJSON(ctx, p.httpCfg, p.airCB, u, &air); err != nil {
		return weather.Reading{}, fmt.Errorf("openmeteo air quality: %w", err)
	}

	ts, err := time.Parse("2006-01-02T15:04", forecast.CurrentWeather.Time)
	if err != nil {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	reading := weather.Reading{
		City:        city.Name,
		Timestamp:   ts,
		Temperature: forecast.CurrentWeather.Temperature,
		AQI:         int(air.Current.USAQI),
	}

	// The hourly arrays start at the current hour; index 0 is the freshest.
	if len(forecast.Hourly.Humidity) > 0 {
		reading.Humidity = forecast.Hourly.Humidity[0]
	}
	if len(forecast.Hourly.RainProb) > 0 {
		reading.RainProbability = forecast.Hourly.RainProb[0]
	}
	if len(forecast.Hourly.PrecipMm) > 0 {
		reading.RainMm = forecast.Hourly.PrecipMm[0]
	}

	return reading, nil
}
