package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
)

// Geocoder bundles the forward (Open-Meteo) and reverse (Nominatim) clients
// behind a single seam.
type Geocoder struct {
	*OpenMeteoGeocoder
	*NominatimReverseGeocoder
}

func NewGeocoder(client *http.Client) *Geocoder {
	return &Geocoder{
		OpenMeteoGeocoder:        NewOpenMeteoGeocoder(client),
		NominatimReverseGeocoder: NewNominatimReverseGeocoder(client),
	}
}

// OpenMeteoGeocoder resolves a city name to coordinates against the
// Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(client *http.Client) *OpenMeteoGeocoder {
	return &OpenMeteoGeocoder{
		baseURL: "https://geocoding-api.open-meteo.com/v1/search",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("openmeteo-geocoding"),
	}
}

// Geocode resolves a city name to the coordinates of its best match.
func (g *OpenMeteoGeocoder) Geocode(ctx context.Context, name string) (float64, float64, error) {
	values := url.Values{}
	values.Set("name", name)
	values.Set("count", "1")

	var payload struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}

	u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
	if err := getJSON(ctx, g.httpCfg, g.circuit, u, &payload); err != nil {
		return 0, 0, fmt.Errorf("openmeteo geocoding: %w", err)
	}

	if len(payload.Results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding match for %q", name)
	}

	return payload.Results[0].Latitude, payload.Results[0].Longitude, nil
}
