package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"
)

// nominatimUserAgent identifies this service to the OSM Nominatim usage
// policy; requests without a descriptive agent are rejected.
const nominatimUserAgent = "weather-dashboard/1.0"

// NominatimReverseGeocoder resolves coordinates to a city name via the OSM
// Nominatim reverse geocoding API.
type NominatimReverseGeocoder struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNominatimReverseGeocoder(client *http.Client) *NominatimReverseGeocoder {
	return &NominatimReverseGeocoder{
		baseURL: "https://nominatim.openstreetmap.org/reverse",
		httpCfg: HTTPClientConfig{
			Client:    client,
			Backoff:   defaultBackoff(),
			UserAgent: nominatimUserAgent,
		},
		circuit: newBreaker("nominatim-reverse"),
	}
}

// ReverseGeocode resolves lat/lon to the most specific settlement name the
// address carries, from city down to county.
func (g *NominatimReverseGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("format", "json")

	var payload struct {
		Address struct {
			City         string `json:"city"`
			Town         string `json:"town"`
			Village      string `json:"village"`
			Municipality string `json:"municipality"`
			County       string `json:"county"`
		} `json:"address"`
	}

	u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
	if err := getJSON(ctx, g.httpCfg, g.circuit, u, &payload); err != nil {
		return "", fmt.Errorf("nominatim reverse geocoding: %w", err)
	}

	for _, name := range []string{
		payload.Address.City,
		payload.Address.Town,
		payload.Address.Village,
		payload.Address.Municipality,
		payload.Address.County,
	} {
		if name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("no settlement name at %.4f,%.4f", lat, lon)
}
