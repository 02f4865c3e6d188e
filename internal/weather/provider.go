package weather

import (
	"context"
	"time"
)

// Sampler abstracts an upstream environmental data source (e.g. Open-Meteo).
type Sampler interface {
	Name() string
	Sample(ctx context.Context, city City) (Reading, error)
}

// Geocoder resolves a city name to coordinates and, in reverse, coordinates
// to a city name.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (lat, lon float64, err error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (name string, err error)
}

// Store is the contract the in-memory store (and any future persistent store)
// must satisfy.
type Store interface {
	RegisterCity(city City)
	RemoveCity(name string) bool
	Cities() []City
	SaveReading(reading Reading)
	Latest(city string) (Reading, error)
	Range(city string, from, to time.Time) ([]Reading, error)
	RangeAll(from, to time.Time) ([]Reading, error)
}
