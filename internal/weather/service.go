package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var (
	// ErrNoCoordinates is returned when a city name cannot be geocoded.
	ErrNoCoordinates = errors.New("no coordinates found for city")
	// ErrNoCityName is returned when coordinates cannot be reverse geocoded.
	ErrNoCityName = errors.New("no city name found for coordinates")
)

// Service orchestrates sampling from the upstream source and persisting
// readings for the monitored cities.
type Service struct {
	store    Store
	sampler  Sampler
	geocoder Geocoder
}

// NewService creates a new Service.
func NewService(store Store, sampler Sampler, geocoder Geocoder) *Service {
	return &Service{
		store:    store,
		sampler:  sampler,
		geocoder: geocoder,
	}
}

// AddCity registers a city for monitoring. When lat/lon are zero the name is
// geocoded first; when the name is empty the coordinates are reverse geocoded
// instead. Registration fails when neither side can be resolved.
func (s *Service) AddCity(ctx context.Context, name string, lat, lon float64) (City, error) {
	switch {
	case name == "" && lat == 0 && lon == 0:
		return City{}, fmt.Errorf("%w: neither name nor coordinates given", ErrNoCityName)
	case name == "":
		var err error
		name, err = s.geocoder.ReverseGeocode(ctx, lat, lon)
		if err != nil {
			return City{}, fmt.Errorf("%w: %.4f,%.4f: %v", ErrNoCityName, lat, lon, err)
		}
	case lat == 0 && lon == 0:
		var err error
		lat, lon, err = s.geocoder.Geocode(ctx, name)
		if err != nil {
			return City{}, fmt.Errorf("%w: %s: %v", ErrNoCoordinates, name, err)
		}
	}

	city := City{Name: name, Lat: lat, Lon: lon}
	s.store.RegisterCity(city)
	return city, nil
}

// RemoveCity unregisters a city. Returns false if it was not registered.
func (s *Service) RemoveCity(name string) bool {
	return s.store.RemoveCity(name)
}

// Cities returns the registered cities in registration order.
func (s *Service) Cities() []City {
	return s.store.Cities()
}

// CollectAll samples every registered city concurrently and stores the
// resulting readings. Per-city failures are logged and skipped; partial
// success is expected and fine.
func (s *Service) CollectAll(ctx context.Context) {
	cities := s.store.Cities()
	if len(cities) == 0 {
		log.Println("weather: no cities registered; nothing to collect")
		return
	}

	var wg sync.WaitGroup
	for _, city := range cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			reading, err := s.sampler.Sample(ctx, city)
			if err != nil {
				log.Printf("weather: sample failed for %s: %v", city.Key(), err)
				return
			}
			s.store.SaveReading(reading)
		}()
	}
	wg.Wait()
}

// LiveAll returns the freshest reading for every registered city, in
// registration order. A stored reading younger than freshness is served as-is;
// otherwise the city is re-sampled on demand and the new reading stored.
// Cities that cannot be served at all are skipped with a log line, matching
// the collector's partial-success policy.
func (s *Service) LiveAll(ctx context.Context, freshness time.Duration) []Reading {
	cities := s.store.Cities()
	readings := make([]Reading, 0, len(cities))
	now := time.Now().UTC()

	for _, city := range cities {
		cached, err := s.store.Latest(city.Key())
		if err == nil && freshness > 0 && now.Sub(cached.Timestamp) <= freshness {
			readings = append(readings, cached)
			continue
		}

		fresh, sampleErr := s.sampler.Sample(ctx, city)
		if sampleErr != nil {
			log.Printf("weather: live sample failed for %s: %v", city.Key(), sampleErr)
			// Fall back to the stale reading rather than dropping the city.
			if err == nil {
				readings = append(readings, cached)
			}
			continue
		}

		s.store.SaveReading(fresh)
		readings = append(readings, fresh)
	}

	return readings
}

// History returns the stored readings for city (or all cities when city is
// empty) between from and to inclusive, ordered by time.
func (s *Service) History(city string, from, to time.Time) ([]Reading, error) {
	if city == "" {
		return s.store.RangeAll(from, to)
	}
	return s.store.Range(city, from, to)
}
