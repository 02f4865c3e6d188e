package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given city.
	ErrNotFound = errors.New("no readings for city")
)

// readingHistory holds a time-ordered list of readings for one city.
type readingHistory struct {
	Readings []weather.Reading
}

// MemoryStore is a concurrency-safe in-memory implementation of the weather
// store. It keeps a registry of monitored cities in registration order and a
// bounded reading history per city.
type MemoryStore struct {
	mu sync.RWMutex

	// order holds city names in registration order; cities maps name -> City.
	order  []string
	cities map[string]weather.City

	// key: city name, value: history
	data map[string]*readingHistory

	// retention configuration
	maxHistory int           // max number of readings per city
	maxAge     time.Duration // optional max age for readings
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		cities:     make(map[string]weather.City),
		data:       make(map[string]*readingHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// RegisterCity adds a city to the registry, or updates its coordinates if it
// is already registered. Registration order is preserved across updates.
func (s *MemoryStore) RegisterCity(city weather.City) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cities[city.Name]; !ok {
		s.order = append(s.order, city.Name)
	}
	s.cities[city.Name] = city
}

// RemoveCity unregisters a city and drops its history. Returns false if the
// city was not registered.
func (s *MemoryStore) RemoveCity(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cities[name]; !ok {
		return false
	}
	delete(s.cities, name)
	delete(s.data, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Cities returns the registered cities in registration order.
func (s *MemoryStore) Cities() []weather.City {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.City, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.cities[name])
	}
	return out
}

// SaveReading appends a reading for its city and enforces retention.
func (s *MemoryStore) SaveReading(reading weather.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[reading.City]
	if !ok {
		history = &readingHistory{}
		s.data[reading.City] = history
	}

	history.Readings = append(history.Readings, reading)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Readings) > s.maxHistory {
		over := len(history.Readings) - s.maxHistory
		history.Readings = history.Readings[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Readings); i++ {
			if !history.Readings[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history.Readings = history.Readings[i:]
		}
	}
}

// Latest returns the most recent reading for a city.
func (s *MemoryStore) Latest(city string) (weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok || len(history.Readings) == 0 {
		return weather.Reading{}, ErrNotFound
	}
	return history.Readings[len(history.Readings)-1], nil
}

// Range returns all readings for a city between from and to (inclusive).
func (s *MemoryStore) Range(city string, from, to time.Time) ([]weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok || len(history.Readings) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Reading
	for _, r := range history.Readings {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}

// RangeAll returns readings for every registered city between from and to,
// merged and ordered by timestamp.
func (s *MemoryStore) RangeAll(from, to time.Time) ([]weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Reading
	for _, name := range s.order {
		history, ok := s.data[name]
		if !ok {
			continue
		}
		for _, r := range history.Readings {
			if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
				result = append(result, r)
			}
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result, nil
}
