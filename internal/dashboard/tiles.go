package dashboard

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LiveRecord is the wire shape of one element of the live endpoint response.
// Fields are pointers so that a record missing an expected field fails
// validation instead of silently rendering zeros.
type LiveRecord struct {
	City     *string  `json:"city" validate:"required"`
	Temp     *float64 `json:"temp" validate:"required"`
	Humidity *float64 `json:"humidity" validate:"required"`
	AQI      *float64 `json:"aqi" validate:"required"`
	Rain     *float64 `json:"rain" validate:"required"`
	Mm       *float64 `json:"mm" validate:"required"`
}

// Tile is the fully classified view model for one location's summary tile.
type Tile struct {
	City            string
	Temperature     float64
	Humidity        float64
	AQI             int
	AQISeverity     AQISeverity
	RainProbability float64
	RainLevel       RainLevel
	RainMm          float64
}

// BuildTiles validates the live records and derives one classified tile per
// record, preserving response order. A record with a missing field is a shape
// mismatch and fails the whole batch.
func BuildTiles(records []LiveRecord) ([]Tile, error) {
	tiles := make([]Tile, 0, len(records))
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("live record %d has unexpected shape: %w", i, err)
		}
		tiles = append(tiles, Tile{
			City:            *rec.City,
			Temperature:     *rec.Temp,
			Humidity:        *rec.Humidity,
			AQI:             int(*rec.AQI),
			AQISeverity:     ClassifyAQI(int(*rec.AQI)),
			RainProbability: *rec.Rain,
			RainLevel:       ClassifyRain(*rec.Rain),
			RainMm:          *rec.Mm,
		})
	}
	return tiles, nil
}
