package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkBeginCycleClearsGridAndShowsLoading(t *testing.T) {
	sink := NewTemplateSink()
	sink.RenderTiles([]Tile{{City: "Lagos"}})
	require.Contains(t, string(sink.Fragment()), "Lagos")

	sink.BeginCycle()
	fragment := string(sink.Fragment())
	assert.Contains(t, fragment, "loading")
	assert.NotContains(t, fragment, "Lagos")
}

func TestSinkRenderTiles(t *testing.T) {
	sink := NewTemplateSink()
	tiles, err := BuildTiles([]LiveRecord{lagosRecord()})
	require.NoError(t, err)

	sink.BeginCycle()
	sink.RenderTiles(tiles)
	sink.FinishCycle(StateRendered, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	fragment := string(sink.Fragment())
	assert.Contains(t, fragment, "Lagos")
	assert.Contains(t, fragment, `class="badge aqi unhealthy"`)
	assert.Contains(t, fragment, "High Rain")
	assert.Contains(t, fragment, "30.0°C")
	assert.Contains(t, fragment, "12.0 mm")
	assert.Contains(t, fragment, "live")
	assert.NotContains(t, fragment, "loading")
	assert.Equal(t, "2026-03-01 12:00:00", sink.LastUpdated())
}

func TestSinkRenderTilesIsIdempotent(t *testing.T) {
	tiles, err := BuildTiles([]LiveRecord{lagosRecord()})
	require.NoError(t, err)

	sink := NewTemplateSink()
	sink.RenderTiles(tiles)
	first := sink.Fragment()
	sink.RenderTiles(tiles)
	assert.Equal(t, first, sink.Fragment())
}

func TestSinkRenderEmpty(t *testing.T) {
	sink := NewTemplateSink()
	sink.BeginCycle()
	sink.RenderEmpty()
	sink.FinishCycle(StateEmpty, time.Now())

	fragment := string(sink.Fragment())
	assert.Contains(t, fragment, "No monitored locations")
	assert.Contains(t, fragment, `data-dismissible="true"`)
	assert.NotContains(t, fragment, "tile-grid")
	assert.NotEmpty(t, sink.LastUpdated())
}

func TestSinkRenderError(t *testing.T) {
	sink := NewTemplateSink()
	sink.BeginCycle()
	sink.RenderError(errors.New("connection refused"))
	sink.FinishCycle(StateFailed, time.Now())

	fragment := string(sink.Fragment())
	assert.Contains(t, fragment, "Please retry")
	// The raw error never reaches the page.
	assert.NotContains(t, fragment, "connection refused")
	// Failed cycles do not stamp the last-updated time.
	assert.Empty(t, sink.LastUpdated())
}

func TestSinkStampsOnlyRenderedAndEmpty(t *testing.T) {
	sink := NewTemplateSink()

	sink.FinishCycle(StateFailed, time.Now())
	assert.Empty(t, sink.LastUpdated())

	stamp := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	sink.FinishCycle(StateEmpty, stamp)
	first := sink.LastUpdated()
	assert.Equal(t, "2026-03-01 08:00:00", first)

	// A later failure leaves the previous stamp in place.
	sink.FinishCycle(StateFailed, stamp.Add(time.Hour))
	assert.Equal(t, first, sink.LastUpdated())
}

func TestSinkTileMarkupEscapesCityNames(t *testing.T) {
	sink := NewTemplateSink()
	sink.RenderTiles([]Tile{{City: `<script>alert(1)</script>`}})
	fragment := string(sink.Fragment())
	assert.False(t, strings.Contains(fragment, "<script>alert"))
}
