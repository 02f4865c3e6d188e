package dashboard

import (
	"bytes"
	"html/template"
	"log"
	"sync"
	"time"
)

var tilesTmpl = template.Must(template.New("tiles").Parse(`<div class="tile-grid">
{{- range . }}
  <article class="tile">
    <header>
      <h3>{{ .City }}</h3>
      <span class="badge aqi {{ .AQISeverity.CSSClass }}">{{ .AQISeverity.Label }}</span>
    </header>
    <dl>
      <div><dt>Temperature</dt><dd>{{ printf "%.1f" .Temperature }}°C</dd></div>
      <div><dt>Humidity</dt><dd>{{ printf "%.0f" .Humidity }}%</dd></div>
      <div><dt>AQI</dt><dd>{{ .AQI }}</dd></div>
      <div><dt>Rain</dt><dd><span class="badge rain {{ .RainLevel.CSSClass }}">{{ .RainLevel.Label }}</span> {{ printf "%.0f" .RainProbability }}%</dd></div>
      <div><dt>Volume</dt><dd>{{ printf "%.1f" .RainMm }} mm</dd></div>
    </dl>
    <footer><span class="live-dot"></span> live</footer>
  </article>
{{- end }}
</div>`))

var emptyTmpl = template.Must(template.New("empty").Parse(`<div class="notice info" data-dismissible="true">
  No monitored locations yet. Add a city to start seeing live conditions.
  <button class="dismiss" aria-label="Dismiss">&times;</button>
</div>`))

var errorTmpl = template.Must(template.New("error").Parse(`<div class="notice error">
  Could not refresh live data. Please retry.
</div>`))

// TemplateSink renders the poller's output into HTML fragments and keeps the
// latest render available for the dashboard page. Safe for concurrent reads
// while the poller drives writes.
type TemplateSink struct {
	mu          sync.RWMutex
	loading     bool
	grid        template.HTML
	lastUpdated string
}

// NewTemplateSink creates an empty sink; the grid stays blank until the first
// cycle renders.
func NewTemplateSink() *TemplateSink {
	return &TemplateSink{}
}

// BeginCycle shows the loading indicator and clears the grid.
func (s *TemplateSink) BeginCycle() {
	s.mu.Lock()
	s.loading = true
	s.grid = ""
	s.mu.Unlock()
}

// RenderTiles replaces the grid with the tiles markup.
func (s *TemplateSink) RenderTiles(tiles []Tile) {
	s.setGrid(tilesTmpl, tiles)
}

// RenderEmpty replaces the grid with the add-locations notice.
func (s *TemplateSink) RenderEmpty() {
	s.setGrid(emptyTmpl, nil)
}

// RenderError replaces the grid with the retry notice. The error itself is
// logged by the poller; the notice stays generic.
func (s *TemplateSink) RenderError(err error) {
	s.setGrid(errorTmpl, nil)
}

// FinishCycle hides the loading indicator and stamps the last-updated time
// for Rendered and Empty outcomes.
func (s *TemplateSink) FinishCycle(state PollState, completedAt time.Time) {
	s.mu.Lock()
	s.loading = false
	if state == StateRendered || state == StateEmpty {
		s.lastUpdated = completedAt.Format("2006-01-02 15:04:05")
	}
	s.mu.Unlock()
}

// Fragment returns the current grid markup, prefixed with a loading indicator
// while a cycle is in flight.
func (s *TemplateSink) Fragment() template.HTML {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loading {
		return `<div class="loading">Refreshing…</div>` + s.grid
	}
	return s.grid
}

// LastUpdated returns the human-readable completion time of the most recent
// successful (Rendered or Empty) cycle, or "" before the first one.
func (s *TemplateSink) LastUpdated() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

func (s *TemplateSink) setGrid(tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("sink: render failed: %v", err)
		return
	}
	s.mu.Lock()
	s.grid = template.HTML(buf.String())
	s.mu.Unlock()
}
