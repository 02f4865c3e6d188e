package dashboard

import (
	"encoding/json"
	"sort"

	"weather-dashboard/internal/weather"
)

// MetricRow is one time-stamped sample of the selected metric for a location.
// Rows are assumed pre-sorted by time within each location.
type MetricRow struct {
	Location string
	Time     string
	Value    float64
}

// Series is the chart-ready value sequence for one location. Values preserve
// the input row order, which defines the time axis.
type Series struct {
	Location string
	Label    string
	Color    Color
	Values   []float64
}

// ChartModel is the structure handed to the charting sink: shared time-axis
// labels plus one series per distinct location.
//
// Labels are taken from the first location encountered in the input. This is
// only correct when all locations share an identical, aligned sampling
// schedule; misaligned histories render misaligned and are a data problem to
// surface upstream, not something this builder repairs.
type ChartModel struct {
	Labels []string
	Series []Series
}

// chartDataset is the wire shape of one dataset in the rendered chart JSON.
type chartDataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor"`
}

// MarshalJSON renders the model as the {labels, datasets} structure the chart
// component consumes.
func (m ChartModel) MarshalJSON() ([]byte, error) {
	labels := m.Labels
	if labels == nil {
		labels = []string{}
	}
	datasets := make([]chartDataset, 0, len(m.Series))
	for _, s := range m.Series {
		datasets = append(datasets, chartDataset{
			Label:       s.Label,
			Data:        s.Values,
			BorderColor: s.Color.String(),
		})
	}
	return json.Marshal(struct {
		Labels   []string       `json:"labels"`
		Datasets []chartDataset `json:"datasets"`
	}{
		Labels:   labels,
		Datasets: datasets,
	})
}

// locationGroups is an ordered grouping of rows keyed by location. Keys keep
// first-seen order; key uniqueness is enforced by the structure rather than
// by caller convention.
type locationGroups struct {
	order []string
	rows  map[string][]MetricRow
}

func newLocationGroups() *locationGroups {
	return &locationGroups{rows: make(map[string][]MetricRow)}
}

func (g *locationGroups) add(row MetricRow) {
	if _, ok := g.rows[row.Location]; !ok {
		g.order = append(g.order, row.Location)
	}
	g.rows[row.Location] = append(g.rows[row.Location], row)
}

// BuildChartModel groups rows by location and builds one colored series per
// distinct location. Empty input yields an empty model, never an error; the
// rendering sink is expected to handle the zero-series case.
func BuildChartModel(rows []MetricRow) ChartModel {
	groups := newLocationGroups()
	for _, row := range rows {
		groups.add(row)
	}

	model := ChartModel{}
	for i, loc := range groups.order {
		locRows := groups.rows[loc]

		if i == 0 {
			model.Labels = make([]string, 0, len(locRows))
			for _, row := range locRows {
				model.Labels = append(model.Labels, row.Time)
			}
		}

		values := make([]float64, 0, len(locRows))
		for _, row := range locRows {
			values = append(values, row.Value)
		}

		model.Series = append(model.Series, Series{
			Location: loc,
			Label:    loc,
			Color:    ColorFor(loc),
			Values:   values,
		})
	}

	return model
}

// SummaryRow is the low/high of the selected metric for one location.
type SummaryRow struct {
	City string  `json:"city"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Summarize computes per-location min/max over the rows, ordered by location
// name.
func Summarize(rows []MetricRow) []SummaryRow {
	groups := newLocationGroups()
	for _, row := range rows {
		groups.add(row)
	}

	summaries := make([]SummaryRow, 0, len(groups.order))
	for _, loc := range groups.order {
		locRows := groups.rows[loc]
		s := SummaryRow{City: loc, Low: locRows[0].Value, High: locRows[0].Value}
		for _, row := range locRows[1:] {
			if row.Value < s.Low {
				s.Low = row.Value
			}
			if row.Value > s.High {
				s.High = row.Value
			}
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].City < summaries[j].City
	})

	return summaries
}

// metricLabels maps metric identifiers to human-readable axis titles.
var metricLabels = map[weather.Metric]string{
	weather.MetricTemperature: "Temperature (°C)",
	weather.MetricHumidity:    "Humidity (%)",
	weather.MetricAQI:         "Air Quality Index (US AQI)",
	weather.MetricRainProb:    "Rain Probability (%)",
	weather.MetricRainMm:      "Rainfall (mm)",
}

// MetricLabel returns the axis title for a metric, falling back to the raw
// identifier for anything unrecognized.
func MetricLabel(metric weather.Metric) string {
	if label, ok := metricLabels[metric]; ok {
		return label
	}
	return string(metric)
}

// timeLabelLayout formats reading timestamps for the shared time axis.
const timeLabelLayout = "2006-01-02 15:04"

// RowsFromReadings projects stored readings onto metric rows for the chart
// builder, preserving input order.
func RowsFromReadings(readings []weather.Reading, metric weather.Metric) []MetricRow {
	rows := make([]MetricRow, 0, len(readings))
	for _, r := range readings {
		rows = append(rows, MetricRow{
			Location: r.City,
			Time:     r.Timestamp.Format(timeLabelLayout),
			Value:    r.MetricValue(metric),
		})
	}
	return rows
}
