package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAQIBoundaries(t *testing.T) {
	cases := []struct {
		aqi  int
		want AQISeverity
	}{
		{-10, AQIGood},
		{0, AQIGood},
		{50, AQIGood},
		{51, AQIModerate},
		{100, AQIModerate},
		{101, AQIUnhealthySensitive},
		{150, AQIUnhealthySensitive},
		{151, AQIUnhealthy},
		{160, AQIUnhealthy},
		{200, AQIUnhealthy},
		{201, AQIHazardous},
		{999, AQIHazardous},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyAQI(tc.aqi), "aqi=%d", tc.aqi)
	}
}

func TestClassifyAQIPartitionsOrdered(t *testing.T) {
	// Severity never decreases as AQI increases: the five classes are
	// contiguous, non-overlapping and ordered.
	prev := ClassifyAQI(-500)
	for aqi := -499; aqi <= 500; aqi++ {
		cur := ClassifyAQI(aqi)
		assert.GreaterOrEqual(t, int(cur), int(prev), "severity regressed at aqi=%d", aqi)
		prev = cur
	}
	assert.Equal(t, AQIGood, ClassifyAQI(-500))
	assert.Equal(t, AQIHazardous, ClassifyAQI(500))
}

func TestAQISeverityPresentation(t *testing.T) {
	assert.Equal(t, "unhealthy", ClassifyAQI(160).CSSClass())
	assert.Equal(t, "Unhealthy", ClassifyAQI(160).Label())
	assert.Equal(t, "good", AQIGood.CSSClass())
	assert.Equal(t, "hazardous", AQIHazardous.CSSClass())
	assert.Equal(t, "Unhealthy (Sensitive)", AQIUnhealthySensitive.Label())
}

func TestClassifyRainBoundaries(t *testing.T) {
	cases := []struct {
		prob float64
		want RainLevel
	}{
		{0, RainLow},
		{39.9, RainLow},
		{40, RainMedium},
		{69.9, RainMedium},
		{70, RainHigh},
		{75, RainHigh},
		{100, RainHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyRain(tc.prob), "prob=%v", tc.prob)
	}
}

func TestRainLevelPresentation(t *testing.T) {
	assert.Equal(t, "High Rain", RainHigh.Label())
	assert.Equal(t, "Medium Rain", RainMedium.Label())
	assert.Equal(t, "Low Rain", RainLow.Label())
	assert.Equal(t, "high", RainHigh.CSSClass())
	assert.Equal(t, "medium", RainMedium.CSSClass())
	assert.Equal(t, "low", RainLow.CSSClass())
}
